package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"langcast-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoActionLogger writes the group audit log to MongoDB.
type MongoActionLogger struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoActionLogger creates and returns a new MongoActionLogger instance.
func NewMongoActionLogger(db *mongo.Database) *MongoActionLogger {
	return &MongoActionLogger{collection: db.Collection(groupActionsCollection), now: time.Now}
}

// LogGroupAction writes an audit entry with a short timeout of its own.
func (m *MongoActionLogger) LogGroupAction(ctx context.Context, groupID, userID, action string, details interface{}) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	entry := models.GroupAction{
		GroupID: groupID,
		UserID:  userID,
		Action:  action,
		Details: details,
		Time:    m.now(),
	}
	if _, err := m.collection.InsertOne(ctx, entry); err != nil {
		wrappedErr := fmt.Errorf("failed to insert group action %s for group %s into collection '%s': %w", action, groupID, groupActionsCollection, err)
		log.Printf("%v", wrappedErr)
		return wrappedErr
	}
	return nil
}
