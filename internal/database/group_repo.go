package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"langcast-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGroupRepository stores group selections and operators in MongoDB.
type MongoGroupRepository struct {
	languages *mongo.Collection
	inviters  *mongo.Collection
}

// NewMongoGroupRepository creates a new MongoDB group repository.
func NewMongoGroupRepository(db *mongo.Database) *MongoGroupRepository {
	return &MongoGroupRepository{
		languages: db.Collection(groupLanguagesCollection),
		inviters:  db.Collection(groupInvitersCollection),
	}
}

// LoadAll reads every stored selection and operator.
func (r *MongoGroupRepository) LoadAll(ctx context.Context) (map[string][]string, map[string]string, error) {
	cursor, err := r.languages.Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find group languages: %w", err)
	}
	var langDocs []models.GroupLanguages
	if err := cursor.All(ctx, &langDocs); err != nil {
		return nil, nil, fmt.Errorf("failed to decode group languages: %w", err)
	}

	cursor, err = r.inviters.Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find group inviters: %w", err)
	}
	var inviterDocs []models.GroupInviter
	if err := cursor.All(ctx, &inviterDocs); err != nil {
		return nil, nil, fmt.Errorf("failed to decode group inviters: %w", err)
	}

	selections := make(map[string][]string, len(langDocs))
	for _, doc := range langDocs {
		if len(doc.Langs) > 0 {
			selections[doc.GroupID] = doc.Langs
		}
	}
	operators := make(map[string]string, len(inviterDocs))
	for _, doc := range inviterDocs {
		if doc.UserID != "" {
			operators[doc.GroupID] = doc.UserID
		}
	}
	return selections, operators, nil
}

// SaveLanguages rewrites the stored selections to match selections exactly.
// Groups missing from selections are deleted.
func (r *MongoGroupRepository) SaveLanguages(ctx context.Context, selections map[string][]string) error {
	groupIDs := make([]string, 0, len(selections))
	for groupID := range selections {
		groupIDs = append(groupIDs, groupID)
	}
	sort.Strings(groupIDs)

	if len(groupIDs) > 0 {
		writes := make([]mongo.WriteModel, 0, len(groupIDs))
		for _, groupID := range groupIDs {
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": groupID}).
				SetReplacement(models.GroupLanguages{GroupID: groupID, Langs: selections[groupID]}).
				SetUpsert(true))
		}
		if _, err := r.languages.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
			return fmt.Errorf("failed to save languages for %d groups: %w", len(groupIDs), err)
		}
	}

	if _, err := r.languages.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": groupIDs}}); err != nil {
		return fmt.Errorf("failed to prune empty group languages: %w", err)
	}
	return nil
}

// SaveOperator records userID as operator of groupID unless one is already stored,
// and returns the operator that is stored afterwards.
func (r *MongoGroupRepository) SaveOperator(ctx context.Context, groupID, userID string) (string, error) {
	filter := bson.M{"_id": groupID}
	update := bson.M{"$setOnInsert": bson.M{"userId": userID}}

	if _, err := r.inviters.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return "", fmt.Errorf("failed to save operator for group %s: %w", groupID, err)
	}

	var stored models.GroupInviter
	if err := r.inviters.FindOne(ctx, filter).Decode(&stored); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", fmt.Errorf("operator for group %s missing after upsert: %w", groupID, err)
		}
		return "", fmt.Errorf("failed to read operator for group %s: %w", groupID, err)
	}
	return stored.UserID, nil
}
