package database

import "context"

// ActionLogger defines the interface for the group audit log.
type ActionLogger interface {
	// LogGroupAction records an action performed in a group.
	LogGroupAction(ctx context.Context, groupID, userID, action string, details interface{}) error
}
