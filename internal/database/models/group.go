package models

import "time"

// GroupLanguages is a group's language selection, keyed by group ID.
type GroupLanguages struct {
	GroupID string   `bson:"_id"`
	Langs   []string `bson:"langs"`
}

// GroupInviter records the operator allowed to change a group's selection.
type GroupInviter struct {
	GroupID string `bson:"_id"`
	UserID  string `bson:"userId"`
}

// GroupAction is an audit entry for something that happened in a group.
type GroupAction struct {
	GroupID string      `bson:"group_id"`
	UserID  string      `bson:"user_id,omitempty"`
	Action  string      `bson:"action"` // e.g., "join", "toggle", "broadcast"
	Details interface{} `bson:"details,omitempty"`
	Time    time.Time   `bson:"time"`
}
