// Package database persists group sessions and the audit log in MongoDB.
package database

const (
	groupLanguagesCollection = "groupLanguages"
	groupInvitersCollection  = "groupInviters"
	groupActionsCollection   = "group_actions"
)
