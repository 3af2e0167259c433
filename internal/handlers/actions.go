package handlers

// Action types for the group audit log
const (
	ActionJoin             = "join"
	ActionOperatorAssigned = "operator_assigned"
	ActionCommandConfigure = "command_configure"
	ActionToggleLanguage   = "toggle_language"
	ActionCommandBroadcast = "command_broadcast"
)
