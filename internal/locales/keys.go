package locales

// Message IDs of the user-facing texts.
const (
	MsgMenuTitle              = "MsgMenuTitle"
	MsgMenuCancelAll          = "MsgMenuCancelAll"
	MsgPermissionDenied       = "MsgPermissionDenied"
	MsgSelectionSummary       = "MsgSelectionSummary" // {{.Languages}}
	MsgSelectionEmpty         = "MsgSelectionEmpty"
	MsgBroadcastUsage         = "MsgBroadcastUsage"     // {{.Command}}
	MsgBroadcastNoResults     = "MsgBroadcastNoResults" // {{.Date}}
	MsgBroadcastRateLimited   = "MsgBroadcastRateLimited"
	MsgTranslationUnavailable = "MsgTranslationUnavailable"
)
