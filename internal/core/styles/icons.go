package styles

// Markers prefixed to list entries when color is unavailable.
var (
	IconRisk       = "!"
	IconLegal      = "§"
	IconSuggestion = "~"
	IconEdit       = "+"
	IconAccepted   = "✓"
	IconRejected   = "✗"
	IconUndecided  = "·"
)
