package constants

// Analytics event routing.
const (
	SearchEventsExchange   = "search.events"
	SearchPerformedRouting = "search.performed"
)
