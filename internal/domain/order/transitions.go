package order

// allowedTransitions is the directed graph of legal status changes.
// cancelled is terminal; no_show may be rescheduled; completed keeps a
// retroactive cancellation path for refunds.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusScheduled:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusCancelled},
	StatusCancelled:  {},
	StatusNoShow:     {StatusScheduled},
}

// Allowed returns the statuses reachable from the given one.
func Allowed(from OrderStatus) []OrderStatus {
	return allowedTransitions[from]
}

// CanTransition reports whether from may move to to. Only edges in the
// transition graph are legal; a status never transitions to itself.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
