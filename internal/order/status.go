// Package order implements the drive-thru order lifecycle: the status state
// machine, the append-only order store with its sequence allocator, and the
// service that applies validated transitions while emitting audit events.
package order

// Status is an order lifecycle stage. The persisted wire label is the
// constant's String() value, written verbatim in the order store.
type Status int8

const (
	// StatusUnknown is the zero value; it is never persisted.
	StatusUnknown Status = iota
	// StatusInitiated is the stage of a freshly created order.
	StatusInitiated
	// StatusPrepared marks an order assembled by the kitchen.
	StatusPrepared
	// StatusDelivered marks an order handed to the customer. Terminal.
	StatusDelivered
	// StatusCancelled marks an abandoned order. Terminal.
	StatusCancelled
)

var statusLabels = map[Status]string{
	StatusInitiated: "Initiated",
	StatusPrepared:  "Prepared",
	StatusDelivered: "Delivered",
	StatusCancelled: "Cancelled",
}

// String returns the wire label of the status, or "Unknown" for the zero
// value.
func (s Status) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// ParseStatus maps a wire label back to its Status. Unrecognized labels map
// to StatusUnknown.
func ParseStatus(label string) Status {
	switch label {
	case "Initiated":
		return StatusInitiated
	case "Prepared":
		return StatusPrepared
	case "Delivered":
		return StatusDelivered
	case "Cancelled":
		return StatusCancelled
	}
	return StatusUnknown
}

// Terminal reports whether no further transitions are accepted from the
// status.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// transitions is the fixed edge set of the lifecycle state machine:
//
//	Initiated → Prepared → Delivered
//	Initiated → Cancelled
//	Prepared  → Cancelled
//
// Any pair outside this set is invalid and must never be persisted.
var transitions = map[Status][]Status{
	StatusInitiated: {StatusPrepared, StatusCancelled},
	StatusPrepared:  {StatusDelivered, StatusCancelled},
}

// CanTransition reports whether (from, to) is an edge of the state machine.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable in one transition from the
// given status. Terminal statuses return nil.
func NextStatuses(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Statuses returns all persistable statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusInitiated, StatusPrepared, StatusDelivered, StatusCancelled}
}
