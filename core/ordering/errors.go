package ordering

import "fmt"

// InvalidReferenceError is returned when a reorder names an entity that is not part of the collection.
type InvalidReferenceError struct {
	ID     string
	Reason string
}

func (err InvalidReferenceError) Error() string {
	if err.Reason != "" {
		return fmt.Sprintf("invalid reference %q: %s", err.ID, err.Reason)
	}
	return fmt.Sprintf("invalid reference %q: not in collection", err.ID)
}

// PartialReorderError is returned when a position write fails after earlier writes of the same
// reorder already succeeded. The stored positions then match neither the old nor the new order.
type PartialReorderError struct {
	Persisted int
	Total     int
	Err       error
}

func (err PartialReorderError) Error() string {
	return fmt.Sprintf("partial reorder: %d of %d positions persisted: %v", err.Persisted, err.Total, err.Err)
}

func (err PartialReorderError) Unwrap() error { return err.Err }

func (err PartialReorderError) Cause() error { return err.Err }
