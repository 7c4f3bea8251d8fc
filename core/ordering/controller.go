package ordering

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

type (
	// Persister durably records the position of one entity.
	Persister interface {
		PersistPosition(ctx context.Context, id string, position int) error
	}

	// OrderPersister durably records a whole collection order in one all-or-nothing call.
	// Controllers prefer it over per-entity writes when the persister provides it.
	OrderPersister interface {
		PersistOrder(ctx context.Context, ids []string) error
	}

	// PersisterFunc adapts a function to a Persister.
	PersisterFunc func(ctx context.Context, id string, position int) error
)

func (f PersisterFunc) PersistPosition(ctx context.Context, id string, position int) error {
	return f(ctx, id, position)
}

// Controller keeps the working order of a collection and turns move gestures into persisted positions.
// A Controller is not safe for concurrent use; gestures are handled one at a time.
type Controller struct {
	entries   []Entry
	persister Persister
}

// NewController sorts entries by their stored position; ties keep input order.
func NewController(entries []Entry, persister Persister) *Controller {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	return &Controller{
		entries:   sorted,
		persister: persister,
	}
}

// Entries returns a copy of the working order.
func (c *Controller) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Move applies ev to the working order, then persists the new positions.
//
// The local order is updated before anything is written and is not rolled back on failure.
// With a plain Persister one write is issued per entity, sequentially, stopping at the first
// failure; a failure after earlier successful writes is reported as *PartialReorderError.
func (c *Controller) Move(ctx context.Context, ev MoveEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	ids, err := Move(IDs(c.entries), ev.MovedID, ev.TargetID)
	if err != nil {
		return err
	}
	if ev.IsNoop() {
		return nil
	}
	c.entries = Positions(ids)

	if op, ok := c.persister.(OrderPersister); ok {
		return errors.Wrap(op.PersistOrder(ctx, ids), "persisting order")
	}

	for i, e := range c.entries {
		if err := c.persister.PersistPosition(ctx, e.ID, e.Position); err != nil {
			if i == 0 {
				return errors.Wrapf(err, "persisting position of %q", e.ID)
			}
			return errors.WithStack(&PartialReorderError{Persisted: i, Total: len(c.entries), Err: err})
		}
	}
	return nil
}
