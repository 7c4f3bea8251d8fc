package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/ordering"
	"github.com/teenfin/backend/core/unit"
)

func (c *Client) Courses(ctx context.Context) ([]course.Course, error) {
	var courses []course.Course
	err := c.fetchJSON(ctx, http.MethodGet, "/courses", nil, &courses)
	return courses, err
}

func (c *Client) Units(ctx context.Context, courseID string) ([]unit.Unit, error) {
	var units []unit.Unit
	err := c.fetchJSON(ctx, http.MethodGet, "/courses/"+url.PathEscape(courseID)+"/units", nil, &units)
	return units, err
}

// CourseEntries returns the courses as the entries of an ordering.Controller.
func CourseEntries(courses []course.Course) []ordering.Entry {
	entries := make([]ordering.Entry, 0, len(courses))
	for _, c := range courses {
		entries = append(entries, ordering.Entry{ID: c.ID, Position: c.Position})
	}
	return entries
}

// UnitEntries returns the units as the entries of an ordering.Controller.
func UnitEntries(units []unit.Unit) []ordering.Entry {
	entries := make([]ordering.Entry, 0, len(units))
	for _, u := range units {
		entries = append(entries, ordering.Entry{ID: u.ID, Position: u.Position})
	}
	return entries
}

type (
	// CoursePositions writes one course position per call.
	CoursePositions struct{ Client *Client }

	// UnitPositions writes one unit position per call, through the unit update endpoint.
	UnitPositions struct{ Client *Client }

	// CourseOrder writes the whole course order in one call.
	CourseOrder struct{ Client *Client }

	// UnitOrder writes the whole unit order of a course in one call.
	UnitOrder struct {
		Client   *Client
		CourseID string
	}
)

var (
	_ ordering.Persister      = CoursePositions{}
	_ ordering.Persister      = UnitPositions{}
	_ ordering.OrderPersister = CourseOrder{}
	_ ordering.OrderPersister = UnitOrder{}
)

func (p CoursePositions) PersistPosition(ctx context.Context, id string, position int) error {
	return p.Client.fetchJSON(ctx, http.MethodPatch, "/courses/"+url.PathEscape(id)+"/reorder",
		course.UpdatePosition{Position: position}, nil)
}

func (p UnitPositions) PersistPosition(ctx context.Context, id string, position int) error {
	return p.Client.fetchJSON(ctx, http.MethodPut, "/units/"+url.PathEscape(id),
		unit.UpdateUnit{Order: &position}, nil)
}

func (p CourseOrder) PersistPosition(ctx context.Context, id string, position int) error {
	return CoursePositions{Client: p.Client}.PersistPosition(ctx, id, position)
}

func (p CourseOrder) PersistOrder(ctx context.Context, ids []string) error {
	return p.Client.fetchJSON(ctx, http.MethodPut, "/courses/order", course.NewOrder{IDs: ids}, nil)
}

func (p UnitOrder) PersistPosition(ctx context.Context, id string, position int) error {
	return UnitPositions{Client: p.Client}.PersistPosition(ctx, id, position)
}

func (p UnitOrder) PersistOrder(ctx context.Context, ids []string) error {
	return p.Client.fetchJSON(ctx, http.MethodPut, "/courses/"+url.PathEscape(p.CourseID)+"/units/order",
		unit.NewOrder{IDs: ids}, nil)
}
