package course

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/ordering"
)

// ErrNotFound is returned when no course has the requested id.
var ErrNotFound = core.NewNotFoundError("course")

type (
	Repository interface {
		CreateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
		// MaxCoursePosition returns the highest stored position, 0 when there is no course.
		MaxCoursePosition(ctx context.Context, exec ...core.DBExecutor) (int, error)
		// QueryCourses lists courses by ascending position.
		// QueryFilter.Search does a case-insensitive match on one of Course.Title or Course.Description.
		QueryCourses(ctx context.Context, filter *QueryFilter, exec ...core.DBExecutor) ([]Course, error)
		GetCourse(ctx context.Context, id string, exec ...core.DBExecutor) (Course, error)
		UpdateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
		// UpdateCoursePosition overwrites the position of a single course; siblings are left untouched.
		UpdateCoursePosition(ctx context.Context, id string, position int, updatedAt time.Time, exec ...core.DBExecutor) (Course, error)
		// DeleteCourse removes a course; remaining positions are not renumbered.
		DeleteCourse(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Create stores a new course after the last one.
func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	tstamp := now()
	c := Course{
		Title:       nc.Title,
		Description: nc.Description,
		ImageSrc:    null.NewString(nc.ImageSrc, nc.ImageSrc != ""),
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		max, err := svc.repo.MaxCoursePosition(ctx, tx)
		if err != nil {
			return err
		}
		c.Position = max + 1
		c, err = svc.repo.CreateCourse(ctx, c, tx)
		return err
	})
	if err != nil {
		return Course{}, errors.Wrap(err, "creating course")
	}
	return c, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Course, error) {
	courses, err := svc.repo.QueryCourses(ctx, filter)
	return courses, errors.Wrap(err, "querying courses")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	c, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	c = uc.apply(c)
	c.UpdatedAt = now()
	return svc.repo.UpdateCourse(ctx, c)
}

// UpdatePosition records one course's new position. It does not touch any other course.
func (svc *Service) UpdatePosition(ctx context.Context, id string, position int) (Course, error) {
	return svc.repo.UpdateCoursePosition(ctx, id, position, now())
}

// Move puts the moved course where the target course is and renumbers every course, in one transaction.
func (svc *Service) Move(ctx context.Context, ev ordering.MoveEvent) ([]Course, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return svc.reorder(ctx, func(ids []string) ([]string, error) {
		moved, err := ordering.Move(ids, ev.MovedID, ev.TargetID)
		if err != nil || ev.IsNoop() {
			return nil, err
		}
		return moved, nil
	})
}

// Arrange stores ids as the new course order; ids must list every course exactly once.
func (svc *Service) Arrange(ctx context.Context, ids []string) ([]Course, error) {
	return svc.reorder(ctx, func(current []string) ([]string, error) {
		if err := ordering.Arrange(current, ids); err != nil {
			return nil, err
		}
		return ids, nil
	})
}

// Renumber closes the position gaps left by deletions, keeping the display order.
func (svc *Service) Renumber(ctx context.Context) ([]Course, error) {
	return svc.reorder(ctx, func(ids []string) ([]string, error) { return ids, nil })
}

// reorder rewrites the positions of all courses to 1..N following arrange.
// A nil order from arrange leaves every position untouched.
// Only rows whose position changes are written; either all of them are or none is.
func (svc *Service) reorder(ctx context.Context, arrange func(ids []string) ([]string, error)) ([]Course, error) {
	var courses []Course
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		current, err := svc.repo.QueryCourses(ctx, nil, tx)
		if err != nil {
			return err
		}
		byID := make(map[string]Course, len(current))
		ids := make([]string, 0, len(current))
		for _, c := range current {
			byID[c.ID] = c
			ids = append(ids, c.ID)
		}

		newIDs, err := arrange(ids)
		if err != nil {
			return err
		}
		if newIDs == nil { // nothing moves
			courses = current
			return nil
		}

		tstamp := now()
		courses = make([]Course, 0, len(newIDs))
		for _, e := range ordering.Positions(newIDs) {
			c := byID[e.ID]
			if c.Position != e.Position {
				if c, err = svc.repo.UpdateCoursePosition(ctx, e.ID, e.Position, tstamp, tx); err != nil {
					return err
				}
			}
			courses = append(courses, c)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "reordering courses")
	}
	return courses, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}
