package unit

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/ordering"
)

// ErrNotFound is returned when no unit has the requested id.
var ErrNotFound = core.NewNotFoundError("unit")

type (
	Repository interface {
		CreateUnit(ctx context.Context, u Unit, exec ...core.DBExecutor) (Unit, error)
		// MaxUnitPosition returns the highest position within a course, 0 when the course has no unit.
		MaxUnitPosition(ctx context.Context, courseID string, exec ...core.DBExecutor) (int, error)
		// QueryUnits lists the units of a course by ascending position.
		QueryUnits(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]Unit, error)
		GetUnit(ctx context.Context, id string, exec ...core.DBExecutor) (Unit, error)
		UpdateUnit(ctx context.Context, u Unit, exec ...core.DBExecutor) (Unit, error)
		// UpdateUnitPosition overwrites the position of a single unit, whatever its course.
		UpdateUnitPosition(ctx context.Context, id string, position int, updatedAt time.Time, exec ...core.DBExecutor) (Unit, error)
		// DeleteUnit removes a unit; remaining positions are not renumbered.
		DeleteUnit(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	// CourseGetter is the part of the course service units depend on.
	CourseGetter interface {
		GetByID(ctx context.Context, id string) (course.Course, error)
	}

	Service struct {
		db      core.DB
		repo    Repository
		courses CourseGetter
	}
)

func NewService(db core.DB, repo Repository, courses CourseGetter) *Service {
	return &Service{db: db, repo: repo, courses: courses}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (svc *Service) checkCourse(ctx context.Context, courseID string) error {
	if _, err := svc.courses.GetByID(ctx, courseID); err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		return errors.Wrap(err, "finding course")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUnit) (Unit, error) {
	if err := svc.checkCourse(ctx, nu.CourseID); err != nil {
		return Unit{}, err
	}
	tstamp := now()
	u := Unit{
		CourseID:    nu.CourseID,
		Title:       nu.Title,
		Description: nu.Description,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		max, err := svc.repo.MaxUnitPosition(ctx, u.CourseID, tx)
		if err != nil {
			return err
		}
		u.Position = max + 1
		u, err = svc.repo.CreateUnit(ctx, u, tx)
		return err
	})
	if err != nil {
		return Unit{}, errors.Wrap(err, "creating unit")
	}
	return u, nil
}

// QueryByCourse lists the units of a course; an unknown course yields course.ErrNotFound.
func (svc *Service) QueryByCourse(ctx context.Context, courseID string) ([]Unit, error) {
	if _, err := svc.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	units, err := svc.repo.QueryUnits(ctx, courseID)
	return units, errors.Wrap(err, "querying units")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Unit, error) {
	return svc.repo.GetUnit(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUnit) (Unit, error) {
	if uu.OnlyPosition() {
		return svc.UpdatePosition(ctx, id, *uu.TargetPosition())
	}
	u, err := svc.repo.GetUnit(ctx, id)
	if err != nil {
		return Unit{}, err
	}
	u = uu.apply(u)
	u.UpdatedAt = now()
	return svc.repo.UpdateUnit(ctx, u)
}

// UpdatePosition records one unit's new position. The unit id alone selects the row.
func (svc *Service) UpdatePosition(ctx context.Context, id string, position int) (Unit, error) {
	return svc.repo.UpdateUnitPosition(ctx, id, position, now())
}

// Move puts the moved unit where the target unit is and renumbers the units of the course in one transaction.
func (svc *Service) Move(ctx context.Context, courseID string, ev ordering.MoveEvent) ([]Unit, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	if _, err := svc.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return svc.reorder(ctx, courseID, func(ids []string) ([]string, error) {
		moved, err := ordering.Move(ids, ev.MovedID, ev.TargetID)
		if err != nil || ev.IsNoop() {
			return nil, err
		}
		return moved, nil
	})
}

// Arrange stores ids as the new unit order of a course; ids must list every unit of the course exactly once.
func (svc *Service) Arrange(ctx context.Context, courseID string, ids []string) ([]Unit, error) {
	if _, err := svc.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return svc.reorder(ctx, courseID, func(current []string) ([]string, error) {
		if err := ordering.Arrange(current, ids); err != nil {
			return nil, err
		}
		return ids, nil
	})
}

// Renumber closes the position gaps of a course's units, keeping the display order.
func (svc *Service) Renumber(ctx context.Context, courseID string) ([]Unit, error) {
	if _, err := svc.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return svc.reorder(ctx, courseID, func(ids []string) ([]string, error) { return ids, nil })
}

// reorder rewrites the positions of a course's units to 1..N following arrange, in one transaction.
// A nil order from arrange leaves every position untouched.
func (svc *Service) reorder(ctx context.Context, courseID string, arrange func(ids []string) ([]string, error)) ([]Unit, error) {
	var units []Unit
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		current, err := svc.repo.QueryUnits(ctx, courseID, tx)
		if err != nil {
			return err
		}
		byID := make(map[string]Unit, len(current))
		ids := make([]string, 0, len(current))
		for _, u := range current {
			byID[u.ID] = u
			ids = append(ids, u.ID)
		}

		newIDs, err := arrange(ids)
		if err != nil {
			return err
		}
		if newIDs == nil { // nothing moves
			units = current
			return nil
		}

		tstamp := now()
		units = make([]Unit, 0, len(newIDs))
		for _, e := range ordering.Positions(newIDs) {
			u := byID[e.ID]
			if u.Position != e.Position {
				if u, err = svc.repo.UpdateUnitPosition(ctx, e.ID, e.Position, tstamp, tx); err != nil {
					return err
				}
			}
			units = append(units, u)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "reordering units")
	}
	return units, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteUnit(ctx, id)
}
