package progress

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/course"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError("user progress")
	ErrChallengeNotFound = core.NewNotFoundError("challenge")
	ErrNoActiveCourse    = core.NewConflictError("no_active_course", "no active course selected")
	ErrHeartsFull        = core.NewConflictError("hearts_full", "hearts are already full")
	ErrNotEnoughPoints   = core.NewConflictError("not_enough_points", "not enough points")
	ErrNoHearts          = core.NewConflictError("no_hearts", "no hearts left")
)

type (
	Repository interface {
		GetProgress(ctx context.Context, userID string, exec ...core.DBExecutor) (UserProgress, error)
		// UpsertProgress creates or replaces the progress of p.UserID.
		UpsertProgress(ctx context.Context, p UserProgress, exec ...core.DBExecutor) (UserProgress, error)
		UpdateProgress(ctx context.Context, p UserProgress, exec ...core.DBExecutor) (UserProgress, error)
		// ChallengeExists reports whether the challenge id is a known challenge.
		ChallengeExists(ctx context.Context, challengeID string, exec ...core.DBExecutor) (bool, error)
		// IsChallengeCompleted reports whether userID already completed the challenge.
		IsChallengeCompleted(ctx context.Context, userID, challengeID string, exec ...core.DBExecutor) (bool, error)
		MarkChallengeCompleted(ctx context.Context, userID, challengeID string, exec ...core.DBExecutor) error
	}

	// CourseGetter is the part of the course service progress depends on.
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

func (svc *Service) Get(ctx context.Context, userID string) (UserProgress, error) {
	return svc.repo.GetProgress(ctx, userID)
}

// SelectCourse makes courseID the active course of the user, creating their progress on first use.
func (svc *Service) SelectCourse(ctx context.Context, userID, userName string, sc SelectCourse) (UserProgress, error) {
	if _, err := svc.courses.GetByID(ctx, sc.CourseID); err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return UserProgress{}, core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		return UserProgress{}, errors.Wrap(err, "finding course")
	}

	var p UserProgress
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		p, err = svc.repo.GetProgress(ctx, userID, tx)
		switch {
		case errors.Cause(err) == ErrNotFound:
			p = UserProgress{UserID: userID, Hearts: MaxHearts}
		case err != nil:
			return err
		}
		if userName != "" {
			p.UserName = userName
		}
		p.ActiveCourseID = null.StringFrom(sc.CourseID)
		p, err = svc.repo.UpsertProgress(ctx, p, tx)
		return err
	})
	return p, errors.Wrap(err, "selecting course")
}

// Shop returns the shop of a user; the shop is only open once a course is selected.
func (svc *Service) Shop(ctx context.Context, userID string) (Shop, error) {
	p, err := svc.activeProgress(ctx, userID)
	if err != nil {
		return Shop{}, err
	}
	return newShop(p), nil
}

func (svc *Service) activeProgress(ctx context.Context, userID string, exec ...core.DBExecutor) (UserProgress, error) {
	p, err := svc.repo.GetProgress(ctx, userID, exec...)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return UserProgress{}, ErrNoActiveCourse
		}
		return UserProgress{}, err
	}
	if !p.ActiveCourseID.Valid {
		return UserProgress{}, ErrNoActiveCourse
	}
	return p, nil
}

// RefillHearts spends RefillCost points to bring the hearts back to MaxHearts.
func (svc *Service) RefillHearts(ctx context.Context, userID string) (Shop, error) {
	var p UserProgress
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		if p, err = svc.activeProgress(ctx, userID, tx); err != nil {
			return err
		}
		if p.HeartsFull() {
			return ErrHeartsFull
		}
		if p.Points < RefillCost {
			return ErrNotEnoughPoints
		}
		p.Hearts = MaxHearts
		p.Points -= RefillCost
		p, err = svc.repo.UpdateProgress(ctx, p, tx)
		return err
	})
	if err != nil {
		return Shop{}, errors.Wrap(err, "refilling hearts")
	}
	return newShop(p), nil
}

// CompleteChallenge records a correct answer. The first completion earns points; completing an
// already completed challenge is practice and earns points plus one heart.
func (svc *Service) CompleteChallenge(ctx context.Context, userID, challengeID string) (UserProgress, error) {
	var p UserProgress
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		practice, err := svc.checkChallenge(ctx, userID, challengeID, tx)
		if err != nil {
			return err
		}
		if p, err = svc.activeProgress(ctx, userID, tx); err != nil {
			return err
		}
		if !practice && p.Hearts <= 0 {
			return ErrNoHearts
		}

		p.Points += ChallengePoints
		if practice && !p.HeartsFull() {
			p.Hearts++
		}
		if !practice {
			if err = svc.repo.MarkChallengeCompleted(ctx, userID, challengeID, tx); err != nil {
				return err
			}
		}
		p, err = svc.repo.UpdateProgress(ctx, p, tx)
		return err
	})
	return p, errors.Wrap(err, "completing challenge")
}

// ReduceHearts records a wrong answer. Practising a completed challenge costs nothing.
func (svc *Service) ReduceHearts(ctx context.Context, userID, challengeID string) (UserProgress, error) {
	var p UserProgress
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		practice, err := svc.checkChallenge(ctx, userID, challengeID, tx)
		if err != nil {
			return err
		}
		if p, err = svc.activeProgress(ctx, userID, tx); err != nil {
			return err
		}
		if practice {
			return nil
		}
		if p.Hearts <= 0 {
			return ErrNoHearts
		}
		p.Hearts--
		p, err = svc.repo.UpdateProgress(ctx, p, tx)
		return err
	})
	return p, errors.Wrap(err, "reducing hearts")
}

// checkChallenge returns whether the user already completed the challenge.
func (svc *Service) checkChallenge(ctx context.Context, userID, challengeID string, tx core.DBExecutor) (bool, error) {
	exists, err := svc.repo.ChallengeExists(ctx, challengeID, tx)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrChallengeNotFound
	}
	return svc.repo.IsChallengeCompleted(ctx, userID, challengeID, tx)
}
