package lesson

import (
	"context"

	"github.com/pkg/errors"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/progress"
)

// ErrNotFound is returned when the lesson does not exist or there is no lesson left to take.
var ErrNotFound = core.NewNotFoundError("lesson")

type (
	Repository interface {
		CreateLesson(ctx context.Context, l Lesson, exec ...core.DBExecutor) (Lesson, error)
		CreateChallenge(ctx context.Context, ch Challenge, exec ...core.DBExecutor) (Challenge, error)
		CreateChallengeOption(ctx context.Context, opt ChallengeOption, exec ...core.DBExecutor) (ChallengeOption, error)
		GetLesson(ctx context.Context, id string, exec ...core.DBExecutor) (Lesson, error)
		// QueryChallenges lists the challenges of a lesson by position with their options,
		// flagging the ones userID completed.
		QueryChallenges(ctx context.Context, lessonID, userID string, exec ...core.DBExecutor) ([]Challenge, error)
		// FirstIncompleteLesson returns the first lesson of the course (by unit then lesson position)
		// that has a challenge userID did not complete.
		FirstIncompleteLesson(ctx context.Context, courseID, userID string, exec ...core.DBExecutor) (Lesson, error)
	}

	// ProgressGetter is the part of the progress service lessons depend on.
	ProgressGetter interface {
		Get(ctx context.Context, userID string) (progress.UserProgress, error)
	}

	Service struct {
		repo     Repository
		progress ProgressGetter
	}
)

func NewService(repo Repository, progressSvc ProgressGetter) *Service {
	return &Service{repo: repo, progress: progressSvc}
}

// Get returns the quiz view of a lesson for the user.
func (svc *Service) Get(ctx context.Context, userID, lessonID string) (View, error) {
	p, err := svc.progress.Get(ctx, userID)
	if err != nil {
		return View{}, err
	}
	l, err := svc.repo.GetLesson(ctx, lessonID)
	if err != nil {
		return View{}, err
	}
	return svc.view(ctx, userID, l, p)
}

// Active returns the quiz view of the next lesson to take in the user's active course.
func (svc *Service) Active(ctx context.Context, userID string) (View, error) {
	p, err := svc.progress.Get(ctx, userID)
	if err != nil {
		return View{}, err
	}
	if !p.ActiveCourseID.Valid {
		return View{}, progress.ErrNoActiveCourse
	}
	l, err := svc.repo.FirstIncompleteLesson(ctx, p.ActiveCourseID.String, userID)
	if err != nil {
		return View{}, err
	}
	return svc.view(ctx, userID, l, p)
}

func (svc *Service) view(ctx context.Context, userID string, l Lesson, p progress.UserProgress) (View, error) {
	challenges, err := svc.repo.QueryChallenges(ctx, l.ID, userID)
	if err != nil {
		return View{}, errors.Wrap(err, "querying challenges")
	}
	if challenges == nil {
		challenges = []Challenge{}
	}
	return View{
		Lesson:     l,
		Challenges: challenges,
		Hearts:     p.Hearts,
		Percent:    Percent(challenges),
	}, nil
}
