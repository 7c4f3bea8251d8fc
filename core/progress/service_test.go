package progress_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/lesson"
	"github.com/teenfin/backend/core/progress"
	"github.com/teenfin/backend/storage/database/sqlx"
	"github.com/teenfin/backend/tests"
)

const userID = "user_2fQ9"

type fixture struct {
	svc        *progress.Service
	repo       progress.Repository
	course     course.Course
	challenges []lesson.Challenge
}

func setup(t *testing.T) fixture {
	db := testutil.PrepareDB(t)
	courseRepo := sqlxrepos.NewCourseRepository(db)
	unitRepo := sqlxrepos.NewUnitRepository(db)
	lessonRepo := sqlxrepos.NewLessonRepository(db)
	repo := sqlxrepos.NewProgressRepository(db)

	c := testutil.CreateCourse(t, courseRepo, "Budgeting", 1)
	u := testutil.CreateUnit(t, unitRepo, c.ID, "Unit 1", 1)
	_, chs := testutil.CreateLesson(t, lessonRepo, u.ID, "Lesson 1", 1, 2)

	return fixture{
		svc:        progress.NewService(db, repo, course.NewService(db, courseRepo)),
		repo:       repo,
		course:     c,
		challenges: chs,
	}
}

func (f fixture) selectCourse(t *testing.T) progress.UserProgress {
	p, err := f.svc.SelectCourse(context.Background(), userID, "Ada", progress.SelectCourse{CourseID: f.course.ID})
	require.NoError(t, err)
	return p
}

func (f fixture) setProgress(t *testing.T, hearts, points int) {
	p := f.selectCourse(t)
	p.Hearts, p.Points = hearts, points
	_, err := f.repo.UpdateProgress(context.Background(), p)
	require.NoError(t, err)
}

func TestService_SelectCourse(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, userID)
	assert.Equal(t, progress.ErrNotFound, errors.Cause(err))

	p := f.selectCourse(t)
	assert.Equal(t, f.course.ID, p.ActiveCourseID.String)
	assert.Equal(t, progress.MaxHearts, p.Hearts)
	assert.Equal(t, 0, p.Points)
	assert.Equal(t, "Ada", p.UserName)

	got, err := f.svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = f.svc.SelectCourse(ctx, userID, "Ada", progress.SelectCourse{CourseID: "unknown"})
	assert.Error(t, err)
}

func TestService_Shop_requires_active_course(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Shop(ctx, userID)
	assert.Equal(t, progress.ErrNoActiveCourse, errors.Cause(err))

	f.setProgress(t, 3, 20)
	shop, err := f.svc.Shop(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, progress.Shop{Hearts: 3, Points: 20, MaxHearts: 5, RefillCost: 10, CanRefill: true}, shop)
}

func TestService_RefillHearts(t *testing.T) {
	tests := []struct {
		name       string
		hearts     int
		points     int
		wantErr    error
		wantHearts int
		wantPoints int
	}{
		{name: "hearts full", hearts: 5, points: 50, wantErr: progress.ErrHeartsFull},
		{name: "not enough points", hearts: 2, points: 9, wantErr: progress.ErrNotEnoughPoints},
		{name: "refill", hearts: 0, points: 10, wantHearts: 5, wantPoints: 0},
		{name: "refill keeps the rest", hearts: 4, points: 35, wantHearts: 5, wantPoints: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			f.setProgress(t, tt.hearts, tt.points)

			shop, err := f.svc.RefillHearts(context.Background(), userID)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				p, gErr := f.svc.Get(context.Background(), userID)
				require.NoError(t, gErr)
				assert.Equal(t, tt.hearts, p.Hearts)
				assert.Equal(t, tt.points, p.Points)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHearts, shop.Hearts)
			assert.Equal(t, tt.wantPoints, shop.Points)
			assert.False(t, shop.CanRefill)
		})
	}
}

func TestService_CompleteChallenge(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.setProgress(t, 4, 0)
	ch := f.challenges[0]

	// first completion
	p, err := f.svc.CompleteChallenge(ctx, userID, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Points)
	assert.Equal(t, 4, p.Hearts)

	// practice: points and one heart
	p, err = f.svc.CompleteChallenge(ctx, userID, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Points)
	assert.Equal(t, 5, p.Hearts)

	// hearts are capped
	p, err = f.svc.CompleteChallenge(ctx, userID, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, p.Points)
	assert.Equal(t, 5, p.Hearts)

	_, err = f.svc.CompleteChallenge(ctx, userID, "unknown")
	assert.Equal(t, progress.ErrChallengeNotFound, errors.Cause(err))
}

func TestService_ReduceHearts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.setProgress(t, 1, 0)
	first, second := f.challenges[0], f.challenges[1]

	p, err := f.svc.ReduceHearts(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Hearts)

	_, err = f.svc.ReduceHearts(ctx, userID, first.ID)
	assert.Equal(t, progress.ErrNoHearts, errors.Cause(err))

	// no hearts left: new challenges cannot be completed
	_, err = f.svc.CompleteChallenge(ctx, userID, second.ID)
	assert.Equal(t, progress.ErrNoHearts, errors.Cause(err))
}

func TestService_ReduceHearts_practice_is_free(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.setProgress(t, 3, 0)
	ch := f.challenges[0]

	_, err := f.svc.CompleteChallenge(ctx, userID, ch.ID)
	require.NoError(t, err)

	p, err := f.svc.ReduceHearts(ctx, userID, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Hearts)
}
