package lesson_test

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

func TestPercent(t *testing.T) {
	tests := []struct {
		name       string
		challenges []lesson.Challenge
		want       float64
	}{
		{name: "no challenges", want: 0},
		{name: "none completed", challenges: []lesson.Challenge{{}, {}}, want: 0},
		{name: "half", challenges: []lesson.Challenge{{Completed: true}, {}}, want: 50},
		{name: "all", challenges: []lesson.Challenge{{Completed: true}}, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lesson.Percent(tt.challenges))
		})
	}
}

func TestService(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()
	courseRepo := sqlxrepos.NewCourseRepository(db)
	unitRepo := sqlxrepos.NewUnitRepository(db)
	lessonRepo := sqlxrepos.NewLessonRepository(db)
	courseSvc := course.NewService(db, courseRepo)
	progressSvc := progress.NewService(db, sqlxrepos.NewProgressRepository(db), courseSvc)
	svc := lesson.NewService(lessonRepo, progressSvc)

	c := testutil.CreateCourse(t, courseRepo, "Budgeting", 1)
	u2 := testutil.CreateUnit(t, unitRepo, c.ID, "Unit 2", 2)
	u1 := testutil.CreateUnit(t, unitRepo, c.ID, "Unit 1", 1)
	later, _ := testutil.CreateLesson(t, lessonRepo, u2.ID, "Later", 1, 1)
	second, secondChs := testutil.CreateLesson(t, lessonRepo, u1.ID, "Second", 2, 1)
	first, firstChs := testutil.CreateLesson(t, lessonRepo, u1.ID, "First", 1, 2)

	// no progress yet
	_, err := svc.Active(ctx, userID)
	assert.Error(t, err)

	_, err = progressSvc.SelectCourse(ctx, userID, "Ada", progress.SelectCourse{CourseID: c.ID})
	require.NoError(t, err)

	view, err := svc.Active(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first, view.Lesson)
	assert.Equal(t, progress.MaxHearts, view.Hearts)
	assert.Equal(t, float64(0), view.Percent)
	require.Len(t, view.Challenges, 2)
	assert.Equal(t, firstChs[0].ID, view.Challenges[0].ID)
	assert.Len(t, view.Challenges[0].Options, 2)

	_, err = progressSvc.CompleteChallenge(ctx, userID, firstChs[0].ID)
	require.NoError(t, err)
	view, err = svc.Get(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(50), view.Percent)
	assert.True(t, view.Challenges[0].Completed)
	assert.False(t, view.Challenges[1].Completed)

	_, err = progressSvc.CompleteChallenge(ctx, userID, firstChs[1].ID)
	require.NoError(t, err)
	view, err = svc.Active(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second, view.Lesson)

	_, err = progressSvc.CompleteChallenge(ctx, userID, secondChs[0].ID)
	require.NoError(t, err)
	view, err = svc.Active(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, later, view.Lesson)

	_, err = svc.Get(ctx, userID, "unknown")
	assert.Equal(t, lesson.ErrNotFound, errors.Cause(err))
}
