package sqlxrepos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/lesson"
	"github.com/teenfin/backend/core/progress"
	"github.com/teenfin/backend/storage/database/sqlx"
	"github.com/teenfin/backend/tests"
)

func TestCourseRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewCourseRepository(db)

	max, err := repo.MaxCoursePosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	base := time.Now().Add(-time.Minute)
	b := testutil.CreateCourse(t, repo, "B", 2, base.Add(time.Second))
	a := testutil.CreateCourse(t, repo, "A", 2, base)
	c := testutil.CreateCourse(t, repo, "C", 1, base)

	// ties on position fall back to creation order
	got, err := repo.QueryCourses(ctx, &course.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []course.Course{c, a, b}, got)

	max, err = repo.MaxCoursePosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, max)

	_, err = repo.GetCourse(ctx, "not-a-uuid")
	assert.Equal(t, course.ErrNotFound, err)

	// the write goes through the transaction it is given
	err = core.WithTx(ctx, db, func(tx core.DBExecutor) error {
		moved, err := repo.UpdateCoursePosition(ctx, b.ID, 1, time.Now(), tx)
		if err != nil {
			return err
		}
		assert.Equal(t, 1, moved.Position)
		return course.ErrNotFound // rollback
	})
	assert.Equal(t, course.ErrNotFound, err)
	stored, err := repo.GetCourse(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Position)
}

func TestLessonRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	courses := sqlxrepos.NewCourseRepository(db)
	units := sqlxrepos.NewUnitRepository(db)
	lessons := sqlxrepos.NewLessonRepository(db)
	progressRepo := sqlxrepos.NewProgressRepository(db)

	c := testutil.CreateCourse(t, courses, "Budgeting", 1)
	u := testutil.CreateUnit(t, units, c.ID, "Income", 1)
	l, chs := testutil.CreateLesson(t, lessons, u.ID, "Pay slips", 1, 2)
	empty, _ := testutil.CreateLesson(t, lessons, u.ID, "Empty", 2, 0)

	got, err := lessons.QueryChallenges(ctx, l.ID, "user_1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, chs[0].Options, got[0].Options)
	assert.False(t, got[0].Completed)

	noChallenges, err := lessons.QueryChallenges(ctx, empty.ID, "user_1")
	require.NoError(t, err)
	assert.Empty(t, noChallenges)

	require.NoError(t, progressRepo.MarkChallengeCompleted(ctx, "user_1", chs[0].ID))
	require.NoError(t, progressRepo.MarkChallengeCompleted(ctx, "user_1", chs[0].ID)) // idempotent

	done, err := progressRepo.IsChallengeCompleted(ctx, "user_1", chs[0].ID)
	require.NoError(t, err)
	assert.True(t, done)
	done, err = progressRepo.IsChallengeCompleted(ctx, "user_2", chs[0].ID)
	require.NoError(t, err)
	assert.False(t, done)

	first, err := lessons.FirstIncompleteLesson(ctx, c.ID, "user_1")
	require.NoError(t, err)
	assert.Equal(t, l, first)

	// lessons without challenges are never the next lesson
	require.NoError(t, progressRepo.MarkChallengeCompleted(ctx, "user_1", chs[1].ID))
	_, err = lessons.FirstIncompleteLesson(ctx, c.ID, "user_1")
	assert.Equal(t, lesson.ErrNotFound, err)
}

func TestProgressRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewProgressRepository(db)
	c := testutil.CreateCourse(t, sqlxrepos.NewCourseRepository(db), "Budgeting", 1)

	_, err := repo.GetProgress(ctx, "user_1")
	assert.Equal(t, progress.ErrNotFound, err)
	_, err = repo.UpdateProgress(ctx, progress.UserProgress{UserID: "user_1"})
	assert.Equal(t, progress.ErrNotFound, err)

	p := progress.UserProgress{UserID: "user_1", UserName: "Ada", Hearts: progress.MaxHearts}
	p.ActiveCourseID.SetValid(c.ID)
	_, err = repo.UpsertProgress(ctx, p)
	require.NoError(t, err)

	p.Points = 30
	_, err = repo.UpsertProgress(ctx, p)
	require.NoError(t, err)

	got, err := repo.GetProgress(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	exists, err := repo.ChallengeExists(ctx, "5f0c0d7e-2a7e-4e8f-9d1b-0a9c6a1e8a11")
	require.NoError(t, err)
	assert.False(t, exists)
}
