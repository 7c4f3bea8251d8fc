package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/lesson"
	"github.com/teenfin/backend/core/unit"
	"github.com/teenfin/backend/storage/database"
)

// NewConfig returns the configuration used by tests: an in-memory sqlite database and
// a fixed secret key.
func NewConfig(adminIDs ...string) *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "TeenFin",
		Build:     "test",
		SecretKey: "test-secret",
		AdminIDs:  adminIDs,
		Server: core.ServerConfig{
			Address:         ":0",
			Host:            "localhost",
			ShutdownTimeout: time.Second,
			JWTExpiration:   time.Hour,
		},
		Database: core.DatabaseConfig{
			Engine: database.EngineSQLite,
			Path:   ":memory:",
		},
	}
}

// PrepareDB opens a fresh migrated database, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(NewConfig())
	if err != nil {
		t.Fatalf("database.Open(): %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("db.Close(): %v", err)
		}
	})
	if err = database.Migrate(db); err != nil {
		t.Fatalf("database.Migrate(): %v", err)
	}
	return db
}

func CreateCourse(t *testing.T, repo course.Repository, title string, position int, createdAt ...time.Time) course.Course {
	t.Helper()

	tstamp := time.Now().UTC().Truncate(time.Microsecond)
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC().Truncate(time.Microsecond)
	}
	c, err := repo.CreateCourse(context.Background(), course.Course{
		Title:     title,
		Position:  position,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse(): %v", err)
	}
	return c
}

func CreateUnit(t *testing.T, repo unit.Repository, courseID, title string, position int) unit.Unit {
	t.Helper()

	tstamp := time.Now().UTC().Truncate(time.Microsecond)
	u, err := repo.CreateUnit(context.Background(), unit.Unit{
		CourseID:  courseID,
		Title:     title,
		Position:  position,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateUnit(): %v", err)
	}
	return u
}

// CreateLesson creates a lesson with `challenges` SELECT challenges of two options each.
func CreateLesson(t *testing.T, repo lesson.Repository, unitID, title string, position, challenges int) (lesson.Lesson, []lesson.Challenge) {
	t.Helper()
	ctx := context.Background()

	l, err := repo.CreateLesson(ctx, lesson.Lesson{UnitID: unitID, Title: title, Position: position})
	if err != nil {
		t.Fatalf("CreateLesson(): %v", err)
	}

	chs := make([]lesson.Challenge, 0, challenges)
	for i := 1; i <= challenges; i++ {
		ch, err := repo.CreateChallenge(ctx, lesson.Challenge{
			LessonID: l.ID,
			Type:     lesson.ChallengeSelect,
			Question: "Which one saves money?",
			Position: i,
		})
		if err != nil {
			t.Fatalf("CreateChallenge(): %v", err)
		}
		for _, correct := range []bool{true, false} {
			opt, err := repo.CreateChallengeOption(ctx, lesson.ChallengeOption{ChallengeID: ch.ID, Text: "option", Correct: correct})
			if err != nil {
				t.Fatalf("CreateChallengeOption(): %v", err)
			}
			ch.Options = append(ch.Options, opt)
		}
		chs = append(chs, ch)
	}
	return l, chs
}
