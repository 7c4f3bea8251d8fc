package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/teenfin/backend/apps/api/echo"
	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/lesson"
	"github.com/teenfin/backend/core/progress"
	"github.com/teenfin/backend/core/unit"
	logsvc "github.com/teenfin/backend/services/logger"
	"github.com/teenfin/backend/storage/database/sqlx"
)

// NewServer wires the API over db the way the API binary does, without request logs.
func NewServer(t *testing.T, conf *core.Config, db *sqlx.DB) *echoapi.Server {
	t.Helper()

	translator := core.NewTranslator()
	courseSvc := course.NewService(db, sqlxrepos.NewCourseRepository(db))
	progressSvc := progress.NewService(db, sqlxrepos.NewProgressRepository(db), courseSvc)

	logger := logsvc.NewRollbarLogger(logsvc.NewStd(testWriter{t}, "API"), conf)
	logger.Enable(false)

	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       core.NewValidator(translator),
		Translator:     translator,
		CourseSvc:      courseSvc,
		UnitSvc:        unit.NewService(db, sqlxrepos.NewUnitRepository(db), courseSvc),
		LessonSvc:      lesson.NewService(sqlxrepos.NewLessonRepository(db), progressSvc),
		ProgressSvc:    progressSvc,
		DisableReqLogs: true,
	})
}

// Token returns a bearer token for the identity provider user `userID`.
func Token(t *testing.T, conf *core.Config, userID, name string) string {
	t.Helper()

	token, err := echoapi.GenerateToken(conf, echoapi.NewClaims(conf, userID, name))
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}
	return token
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
