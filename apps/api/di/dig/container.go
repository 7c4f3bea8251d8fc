package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/teenfin/backend/apps/api/echo"
	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/lesson"
	"github.com/teenfin/backend/core/progress"
	"github.com/teenfin/backend/core/unit"
	logsvc "github.com/teenfin/backend/services/logger"
	"github.com/teenfin/backend/storage/database"
	sqlxrepos "github.com/teenfin/backend/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In
	Conf        *core.Config
	Logger      core.Logger
	Validate    *validator.Validate
	Translator  ut.Translator
	CourseSvc   *course.Service
	UnitSvc     *unit.Service
	LessonSvc   *lesson.Service
	ProgressSvc *progress.Service
}

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewStd(os.Stdout, "API"), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewStd(os.Stdout, "DB"), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB) {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newCourseRepository(db *sqlx.DB) course.Repository { return sqlxrepos.NewCourseRepository(db) }
func newUnitRepository(db *sqlx.DB) unit.Repository     { return sqlxrepos.NewUnitRepository(db) }
func newLessonRepository(db *sqlx.DB) lesson.Repository { return sqlxrepos.NewLessonRepository(db) }
func newProgressRepository(db *sqlx.DB) progress.Repository {
	return sqlxrepos.NewProgressRepository(db)
}

func newUnitService(db core.DB, repo unit.Repository, courses *course.Service) *unit.Service {
	return unit.NewService(db, repo, courses)
}

func newProgressService(db core.DB, repo progress.Repository, courses *course.Service) *progress.Service {
	return progress.NewService(db, repo, courses)
}

func newLessonService(repo lesson.Repository, progressSvc *progress.Service) *lesson.Service {
	return lesson.NewService(repo, progressSvc)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:        p.Conf,
		Logger:      p.Logger,
		Validate:    p.Validate,
		Translator:  p.Translator,
		CourseSvc:   p.CourseSvc,
		UnitSvc:     p.UnitSvc,
		LessonSvc:   p.LessonSvc,
		ProgressSvc: p.ProgressSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(core.NewValidator))
	must(c.Provide(newCourseRepository))
	must(c.Provide(newUnitRepository))
	must(c.Provide(newLessonRepository))
	must(c.Provide(newProgressRepository))
	must(c.Provide(course.NewService))
	must(c.Provide(newUnitService))
	must(c.Provide(newProgressService))
	must(c.Provide(newLessonService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
