package main

import (
	"os"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/unit"
	logsvc "github.com/teenfin/backend/services/logger"
	"github.com/teenfin/backend/storage/database"
	sqlxrepos "github.com/teenfin/backend/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.NewStd(os.Stderr, "ADMIN"), conf)
	logger.Enable(false)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	courseSvc := course.NewService(db, sqlxrepos.NewCourseRepository(db))
	unitSvc := unit.NewService(db, sqlxrepos.NewUnitRepository(db), courseSvc)

	// start CLI
	cli := commandLine{
		conf:      conf,
		db:        db,
		courseSvc: courseSvc,
		unitSvc:   unitSvc,
		out:       os.Stdout,
	}
	err = cli.run(os.Args[1:])
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
