package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/teenfin/backend/apps/api/echo"
	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/unit"
	"github.com/teenfin/backend/storage/database/sqlx"
	"github.com/teenfin/backend/tests"
)

type fixture struct {
	cli        *commandLine
	out        *bytes.Buffer
	courseRepo course.Repository
	unitRepo   unit.Repository
}

func setup(t *testing.T) fixture {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	courseRepo := sqlxrepos.NewCourseRepository(db)
	unitRepo := sqlxrepos.NewUnitRepository(db)
	courseSvc := course.NewService(db, courseRepo)

	// start CLI
	out := new(bytes.Buffer)
	return fixture{
		cli: &commandLine{
			conf:      testutil.NewConfig(),
			db:        db,
			courseSvc: courseSvc,
			unitSvc:   unit.NewService(db, unitRepo, courseSvc),
			out:       out,
		},
		out:        out,
		courseRepo: courseRepo,
		unitRepo:   unitRepo,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Equal(t, tt.wantErrStr, err.Error())
		}
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_root(t *testing.T) {
	f := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErrStr: `unknown command "lol" for "admin"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, f.cli.run(tt.args))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	f := setup(t)

	runMigrationsFunc = func(command string, db *sqlx.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, f.cli.run(tt.args))
		})
	}
}

func Test_commandLine_renumber(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := testutil.CreateCourse(t, f.courseRepo, "A", 2)
	b := testutil.CreateCourse(t, f.courseRepo, "B", 9)
	u1 := testutil.CreateUnit(t, f.unitRepo, a.ID, "U1", 4)
	u2 := testutil.CreateUnit(t, f.unitRepo, a.ID, "U2", 7)

	tests := []cliTest{
		{name: "no subcommand", args: []string{"renumber"}, wantErr: errHelp},
		{name: "units: no course", args: []string{"renumber", "units"}, wantErr: errHelp},
		{name: "units: unknown course", args: []string{"renumber", "units", "--course", "lol"}, wantErrStr: "renumbering units: course not found"},
		{name: "courses", args: []string{"renumber", "courses"}},
		{name: "units", args: []string{"renumber", "units", "--course", a.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, f.cli.run(tt.args))
		})
	}

	courses, err := f.courseRepo.QueryCourses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, []string{a.ID, b.ID}, []string{courses[0].ID, courses[1].ID})
	assert.Equal(t, []int{1, 2}, []int{courses[0].Position, courses[1].Position})

	units, err := f.unitRepo.QueryUnits(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, []string{u1.ID, u2.ID}, []string{units[0].ID, units[1].ID})
	assert.Equal(t, []int{1, 2}, []int{units[0].Position, units[1].Position})
}

func Test_commandLine_token(t *testing.T) {
	f := setup(t)

	tt := cliTest{name: "no user", args: []string{"token"}, wantErr: errHelp}
	tt.check(t, f.cli.run(tt.args))

	f.out.Reset()
	require.NoError(t, f.cli.run([]string{"token", "--user", "user_1", "--name", "Ada"}))

	claims := new(echoapi.Claims)
	_, err := jwt.ParseWithClaims(strings.TrimSpace(f.out.String()), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(f.cli.conf.SecretKey), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.Subject)
	assert.Equal(t, "Ada", claims.Name)
}
