package main

import (
	"context"
	"errors"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/unit"
)

var errHelp = errors.New("help provided")

type (
	CourseRenumberer interface {
		Renumber(ctx context.Context) ([]course.Course, error)
	}

	UnitRenumberer interface {
		Renumber(ctx context.Context, courseID string) ([]unit.Unit, error)
	}

	commandLine struct {
		conf      *core.Config
		db        *sqlx.DB
		courseSvc CourseRenumberer
		unitSvc   UnitRenumberer
		out       io.Writer
	}
)

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "TeenFin operator commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(cli.migrateCmd(), cli.renumberCmd(), cli.tokenCmd())
	return root
}

// run executes args, without the program name.
func (cli *commandLine) run(args []string) error {
	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}
	root := cli.rootCmd()
	root.SetArgs(args)
	return root.Execute()
}
