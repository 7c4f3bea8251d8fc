package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (cli *commandLine) renumberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renumber",
		Short: "Close the position gaps of courses or units, keeping their order",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}

	coursesCmd := &cobra.Command{
		Use:   "courses",
		Short: "Renumber every course to 1..N",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := cli.courseSvc.Renumber(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "renumbering courses")
			}
			for _, c := range courses {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", c.Position, c.ID, c.Title)
			}
			return nil
		},
	}

	var courseID string
	unitsCmd := &cobra.Command{
		Use:   "units --course ID",
		Short: "Renumber the units of a course to 1..N",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if courseID == "" {
				_ = cmd.Help()
				return errHelp
			}
			units, err := cli.unitSvc.Renumber(cmd.Context(), courseID)
			if err != nil {
				return errors.Wrap(err, "renumbering units")
			}
			for _, u := range units {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", u.Position, u.ID, u.Title)
			}
			return nil
		},
	}
	unitsCmd.Flags().StringVar(&courseID, "course", "", "the course whose units are renumbered")

	cmd.AddCommand(coursesCmd, unitsCmd)
	return cmd
}
