package main

import (
	"fmt"

	"github.com/spf13/cobra"

	echoapi "github.com/teenfin/backend/apps/api/echo"
)

// tokenCmd mints a bearer token like the identity provider would, for local development.
func (cli *commandLine) tokenCmd() *cobra.Command {
	var userID, name string
	cmd := &cobra.Command{
		Use:   "token --user ID [--name NAME]",
		Short: "Print a signed development JWT for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				_ = cmd.Help()
				return errHelp
			}
			token, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, userID, name))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "identity provider user ID (token subject)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}
