package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoamiCmd,
}

func runWhoamiCmd(cmd *cobra.Command, args []string) error {
	return withSession(func(client *api.Client, store session.Store) error {
		sess := store.Load()
		if !sess.Authenticated() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}

		info, err := client.Me(cmd.Context())
		if err != nil {
			// The stored name still identifies the session when the
			// backend is unreachable.
			fmt.Fprintf(cmd.OutOrStdout(), "%s (offline)\n", sess.User)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", info.Name, info.ID)
		return nil
	})
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
