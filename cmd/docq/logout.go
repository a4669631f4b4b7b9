package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	Long: `Removes the stored token and user. The server side is notified on a
best-effort basis; the local session is cleared even when that call fails.`,
	RunE: runLogoutCmd,
}

func runLogoutCmd(cmd *cobra.Command, args []string) error {
	return withSession(func(client *api.Client, store session.Store) error {
		if store.Load().Authenticated() {
			if err := client.ServerLogout(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: server logout failed: %v\n", err)
			}
		}
		if err := store.Logout(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	})
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
