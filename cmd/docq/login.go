package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/session"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the backend and persist the session",
	Long: `Logs in with email and password. The access token and user name are
stored locally, so subsequent commands are authenticated automatically.`,
	RunE: runLoginCmd,
}

func runLoginCmd(cmd *cobra.Command, args []string) error {
	if loginEmail == "" {
		if err := askOneFunc(&survey.Input{Message: "Email:"}, &loginEmail, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if loginPassword == "" {
		if err := askOneFunc(&survey.Password{Message: "Password:"}, &loginPassword, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	return withSession(func(client *api.Client, store session.Store) error {
		resp, err := client.Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := store.Login(resp.AccessToken, resp.User); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", resp.User)
		return nil
	})
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
}
