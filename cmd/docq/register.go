package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/session"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegisterCmd,
}

func runRegisterCmd(cmd *cobra.Command, args []string) error {
	if registerName == "" {
		if err := askOneFunc(&survey.Input{Message: "Name:"}, &registerName, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if registerEmail == "" {
		if err := askOneFunc(&survey.Input{Message: "Email:"}, &registerEmail, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if registerPassword == "" {
		if err := askOneFunc(&survey.Password{Message: "Password:"}, &registerPassword, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	return withSession(func(client *api.Client, store session.Store) error {
		if err := client.Register(cmd.Context(), registerName, registerEmail, registerPassword); err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s. Run 'docq login' to sign in.\n", registerEmail)
		return nil
	})
}

func init() {
	registerCmd.Flags().StringVarP(&registerName, "name", "n", "", "Display name")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Account email")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Account password (prompted if omitted)")
	rootCmd.AddCommand(registerCmd)
}
