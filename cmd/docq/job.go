package main

import (
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Create and inspect document analysis jobs",
}

func init() {
	rootCmd.AddCommand(jobCmd)
}
