package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/odysseyapp/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odyssey",
		Short: "Odyssey API Server",
		Long:  `Odyssey is a task manager with space-travel focus sessions: pick up to three tasks, choose a trip, and focus until you arrive.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
