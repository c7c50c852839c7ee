// Package main provides the entry point for the Commute Coach HTTP API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "commute_coach",
	Short: "Commute Coach playlist server",
	Long:  "Commute Coach assembles commute-length educational video playlists from catalog sources, watch history, and free-text commute descriptions via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
