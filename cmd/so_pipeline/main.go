// Package main provides the entry point for the Stack Overflow data pipeline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "so_pipeline",
	Short: "Stack Overflow data pipeline",
	Long:  "Fetches questions, posts, users, tags and comments from the Stack Exchange API and saves each collection as a CSV file.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
