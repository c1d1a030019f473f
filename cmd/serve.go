package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	port     int
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP server exposing the study catalog as a JSON API.

Endpoints live under /api and mirror the query commands: program counts,
categories, per-program fields, course lookups and location names.`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 3000, "Port to run the server on")
}

func runServe() {
	fmt.Printf("Starting Fagskolen API server...\n")
	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Printf("Port: %d\n\n", port)

	if err := StartServer(dataDir, port); err != nil {
		log.Fatalf("Server failed: %v\n", err)
	}
}
