// Package main provides the entry point for the sluse kiosk.
//
// Sluse shows the warehouse bay board: four rotating panels of projects
// (confirmed, prepped, on location, delayed) fetched from the project API.
//
// Usage:
//
//	sluse [kiosk]           run the board
//	sluse periods           print the date window of every period
//	sluse fetch <period>    query one period once
//	sluse activity          show recent refresh activity
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
