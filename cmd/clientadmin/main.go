package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/straye-as/client-admin/internal/domain"
)

// @title Client Admin Console
// @version 1.0
// @description Local console for client, draft and audit log administration

// @contact.name API Support
// @contact.email support@straye.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:4200
// @BasePath /console/v1

var (
	verbose   bool
	assumeYes bool
	timeout   time.Duration

	// current is the app built for the running command
	current *app
)

// appFactory builds the app for a command; tests replace it
var appFactory = newApp

var rootCmd = &cobra.Command{
	Use:   "clientadmin",
	Short: "Administer clients, drafts and audit logs",
	Long: `clientadmin talks to the client-management backend.

Sign in with "clientadmin login", then work with clients, drafts and audit
logs from the command line, or run "clientadmin serve" for the local console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFactory(cmd)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout for a single command")
}

// execute runs the command line and releases the app whether or not the
// command failed
func execute() error {
	defer func() {
		if current != nil {
			current.Close()
			current = nil
		}
	}()
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Cancelled")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
