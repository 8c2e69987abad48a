package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"comptesupport/storage"

	"github.com/spf13/cobra"
)

// stringFlagOrConfig prefers an explicitly set flag over the config value.
func stringFlagOrConfig(cmd *cobra.Command, name, flagValue, configValue string) string {
	if cmd.Flags().Changed(name) || strings.TrimSpace(configValue) == "" {
		return flagValue
	}
	return configValue
}

func intFlagOrConfig(cmd *cobra.Command, name string, flagValue, configValue int) int {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return configValue
}

func stringsFlagOrConfig(cmd *cobra.Command, name string, flagValue, configValue []string) []string {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return configValue
}

// interruptContext is cancelled on Ctrl+C so long runs stop between units of work.
func interruptContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return storage.RunStatusCompleted
	case errors.Is(err, context.Canceled):
		return storage.RunStatusCancelled
	default:
		return storage.RunStatusFailed
	}
}
