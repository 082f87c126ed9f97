package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/alnah/go-aliyun/internal/cli"
	"github.com/alnah/go-aliyun/internal/config"
	"github.com/alnah/go-aliyun/pkg/apierr"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK             = 0
	ExitGeneral        = 1
	ExitUsage          = 2
	ExitSetup          = 3
	ExitRejected       = 4
	ExitRequestFailure = 5
	ExitInternal       = 6
	ExitInterrupt      = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()
	rootCmd := cli.RootCmd(env, fmt.Sprintf("%s (commit: %s)", version, commit))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// reportError prints err and, for rejections, the provider's recommendation.
func reportError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, "Error:", err)
	if r, ok := apierr.RejectionOf(err); ok && r.Recommend != "" && r.Recommend != apierr.AbsentField {
		_, _ = fmt.Fprintln(w, "Recommend:", r.Recommend)
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Provider messages may contain usage-like phrases; classify them first.
	switch {
	case errors.Is(err, apierr.ErrRejected):
		return ExitRejected
	case errors.Is(err, apierr.ErrRequestFailure):
		return ExitRequestFailure
	case errors.Is(err, apierr.ErrInternal):
		return ExitInternal
	}

	if isCobraUsageError(err) || errors.Is(err, cli.ErrInvalidParam) || errors.Is(err, config.ErrUnknownKey) {
		return ExitUsage
	}

	if errors.Is(err, cli.ErrCredentialsMissing) || errors.Is(err, cli.ErrInvalidConfig) ||
		errors.Is(err, config.ErrInvalidValue) || errors.Is(err, config.ErrUnknownProfile) {
		return ExitSetup
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",          // Missing required flag
	"unknown flag",           // Flag doesn't exist
	"unknown shorthand",      // Short flag doesn't exist
	"unknown command",        // Subcommand doesn't exist
	"flag needs an argument", // Flag provided without value
	"invalid argument",       // Invalid flag value type
	"accepts ",               // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",      // Too few arguments
	"requires at most",       // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
