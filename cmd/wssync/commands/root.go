// Package commands provides the CLI commands for wssync.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wssync/wssync/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	workspaceFlag string
	logLevel      string
	prettyLogs    bool
)

var rootCmd = &cobra.Command{
	Use:   "wssync",
	Short: "wssync - keep multi-root workspace settings and folder artifacts in sync",
	Long: `wssync keeps a multi-root workspace file consistent with the per-folder
.vscode/settings.json files the editor reads.

Run 'wssync sync' for a one-shot forward pass, 'wssync capture' to fold a
folder's edited settings back into the workspace file, or 'wssync watch' to
keep both directions in sync continuously.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env next to the caller lets projects pin e.g. WSSYNC_LOG_LEVEL.
		_ = godotenv.Load()
		if v := os.Getenv("WSSYNC_LOG_LEVEL"); v != "" && !cmd.Flags().Changed("log-level") {
			logLevel = v
		}
		logging.Init(logging.Config{
			Level:  logging.ParseLevel(logLevel),
			Pretty: prettyLogs,
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Path to the workspace file (default: the single *.code-workspace in the current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty", false, "Human-readable log output")

	rootCmd.SetVersionTemplate(fmt.Sprintf("wssync %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(watchCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// findWorkspace resolves the workspace file from the flag or by scanning the
// working directory.
func findWorkspace() (string, error) {
	if workspaceFlag != "" {
		return filepath.Abs(workspaceFlag)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	matches, err := filepath.Glob(filepath.Join(cwd, "*.code-workspace"))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no *.code-workspace file in %s (use --workspace)", cwd)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("multiple workspace files in %s, pick one with --workspace", cwd)
	}
}
