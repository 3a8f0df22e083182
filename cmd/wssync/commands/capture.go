package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wssync/wssync/internal/syncer"
	"github.com/wssync/wssync/internal/workspace"
)

var captureCmd = &cobra.Command{
	Use:   "capture <folder>",
	Short: "Fold a folder's artifact edits back into the workspace file",
	Long: `Compare a folder's .vscode/settings.json against what forward sync
would produce and store the net difference in that folder's settings
override inside the workspace file.`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

func runCapture(cmd *cobra.Command, args []string) error {
	path, err := findWorkspace()
	if err != nil {
		return err
	}
	doc, err := workspace.Load(path)
	if err != nil {
		return err
	}

	changed, err := syncer.Reverse(doc, args[0])
	if err != nil {
		return err
	}
	if changed {
		fmt.Println("workspace file updated")
	} else {
		fmt.Println("nothing to capture")
	}
	return nil
}
