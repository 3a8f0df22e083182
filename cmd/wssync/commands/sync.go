package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wssync/wssync/internal/syncer"
	"github.com/wssync/wssync/internal/workspace"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one forward sync pass",
	Long: `Resolve the workspace hierarchy and write each folder's
.vscode/settings.json. Folders whose artifact already matches are skipped.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	path, err := findWorkspace()
	if err != nil {
		return err
	}
	doc, err := workspace.Load(path)
	if err != nil {
		return err
	}

	written := syncer.Forward(doc)
	fmt.Printf("%d artifact(s) updated\n", written)
	return nil
}
