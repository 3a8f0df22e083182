package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wssync/wssync/internal/resolver"
	"github.com/wssync/wssync/internal/workspace"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <folder>",
	Short: "Print the resolved settings for a folder",
	Long: `Print the settings a folder's artifact should contain, exactly as
forward sync would write them. Useful for debugging precedence questions.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	path, err := findWorkspace()
	if err != nil {
		return err
	}
	doc, err := workspace.Load(path)
	if err != nil {
		return err
	}
	folder, err := doc.FolderByPath(args[0])
	if err != nil {
		return err
	}

	data, err := workspace.MarshalArtifact(resolver.Resolve(doc, folder))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
