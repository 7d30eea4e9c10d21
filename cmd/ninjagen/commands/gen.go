package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ninjagen/internal/app"
)

func (c *CLI) newGenCmd() *cobra.Command {
	var manifest string
	var root string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Emit the Ninja files for a build manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.GenerateFromManifest(cmd.Context(), app.GenerateOptions{
				ManifestPath: manifest,
				RootPath:     root,
				Quiet:        quiet,
			})
		},
	}
	cmd.Flags().StringVarP(&manifest, "manifest", "m", "build.yaml", "Build manifest to load")
	cmd.Flags().StringVar(&root, "root", ".", "Source root the virtual paths map to")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress per-target progress output")
	return cmd
}
