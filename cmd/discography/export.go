package main

import (
	"fmt"

	"github.com/handiism/discography/internal/config"
	"github.com/handiism/discography/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write albums.json and cover thumbnails to a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSite(func(settings *config.Settings) {
				if outDir != "" {
					settings.ExportPath = outDir
				}
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			manager := s.Exporter(func(event export.ProgressEvent) {
				if event.Level == export.LevelVerbose && !verboseMode {
					return
				}

				prefix := ""
				switch event.Level {
				case export.LevelError:
					prefix = "✗ "
				case export.LevelWarning:
					prefix = "! "
				case export.LevelSuccess:
					prefix = "✓ "
				case export.LevelInfo:
					prefix = "› "
				default:
					prefix = "  "
				}

				fmt.Fprintln(out, prefix+event.Message)
			})

			albums := s.Repository.Albums(cmd.Context())
			if cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}

			result, err := manager.Export(cmd.Context(), albums)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Done: %d albums, %d thumbnails, %d failed\n", result.Albums, result.Thumbnails, result.Failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (overrides config)")

	return cmd
}
