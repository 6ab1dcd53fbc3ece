package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/handiism/discography/internal/config"
	"github.com/handiism/discography/internal/discography"
	"github.com/handiism/discography/internal/model"
	"github.com/handiism/discography/internal/release"
	"github.com/handiism/discography/internal/repository"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		typeFilter string
		yearFilter string
		asJSON     bool
		tzOffset   float64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the discography",
		Long: `Prints the home page arrangement of the discography: upcoming releases
(or the newest release) first, then everything else newest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSite(func(settings *config.Settings) {
				if cmd.Flags().Changed("tz") {
					settings.ReleaseTZOffset = &tzOffset
				}
			})
			if err != nil {
				return err
			}

			albums := discography.FilterByType(s.Repository.Albums(cmd.Context()), typeFilter)
			albums = discography.FilterByYear(albums, yearFilter, s.Classifier)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(albums)
			}

			if len(albums) == 0 {
				if s.Repository.State() == repository.StateFailed {
					fmt.Fprintln(out, discography.DefaultLabels().LoadError)
				} else {
					fmt.Fprintln(out, discography.DefaultLabels().NoMatches)
				}
				return nil
			}

			printHome(out, discography.Newest(albums, s.Classifier), s.Classifier)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFilter, "type", "t", "", "Only show one release type (album, ep, single, feature)")
	cmd.Flags().StringVarP(&yearFilter, "year", "y", "", "Only show releases from one year (e.g. 2019)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print view models as JSON")
	cmd.Flags().Float64Var(&tzOffset, "tz", 0, "UTC offset in hours for release dates (overrides config)")

	return cmd
}

func printHome(w io.Writer, home discography.Home, c release.Classifier) {
	if home.HighlightTitle != "" {
		fmt.Fprintln(w, home.HighlightTitle)
		fmt.Fprintln(w, strings.Repeat("━", len([]rune(home.HighlightTitle))))
		for _, a := range home.Highlight {
			printAlbum(w, a, c)
		}
		fmt.Fprintln(w)
	}
	for _, a := range home.Rest {
		printAlbum(w, a, c)
	}
}

func printAlbum(w io.Writer, a model.AlbumViewModel, c release.Classifier) {
	line := fmt.Sprintf("  %s — %s", a.Title, discography.MetaLine(a, c))
	if badge := discography.Badge(a); badge != "" {
		line += " [" + badge + "]"
	}
	fmt.Fprintln(w, line)

	if tagline := discography.Tagline(a); tagline != "" {
		fmt.Fprintf(w, "    %s\n", tagline)
	}
	if link := discography.CanonicalLink(a); link != "" {
		fmt.Fprintf(w, "    %s\n", link)
	}
}
