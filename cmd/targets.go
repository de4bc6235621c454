package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/svgscope-cli/internal/runner"
	"github.com/xkilldash9x/svgscope-cli/internal/svgfile"
)

// newTargetsCmd creates the `targets` command. It inspects files statically
// and never launches a browser.
func newTargetsCmd() *cobra.Command {
	targetsCmd := &cobra.Command{
		Use:   "targets [input]",
		Short: "Lists the addressable element ids in a local SVG or HTML file",
		Long: `Targets parses the input without a browser and lists every element id that
can be used as a measure or overlay target. For HTML documents the ids are
grouped per inline svg element.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := runner.Resolve(args[0])
			if err != nil {
				return err
			}
			if in.Path == "" {
				return fmt.Errorf("targets inspects local files; %s is remote", in.Raw)
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(filepath.Ext(in.Path)) {
			case ".svg":
				entries, err := svgfile.ListIDs(in.Path)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "no addressable ids found")
					return nil
				}
				for _, entry := range entries {
					fmt.Fprintf(out, "#%s\t<%s>\n", entry.ID, entry.Tag)
				}
			case ".html", ".htm":
				svgs, err := svgfile.InlineSVGs(in.Path)
				if err != nil {
					return err
				}
				if len(svgs) == 0 {
					fmt.Fprintln(out, "no inline svg elements found")
					return nil
				}
				for _, svg := range svgs {
					if svg.ID != "" {
						fmt.Fprintf(out, "svg #%s\n", svg.ID)
					} else {
						fmt.Fprintf(out, "svg [%d]\n", svg.Index)
					}
					for _, entry := range svg.IDs {
						fmt.Fprintf(out, "  #%s\t<%s>\n", entry.ID, entry.Tag)
					}
				}
			default:
				return fmt.Errorf("unsupported input type %s: targets reads .svg and .html files", filepath.Ext(in.Path))
			}
			return nil
		},
	}
	return targetsCmd
}
