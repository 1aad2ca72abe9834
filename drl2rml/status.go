// =============================================================================
// status.go - Drill File Inspection
// =============================================================================
//
// status prints what a drill file contains before anything is generated:
//
//	$ drl2rml status board.drl
//	board.drl
//	  X: 10.2 - 74.5  (64.3 mm)
//	  Y: 3.8 - 41  (37.2 mm)
//	  T1 0.8mm     112 holes
//	  T2 1mm       16 holes
//
// preview renders the drilled board as an STL solid for a quick visual
// check in any mesh viewer.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/maiereni/drl2rml/drill"
	"github.com/maiereni/drl2rml/toolpath"
)

// readEvents tokenizes a drill file with the profile offsets.
func readEvents(path string, p profile, opts *options) ([]drill.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := drill.NewTokenizer(p.OffsetX, p.OffsetY)
	tok.Legacy = p.Legacy
	tok.Logger = opts.logger
	events, err := tok.TokenizeReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// holeCounts counts the holes drilled by every declared tool.
func holeCounts(status drill.Status, events []drill.Event) map[string]int {
	counts := make(map[string]int, len(status.Tools))
	for _, tool := range status.Tools {
		counts[tool.ID] = len(toolpath.CollectPath(tool, events).Holes)
	}
	return counts
}

func newStatusCommand(opts *options) *cobra.Command {
	var legacy bool
	cmd := &cobra.Command{
		Use:   "status <file.drl>",
		Short: "Show the bounding box and tools of a drill file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := opts.profile
			if cmd.Flags().Changed("legacy") {
				p.Legacy = legacy
			}
			events, err := readEvents(args[0], p, opts)
			if err != nil {
				return err
			}
			status := drill.NewStatus(events)
			renderStatus(cmd.OutOrStdout(), args[0], status, holeCounts(status, events))
			return nil
		},
	}
	cmd.Flags().BoolVar(&legacy, "legacy", false, "drop drill lines with unreadable numbers")
	return cmd
}

func newPreviewCommand(opts *options) *cobra.Command {
	var output string
	previewOpts := toolpath.DefaultPreviewOptions()
	cmd := &cobra.Command{
		Use:   "preview <file.drl>",
		Short: "Render the drilled board as an STL solid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := readEvents(args[0], opts.profile, opts)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			n, err := toolpath.Preview(w, events, previewOpts)
			if err != nil {
				return err
			}
			opts.logger.Info("preview written", "file", output, "triangles", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "board.stl", `STL file, "-" for stdout`)
	cmd.Flags().Float64Var(&previewOpts.Thickness, "thickness", previewOpts.Thickness, "board thickness in mm")
	cmd.Flags().Float64Var(&previewOpts.Margin, "margin", previewOpts.Margin, "border around the outermost holes in mm")
	cmd.Flags().IntVar(&previewOpts.Cells, "cells", previewOpts.Cells, "mesh resolution along the longest side")
	return cmd
}
