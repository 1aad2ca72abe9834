// =============================================================================
// history.go - Run Journal
// =============================================================================
//
// Every generate run is recorded in a bbolt database. history lists the
// recent runs, newest first, or shows one run given its id or a prefix of
// at least four characters:
//
//	$ drl2rml history
//	3f2a9c1e 2026-10-19 14:02  board.drl  2 tools, 128 holes
//	$ drl2rml history 3f2a
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/maiereni/drl2rml/journal"
)

func newHistoryCommand(opts *options) *cobra.Command {
	var limit int
	var journalFlag string
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List recorded generate runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := opts.profile
			if cmd.Flags().Changed("journal") {
				p.Journal = journalFlag
			}
			path := p.journalPath()
			if path == "" {
				return errors.New("journal disabled")
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			jr, err := journal.Open(path)
			if err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			defer jr.Close()

			if len(args) == 1 {
				run, err := jr.Get(args[0])
				if err != nil {
					return err
				}
				renderRunDetail(cmd.OutOrStdout(), run)
				return nil
			}

			runs, err := jr.Runs(limit)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list, 0 for all")
	cmd.Flags().StringVar(&journalFlag, "journal", "", "run journal database")
	return cmd
}
