// =============================================================================
// watch.go - Regenerate on Change
// =============================================================================
//
// watch generates once, then again every time the drill file is saved,
// until interrupted. The directory is watched rather than the file itself:
// CAD tools often replace the file through a rename, which would end a
// watch on the old inode.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDelay collapses the burst of events of a single save.
const watchDelay = 200 * time.Millisecond

// GO CONCEPT: select with Timers
// ------------------------------
// select waits on several channels at once. A nil channel is never ready,
// so "fire" stays silent until a change arms the timer; every further
// change re-arms it, and onChange runs once the file has been quiet for
// the delay.
//
// Compare with Python: asyncio.wait() over the watcher queue and a
// cancellable asyncio.sleep() task.

// watchFile calls onChange after path is created or written, debounced by
// delay, until ctx is done.
func watchFile(ctx context.Context, path string, delay time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}

func newWatchCommand(opts *options) *cobra.Command {
	var flags routingFlags
	cmd := &cobra.Command{
		Use:   "watch <file.drl>",
		Short: "Regenerate the command files whenever the drill file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j := newJob(cmd, opts, &flags, args[0])
			generate := func() {
				run, err := j.run()
				if err != nil {
					j.logger.Error("generation failed", "file", j.source, "err", err)
					return
				}
				renderRun(cmd.OutOrStdout(), run)
				j.record(run)
			}

			generate()
			j.logger.Info("watching for changes", "file", j.source)
			return watchFile(cmd.Context(), j.source, watchDelay, generate)
		},
	}
	flags.register(cmd)
	return cmd
}
