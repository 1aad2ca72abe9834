// =============================================================================
// generate.go - Drill File to Command Files
// =============================================================================
//
// generate reads an Excellon drill file, builds one RML-1 toolpath per
// declared tool and writes:
//
//	rnl1-T<n>.out      command text of tool n (skipped when it drills nothing)
//	Instructions.txt   "<label>=<file>" per tool, CRLF terminated, so the
//	                   operator knows which bit goes with which file
//
// Each run gets a uuid and is recorded in the journal (see history.go).
//
// =============================================================================

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/maiereni/drl2rml/drill"
	"github.com/maiereni/drl2rml/journal"
	"github.com/maiereni/drl2rml/toolpath"
)

// instructionsFile lists the tool of every output file.
const instructionsFile = "Instructions.txt"

// job is one resolved generation request.
type job struct {
	source      string
	outDir      string
	args        toolpath.RoutingArguments
	legacy      bool
	journalPath string
	logger      *slog.Logger
}

// newJob resolves profile and flags into a job for source.
func newJob(cmd *cobra.Command, opts *options, flags *routingFlags, source string) job {
	args, p := flags.apply(cmd, opts.profile)
	outDir := p.Out
	if outDir == "" {
		outDir = filepath.Dir(source)
	}
	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}
	return job{
		source:      source,
		outDir:      outDir,
		args:        args,
		legacy:      p.Legacy,
		journalPath: p.journalPath(),
		logger:      logger,
	}
}

// events tokenizes the drill file with the job's offsets.
func (j job) events() ([]drill.Event, error) {
	f, err := os.Open(j.source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := drill.NewTokenizer(j.args.OffsetX, j.args.OffsetY)
	tok.Legacy = j.legacy
	tok.Logger = j.logger
	events, err := tok.TokenizeReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", j.source, err)
	}
	return events, nil
}

// run generates and writes every output file.
func (j job) run() (journal.Run, error) {
	events, err := j.events()
	if err != nil {
		return journal.Run{}, err
	}

	asm := toolpath.NewAssembler()
	asm.Logger = j.logger
	result, err := asm.Generate(events, j.args)
	if err != nil {
		return journal.Run{}, fmt.Errorf("%s: %w", j.source, err)
	}

	run := journal.Run{
		ID:       journal.NewRunID(),
		Time:     time.Now(),
		Source:   j.source,
		Output:   j.outDir,
		Stepping: j.args.Stepping,
		Z0:       j.args.Z0,
		Z1:       j.args.Z1,
	}
	run.Tools, err = writeOutputs(j.outDir, result, run.ID, j.logger)
	if err != nil {
		return journal.Run{}, err
	}
	return run, nil
}

// record appends run to the journal. A journal failure never fails the
// run, the outputs are already written.
func (j job) record(run journal.Run) {
	if j.journalPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(j.journalPath), 0755); err != nil {
		j.logger.Warn("journal not updated", "err", err)
		return
	}
	jr, err := journal.Open(j.journalPath)
	if err != nil {
		j.logger.Warn("journal not updated", "path", j.journalPath, "err", err)
		return
	}
	defer jr.Close()
	if _, err := jr.Record(run); err != nil {
		j.logger.Warn("journal not updated", "path", j.journalPath, "err", err)
	}
}

// writeOutputs writes the command file of every tool with holes plus the
// instructions file, and returns what was written.
func writeOutputs(dir string, result *toolpath.Result, runID string, logger *slog.Logger) ([]journal.ToolRun, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var tools []journal.ToolRun
	var instructions strings.Builder
	fmt.Fprintf(&instructions, "# run %s\r\n", runID)
	for _, e := range result.Entries() {
		label := e.Tool.Label()
		t := journal.ToolRun{Label: label, Holes: e.Holes, Blocks: e.Blocks}
		if e.Holes > 0 {
			t.File = toolpath.FileName(label)
			if err := os.WriteFile(filepath.Join(dir, t.File), []byte(e.Text), 0644); err != nil {
				return nil, err
			}
			fmt.Fprintf(&instructions, "%s=%s\r\n", label, t.File)
			logger.Debug("wrote output", "tool", label, "file", t.File, "holes", e.Holes)
		} else {
			logger.Info("tool drills nothing, no file written", "tool", label)
		}
		tools = append(tools, t)
	}

	path := filepath.Join(dir, instructionsFile)
	if err := os.WriteFile(path, []byte(instructions.String()), 0644); err != nil {
		return nil, err
	}
	return tools, nil
}

func newGenerateCommand(opts *options) *cobra.Command {
	var flags routingFlags
	cmd := &cobra.Command{
		Use:   "generate <file.drl>",
		Short: "Write one RML-1 command file per drill tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j := newJob(cmd, opts, &flags, args[0])
			run, err := j.run()
			if err != nil {
				return err
			}
			renderRun(cmd.OutOrStdout(), run)
			j.record(run)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
