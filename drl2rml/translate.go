// =============================================================================
// translate.go - Command File Translation
// =============================================================================
//
// describe turns an RML-1 command file into readable text:
//
//	$ drl2rml describe rnl1-T1.out
//	// (1) ^IN;F 15;M 10,20;!ZM -2;!ZM 1;!MC 0;
//	Call Mode 2: Initialize ();
//	Set velocity (15);
//	...
//
// Translation runs in-process by default. With --socket it is delegated to
// a running "drl2rml serve", which is how editors share one translator.
// Both ways sit behind the backend interface, also used by the REPL.
//
// =============================================================================

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/maiereni/drl2rml/rmlprotocol"
	"github.com/maiereni/drl2rml/service"
)

// GO CONCEPT: Small Interfaces
// ----------------------------
// backend names only the three operations the REPL and describe need.
// localBackend and remoteBackend satisfy it without declaring so; callers
// never learn whether a socket is involved. Small interfaces defined by the
// consumer, not the producer, are the usual Go style.
//
// Compare with Python: a typing.Protocol class listing the same methods.

// backend translates and generates commands.
type backend interface {
	Lines(text string) ([]string, error)
	Generate(name string, args ...string) (string, error)
	SetLocale(locale string) error
	Locale() string
}

// localBackend runs the translator in-process.
type localBackend struct {
	tr *rmlprotocol.Translator
}

func newLocalBackend(locale string) *localBackend {
	return &localBackend{tr: rmlprotocol.NewTranslator(locale)}
}

func (b *localBackend) Lines(text string) ([]string, error) {
	return b.tr.Lines(text)
}

func (b *localBackend) Generate(name string, args ...string) (string, error) {
	return rmlprotocol.GenerateByName(name, args...)
}

func (b *localBackend) SetLocale(locale string) error {
	b.tr.Locale = locale
	return nil
}

func (b *localBackend) Locale() string {
	return b.tr.Locale
}

// remoteBackend forwards to a translator service.
type remoteBackend struct {
	client *service.Client
	locale string
}

// connectBackend connects to the service at socketPath, or to the most
// recent one when socketPath is "auto".
func connectBackend(socketPath, locale string) (*remoteBackend, error) {
	client := service.NewClient()
	var err error
	if socketPath == "auto" {
		err = client.DiscoverAndConnect(context.Background())
	} else {
		err = client.Connect(socketPath)
	}
	if err != nil {
		return nil, err
	}
	b := &remoteBackend{client: client}
	if err := b.SetLocale(locale); err != nil {
		client.Disconnect()
		return nil, err
	}
	return b, nil
}

func (b *remoteBackend) Lines(text string) ([]string, error) {
	return b.client.Translate(text)
}

func (b *remoteBackend) Generate(name string, args ...string) (string, error) {
	return b.client.Generate(name, args...)
}

func (b *remoteBackend) SetLocale(locale string) error {
	if err := b.client.SetLocale(locale); err != nil {
		return err
	}
	b.locale = locale
	return nil
}

func (b *remoteBackend) Locale() string {
	return b.locale
}

func (b *remoteBackend) Close() {
	b.client.Disconnect()
}

// describeStream echoes every input line as a "// (n) line" comment
// followed by its descriptions, CRLF terminated.
func describeStream(w io.Writer, r io.Reader, b backend) error {
	scanner := bufio.NewScanner(r)
	bw := bufio.NewWriter(w)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		fmt.Fprintf(bw, "// (%d) %s%s", n, line, rmlprotocol.LineBreak)
		described, err := b.Lines(line)
		if err != nil {
			bw.Flush()
			return fmt.Errorf("line %d: %w", n, err)
		}
		for _, d := range described {
			fmt.Fprint(bw, d, rmlprotocol.LineBreak)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

func newDescribeCommand(opts *options) *cobra.Command {
	var locale, socketPath, output string
	cmd := &cobra.Command{
		Use:   "describe [file]",
		Short: "Translate an RML-1 command file into readable text",
		Long:  "Translate an RML-1 command file (or standard input) into readable text.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("locale") {
				locale = opts.profile.Locale
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			if socketPath == "" {
				text, err := rmlprotocol.NewTranslator(locale).TranslateReader(in)
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, text)
				return err
			}

			remote, err := connectBackend(socketPath, locale)
			if err != nil {
				return err
			}
			defer remote.Close()
			return describeStream(out, in, remote)
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "description language (en, fr)")
	cmd.Flags().StringVar(&socketPath, "socket", "", `translate via a running service ("auto" to discover)`)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
