// =============================================================================
// server.go - Translator Service
// =============================================================================
//
// serve runs the translator behind a Unix socket so editors and scripts
// can describe and generate commands without starting a process per line:
//
//	$ drl2rml serve &
//	$ drl2rml repl --socket auto
//
// The socket is /tmp/drl2rml-<pid>.sock unless --socket names another
// path. "--socket auto" on the clients picks the most recent one. The
// service stops on SIGINT/SIGTERM and removes its socket file.
//
// =============================================================================

package main

import (
	"github.com/spf13/cobra"

	"github.com/maiereni/drl2rml/service"
)

func newServeCommand(opts *options) *cobra.Command {
	var socketPath, locale string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the translator service on a Unix socket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("locale") {
				locale = opts.profile.Locale
			}
			if socketPath == "" {
				socketPath = service.CurrentSocketPath()
			}

			srv := service.NewServer(locale, version)
			srv.Logger = opts.logger
			opts.logger.Info("translator service listening", "socket", socketPath, "locale", locale)
			return srv.ListenAndServe(cmd.Context(), socketPath)
		},
	}
	cmd.Flags().StringVar(&socketPath, "socket", "", "socket path (default /tmp/drl2rml-<pid>.sock)")
	cmd.Flags().StringVar(&locale, "locale", "", "default description language (en, fr)")
	return cmd
}
