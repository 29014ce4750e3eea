package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/auth"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/config"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/societyapi"
)

type rootOptions struct {
	apiURL    string
	tokenFile string
	output    string
	verbose   bool

	api config.APIConfig
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaultURL := societyapi.DefaultBaseURL
	if cfg, err := config.Load(); err == nil {
		defaultURL = cfg.API.BaseURL
		opts.api = cfg.API
	}

	cmd := &cobra.Command{
		Use:           "societyctl",
		Short:         "Manage residents, requests and deals of the society admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case outputTable, outputJSON, outputYAML:
				return nil
			}
			return fmt.Errorf("invalid --output %q: want table, json or yaml", opts.output)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", defaultURL, "Society API base URL")
	cmd.PersistentFlags().StringVar(&opts.tokenFile, "token-file", defaultTokenFile(), "Where the admin token is kept")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "Output format: table, json or yaml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log API requests to stderr")

	cmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newBadgesCmd(opts),
	)
	for _, a := range cliActions {
		cmd.AddCommand(newActionCmd(opts, a))
	}
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "societyctl", "token.json")
}

func (o *rootOptions) logger(cmd *cobra.Command) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(cmd.ErrOrStderr())
	if !o.verbose {
		l.SetOutput(io.Discard)
	}
	l.SetLevel(logrus.DebugLevel)
	return l
}

// session opens the token file and a client reading from it. A 401 from the
// API clears the file through the client.
func (o *rootOptions) session(cmd *cobra.Command) (*auth.TokenFile, *societyapi.Client, error) {
	tf, err := auth.OpenTokenFile(o.tokenFile)
	if err != nil {
		return nil, nil, err
	}
	opts := []societyapi.Option{societyapi.WithLogger(o.logger(cmd))}
	if o.api.Timeout > 0 {
		opts = append(opts, societyapi.WithTimeout(o.api.Timeout))
	}
	client, err := societyapi.New(o.apiURL, tf, opts...)
	if err != nil {
		return nil, nil, err
	}
	return tf, client, nil
}

// loggedIn is session for commands that need a stored token.
func (o *rootOptions) loggedIn(cmd *cobra.Command) (*auth.TokenFile, *societyapi.Client, error) {
	tf, client, err := o.session(cmd)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := tf.Token(); !ok {
		return nil, nil, fmt.Errorf("not logged in: run %q first", "societyctl login")
	}
	return tf, client, nil
}
