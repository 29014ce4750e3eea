package main

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/validation"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var in domain.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with an admin CNIC and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				in.Password = strings.TrimRight(line, "\r\n")
			}
			if err := validation.Login(in); err != nil {
				return err
			}

			tf, client, err := opts.session(cmd)
			if err != nil {
				return err
			}
			token, err := client.Login(cmd.Context(), in.CNIC, in.Password)
			if err != nil {
				return explain(err)
			}
			tf.Set(token)
			if err := tf.Save(); err != nil {
				return err
			}

			name := in.CNIC
			if me, err := client.Me(cmd.Context()); err == nil && me.FullName != "" {
				name = me.FullName
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.CNIC, "cnic", "", "Admin CNIC number (required)")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("cnic")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, _, err := opts.session(cmd)
			if err != nil {
				return err
			}
			tf.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := opts.loggedIn(cmd)
			if err != nil {
				return err
			}
			me, err := client.Me(cmd.Context())
			if err != nil {
				return explain(err)
			}
			return write(cmd.OutOrStdout(), opts.output, me, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "NAME\t%s\n", me.FullName)
				fmt.Fprintf(tw, "CNIC\t%s\n", me.CNIC)
				if me.Email != "" {
					fmt.Fprintf(tw, "EMAIL\t%s\n", me.Email)
				}
				if me.Role != "" {
					fmt.Fprintf(tw, "ROLE\t%s\n", me.Role)
				}
			})
		},
	}
}
