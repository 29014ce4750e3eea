package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/service"
)

func newBadgesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "Show the sidebar's pending counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, client, err := opts.loggedIn(cmd)
			if err != nil {
				return err
			}
			b := service.NewCounter(client, 0, opts.logger(cmd)).Poll(cmd.Context())
			if _, ok := tf.Token(); !ok {
				return explain(domain.ErrUnauthorized)
			}
			return write(cmd.OutOrStdout(), opts.output, b, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "SECTION\tPENDING\tTOTAL")
				fmt.Fprintf(tw, "Residents\t%d\t%d\n", b.Users.Count("pending"), b.Users.Total)
				fmt.Fprintf(tw, "Vehicle requests\t%d\t%d\n", b.VehicleRequests.Count("pending"), b.VehicleRequests.Total)
				fmt.Fprintf(tw, "Complaints\t%d\t%d\n", b.Complaints.Count("pending"), b.Complaints.Total)
				fmt.Fprintf(tw, "Payments\t%d\t%d\n", b.Payments.Count("pending"), b.Payments.Total)
				fmt.Fprintf(tw, "Digital cards\t%d\t%d\n", b.Cards.Pending, b.Cards.Total)
				fmt.Fprintf(tw, "Guest requests\t%d\t%d\n", b.Guests.Pending, b.Guests.Total)
			})
		},
	}
}
