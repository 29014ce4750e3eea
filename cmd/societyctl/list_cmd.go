package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/listing"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/service"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/societyapi"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var tab, search, month, year, sort, deal, category string

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "List records the way the console's list page does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, spec, err := resourceSpec(args[0])
			if err != nil {
				return err
			}
			q := url.Values{}
			for name, v := range map[string]string{
				"tab": tab, "search": search, "month": month, "year": year,
				"sort": sort, "deal": deal, "category": category,
			} {
				if v != "" {
					q.Set(name, v)
				}
			}
			if tab != "" && !spec.HasTab(tab) {
				return fmt.Errorf("%s has no %q tab", resource, tab)
			}
			f := listing.FilterFromQuery(spec, q)

			_, client, err := opts.loggedIn(cmd)
			if err != nil {
				return err
			}
			records, err := service.FetchRecords(cmd.Context(), client, resource, f)
			if err != nil {
				return explain(err)
			}
			return write(cmd.OutOrStdout(), opts.output, records, recordTable(records, time.Now()))
		},
	}

	cmd.Flags().StringVar(&tab, "tab", "", "Status tab")
	cmd.Flags().StringVar(&search, "search", "", "Free-text search")
	cmd.Flags().StringVar(&month, "month", "", "Payments: month 1-12")
	cmd.Flags().StringVar(&year, "year", "", "Payments: year")
	cmd.Flags().StringVar(&sort, "sort", "", "Payments: newest, oldest, amount_high or amount_low")
	cmd.Flags().StringVar(&deal, "deal", "", "Coupons: owning deal id")
	cmd.Flags().StringVar(&category, "category", "", "Deals: category id")
	return cmd
}

type shown struct {
	Record  domain.Record   `json:"record"`
	Related []domain.Record `json:"related,omitempty"`
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var deal string

	cmd := &cobra.Command{
		Use:   "show <resource> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, spec, err := resourceSpec(args[0])
			if err != nil {
				return err
			}
			_, client, err := opts.loggedIn(cmd)
			if err != nil {
				return err
			}

			rec, related, err := service.GetRecord(cmd.Context(), client, resource, args[1])
			if errors.Is(err, service.ErrNoRecordEndpoint) {
				f := listing.DefaultFilter(spec)
				if spec.HasTab(listing.TabAll) {
					f.Tab = listing.TabAll
				}
				f = f.With(spec, "deal", deal)
				rec, err = findRecord(cmd.Context(), client, resource, f, args[1])
			}
			if err != nil {
				return explain(err)
			}

			now := time.Now()
			out := shown{Record: rec, Related: related}
			return write(cmd.OutOrStdout(), opts.output, out, func(tw *tabwriter.Writer) {
				recordTable([]domain.Record{rec}, now)(tw)
				if len(related) > 0 {
					fmt.Fprintln(tw)
					recordTable(related, now)(tw)
				}
			})
		},
	}
	cmd.Flags().StringVar(&deal, "deal", "", "Coupons: owning deal id")
	return cmd
}

// findRecord looks id up in a list, for resources without a single-record
// endpoint.
func findRecord(ctx context.Context, client *societyapi.Client, resource domain.Resource, f listing.Filter, id string) (domain.Record, error) {
	records, err := service.FetchRecords(ctx, client, resource, f)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.RecordID() == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", resource, id, domain.ErrNotFound)
}

func resourceSpec(name string) (domain.Resource, listing.ResourceSpec, error) {
	resource, err := domain.ParseResource(name)
	if err != nil {
		return "", listing.ResourceSpec{}, fmt.Errorf("%w: %q", err, name)
	}
	spec, ok := listing.SpecFor(resource)
	if !ok {
		return "", listing.ResourceSpec{}, fmt.Errorf("%w: %q", domain.ErrUnknownResource, name)
	}
	return resource, spec, nil
}
