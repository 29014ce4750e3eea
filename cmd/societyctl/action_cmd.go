package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/service"
)

var cliActions = []domain.Action{
	domain.ActionApprove,
	domain.ActionReject,
	domain.ActionSuspend,
	domain.ActionActivate,
	domain.ActionReactivate,
	domain.ActionDelete,
	domain.ActionToggleFeatured,
	domain.ActionToggleActive,
}

func newActionCmd(opts *rootOptions, action domain.Action) *cobra.Command {
	var (
		reason string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   string(action) + " <resource> <id>",
		Short: service.ActionLabel(action) + " a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, _, err := resourceSpec(args[0])
			if err != nil {
				return err
			}
			info, ok := service.Lookup(resource, action)
			if !ok {
				return fmt.Errorf("%w: cannot %s %s", domain.ErrUnknownAction, action, resource)
			}
			if info.Destructive && !yes {
				yes, err = confirm(cmd, fmt.Sprintf("%s %s %s?", info.Label, resource, args[1]))
				if err != nil {
					return err
				}
			}

			_, client, err := opts.loggedIn(cmd)
			if err != nil {
				return err
			}
			d := service.NewDispatcher(client, nil, opts.logger(cmd))
			out, err := d.Dispatch(cmd.Context(), service.Mutation{
				Resource:  resource,
				Action:    action,
				ID:        args[1],
				Reason:    reason,
				Confirmed: yes,
			}, nil)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return explain(err)
				}
				return errors.New(out.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason shown to the resident (reject and suspend)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
