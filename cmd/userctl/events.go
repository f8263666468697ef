package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"frontuser/internal/domain/auth"
)

func newEventsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events <identifier>",
		Short: "Show recent authentication events of an account identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, application, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			if application.AuthEvents == nil {
				return errors.New("authentication audit trail is disabled (auth.audit_events)")
			}

			events, err := application.AuthEvents.History(ctx, args[0], limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(events) == 0 {
				_, err = fmt.Fprintln(w, "no events")
				return err
			}
			for _, ev := range events {
				if _, err := fmt.Fprintln(w, formatEvent(ev)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events")
	return cmd
}

// formatEvent renders one event per line with details sorted by key.
func formatEvent(ev auth.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %-16s %s", ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.Identifier)

	keys := make([]string, 0, len(ev.Details))
	for k := range ev.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, ev.Details[k])
	}
	return b.String()
}
