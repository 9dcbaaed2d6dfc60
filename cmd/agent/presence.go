package main

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dreamware/rendezvous/internal/rendezvous"
)

func newPresenceCmd(a *agent) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Report presence once and print who is online",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			online, err := a.client.ReportPresence(cmd.Context(), a.presenceReport())
			if err != nil {
				return fmt.Errorf("report presence: %w", err)
			}
			return a.printOnline(cmd.OutOrStdout(), online)
		},
	}
	addIdentityFlags(cmd.Flags())
	addWhereaboutsFlags(cmd.Flags())
	return cmd
}

func newHeartbeatCmd(a *agent) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heartbeat",
		Short: "Report presence on an interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interval := a.v.GetDuration("interval")
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				// A failed beat is reported and retried on the next tick.
				online, err := a.client.ReportPresence(cmd.Context(), a.presenceReport())
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "heartbeat failed: %v\n", err)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s heartbeat ok, %d online\n",
						time.Now().UTC().Format(time.RFC3339), len(online))
				}

				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	addIdentityFlags(cmd.Flags())
	addWhereaboutsFlags(cmd.Flags())
	cmd.Flags().Duration("interval", 15*time.Second, "time between reports")
	return cmd
}

func newOnlineCmd(a *agent) *cobra.Command {
	return &cobra.Command{
		Use:   "online",
		Short: "Print who is online without reporting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			online, err := a.client.Online(cmd.Context())
			if err != nil {
				return fmt.Errorf("list online: %w", err)
			}
			return a.printOnline(cmd.OutOrStdout(), online)
		},
	}
}

func (a *agent) printOnline(w io.Writer, online []rendezvous.PresenceEntry) error {
	if a.asJSON() {
		return writeJSON(w, online)
	}
	if len(online) == 0 {
		_, err := fmt.Fprintln(w, "nobody online")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"User ID", "Username", "Context", "Location", "Seen"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, e := range online {
		table.Append([]string{e.UserID, e.Username, orNull(e.ContextID), orNull(e.LocationID), formatMillis(e.Timestamp)})
	}
	table.Render()
	return nil
}
