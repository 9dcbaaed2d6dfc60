package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dreamware/rendezvous/internal/rendezvous"
)

func newSendCmd(a *agent) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <command...>",
		Short: "Relay a command through the coordinator",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := rendezvous.CommandText(strings.Join(args, " "))
			err := a.client.SendCommand(cmd.Context(), rendezvous.CommandRequest{
				UserID:   a.text("user-id"),
				Username: a.text("username"),
				Command:  &command,
			})
			if rendezvous.IsNotFound(err) {
				return fmt.Errorf("coordinator does not relay commands (presence-only)")
			}
			if err != nil {
				return fmt.Errorf("send command: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
	addIdentityFlags(cmd.Flags())
	return cmd
}

func newPollCmd(a *agent) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Print commands newer than a timestamp, optionally following the log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			since := a.v.GetInt64("since")
			if !a.v.GetBool("follow") {
				_, err := a.pollOnce(cmd, since)
				return err
			}

			interval := a.v.GetDuration("interval")
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				next, err := a.pollOnce(cmd, since)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "poll failed: %v\n", err)
				} else {
					since = next
				}

				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().Int64("since", 0, "only commands with a timestamp strictly greater than this (ms)")
	cmd.Flags().Bool("follow", false, "keep polling, advancing the watermark")
	cmd.Flags().Duration("interval", 2*time.Second, "time between polls with --follow")
	return cmd
}

// pollOnce prints commands newer than since and returns the new watermark:
// the greatest timestamp seen, or since when nothing newer arrived.
func (a *agent) pollOnce(cmd *cobra.Command, since int64) (int64, error) {
	cmds, err := a.client.CommandsSince(cmd.Context(), since)
	if rendezvous.IsNotFound(err) {
		return since, fmt.Errorf("coordinator does not relay commands (presence-only)")
	}
	if err != nil {
		return since, fmt.Errorf("poll commands: %w", err)
	}
	if err := a.printCommands(cmd.OutOrStdout(), cmds); err != nil {
		return since, err
	}
	return watermark(since, cmds), nil
}

func watermark(since int64, cmds []rendezvous.CommandEntry) int64 {
	for _, c := range cmds {
		if c.Timestamp > since {
			since = c.Timestamp
		}
	}
	return since
}

func (a *agent) printCommands(w io.Writer, cmds []rendezvous.CommandEntry) error {
	if a.asJSON() {
		if len(cmds) == 0 {
			return nil
		}
		return writeJSON(w, cmds)
	}
	for _, c := range cmds {
		if _, err := fmt.Fprintf(w, "[%s] %s (%s): %s\n",
			formatMillis(c.Timestamp), c.Username, c.UserID, c.Command); err != nil {
			return err
		}
	}
	return nil
}
