package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dreamware/rendezvous/internal/rendezvous"
)

const envPrefix = "RENDEZVOUS"

// agent carries what every subcommand needs once flags are resolved.
type agent struct {
	v      *viper.Viper
	client *rendezvous.Client
}

func newRootCmd() *cobra.Command {
	a := &agent{v: viper.New()}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "rendezvous-agent",
		Short:         "Report presence to and relay commands through a rendezvous coordinator",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			server := a.v.GetString("server")
			if server == "" {
				return fmt.Errorf("--server must not be empty")
			}
			a.client = rendezvous.NewClient(server, rendezvous.WithHTTPClient(&http.Client{
				Timeout: a.v.GetDuration("timeout"),
			}))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("server", "http://localhost:8080", "coordinator base URL")
	flags.Duration("timeout", 5*time.Second, "per-request timeout")
	flags.Bool("json", false, "print raw JSON instead of text")

	rootCmd.AddCommand(
		newPresenceCmd(a),
		newHeartbeatCmd(a),
		newOnlineCmd(a),
		newSendCmd(a),
		newPollCmd(a),
	)
	return rootCmd
}

// addIdentityFlags registers the flags that identify the reporting user.
func addIdentityFlags(fs *pflag.FlagSet) {
	fs.String("user-id", "", `stable user identity (coordinator default: "unknown")`)
	fs.String("username", "", `display name (coordinator default: "unknown")`)
}

// addWhereaboutsFlags registers the optional context/location flags.
func addWhereaboutsFlags(fs *pflag.FlagSet) {
	fs.String("context", "", "what the user is doing, e.g. a game id")
	fs.String("location", "", "where within the context, e.g. a place id")
}

// text turns an unset option into nil so the coordinator applies its default.
func (a *agent) text(key string) *rendezvous.Text {
	v := a.v.GetString(key)
	if v == "" {
		return nil
	}
	t := rendezvous.Text(v)
	return &t
}

// opaque sends a non-empty option as a JSON string and leaves it out otherwise.
func (a *agent) opaque(key string) rendezvous.Opaque {
	v := a.v.GetString(key)
	if v == "" {
		return nil
	}
	return rendezvous.OpaqueText(v)
}

func (a *agent) presenceReport() rendezvous.PresenceReport {
	return rendezvous.PresenceReport{
		UserID:     a.text("user-id"),
		Username:   a.text("username"),
		ContextID:  a.opaque("context"),
		LocationID: a.opaque("location"),
	}
}

func (a *agent) asJSON() bool {
	return a.v.GetBool("json")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orNull(v rendezvous.Opaque) string {
	if len(v) == 0 {
		return "-"
	}
	return v.String()
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
