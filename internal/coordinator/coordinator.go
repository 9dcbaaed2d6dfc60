//go:generate go run go.uber.org/mock/mockgen -source=coordinator.go -destination=../mocks/mock_service.go -package=mocks

// Package coordinator implements the rendezvous coordinator's state model.
// See doc.go for complete package documentation.
package coordinator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dreamware/rendezvous/internal/commandlog"
	"github.com/dreamware/rendezvous/internal/presence"
)

// Service is the contract the HTTP layer serves.
type Service interface {
	ReportPresence(report PresenceReport) []presence.Entry
	SnapshotPresence() []presence.Entry
	AppendCommand(req CommandRequest) error
	ListCommandsSince(since int64) ([]commandlog.Entry, error)
	CommandsEnabled() bool
}

// PresenceReport is a decoded presence report. Nil fields take their defaults.
// ContextID and LocationID are raw JSON; nil or a JSON null means absent.
type PresenceReport struct {
	UserID     *string
	Username   *string
	ContextID  json.RawMessage
	LocationID json.RawMessage
	Timestamp  *int64
}

// CommandRequest is a decoded command append. Nil fields take their defaults;
// Command must be non-empty after trimming.
type CommandRequest struct {
	UserID    *string
	Username  *string
	Command   *string
	Timestamp *int64
}

// Options configures a Coordinator.
type Options struct {
	// Clock supplies the time used for defaulted timestamps and presence
	// expiry. Defaults to time.Now.
	Clock func() time.Time

	// CommandLogCapacity bounds the command log. Zero means
	// commandlog.DefaultCapacity.
	CommandLogCapacity int

	// PresenceTTL expires presence entries older than now-TTL when
	// ExpireStale runs. Zero keeps entries forever.
	PresenceTTL time.Duration

	// CommandsEnabled turns the command relay on. When false the coordinator
	// is presence-only.
	CommandsEnabled bool
}

// DefaultOptions returns the options of the full coordinator: command relay on,
// 200-entry log, no presence expiry.
func DefaultOptions() Options {
	return Options{
		Clock:              time.Now,
		CommandLogCapacity: commandlog.DefaultCapacity,
		CommandsEnabled:    true,
	}
}

// Coordinator owns the presence table and the command log.
// Thread-safe: every operation is atomic with respect to the store it touches.
type Coordinator struct {
	presence *presence.Table
	commands *commandlog.Log
	validate *validator.Validate
	log      *slog.Logger
	clock    func() time.Time
	ttl      time.Duration
	relay    bool
}

// New creates a coordinator with empty stores.
func New(log *slog.Logger, opts Options) (*Coordinator, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.CommandLogCapacity == 0 {
		opts.CommandLogCapacity = commandlog.DefaultCapacity
	}
	if opts.PresenceTTL < 0 {
		return nil, fmt.Errorf("presence TTL must not be negative, got %s", opts.PresenceTTL)
	}

	commands, err := commandlog.New(opts.CommandLogCapacity)
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		presence: presence.NewTable(),
		commands: commands,
		validate: validator.New(),
		log:      log,
		clock:    opts.Clock,
		ttl:      opts.PresenceTTL,
		relay:    opts.CommandsEnabled,
	}, nil
}

// ReportPresence applies defaults to report, replaces the caller's presence
// entry and returns the whole table afterwards.
func (c *Coordinator) ReportPresence(report PresenceReport) []presence.Entry {
	entry := presence.Entry{
		UserID:     userIDOrDefault(report.UserID),
		Username:   usernameOrDefault(report.Username),
		ContextID:  optionalRef(report.ContextID),
		LocationID: optionalRef(report.LocationID),
		Timestamp:  timestampOrNow(report.Timestamp, c.nowMillis),
	}
	c.presence.Upsert(entry)

	c.log.Info("presence reported",
		"username", entry.Username,
		"userId", entry.UserID,
		"contextId", displayRef(entry.ContextID))

	return c.presence.Snapshot()
}

// SnapshotPresence returns every presence entry without mutating anything.
func (c *Coordinator) SnapshotPresence() []presence.Entry {
	return c.presence.Snapshot()
}

// validatedCommand holds the rules checked before a command is appended.
// Identity fields are not validated: an explicit empty userId is a valid key.
type validatedCommand struct {
	Command string `validate:"required"`
}

// AppendCommand validates req and appends it to the command log. It returns
// *ValidationError when the trimmed command is empty and ErrCommandsDisabled in
// presence-only mode; in both cases the log is untouched.
func (c *Coordinator) AppendCommand(req CommandRequest) error {
	if !c.relay {
		return ErrCommandsDisabled
	}

	entry := commandlog.Entry{
		UserID:    userIDOrDefault(req.UserID),
		Username:  usernameOrDefault(req.Username),
		Command:   commandText(req.Command),
		Timestamp: timestampOrNow(req.Timestamp, c.nowMillis),
	}
	if err := c.validateCommand(entry); err != nil {
		return err
	}

	if c.commands.Append(entry) {
		c.log.Debug("command log full, evicted oldest entry", "capacity", c.commands.Cap())
	}
	c.log.Info("command relayed", "username", entry.Username, "command", entry.Command)
	return nil
}

// ListCommandsSince returns retained commands newer than since, oldest
// inserted first.
func (c *Coordinator) ListCommandsSince(since int64) ([]commandlog.Entry, error) {
	if !c.relay {
		return nil, ErrCommandsDisabled
	}
	return c.commands.Since(since), nil
}

// CommandsEnabled reports whether the command relay is on.
func (c *Coordinator) CommandsEnabled() bool {
	return c.relay
}

// ExpireStale removes presence entries older than the configured TTL and
// returns how many were removed. It is a no-op when no TTL is set.
func (c *Coordinator) ExpireStale() int {
	if c.ttl <= 0 {
		return 0
	}
	cutoff := c.clock().Add(-c.ttl).UnixMilli()
	return c.presence.RemoveOlderThan(cutoff)
}

// PresenceTTL returns the configured presence TTL.
func (c *Coordinator) PresenceTTL() time.Duration {
	return c.ttl
}

func (c *Coordinator) validateCommand(entry commandlog.Entry) error {
	err := c.validate.Struct(validatedCommand{Command: entry.Command})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Field() == "Command" {
		return &ValidationError{Field: "command", Message: "no command"}
	}
	return fmt.Errorf("validate command: %w", err)
}

func (c *Coordinator) nowMillis() int64 {
	return c.clock().UnixMilli()
}

func displayRef(v json.RawMessage) string {
	if v == nil {
		return "null"
	}
	return string(v)
}
