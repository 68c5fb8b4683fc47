package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/benmeehan/fleetops/internal/api"
	"github.com/benmeehan/fleetops/internal/utils"
	"github.com/benmeehan/fleetops/pkg/encryption"
	"github.com/benmeehan/fleetops/pkg/file"
	"github.com/benmeehan/fleetops/pkg/session"
)

// app carries the dependencies shared by every command.
type app struct {
	configPath string
	jsonOutput bool

	config  *utils.Config
	logger  zerolog.Logger
	fileOps file.FileOperations
	store   *session.Store
	client  *api.Client
	out     io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "fleetops",
		Short:        "Operator console for the fleet operations API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "configs/config.yaml", "path to the configuration file")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "print raw JSON instead of tables")

	root.AddCommand(
		newLoginCmd(a),
		newSelectCompanyCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newCompaniesCmd(a),
		newDriversCmd(a),
		newDeliveriesCmd(a),
		newReceiptsCmd(a),
		newReportsCmd(a),
		newWatchCmd(a),
		newAgentCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	if a.client != nil {
		return nil
	}

	a.fileOps = file.NewFileService()
	config, err := utils.LoadConfig(a.configPath, a.fileOps)
	if err != nil {
		return err
	}
	a.config = config

	a.logger, err = newLogger(config.Log.Format, config.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	storage, err := newSessionStorage(config, a.fileOps)
	if err != nil {
		return err
	}
	a.store = session.NewStore(storage, a.logger)

	routes := make([]api.Route, 0, len(config.API.Routes))
	for prefix, baseURL := range config.API.Routes {
		routes = append(routes, api.Route{Prefix: prefix, BaseURL: baseURL})
	}
	a.client = api.NewClient(
		&http.Client{Timeout: config.API.Timeout},
		api.NewRouteTable(config.API.BaseURL, routes...),
		a.store,
		a.fileOps,
		a.logger,
	)
	return nil
}

func newLogger(format, level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var logger zerolog.Logger
	if format == "json" {
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}
	return logger.Level(lvl).With().Timestamp().Logger(), nil
}

// newSessionStorage keeps the session in memory unless a session file is configured.
func newSessionStorage(config *utils.Config, fileOps file.FileOperations) (session.Storage, error) {
	if config.Session.File == "" {
		return session.NewMemoryStorage(), nil
	}
	if config.Session.Passphrase == "" {
		return nil, errors.New("session.passphrase (or " + utils.EnvSessionPassphrase + ") is required with a session file")
	}

	manager, err := encryption.NewPassphraseManager(config.Session.Passphrase, "session")
	if err != nil {
		return nil, err
	}
	return session.NewFileStorage(config.Session.File, fileOps, manager)
}

// printJSON writes v indented.
func (a *app) printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(encoded))
	return err
}

// unwrap turns a failed envelope into a command error.
func unwrap[T any](env api.Envelope[T]) (T, error) {
	if err := env.Err(); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// queryFlag binds a command line flag to a backend query parameter.
type queryFlag struct {
	flag, param, usage string
}

var (
	periodFlags = []queryFlag{
		{"start-date", "startDate", "first day of the period (YYYY-MM-DD)"},
		{"end-date", "endDate", "last day of the period (YYYY-MM-DD)"},
	}
	pageFlags = []queryFlag{
		{"page", "page", "page number"},
		{"limit", "limit", "page size"},
	}
)

func addQueryFlags(cmd *cobra.Command, groups ...[]queryFlag) {
	for _, group := range groups {
		for _, q := range group {
			cmd.Flags().String(q.flag, "", q.usage)
		}
	}
}

// filtersFromFlags builds query filters in flag declaration order. Unset flags are skipped.
func filtersFromFlags(cmd *cobra.Command, groups ...[]queryFlag) *api.Filters {
	filters := api.NewFilters()
	for _, group := range groups {
		for _, q := range group {
			if value, err := cmd.Flags().GetString(q.flag); err == nil {
				filters.Set(q.param, value)
			}
		}
	}
	return filters
}

// loggingNotifier reports poller errors to the operator through the logger and stderr.
type loggingNotifier struct {
	logger zerolog.Logger
	w      io.Writer
}

func (n loggingNotifier) NotifyError(message string) {
	n.logger.Error().Str("notification", message).Msg("Operator notified")
	fmt.Fprintf(n.w, "error: %s\n", message)
}

func init() {
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
}
