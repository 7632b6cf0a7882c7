package cli

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/ComNetsHH/FlowEmu/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// flags holds the raw values of the root command's flags.
type flags struct {
	configPaths     []string
	broker          string
	clientID        string
	logFormat       string
	logLevel        string
	logFile         string
	healthcheckPort int
	headless        bool
	snapshot        string
	watch           bool
}

// Parse processes command-line arguments. It returns a populated Config for
// the editor, a boolean indicating if the program should exit cleanly (help
// or a subcommand already ran), or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	var cfg *app.Config
	root := newRootCmd(&cfg)
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if cfg == nil {
		return nil, true, nil
	}
	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

func newRootCmd(out **app.Config) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "flowedit",
		Short: "flowedit - a terminal node editor for FlowEmu",
		Long: `flowedit edits a FlowEmu emulation graph over its message bus.

Nodes, links and parameter values are mirrored to and from the FlowEmu
backend using the get/set topic trees. The node library is built in and can
be extended with HCL files passed through --config.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config()
			if err != nil {
				return err
			}
			*out = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&f.configPaths, "config", "c", nil, "HCL file or directory merged over the built-in node library. Repeatable.")

	fl := root.Flags()
	fl.StringVar(&f.broker, "broker", "", "Broker URL, e.g. tcp://localhost:1883 or http://localhost:8000. Overrides the config file.")
	fl.StringVar(&f.clientID, "client-id", "", "Client id presented to the broker. Generated when empty.")
	fl.StringVar(&f.logFormat, "log-format", "json", "Log output format. Options: 'text' or 'json'.")
	fl.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fl.StringVar(&f.logFile, "log-file", "", "Write logs to this file. Without it, logs are dropped while the terminal editor runs.")
	fl.IntVar(&f.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	fl.BoolVar(&f.headless, "headless", false, "Mirror the graph without the terminal editor.")
	fl.StringVar(&f.snapshot, "snapshot", "", "Write the graph document to this file on shutdown.")
	fl.BoolVar(&f.watch, "watch", false, "Reload the node library when --config files change.")

	root.AddCommand(newLibraryCmd(f), newMatchCmd())
	return root
}

// config validates the flags into an app.Config.
func (f *flags) config() (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		ConfigPaths:     f.configPaths,
		BrokerURL:       f.broker,
		ClientID:        f.clientID,
		LogFormat:       strings.ToLower(f.logFormat),
		LogLevel:        strings.ToLower(f.logLevel),
		LogFile:         f.logFile,
		HealthcheckPort: f.healthcheckPort,
		Headless:        f.headless,
		SnapshotPath:    f.snapshot,
		Watch:           f.watch,
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}
