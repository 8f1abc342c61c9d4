package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vango-dev/routestate/internal/config"
	"github.com/vango-dev/routestate/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.CodeOf(err) != "" {
			errors.Fprint(os.Stderr, err)
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// app carries the state shared by all commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "routestate",
		Short: "Typed route state from declarative route configurations",
		Long: `routestate compiles a declarative route configuration into the set of
endpoint templates it accepts and the typed param state navigation fills.

Route configurations are JSON or YAML files, or objects in S3 given as
s3://bucket/key. The serve command exposes a router over HTTP with live
state updates over WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "Config file (default ./routestate.yaml)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		compileCmd(a),
		stateCmd(a),
		matchCmd(a),
		serveCmd(a),
		versionCmd(),
	)

	return rootCmd
}

// setup resolves the tool configuration for cmd from its flags, the
// environment and the config file.
func (a *app) setup(cmd *cobra.Command) error {
	if a.noColor {
		errors.DisableColors()
	}
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	if err := config.ReadFile(a.v, a.configFile, "."); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Log.NewLogger(cmd.ErrOrStderr())
	return nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
