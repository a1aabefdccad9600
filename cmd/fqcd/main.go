// Command fqcd evaluates the Fibonacci-Quantum Cosmological Dynamics formulas
// from the terminal, serves them over HTTP and keeps saved snapshots.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/fi-verse/internal/config"
	"github.com/talgya/fi-verse/internal/export"
	"github.com/talgya/fi-verse/internal/fqcd"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	v       *viper.Viper
	cfgFile string
	format  string

	cfg  *config.Config
	calc *fqcd.Calculator
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:          "fqcd",
		Short:        "Fibonacci-Quantum Cosmological Dynamics calculator",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./fqcd.yaml, then ~/.config/fqcd/fqcd.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("db", "", "snapshot database path")
	pf.StringVarP(&a.format, "format", "f", "text", "output format: text, json, yaml or csv")
	a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	a.v.BindPFlag("db.path", pf.Lookup("db"))

	root.AddCommand(constantsCmd(a))
	root.AddCommand(omegaCmd(a))
	root.AddCommand(phiCmd(a))
	root.AddCommand(rotationCmd(a))
	root.AddCommand(curveCmd(a))
	root.AddCommand(hubbleCmd(a))
	root.AddCommand(compareCmd(a))
	root.AddCommand(tensionCmd(a))
	root.AddCommand(serveCmd(a))
	root.AddCommand(cockpitCmd(a))
	root.AddCommand(snapshotCmd(a))

	return root
}

// load reads configuration, installs the default logger and builds the
// calculator from the configured constant table.
func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if a.format != "text" {
		if _, err := export.ParseFormat(a.format); err != nil {
			return err
		}
	}

	slog.SetDefault(cfg.Log.Logger(logOut))
	slog.Debug("configuration loaded",
		"config", a.v.ConfigFileUsed(),
		"db", cfg.DB.Path,
		"phi", cfg.Constants.Phi,
	)

	a.cfg = cfg
	a.calc = fqcd.New(cfg.Constants)
	return nil
}

// emit writes v in the selected structured format, or calls text for the
// default human-readable rendering.
func (a *app) emit(w io.Writer, v any, text func(io.Writer)) error {
	if a.format == "text" {
		text(w)
		return nil
	}
	f, err := export.ParseFormat(a.format)
	if err != nil {
		return err
	}
	if err := export.Write(w, f, v); err != nil {
		return fmt.Errorf("write %s: %w", f, err)
	}
	return nil
}
