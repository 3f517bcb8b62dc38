package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/inference"
	"github.com/funvibe/typeinfer/internal/utils"
)

// app holds state shared by the subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	color      string
	nullable   bool
	record     string
	dump       bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "typeinfer",
		Short: "Infer generic type arguments for declared calls",
		Long: `typeinfer reads scenario files that declare types and calls of generic
methods, infers the type arguments of every call and reports the result.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to typeinfer.yaml (default: searched upward from the working directory)")
	flags.StringVar(&a.logLevel, "log-level", "", "one of debug, info, warn, error")
	flags.StringVar(&a.color, "color", "", "colour output: auto, always or never")
	flags.BoolVar(&a.nullable, "nullable", true, "track nullability annotations")

	root.AddCommand(a.runCmd(), a.checkCmd(), a.historyCmd())
	return root
}

// setup loads the configuration, applies flag overrides and installs the
// logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.configPath
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			return err
		}
		path = found
	}
	if path == "" {
		a.cfg = config.Default()
	} else {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return err
		}
		// A record path in the file is relative to the file.
		if cfg.Record != "" {
			cfg.Record = utils.ResolvePath(filepath.Dir(path), cfg.Record)
		}
		a.cfg = cfg
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if flags.Changed("color") {
		a.cfg.Color = a.color
	}
	if flags.Changed("nullable") {
		a.cfg.IncludeNullability = a.nullable
	}
	if flags.Changed("record") {
		a.cfg.Record = a.record
	}
	if flags.Changed("dump") {
		a.cfg.Dump = a.dump
	}
	switch a.cfg.LogLevel {
	case config.LogLevelDebug, config.LogLevelInfo, config.LogLevelWarn, config.LogLevelError:
	default:
		return fmt.Errorf("--log-level %q is not one of debug, info, warn, error", a.cfg.LogLevel)
	}

	// Logs go to stderr; stdout carries the report.
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: a.cfg.SlogLevel()}))
	inference.SetLogger(a.logger)
	if path != "" {
		a.logger.Debug("loaded config", "path", path)
	}
	return nil
}

// scenarioFiles expands directories into the scenario files they contain.
func scenarioFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && utils.HasScenarioExt(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", strings.Join(args, ", "))
	}
	return files, nil
}
