package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funvibe/typeinfer/internal/report"
	"github.com/funvibe/typeinfer/internal/scenario"
	"github.com/funvibe/typeinfer/internal/store"
)

func (a *app) addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.record, "record", "", "sqlite database that receives one row per call")
	cmd.Flags().BoolVar(&a.dump, "dump", false, "print the raw result of every call")
}

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file-or-dir>...",
		Short: "Infer and report the type arguments of every call",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.evaluate(cmd.Context(), args)
			return err
		},
	}
	a.addRunFlags(cmd)
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file-or-dir>...",
		Short: "Like run, but fail when a call does not meet its expectations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes, err := a.evaluate(cmd.Context(), args)
			if err != nil {
				return err
			}
			r := report.New(a.stdout, a.cfg.Color)
			if n := r.Mismatches(scenario.CheckAll(outcomes)); n > 0 {
				return fmt.Errorf("%d expectation(s) not met", n)
			}
			return nil
		},
	}
	a.addRunFlags(cmd)
	return cmd
}

// evaluate runs every scenario in args, writes the report and records the
// outcomes when a database is configured.
func (a *app) evaluate(ctx context.Context, args []string) ([]scenario.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	files, err := scenarioFiles(args)
	if err != nil {
		return nil, err
	}

	var db *store.Store
	if a.cfg.Record != "" {
		db, err = store.Open(a.cfg.Record)
		if err != nil {
			return nil, err
		}
		defer db.Close()
	}

	r := report.New(a.stdout, a.cfg.Color)
	opts := scenario.Options{IncludeNullability: a.cfg.IncludeNullability}
	var all []scenario.Outcome
	for _, path := range files {
		f, err := scenario.Load(path)
		if err != nil {
			return nil, err
		}
		outcomes, err := scenario.Run(f, opts)
		if err != nil {
			return nil, err
		}
		a.logger.Info("evaluated scenario", "scenario", f.Name, "calls", len(outcomes))

		r.Outcomes(f.Name, outcomes)
		if a.cfg.Dump {
			r.Dump(outcomes)
		}
		if db != nil {
			if err := db.RecordOutcomes(ctx, outcomes); err != nil {
				return nil, err
			}
		}
		all = append(all, outcomes...)
	}
	r.Summary(all)
	return all, nil
}
