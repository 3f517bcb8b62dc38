package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/funvibe/typeinfer/internal/store"
)

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <db> [scenario]",
		Short: "List recorded runs, optionally of one scenario",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, err := store.Open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			runs, err := db.Runs(ctx, name)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintln(a.stdout, historyLine(r))
			}
			return nil
		},
	}
}

func historyLine(r store.RunRecord) string {
	status := "ok"
	if !r.Success {
		status = "FAIL"
	}
	names := make([]string, 0, len(r.Types))
	for name := range r.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	types := make([]string, len(names))
	for i, name := range names {
		types[i] = name + "=" + r.Types[name]
	}
	return fmt.Sprintf("%s %s %s/%s %s [%s]",
		r.RecordedAt.UTC().Format(time.RFC3339), status, r.Scenario, r.Call, r.RunID, strings.Join(types, " "))
}
