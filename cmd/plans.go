package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ktakeda/loadplan/config"
	"github.com/ktakeda/loadplan/core/model"
	"github.com/ktakeda/loadplan/store"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Stored plan commands",
}

var plansLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored plans",
	RunE:  runPlansLs,
}

var plansRmCmd = &cobra.Command{
	Use:   "rm <plan-id>",
	Short: "Delete a stored plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlansRm,
}

func init() {
	plansCmd.AddCommand(plansLsCmd)
	plansCmd.AddCommand(plansRmCmd)
	rootCmd.AddCommand(plansCmd)
}

func openStore() (store.PlanStore, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Store.Backend != "sqlite" {
		return nil, fmt.Errorf("plans commands need the sqlite store backend")
	}
	return store.NewSQLiteStore(cfg.Store.Path)
}

func runPlansLs(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	headers, err := st.List(context.Background())
	if err != nil {
		return err
	}
	for _, h := range headers {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s ~ %s  %s  trips=%d unloaded=%d\n",
			h.ID, model.DateKey(h.PeriodStart), model.DateKey(h.PeriodEnd),
			h.Status, h.Summary.TotalTrips, h.Summary.UnloadedCount)
	}
	return nil
}

func runPlansRm(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return st.Delete(context.Background(), args[0])
}
