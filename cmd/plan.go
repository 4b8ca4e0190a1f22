package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ktakeda/loadplan/app"
	"github.com/ktakeda/loadplan/config"
	"github.com/ktakeda/loadplan/core/model"
	"github.com/ktakeda/loadplan/infra/dataset"
	"github.com/ktakeda/loadplan/infra/logger"
)

var startDate string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a loading plan over the configured horizon",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&startDate, "start", "", "first day of the horizon (default today)")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	src, err := dataset.Load(dataPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	start := time.Now()
	if startDate != "" {
		start, err = time.Parse(model.DateLayout, startDate)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", startDate, err)
		}
	}

	svc, err := app.New(cfg, src, src)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("plan-command").Errorf("service close: %v", err)
		}
	}()

	planID, res, err := svc.RunPlan(ctx, start)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "plan %s (%s) status=%s\n", planID, res.Period, res.Summary.Status)
	for _, date := range res.Dates {
		day := res.DailyPlans[date]
		fmt.Fprintf(out, "%s:\n", date)
		for _, truck := range day.Trucks {
			fmt.Fprintf(out, "  %s trip %d (vol %.1f%% wt %.1f%%)\n",
				truck.TruckName, truck.TripNumber, truck.VolumeUtilization, truck.WeightUtilization)
			for _, item := range truck.LoadedItems {
				mark := ""
				if item.IsAdvanced {
					mark = fmt.Sprintf(" [前倒し %s]", model.DateKey(item.OriginalDate))
				}
				fmt.Fprintf(out, "    %s x%d (%d容器)%s\n",
					item.ProductCode, item.TotalQuantity, item.NumContainers, mark)
			}
		}
		for _, w := range day.Warnings {
			fmt.Fprintf(out, "  ! %s\n", w)
		}
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "! %s\n", w)
	}
	for _, u := range res.UnloadedTasks {
		fmt.Fprintf(out, "unloaded: %s x%d (%s)\n", u.ProductCode, u.TotalQuantity, u.Reason)
	}
	fmt.Fprintf(out, "days=%d trips=%d warnings=%d unloaded=%d avg=%.1f%% max=%.1f%%\n",
		res.Summary.TotalDays, res.Summary.TotalTrips, res.Summary.TotalWarnings,
		res.Summary.UnloadedCount, res.Summary.AvgVolumeUtilization, res.Summary.MaxVolumeUtilization)
	return nil
}
