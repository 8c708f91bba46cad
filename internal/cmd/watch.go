package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
)

// WatchCmd keeps metadata reconciled while plan files change
type WatchCmd struct {
	Quiet bool `help:"Do not print change events" short:"q"`
}

// Run executes the watch command
func (w *WatchCmd) Run(cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dirs := cli.Container.Settings.PlanDirectories()
	logging.Logger.Info("Executing watch command", "directories", dirs)

	if err := w.reconcile(ctx, cli); err != nil {
		return err
	}
	if !w.Quiet {
		fmt.Printf("Watching %d plan directories (Ctrl+C to stop)\n", len(dirs))
	}

	err := cli.Container.Watcher.Watch(ctx, dirs, func(change domain.PlanChange) {
		if !w.Quiet {
			fmt.Printf("%s %s\n", change.Kind, change.Filename)
		}
		// A failed pass is retried on the next change
		if err := w.reconcile(ctx, cli); err != nil {
			logging.Logger.Warn("Reconciliation failed", "plan", change.Filename, "error", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to watch plan directories: %w", err)
	}
	return nil
}

func (w *WatchCmd) reconcile(ctx context.Context, cli *CLI) error {
	plans, err := cli.Container.PlanService.ListPlans(ctx)
	if err != nil {
		return fmt.Errorf("failed to reconcile plans: %w", err)
	}
	logging.Logger.Debug("Reconciled plans", "count", len(plans))
	return nil
}
