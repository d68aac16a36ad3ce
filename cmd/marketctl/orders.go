package main

import (
	"fmt"
	"time"

	"farmlink-be/internal/checkout"
	"farmlink-be/internal/events"
	"farmlink-be/internal/order"
	"farmlink-be/internal/payment"

	"github.com/spf13/cobra"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Order maintenance tasks",
	}
	cmd.AddCommand(newSweepCmd())
	return cmd
}

// marketctl orders sweep [--older-than 2h] [--dry-run]
func newSweepCmd() *cobra.Command {
	var (
		olderThan time.Duration
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Cancel pending orders that never got a payment session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := bootDB()
			if err != nil {
				return err
			}
			defer database.Close()

			if olderThan <= 0 {
				olderThan = cfg.OrderPendingTTL
			}
			ctx := cmd.Context()
			orders := order.NewRepository(database)

			if dryRun {
				ids, err := orders.ListStalePending(ctx, time.Now().UTC().Add(-olderThan))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d orphaned order(s) older than %s\n", len(ids), olderThan)
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}

			publisher := events.NewPublisher(cfg.KafkaBrokers)
			defer publisher.Close()

			svc := checkout.NewService(checkout.Deps{
				Orders:   orders,
				Payments: payment.NewRepository(database),
				Events:   publisher,
				Currency: cfg.Currency,
			})

			ids, err := svc.SweepOrphans(ctx, olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled %d orphaned order(s)\n", len(ids))
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "age after which a pending order is orphaned (default ORDER_PENDING_TTL)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list orphaned orders without cancelling them")
	return cmd
}
