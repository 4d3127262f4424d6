package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
	"github.com/foodapp/storefront/internal/core/service"
	"github.com/foodapp/storefront/internal/infrastructure/telemetry"
	"github.com/foodapp/storefront/internal/infrastructure/upstream"
	"github.com/foodapp/storefront/pkg/logger"
)

var trackFlags struct {
	orderServiceURL string
	token           string
	interval        time.Duration
	timeout         time.Duration
}

// storefront track <orderID>
var trackCmd = &cobra.Command{
	Use:   "track <orderID>",
	Short: "Follow an order until it is completed or cancelled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id < 1 {
			return fmt.Errorf("invalid order id %q", args[0])
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return track(ctx, cmd, id)
	},
}

func init() {
	f := trackCmd.Flags()
	f.StringVar(&trackFlags.orderServiceURL, "order-service", envOr("ORDER_SERVICE_URL", "http://localhost:8083"), "order service base URL")
	f.StringVar(&trackFlags.token, "token", os.Getenv("STOREFRONT_TOKEN"), "order service bearer token")
	f.DurationVar(&trackFlags.interval, "interval", 30*time.Second, "poll interval")
	f.DurationVar(&trackFlags.timeout, "timeout", 10*time.Second, "request timeout")
}

func track(ctx context.Context, cmd *cobra.Command, id int64) error {
	log := logger.Init(logger.Options{Level: "warn", Pretty: true, Output: os.Stderr})

	orders := upstream.NewOrderClient(trackFlags.orderServiceURL, telemetry.NewHTTPClient(nil, trackFlags.timeout))
	fetch := func(ctx context.Context, orderID int64) (*domain.Order, error) {
		return orders.Get(ctx, trackFlags.token, orderID)
	}
	tracker := service.NewOrderTracker(trackFlags.interval, nil, log)

	updates := make(chan ports.TrackUpdate)
	done := make(chan error, 1)
	go func() { done <- tracker.Track(ctx, id, nil, fetch, updates) }()

	out := cmd.OutOrStdout()
	for {
		select {
		case u := <-updates:
			fmt.Fprintln(out, describe(u))
		case err := <-done:
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		}
	}
}

func describe(u ports.TrackUpdate) string {
	p := u.Progress
	if p.Cancelled {
		return fmt.Sprintf("order #%d: cancelled", u.Order.ID)
	}
	if p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Steps) {
		return fmt.Sprintf("order #%d: %s", u.Order.ID, u.Order.Status)
	}
	step := p.Steps[p.CurrentIndex]
	return fmt.Sprintf("order #%d: [%d/%d] %s - %s", u.Order.ID, p.CurrentIndex+1, len(p.Steps), step.Title, step.Description)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
