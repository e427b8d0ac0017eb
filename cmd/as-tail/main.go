package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"rsc.io/getopt"

	"github.com/kabili207/asakusa-tools/internal/config"
	"github.com/kabili207/asakusa-tools/pkg/api"
	"github.com/kabili207/asakusa-tools/pkg/metrics"
	"github.com/kabili207/asakusa-tools/pkg/models"
)

const shutdownTimeout = 10 * time.Second

func main() {

	cfg := config.Load()

	fs := getopt.NewFlagSet(os.Args[0], flag.ExitOnError)
	cfg.RegisterFlags(fs)

	metricsAddrPtr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	jsonPtr := fs.Bool("json", false, "print each message as a JSON line")
	fs.Alias("j", "json")

	fs.Parse(os.Args[1:])

	if err := cfg.Validate(true); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := cfg.Logger()
	m := metrics.NewMetrics()

	client, err := api.NewClient(cfg.RootURL, cfg.APIKey, api.WithLogger(logger), api.WithMetrics(m))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx := context.Background()
	p, err := client.MessagePusher(ctx, cfg.RoomID)
	if err != nil {
		fmt.Println("Error fetching service info:", err)
		os.Exit(1)
	}
	if p == nil {
		fmt.Println("This server's message pusher is not supported")
		os.Exit(1)
	}

	out := newPrinter(os.Stdout, client, *jsonPtr)
	p.OnMessageCreate(func(msg models.Message) {
		if err := out.Print(msg); err != nil {
			logger.WithError(err).Warn("Unable to print message")
		}
	})

	if err := p.Connect(ctx); err != nil {
		fmt.Println("Error connecting to message pusher:", err)
		os.Exit(1)
	}
	logger.WithField("room_id", cfg.RoomID).Info("Listening for messages")

	operations := map[string]gfshutdown.Operation{
		"pusher": func(ctx context.Context) error {
			return p.Close()
		},
	}

	if *metricsAddrPtr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv := &http.Server{Addr: *metricsAddrPtr, Handler: mux}

		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("Metrics server failed")
			}
		}()
		operations["metrics"] = func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		}
	}

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, operations)

	select {
	case exitCode := <-wait:
		os.Exit(exitCode)
	case <-p.Done():
		if err := p.Err(); err != nil {
			fmt.Println("Message pusher disconnected:", err)
			os.Exit(1)
		}
	}
}
