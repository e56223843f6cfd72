package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	server "github.com/secmon-lab/triage/pkg/controller/http"
	"github.com/secmon-lab/triage/pkg/repository/memory"
	"github.com/secmon-lab/triage/pkg/usecase"
	"github.com/secmon-lab/triage/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		addr string
		seed bool
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the triage API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Sources:     cli.EnvVars("TRIAGE_ADDR"),
				Usage:       "Listen address (default: 127.0.0.1:8080)",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.BoolFlag{
				Name:        "seed",
				Usage:       "Seed the in-memory store with demo alerts",
				Sources:     cli.EnvVars("TRIAGE_SEED"),
				Destination: &seed,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			repo := memory.New()
			if seed {
				if err := seedDemoData(ctx, repo); err != nil {
					return err
				}
			}

			uc, err := usecase.New(ctx, repo, repo, repo)
			if err != nil {
				return err
			}

			httpServer := http.Server{
				Addr:              addr,
				Handler:           server.New(uc),
				ReadTimeout:       30 * time.Second,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			logging.From(ctx).Info("starting triage server", "addr", addr, "seed", seed)

			errCh := make(chan error, 1)
			go func() {
				defer close(errCh)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(ctx)
			}
		},
	}
}
