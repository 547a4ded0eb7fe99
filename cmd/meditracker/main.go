package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vinay-852/MediTracker-Backend/internal/activity"
	"github.com/vinay-852/MediTracker-Backend/internal/auth"
	"github.com/vinay-852/MediTracker-Backend/internal/schedule"
	"github.com/vinay-852/MediTracker-Backend/internal/server"
	"github.com/vinay-852/MediTracker-Backend/internal/storage"

	"github.com/urfave/cli/v3"
)

func main() {
	root := &cli.Command{
		Name:     "meditracker",
		Usage:    "MediTracker schedule backend",
		Commands: []*cli.Command{serveCommand()},
	}
	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8080",
				Usage:   "listen address",
				Sources: cli.EnvVars("MEDITRACKER_ADDR"),
			},
			&cli.StringFlag{
				Name:    "db",
				Value:   "meditracker.db",
				Usage:   "path to the SQLite database",
				Sources: cli.EnvVars("MEDITRACKER_DB"),
			},
			&cli.StringFlag{
				Name:     "jwt-secret",
				Required: true,
				Usage:    "secret used to sign credentials",
				Sources:  cli.EnvVars("MEDITRACKER_JWT_SECRET"),
			},
			&cli.DurationFlag{
				Name:    "token-ttl",
				Value:   time.Hour,
				Usage:   "credential validity window",
				Sources: cli.EnvVars("MEDITRACKER_TOKEN_TTL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			db, err := storage.Open(cmd.String("db"))
			if err != nil {
				return err
			}

			tokens := auth.NewTokenService([]byte(cmd.String("jwt-secret")), cmd.Duration("token-ttl"))
			schedules := schedule.NewService(db)
			users := auth.NewService(db, tokens, auth.BcryptVerifier{}, schedules)
			logs := activity.NewService(db)

			srv := &http.Server{
				Addr:    cmd.String("addr"),
				Handler: server.NewRouter(users, logs, schedules, tokens),
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("listening on %s", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}
