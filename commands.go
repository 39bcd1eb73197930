package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"profilebook/middleware"
	"profilebook/profile"
	"profilebook/store"
)

const shutdownTimeout = 10 * time.Second

func newRouter(s profile.Store, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	profile.RegisterRoutes(mux, profile.HandlerDeps{Store: s})
	return middleware.Logger(logger)(mux)
}

func serveCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the profile form API over http",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8080",
				Sources: cli.EnvVars("PROFILEBOOK_ADDR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			server := &http.Server{
				Addr:    cmd.String("addr"),
				Handler: newRouter(s, a.logger),
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server is listening", slog.String("addr", server.Addr), slog.String("db", s.Location()))
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
}

func addCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "validate and store one profile, then print every stored profile",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name"},
			&cli.StringFlag{Name: "last-name"},
			&cli.StringFlag{Name: "age"},
			&cli.StringFlag{Name: "gender", Usage: fmt.Sprintf("one of %v", profile.GenderOptions)},
			&cli.StringFlag{Name: "phone"},
			&cli.StringFlag{Name: "email"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			form := profile.Form{
				Name:     cmd.String("name"),
				LastName: cmd.String("last-name"),
				Age:      cmd.String("age"),
				Gender:   cmd.String("gender"),
				Phone:    cmd.String("phone"),
				Email:    cmd.String("email"),
			}
			p, err := form.Validate()
			if err != nil {
				return err
			}

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.Insert(ctx, p)
			if err != nil {
				return fmt.Errorf("failed to add profile: %w", err)
			}
			a.logger.Debug("profile added", slog.Int64("id", id))

			profiles, err := s.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to list profiles: %w", err)
			}
			return printProfiles(a.out, profiles)
		},
	}
}

func listCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "print every stored profile",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			profiles, err := s.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to list profiles: %w", err)
			}
			return printProfiles(a.out, profiles)
		},
	}
}

func seedCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "store a number of random profiles",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Value: 10,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			count := int(cmd.Int("count"))
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			async := store.NewAsync(s)
			defer async.Wait()

			results := make([]<-chan store.InsertResult, 0, count)
			for i := 0; i < count; i++ {
				form, err := profile.Random()
				if err != nil {
					return err
				}
				p, err := form.Validate()
				if err != nil {
					return err
				}
				results = append(results, async.InsertAsync(ctx, p))
			}

			var errs []error
			for _, res := range results {
				if r := <-res; r.Err != nil {
					errs = append(errs, r.Err)
				}
			}
			if err := errors.Join(errs...); err != nil {
				return fmt.Errorf("failed to seed %d of %d profiles: %w", len(errs), count, err)
			}

			list := <-async.ListAllAsync(ctx)
			if list.Err != nil {
				return fmt.Errorf("failed to list profiles: %w", list.Err)
			}

			_, err = fmt.Fprintf(a.out, "seeded %d profiles, %d stored\n", count, len(list.Profiles))
			return err
		},
	}
}

func printProfiles(out io.Writer, profiles []store.Profile) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLAST NAME\tAGE\tGENDER\tPHONE\tEMAIL")
	for _, p := range profiles {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n", p.ID, p.Name, p.LastName, p.Age, p.Gender, p.Phone, p.Email)
	}
	return w.Flush()
}
