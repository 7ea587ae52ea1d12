package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/selah/internal/export"
	"github.com/Simplici0/selah/internal/migrations"
	"github.com/Simplici0/selah/internal/pricing"
	"github.com/Simplici0/selah/internal/seed"
)

const shutdownTimeout = 10 * time.Second

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "selah",
		Short: "Inventario de materiales y precios de pulseras",
		Long: `selah registra materiales de joyería, calcula el precio de venta de
pulseras y mantiene los catálogos de materiales y pulseras.

Examples:
  selah serve
  selah quote --thread nylon --item PER-01:10 --item CUA-07:4
  selah export bracelets --out pulseras.csv`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newExportCmd(opts),
		newQuoteCmd(opts),
	)
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, opts.verbose)
			if err != nil {
				return err
			}
			defer a.Close()

			return runServe(ctx, a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	if a.cfg.IsDev() {
		if _, err := migrations.Up(ctx, a.db, a.dialect, a.logger); err != nil {
			return fmt.Errorf("run database migrations: %w", err)
		}
	}

	stats, err := seed.Run(ctx, a.db, a.dialect, seedConfig(a))
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	a.logger.Info("seed completed", zap.Int("inserts", stats.Inserts), zap.Int("skipped", stats.Skipped))

	auth, err := newAuthService(a.store, a.cfg.SessionSecret)
	if err != nil {
		return err
	}
	if a.cfg.SessionSecret == "" {
		a.logger.Warn("using a random session secret; sessions end on restart")
	}

	srv, err := newServer(a.store, auth, a.engine, a.options, a.logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func seedConfig(a *app) seed.Config {
	return seed.Config{
		AdminEmail:    a.cfg.AdminEmail,
		AdminPassword: a.cfg.AdminPassword,
		Suppliers:     a.options.Suppliers,
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), opts.verbose)
			if err != nil {
				return err
			}
			defer a.Close()

			applied, err := migrations.Up(cmd.Context(), a.db, a.dialect, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migraciones aplicadas\n", applied)
			return nil
		},
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the admin user and the default suppliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), opts.verbose)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := seed.Run(cmd.Context(), a.db, a.dialect, seedConfig(a))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d registros insertados\n", stats.Inserts)
			return nil
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:       "export materials|bracelets",
		Short:     "Write a catalog as CSV",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"materials", "bracelets"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts.verbose)
			if err != nil {
				return err
			}
			defer a.Close()

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			switch args[0] {
			case "materials":
				materials, err := a.store.ListMaterials(cmd.Context())
				if err != nil {
					return err
				}
				return export.Materials(w, materials)
			case "bracelets":
				bracelets, err := a.store.ListBracelets(cmd.Context())
				if err != nil {
					return err
				}
				return export.Bracelets(w, bracelets)
			default:
				return fmt.Errorf("unknown catalog %q (use materials or bracelets)", args[0])
			}
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	var (
		thread string
		items  []string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a bracelet with material costs from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := parseQuoteArgs(thread, items)
			if err != nil {
				return err
			}

			a, err := bootstrap(cmd.Context(), opts.verbose)
			if err != nil {
				return err
			}
			defer a.Close()

			result := a.engine.Compute(req, a.store.CostLookup(cmd.Context(), a.logger))
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&thread, "thread", "", "thread type: none, nylon or black")
	cmd.Flags().StringArrayVar(&items, "item", nil, "material and quantity as ID:QTY (repeatable, max 5)")
	return cmd
}

func parseQuoteArgs(thread string, items []string) (pricing.Request, error) {
	req := pricing.NewRequest()

	t, err := pricing.ParseThreadType(thread)
	if err != nil {
		return pricing.Request{}, err
	}
	req.Thread = t

	if len(items) > pricing.MaxSelections {
		return pricing.Request{}, fmt.Errorf("at most %d items are allowed, got %d", pricing.MaxSelections, len(items))
	}
	for i, item := range items {
		sep := strings.LastIndex(item, ":")
		if sep <= 0 {
			return pricing.Request{}, fmt.Errorf("item %q must be ID:QTY", item)
		}
		id := strings.TrimSpace(item[:sep])
		qty, err := strconv.Atoi(strings.TrimSpace(item[sep+1:]))
		if err != nil || qty < 0 || id == "" {
			return pricing.Request{}, fmt.Errorf("item %q must be ID:QTY with a non-negative quantity", item)
		}
		req.Selections[i] = pricing.Select(id, qty)
	}
	return req, nil
}

func printResult(w io.Writer, r pricing.Result) {
	fmt.Fprintf(w, "Costo materiales:  %s\n", r.MaterialCost.StringFixed(2))
	fmt.Fprintf(w, "Costos fijos:      %s\n", r.FixedCost.StringFixed(2))
	fmt.Fprintf(w, "Marketing:         %s\n", r.Marketing.StringFixed(2))
	fmt.Fprintf(w, "Costo total:       %s\n", r.TotalCost().StringFixed(2))
	fmt.Fprintf(w, "Precio real:       %s\n", r.FinalPrice.StringFixed(2))
	fmt.Fprintf(w, "Clasificación:     %s (%s)\n", r.Tier, r.TierReferencePrice.StringFixed(2))
}
