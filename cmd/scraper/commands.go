package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"aytoleon_scraper/internal/api"
	"aytoleon_scraper/internal/domain"
	"aytoleon_scraper/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the scheduled sync",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "scrape [eventos|agenda|avisos|noticias|all]",
		Short:     "Scrape one content type, or all of them, and store the results",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"eventos", "agenda", "avisos", "noticias", "all"},
		RunE:      runScrape,
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list <eventos|agenda|avisos|noticias>",
		Short:     "Print every stored record of a content type as JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"eventos", "agenda", "avisos", "noticias"},
		RunE:      runList,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(flagConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	server := api.NewServer(api.Config{
		Addr:              a.cfg.HTTP.Addr,
		ReadHeaderTimeout: a.cfg.HTTP.ReadHeaderTimeout,
	}, a.pipeline, a.metrics.Handler(), a.logger)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.HTTP.Addr)
		if err := server.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if a.cfg.Sync.Interval > 0 {
		sched := scheduler.NewScheduler(a.pipeline, a.cfg.Sync.Interval, a.cfg.Sync.RunTimeout, a.logger)
		go func() {
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("scheduler error", "error", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		a.logger.Info("received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	a, err := newApp(flagConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 || args[0] == "all" {
		report := a.pipeline.ScrapeAllAndSave(cmd.Context())
		if err := printJSON(report); err != nil {
			return err
		}
		if report.Failed() > 0 {
			return fmt.Errorf("%d content types failed", report.Failed())
		}
		return nil
	}

	ct, err := domain.ParseContentType(args[0])
	if err != nil {
		return err
	}

	report, err := a.pipeline.ScrapeAndSave(cmd.Context(), ct)
	if err != nil {
		return err
	}

	return printJSON(report)
}

func runList(cmd *cobra.Command, args []string) error {
	ct, err := domain.ParseContentType(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(flagConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.pipeline.GetAll(cmd.Context(), ct)
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.Record{}
	}

	return printJSON(records)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
