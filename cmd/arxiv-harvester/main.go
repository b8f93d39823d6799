// Command arxiv-harvester harvests bibliographic records from the
// arXiv OAI-PMH endpoint for a category and date range and writes them
// to stdout as JSON or CSV.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/scholarpipe/arxiv-harvester/domain"
	"github.com/scholarpipe/arxiv-harvester/harvester"
	"github.com/scholarpipe/arxiv-harvester/internal/config"
	"github.com/scholarpipe/arxiv-harvester/internal/observability"
	"github.com/scholarpipe/arxiv-harvester/oaipmh"
	"github.com/scholarpipe/arxiv-harvester/taxonomy"
)

const dateFormat = "2006-01-02"

var (
	flagCategory  string
	flagFrom      string
	flagUntil     string
	flagRetryWait time.Duration
	flagTimeout   time.Duration
	flagFilters   []string
	flagOutput    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arxiv-harvester",
		Short: "Harvest arXiv metadata records over OAI-PMH",
		Long: `Harvests bibliographic metadata records (title, abstract, authors,
categories, dates, DOI) from the arXiv OAI-PMH endpoint for a subject
category and date range, with optional keyword filtering.

Categories accept several notations: a bare archive (cs, math, stat),
a dotted or colon subcategory (cs.AI, cs:AI), or the legacy physics
prefix (physics:cond-mat). Known archives: ` + strings.Join(taxonomy.Archives(), ", ") + `.`,
		Example: `  arxiv-harvester --category cs.AI --from 2024-03-01 --until 2024-03-07
  arxiv-harvester --category stat --filter abstract=learning --filter categories=stat.ml --output csv`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "subject category (required)")
	rootCmd.Flags().StringVar(&flagFrom, "from", "", "start date, YYYY-MM-DD (default: first day of current month)")
	rootCmd.Flags().StringVar(&flagUntil, "until", "", "end date inclusive, YYYY-MM-DD (default: today)")
	rootCmd.Flags().DurationVar(&flagRetryWait, "retry-wait", 0, "wait between retries on 503 (default from config)")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "overall harvest timeout (default from config)")
	rootCmd.Flags().StringArrayVar(&flagFilters, "filter", nil, "keyword filter, field=kw1,kw2 (fields: title, abstract, author, categories, affiliation); repeatable")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "json", "output format: json or csv")
	_ = rootCmd.MarkFlagRequired("category")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "cli").Logger()

	query, err := buildQuery(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("arxivharvest", prometheus.DefaultRegisterer)
	observers := harvester.MultiObserver{
		observability.NewLogObserver(logger),
		observability.NewMetricsObserver(metrics),
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
		go func() {
			logger.Info().Str("address", cfg.Metrics.Address).Msg("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	client := oaipmh.NewClient(oaipmh.Config{
		BaseURL:        cfg.Endpoint.BaseURL,
		MetadataPrefix: cfg.Endpoint.MetadataPrefix,
		Timeout:        cfg.Endpoint.Timeout,
		CourtesyPause:  cfg.Endpoint.CourtesyPause,
		UserAgent:      cfg.Endpoint.UserAgent,
	})
	h := harvester.New(client, observers, logger)

	metrics.HarvestsStarted.Inc()
	start := time.Now()
	records, err := h.Harvest(ctx, query)
	metrics.HarvestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.HarvestsFailed.Inc()
		return fmt.Errorf("harvest: %w", err)
	}
	metrics.HarvestsCompleted.Inc()

	switch strings.ToLower(flagOutput) {
	case "json":
		return writeJSON(os.Stdout, records)
	case "csv":
		return writeCSV(os.Stdout, records)
	default:
		return fmt.Errorf("unknown output format %q (want json or csv)", flagOutput)
	}
}

// buildQuery assembles the harvest query from flags, falling back to
// config defaults for the waits.
func buildQuery(cmd *cobra.Command, cfg *config.Config) (harvester.Query, error) {
	query := harvester.Query{
		Category:  flagCategory,
		RetryWait: cfg.Harvest.RetryWait,
		Timeout:   cfg.Harvest.Timeout,
	}

	if flagFrom != "" {
		from, err := time.Parse(dateFormat, flagFrom)
		if err != nil {
			return harvester.Query{}, fmt.Errorf("invalid --from date %q: %w", flagFrom, err)
		}
		query.From = from
	}
	if flagUntil != "" {
		until, err := time.Parse(dateFormat, flagUntil)
		if err != nil {
			return harvester.Query{}, fmt.Errorf("invalid --until date %q: %w", flagUntil, err)
		}
		query.Until = until
	}
	if cmd.Flags().Changed("retry-wait") {
		query.RetryWait = flagRetryWait
	}
	if cmd.Flags().Changed("timeout") {
		query.Timeout = flagTimeout
	}

	filters, err := parseFilters(flagFilters)
	if err != nil {
		return harvester.Query{}, err
	}
	query.Filters = filters

	return query, nil
}

// parseFilters converts repeated field=kw1,kw2 flags into a filter map.
func parseFilters(specs []string) (map[string][]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	filters := make(map[string][]string)
	for _, spec := range specs {
		field, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid filter %q (want field=keyword[,keyword...])", spec)
		}
		field = strings.TrimSpace(field)
		if _, valid := (&domain.Record{}).FieldText(field); !valid {
			return nil, fmt.Errorf("unknown filter field %q", field)
		}
		for _, keyword := range strings.Split(list, ",") {
			keyword = strings.TrimSpace(keyword)
			if keyword != "" {
				filters[field] = append(filters[field], keyword)
			}
		}
	}
	return filters, nil
}

func writeJSON(w *os.File, records []domain.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []domain.Record{}
	}
	return enc.Encode(records)
}

func writeCSV(w *os.File, records []domain.Record) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "title", "abstract", "categories", "doi", "created", "updated", "authors", "affiliation", "url"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Identifier,
			r.Title,
			r.Abstract,
			r.Categories,
			r.DOI,
			r.Created,
			r.Updated,
			strings.Join(r.Authors, "; "),
			strings.Join(r.Affiliations, "; "),
			r.URL,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
