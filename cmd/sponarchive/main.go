package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sponarchive/internal/config"
	"sponarchive/internal/corpus"
	"sponarchive/internal/crawler"
	"sponarchive/internal/export"
	"sponarchive/internal/fetcher"
	"sponarchive/internal/pagecache"
	"sponarchive/internal/scrape"
	web "sponarchive/internal/server"
	"sponarchive/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logger  *zap.Logger
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "sponarchive",
	Short: "sponarchive - scrape the news archive and build a text corpus",
}

func loadConfig() *config.Config {
	if cfgPath == "" {
		return config.Default()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	return cfg
}

// signalContext returns a context cancelled when the process receives a
// termination signal. In-progress work observes the cancellation at the
// next loop boundary, so no snapshot is written mid-mutation.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, aborting at next loop boundary",
			zap.String("signal", sig.String()))
		cancel()
	}()

	return ctx, cancel
}

func newStore(cfg *config.Config) *store.FileStore {
	return store.NewFileStore(cfg.Paths.ArchiveCache, cfg.Paths.ArticlesCache, logger)
}

// openPageCache returns the raw page cache when configured, else nil.
func openPageCache(cfg *config.Config) *pagecache.Store {
	if cfg.Paths.PageCache == "" {
		return nil
	}
	pages, err := pagecache.Open(cfg.Paths.PageCache)
	if err != nil {
		logger.Fatal("Failed to open page cache", zap.Error(err))
	}
	return pages
}

func runCrawl(ctx context.Context, cfg *config.Config, st *store.FileStore) error {
	client := scrape.NewClient(cfg.Crawl.Timeout(), logger)
	cr, err := crawler.New(client, st, &cfg.Crawl, logger)
	if err != nil {
		return err
	}
	_, err = cr.Run(ctx)
	return err
}

func runFetch(ctx context.Context, cfg *config.Config, st *store.FileStore) error {
	archive, err := st.LoadArchive()
	if err != nil {
		return err
	}
	if len(archive.Dates) == 0 {
		logger.Warn("archive cache is empty, run crawl first")
		return nil
	}

	pages := openPageCache(cfg)
	if pages != nil {
		defer pages.Close()
	}

	client := scrape.NewClient(cfg.Crawl.Timeout(), logger)
	f := fetcher.New(client, st, pages, &cfg.Crawl, logger)
	_, err = f.Run(ctx, archive)
	return err
}

func runExport(cfg *config.Config, st *store.FileStore) error {
	articles, err := st.LoadArticles()
	if err != nil {
		return err
	}
	return export.WriteJSON(articles, cfg.Paths.OutputJSON, logger)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Fetch teaser metadata from the daily archive listing pages",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		cfg := loadConfig()
		if err := runCrawl(ctx, cfg, newStore(cfg)); err != nil {
			logger.Fatal("Crawl failed", zap.Error(err))
		}
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch full article texts for cached archive entries",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		cfg := loadConfig()
		if err := runFetch(ctx, cfg, newStore(cfg)); err != nil {
			logger.Fatal("Fetch failed", zap.Error(err))
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Flatten the articles cache into a JSON array file",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if err := runExport(cfg, newStore(cfg)); err != nil {
			logger.Fatal("Export failed", zap.Error(err))
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Crawl, fetch and export in sequence",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		cfg := loadConfig()
		st := newStore(cfg)

		if err := runCrawl(ctx, cfg, st); err != nil {
			logger.Fatal("Crawl failed", zap.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
		if err := runFetch(ctx, cfg, st); err != nil {
			logger.Fatal("Fetch failed", zap.Error(err))
		}
		if ctx.Err() != nil {
			// skip the export after an abort; the caches already hold
			// all progress for the next run
			return
		}
		if err := runExport(cfg, st); err != nil {
			logger.Fatal("Export failed", zap.Error(err))
		}
		logger.Info("done")
	},
}

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Build the text corpus and metadata from the exported JSON",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		records, err := export.ReadJSON(cfg.Paths.OutputJSON)
		if err != nil {
			logger.Fatal("Failed to read export", zap.Error(err))
		}
		logger.Info("loaded articles", zap.Int("articles", len(records)))

		c := corpus.Build(records, logger)
		if err := c.Write(cfg.Paths.CorpusJSON, cfg.Paths.MetaJSON, logger); err != nil {
			logger.Fatal("Failed to write corpus", zap.Error(err))
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the caches over a read-only JSON API",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		cfg := loadConfig()
		srv := web.NewServer(newStore(cfg), logger)

		go func() {
			<-ctx.Done()
			srv.Stop(context.Background())
		}()

		if err := srv.Start(cfg.Server.Addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	},
}

func main() {
	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file")

	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
