package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/autoblog/app/api"
	"github.com/lysyi3m/autoblog/app/cfg"
	"github.com/lysyi3m/autoblog/app/content"
	"github.com/lysyi3m/autoblog/app/database"
	"github.com/lysyi3m/autoblog/app/leancloud"
	"github.com/lysyi3m/autoblog/app/tasks"
)

func main() {
	config, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if config == nil {
		return
	}

	logLevel := slog.LevelInfo
	if config.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Autoblog", "version", config.Version, "store", config.Store, "language", config.ContentLanguage)

	httpClient := &http.Client{}

	postRepo, closeStore, err := openStore(config)
	if err != nil {
		slog.Error("Failed to open store", "store", config.Store, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	catalog, err := buildCatalog(config, httpClient)
	if err != nil {
		slog.Error("Failed to load topic files", "dir", config.TopicsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Topic catalog ready", "topics", catalog.Size())

	generator, err := buildGenerator(config, httpClient)
	if err != nil {
		slog.Error("Failed to create text completion client", "error", err)
		os.Exit(1)
	}

	pipeline := tasks.NewPipeline(catalog, generator, content.NewRenderer(), postRepo)
	scheduler := tasks.NewScheduler(pipeline, config.SchedulerInterval, config.RestartDelay)

	handler := api.NewHandler(scheduler, catalog, postRepo,
		content.FeedInfo{
			Title:       "Autoblog",
			Link:        config.BaseUrl,
			Description: "Automatically generated articles",
			Language:    config.ContentLanguage,
			Generator:   "Autoblog " + config.Version,
		},
		api.Settings{
			MinIntervalMinutes:     cfg.MinIntervalMinutes,
			MaxIntervalMinutes:     cfg.MaxIntervalMinutes,
			DefaultIntervalMinutes: config.SchedulerInterval,
			Model:                  config.OpenAIModel,
			Store:                  config.Store,
			Language:               config.ContentLanguage,
		})

	httpServer := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      api.NewServer(handler, config.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: config.WriteTimeout(),
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", config.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if config.AutoStart {
		if _, err := scheduler.Start(config.SchedulerInterval); err != nil {
			slog.Error("Failed to start scheduler", "error", err)
		}
	} else {
		slog.Info("Scheduler not started automatically (AUTO_BLOG_ENABLED=false)")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Close()
	slog.Info("Shutdown complete")
}

func openStore(config *cfg.Cfg) (database.PostRepository, func(), error) {
	if config.Store == cfg.StoreLeanCloud {
		client := leancloud.NewClient(config.LeanCloudServerURL, config.LeanCloudAppID, config.LeanCloudAppKey, nil)
		slog.Info("Using LeanCloud store", "server", config.LeanCloudServerURL, "class", config.LeanCloudClass)
		return leancloud.NewPostStore(client, config.LeanCloudClass), func() {}, nil
	}

	db, err := database.NewConnection(config.DBPath)
	if err != nil {
		return nil, nil, err
	}

	migration, err := database.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	slog.Info("Using SQLite store", "path", config.DBPath, "schema_version", migration.Version, "migrated", migration.Applied)

	return database.NewPostRepository(db), func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}, nil
}

func buildCatalog(config *cfg.Cfg, httpClient *http.Client) (*content.Catalog, error) {
	extra, err := content.NewTopicLoader(config.TopicsDir).Run()
	if err != nil {
		return nil, err
	}

	importer := content.NewTopicFeedImporter(httpClient, config.UserAgent, config.ReferenceTimeout, config.TopicFeedLimit)
	for _, feedURL := range config.TopicFeeds {
		topics, err := importer.Run(context.Background(), feedURL)
		if err != nil {
			slog.Warn("Failed to import topics from feed", "url", feedURL, "error", err)
			continue
		}
		slog.Info("Imported topics from feed", "url", feedURL, "topics", len(topics))
		extra = append(extra, topics...)
	}

	return content.NewCatalog(extra...), nil
}

func buildGenerator(config *cfg.Cfg, httpClient *http.Client) (*content.Generator, error) {
	// A nil interface, not a nil *OpenAIClient, selects the template-only path.
	var llm content.LLMClient
	if config.OpenAIAPIKey != "" {
		client, err := content.NewOpenAIClient(content.LLMSettings{
			APIKey:      config.OpenAIAPIKey,
			BaseURL:     config.OpenAIBaseURL,
			Model:       config.OpenAIModel,
			Temperature: config.OpenAITemperature,
			MaxTokens:   config.OpenAIMaxTokens,
			Timeout:     config.OpenAITimeout,
			MaxRetries:  cfg.OpenAIMaxRetries,
		})
		if err != nil {
			return nil, err
		}
		llm = client
	} else {
		slog.Warn("OPENAI_API_KEY not set, articles will use the fallback template")
	}

	generator := content.NewGenerator(llm, config.ContentLanguage).WithTimeout(config.GenerationTimeout())
	if config.FetchReferences {
		generator = generator.WithReferences(content.NewReferenceFetcher(httpClient, config.UserAgent, config.ReferenceTimeout))
	}
	return generator, nil
}
