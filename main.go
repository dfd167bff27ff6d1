package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	httpapi "github.com/SaiNageswarS/course-core/api"
	"github.com/SaiNageswarS/course-core/appconfig"
	"github.com/SaiNageswarS/course-core/llm"
	"github.com/SaiNageswarS/course-core/rag"
)

func main() {
	dotenv.LoadEnv()

	ccfg := &appconfig.AppConfig{}
	if err := config.LoadConfig("config.ini", ccfg); err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	ccfg.ApplyDefaults()

	ollamaClient, err := api.ClientFromEnvironment()
	if err != nil {
		logger.Fatal("Failed to create Ollama client", zap.Error(err))
	}
	embedder := llm.NewOllamaEmbedder(ollamaClient, ccfg.EmbeddingModel)

	client := llm.NewOpenRouterClient(ccfg.DefaultModel)

	system := rag.NewSystem(ccfg, client, embedder)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ccfg.DocsDir != "" {
		courses, chunks, err := system.AddCourseFolder(ctx, ccfg.DocsDir, false)
		if err != nil {
			logger.Error("Course folder ingestion failed", zap.Error(err))
		} else {
			logger.Info("Loaded course documents",
				zap.Int("courses", courses), zap.Int("chunks", chunks))
		}
	}

	srv := &http.Server{
		Addr:         ":" + ccfg.HTTPPort,
		Handler:      httpapi.NewRouter(system),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
}
