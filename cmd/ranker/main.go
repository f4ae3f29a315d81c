// cmd/ranker/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"applicant-ranker/internal/common/camunda"
	"applicant-ranker/internal/common/config"
	"applicant-ranker/internal/common/database"
	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/dictionary"
	"applicant-ranker/internal/normalize"
	"applicant-ranker/internal/ranking"
	"applicant-ranker/internal/scoring"
	"applicant-ranker/internal/services/embedding"
	"applicant-ranker/internal/services/genai"

	ra "applicant-ranker/internal/workers/ranking/rank-applicants"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting applicant ranker...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init normalization cache (Redis is optional) ---
	var cache normalize.Cache = normalize.NewMemoryCache()
	if cfg.Redis.Enabled {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, using in-memory cache only", zap.Error(err))
		} else {
			defer redis.Close()
			cache = normalize.NewRedisCache(redis, time.Duration(cfg.Redis.CacheTTL)*time.Second)
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Init external qualification services ---
	embedder := embedding.NewClient(cfg.Embedding, log)

	var classifier normalize.Classifier
	var reasoner ranking.Reasoner
	if cfg.GenAI.APIKey != "" {
		genaiTimeout := time.Duration(cfg.GenAI.Timeout) * time.Millisecond

		classifyGen, err := genai.NewGenerator(ctx, cfg.GenAI.APIKey, cfg.GenAI.ClassificationModel)
		if err != nil {
			zapLog.Fatal("genai classification client failed", zap.Error(err))
		}
		classifier = genai.NewClassifier(classifyGen, genaiTimeout, log)

		reasonGen, err := genai.NewGenerator(ctx, cfg.GenAI.APIKey, cfg.GenAI.ReasoningModel)
		if err != nil {
			zapLog.Fatal("genai reasoning client failed", zap.Error(err))
		}
		reasoner = genai.NewReasoner(reasonGen, genaiTimeout, log)
	} else {
		zapLog.Warn("genai api key not set, classification and reasoning tiers disabled")
	}

	// --- Build the ranking pipeline ---
	store := dictionary.NewStore(cfg.Dictionary, log)
	cascade := normalize.NewCascade(store, embedder, classifier, cache, cfg.Normalize, log)
	ensemble := scoring.NewEnsemble(cfg.Scoring, log)
	tiebreaker := ranking.NewTieBreaker(reasoner, cfg.Ranking, log)
	ranker := ranking.NewRanker(cascade, ensemble, tiebreaker, reasoner, cfg.Ranking, log)

	// --- Register the worker ---
	handler := ra.NewHandler(
		&ra.Config{
			Timeout: time.Duration(cfg.Camunda.Timeout) * time.Millisecond,
		},
		ranker, log,
	)
	w := camunda.NewWorker(zeebeClient, ra.TaskType, cfg.Camunda.MaxJobsActive, handler, zapLog)
	w.Start()

	// --- Metrics and pprof endpoint ---
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		zapLog.Info("metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("metrics server stopped", zap.Error(err))
		}
	}()

	// --- Wait for shutdown signal ---
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	zapLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	w.Stop(shutdownCtx)
	zeebeClient.Close()
}
