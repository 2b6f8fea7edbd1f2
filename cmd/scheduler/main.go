package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/courtside-dev/ref-scheduler/pkg/cache"
	"github.com/courtside-dev/ref-scheduler/pkg/config"
	"github.com/courtside-dev/ref-scheduler/pkg/logger"
	"github.com/courtside-dev/ref-scheduler/scheduler"
	"github.com/courtside-dev/ref-scheduler/types"
)

func main() {
	var (
		contextPath = flag.String("context", "", "path to a SchedulingContext JSON file")
		configPath  = flag.String("config", "", "optional engine config YAML")
		objective   = flag.String("objective", "", "run a single objective instead of optimizing across all four")
		redisURL    = flag.String("redis", "", "optional redis URL for result caching")
		cacheTTL    = flag.Duration("cache-ttl", time.Hour, "cache expiration when -redis is set")
		strict      = flag.Bool("strict", false, "exit non-zero when the result is not successful")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log.WithFields(logrus.Fields{
		"environment":    cfg.Env,
		"max_backtracks": cfg.MaxBacktracks,
	}).Info("Starting referee scheduler")

	if *contextPath == "" {
		log.Fatal("missing required -context flag")
	}
	input, err := loadContext(*contextPath)
	if err != nil {
		log.Fatalf("Failed to load scheduling context: %v", err)
	}

	ctx := context.Background()

	var resultCache *cache.ScheduleCacheService
	var fingerprint string
	if *redisURL != "" {
		opt, err := redis.ParseURL(*redisURL)
		if err != nil {
			log.Fatalf("Failed to parse redis URL: %v", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()

		resultCache = cache.NewScheduleCacheService(client, log)
		fingerprint, err = cache.ContextFingerprint(input)
		if err != nil {
			log.Fatalf("Failed to fingerprint context: %v", err)
		}
		if cached, err := resultCache.GetResult(ctx, fingerprint); err == nil {
			log.WithField("fingerprint", fingerprint).Info("Serving cached result")
			emit(log, cached, *strict)
			return
		}
	}

	service := scheduler.NewService(cfg, log)

	var result *types.SchedulingResult
	if *objective != "" {
		input.Objective = types.OptimizationObjective(*objective)
		result = service.ScheduleReferees(ctx, input)
	} else {
		result = service.OptimizeSchedule(ctx, input)
	}

	if resultCache != nil {
		if err := resultCache.SetResult(ctx, fingerprint, result, *cacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache result")
		}
	}

	emit(log, result, *strict)
}

func loadContext(path string) (*types.SchedulingContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	input := &types.SchedulingContext{}
	if err := json.Unmarshal(data, input); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return input, nil
}

func emit(log *logrus.Logger, result *types.SchedulingResult, strict bool) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	if strict && !result.Success {
		os.Exit(1)
	}
}
