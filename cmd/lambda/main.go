// Package main is the entry point for the voice translator Lambda function.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"go.uber.org/zap"

	"github.com/pricofy/voice-translator/internal/config"
	"github.com/pricofy/voice-translator/internal/handler"
	"github.com/pricofy/voice-translator/internal/messages"
	"github.com/pricofy/voice-translator/internal/orchestrator"
	"github.com/pricofy/voice-translator/internal/speech"
	"github.com/pricofy/voice-translator/internal/storage"
	"github.com/pricofy/voice-translator/internal/translator"
)

// app holds the dependencies shared by every invocation of a container.
type app struct {
	logger  *zap.Logger
	handler *handler.Handler
}

// lazy builds a value on first use and keeps it once the build succeeds.
// A failed build is retried on the next call.
type lazy[T any] struct {
	mu    sync.Mutex
	value *T
	build func(context.Context) (*T, error)
}

func (l *lazy[T]) get(ctx context.Context) (*T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.value != nil {
		return l.value, nil
	}
	v, err := l.build(ctx)
	if err != nil {
		return nil, err
	}
	l.value = v
	return v, nil
}

var (
	apps    = &lazy[app]{build: newApp}
	warmers = &lazy[Warmer]{build: newWarmer}
)

func main() {
	lambda.Start(handleRequest)
}

func handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup events are answered before, and without, the app.
	if warmup, ok := IsWarmupEvent(event); ok {
		w, err := warmers.get(ctx)
		if err != nil {
			return nil, err
		}
		return w.Handle(ctx, warmup), nil
	}

	a, err := apps.get(ctx)
	if err != nil {
		return nil, err
	}

	var req handler.Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, err
	}

	return a.handler.Handle(ctx, req)
}

func newWarmer(ctx context.Context) (*Warmer, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWarmer(lambdasdk.NewFromConfig(awsCfg), os.Getenv("AWS_LAMBDA_FUNCTION_NAME"), logger), nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	lambdaClient := lambdasdk.NewFromConfig(awsCfg)

	var tr translator.Translator
	switch cfg.TranslatorBackend {
	case config.BackendLambda:
		tr = translator.NewLambda(lambdaClient, cfg.TranslatorFunction)
	default:
		tr = translator.NewMyMemory(nil, cfg.MyMemoryURL, cfg.MyMemoryEmail)
	}

	var store speech.AudioStore
	if cfg.StorageEnabled() {
		s, err := storage.NewS3Store(ctx, cfg.Storage())
		if err != nil {
			return nil, err
		}
		store = s
	}
	speaker := speech.NewPolly(polly.NewFromConfig(awsCfg), cfg.PollyEngine, store)

	msgs, err := messages.New(cfg.MessageLocale)
	if err != nil {
		return nil, err
	}

	orch := orchestrator.New(tr, speaker,
		orchestrator.WithLogger(logger),
		orchestrator.WithListener(func(s orchestrator.Snapshot) {
			logger.Debug("state changed",
				zap.Uint64("request_id", s.RequestID),
				zap.Stringer("state", s.State),
				zap.Bool("loading", s.Loading),
			)
		}),
	)

	logger.Info("voice translator ready",
		zap.String("environment", cfg.Environment),
		zap.String("translator", cfg.TranslatorBackend),
		zap.Bool("audio_storage", cfg.StorageEnabled()),
	)

	return &app{
		logger:  logger,
		handler: handler.New(orch, msgs, logger),
	}, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.Level())
	zc.InitialFields = map[string]interface{}{"env": cfg.Environment}
	return zc.Build()
}
