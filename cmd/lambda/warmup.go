// Package main contains the Lambda warmup handler for preventing cold starts.
// Scheduled events trigger it periodically to keep instances, and their
// translator and Polly clients, warm.
package main

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"

	"github.com/pricofy/voice-translator/internal/translator"
)

const (
	// WarmupSource identifies warmup events
	WarmupSource = "warmup"

	// WarmupDelay ensures instances overlap to create true concurrency
	WarmupDelay = 75 * time.Millisecond

	// MaxWarmupConcurrency caps self-invocations per warmup event
	MaxWarmupConcurrency = 20
)

// WarmupEvent represents the scheduled event payload for warmup
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is the response returned by warmup operations
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// IsWarmupEvent checks if the event is a warmup event
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var w WarmupEvent
	if err := json.Unmarshal(event, &w); err != nil {
		return nil, false
	}
	if w.Source != WarmupSource {
		return nil, false
	}
	if w.Concurrency < 0 {
		w.Concurrency = 0
	}
	return &w, true
}

// Warmer keeps extra instances alive by invoking its own function.
type Warmer struct {
	client       translator.InvokeAPI
	functionName string
	logger       *zap.Logger
	delay        time.Duration
}

// NewWarmer creates a Warmer that self-invokes functionName.
func NewWarmer(client translator.InvokeAPI, functionName string, logger *zap.Logger) *Warmer {
	return &Warmer{
		client:       client,
		functionName: functionName,
		logger:       logger,
		delay:        WarmupDelay,
	}
}

// Handle processes a warmup event and optionally self-invokes
// to maintain multiple warm instances.
func (w *Warmer) Handle(ctx context.Context, warmup *WarmupEvent) map[string]interface{} {
	instancesWarmed := 1 // This instance counts as 1

	if warmup.Concurrency > 0 && w.functionName != "" {
		instancesWarmed += w.selfInvoke(ctx, min(warmup.Concurrency, MaxWarmupConcurrency))
	}

	// Brief delay to ensure instances overlap
	time.Sleep(w.delay)

	return map[string]interface{}{
		"statusCode": 200,
		"body": WarmupResponse{
			Status:          "warm",
			InstancesWarmed: instancesWarmed,
		},
	}
}

// selfInvoke invokes this function count times asynchronously and
// returns how many invocations were accepted.
func (w *Warmer) selfInvoke(ctx context.Context, count int) int {
	// Child payload has concurrency 0 to prevent recursive invocation
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		w.logger.Error("failed to marshal warmup payload", zap.Error(err))
		return 0
	}

	var wg sync.WaitGroup
	var accepted atomic.Int32

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := w.client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			if err != nil {
				w.logger.Warn("warmup invoke failed", zap.String("function", w.functionName), zap.Error(err))
				return
			}
			accepted.Add(1)
		}()
	}

	wg.Wait()
	return int(accepted.Load())
}
