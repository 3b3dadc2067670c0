// Package service implements the extraction operations behind the API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcextract/mcextract/internal/mc"
	"github.com/mcextract/mcextract/internal/metrics"
	"github.com/mcextract/mcextract/internal/model"
)

// ErrUnknownType is returned when an extraction type is not recognized.
var ErrUnknownType = errors.New("invalid data type")

// restPaths maps pass-through extraction types to their REST endpoints.
var restPaths = map[string]string{
	"lists":               "hub/v1/lists",
	"journeys":            "interaction/v1/interactions",
	"content":             "asset/v1/content/assets",
	"emails":              "asset/v1/content/assets?type=htmlemail",
	"triggeredSends":      "messaging/v1/messageDefinitionSends",
	"sendClassifications": "email/v1/sendClassifications",
}

// Options tunes the extractor.
type Options struct {
	// PageSize for the automation listing pagination.
	PageSize int
	// AutomationWorkers caps concurrent per-automation enrichment tasks.
	AutomationWorkers int
	// ActivityWorkers caps concurrent detail fetches within one automation.
	ActivityWorkers int
}

const (
	defaultAutomationWorkers = 8
	defaultActivityWorkers   = 16
)

// Extractor runs extractions against Marketing Cloud.
type Extractor struct {
	client            *mc.Client
	logger            *slog.Logger
	metrics           metrics.Recorder
	pageSize          int
	automationWorkers int
	activityWorkers   int
}

// NewExtractor creates an Extractor.
func NewExtractor(client *mc.Client, logger *slog.Logger, recorder metrics.Recorder, opts Options) *Extractor {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = mc.DefaultPageSize
	}
	if opts.AutomationWorkers <= 0 {
		opts.AutomationWorkers = defaultAutomationWorkers
	}
	if opts.ActivityWorkers <= 0 {
		opts.ActivityWorkers = defaultActivityWorkers
	}
	return &Extractor{
		client:            client,
		logger:            logger.With("component", "service.extractor"),
		metrics:           recorder,
		pageSize:          opts.PageSize,
		automationWorkers: opts.AutomationWorkers,
		activityWorkers:   opts.ActivityWorkers,
	}
}

// Extract dispatches an extraction type to its fetcher and returns the
// collection ready for JSON rendering. Unknown types return
// ErrUnknownType.
func (e *Extractor) Extract(ctx context.Context, token model.Token, objectType string) (any, error) {
	start := time.Now()
	result, err := e.extract(ctx, token, objectType)
	duration := time.Since(start)

	e.metrics.ObserveExtractionDuration(duration)
	if err != nil {
		if !errors.Is(err, ErrUnknownType) {
			e.metrics.IncExtraction("failure")
			e.logger.Error("extraction failed",
				"type", objectType,
				"duration_ms", duration.Milliseconds(),
				"error", err,
			)
		}
		return nil, err
	}

	e.metrics.IncExtraction("success")
	e.logger.Info("extraction complete",
		"type", objectType,
		"duration_ms", duration.Milliseconds(),
	)
	return result, nil
}

func (e *Extractor) extract(ctx context.Context, token model.Token, objectType string) (any, error) {
	switch objectType {
	case "automations":
		return e.ExtractAutomations(ctx, token)
	case "dataExtensions":
		return e.client.FetchDataExtensions(ctx, token)
	case "subscribers":
		return e.client.FetchSubscribers(ctx, token)
	case "users":
		return e.client.FetchUsers(ctx, token)
	}

	path, ok := restPaths[objectType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, objectType)
	}
	return e.client.FetchCollection(ctx, token, path)
}
