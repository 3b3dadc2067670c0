package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mcextract/mcextract/internal/model"
)

// ExtractAutomations produces the detail-enriched automation listing.
//
// The user directory and the listing pagination are fatal on failure.
// Everything past that degrades per item: a failed activities fetch
// yields an empty activities list, a failed detail fetch keeps the
// original stub. The returned slice is index-aligned with the pagination
// order regardless of how the concurrent enrichment completes.
func (e *Extractor) ExtractAutomations(ctx context.Context, token model.Token) ([]model.EnrichedAutomation, error) {
	users, err := e.client.FetchUserDirectory(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch user directory: %w", err)
	}

	automations, err := e.client.FetchAutomations(ctx, token, e.pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch automations: %w", err)
	}

	enriched := make([]model.EnrichedAutomation, len(automations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.automationWorkers)
	for i, a := range automations {
		i, a := i, a
		g.Go(func() error {
			enriched[i] = e.enrichAutomation(gctx, token, a, users)
			return nil
		})
	}
	// Workers never return an error; Wait is a join, not an abort path.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return enriched, nil
}

// enrichAutomation resolves one automation's creator and expands its
// activities. Failures here degrade the record instead of propagating.
func (e *Extractor) enrichAutomation(ctx context.Context, token model.Token, a model.Automation, users model.UserDirectory) model.EnrichedAutomation {
	out := model.EnrichedAutomation{
		Automation:    a,
		CreatedByUser: users.EmailFor(a.CreatedBy),
		Activities:    []model.EnrichedActivity{},
	}

	activities, err := e.client.FetchActivities(ctx, token, a.ID)
	if err != nil {
		e.metrics.IncActivitiesListFailed()
		e.logger.Warn("activities fetch failed, continuing without",
			"automation_id", a.ID,
			"error", err,
		)
		out.Degraded = true
		return out
	}

	out.Activities = make([]model.EnrichedActivity, len(activities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.activityWorkers)
	for i, activity := range activities {
		i, activity := i, activity
		g.Go(func() error {
			out.Activities[i] = e.enrichActivity(gctx, token, a.ID, activity)
			return nil
		})
	}
	_ = g.Wait()

	for _, ea := range out.Activities {
		if ea.Detail != model.DetailFull {
			out.Degraded = true
			break
		}
	}
	return out
}

// enrichActivity swaps an activity stub for its full detail record. On
// any failure the stub survives, tagged so consumers can tell complete
// data from partial.
func (e *Extractor) enrichActivity(ctx context.Context, token model.Token, automationID string, activity model.Activity) model.EnrichedActivity {
	if activity.ID != "" {
		detail, err := e.client.FetchActivityDetail(ctx, token, activity.ID)
		if err == nil {
			e.metrics.IncActivityDetail(string(model.DetailFull))
			return model.EnrichedActivity{Detail: model.DetailFull, Data: detail}
		}
		e.logger.Warn("activity detail fetch failed, keeping stub",
			"automation_id", automationID,
			"activity_id", activity.ID,
			"error", err,
		)
	}

	if len(activity.Raw) == 0 {
		e.metrics.IncActivityDetail(string(model.DetailMissing))
		return model.EnrichedActivity{Detail: model.DetailMissing}
	}
	e.metrics.IncActivityDetail(string(model.DetailStub))
	return model.EnrichedActivity{Detail: model.DetailStub, Data: activity.Raw}
}
