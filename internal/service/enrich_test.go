package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mcextract/mcextract/internal/mc"
	"github.com/mcextract/mcextract/internal/metrics"
	"github.com/mcextract/mcextract/internal/model"
	"github.com/mcextract/mcextract/internal/service"
	"github.com/mcextract/mcextract/internal/testutil"
)

func newExtractor(t *testing.T, fake *testutil.FakeMC, recorder metrics.Recorder) *service.Extractor {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := mc.New(mc.Options{
		Endpoints: mc.Endpoints{
			AuthBase: fake.URL(),
			RESTBase: fake.URL(),
			SOAPBase: fake.URL(),
		},
		Logger:  logger,
		Metrics: recorder,
	})
	return service.NewExtractor(client, logger, recorder, service.Options{
		PageSize:          50,
		AutomationWorkers: 4,
		ActivityWorkers:   4,
	})
}

func testToken() model.Token {
	return model.Token{AccessToken: "tok", Subdomain: "tenant"}
}

func TestExtractAutomations_ResolvesCreator(t *testing.T) {
	fake := testutil.NewFakeMC(t)
	fake.Users = []model.User{{ID: "u1", Email: "a@x.com", ActiveFlag: true}}
	fake.Pages = []testutil.PageFixture{{
		Items: []model.Automation{
			{ID: "auto-1", Name: "Daily import", CreatedBy: "u1"},
			{ID: "auto-2", Name: "Orphaned", CreatedBy: "ghost"},
			{ID: "auto-3", Name: "No creator"},
		},
		Page:      1,
		PageCount: 1,
	}}

	ex := newExtractor(t, fake, nil)
	got, err := ex.ExtractAutomations(context.Background(), testToken())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 automations, got %d", len(got))
	}
	if got[0].CreatedByUser != "a@x.com" {
		t.Errorf("expected creator resolved to a@x.com, got %q", got[0].CreatedByUser)
	}
	if got[1].CreatedByUser != model.UnknownUser {
		t.Errorf("expected Unknown for missing user, got %q", got[1].CreatedByUser)
	}
	if got[2].CreatedByUser != model.UnknownUser {
		t.Errorf("expected Unknown for unset createdBy, got %q", got[2].CreatedByUser)
	}
}

func TestExtractAutomations_DetailFailureKeepsStub(t *testing.T) {
	stub1 := `{"id":"act-1","name":"Import"}`
	stub2 := `{"id":"act-2","name":"Query"}`
	detail1 := `{"id":"act-1","name":"Import","fileSpec":"daily_*.csv"}`

	fake := testutil.NewFakeMC(t)
	fake.Pages = []testutil.PageFixture{{
		Items:     []model.Automation{{ID: "auto-1", Name: "Daily import"}},
		Page:      1,
		PageCount: 1,
	}}
	fake.Activities["auto-1"] = []string{stub1, stub2}
	fake.Details["act-1"] = detail1
	fake.FailDetails["act-2"] = true

	ex := newExtractor(t, fake, nil)
	got, err := ex.ExtractAutomations(context.Background(), testToken())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 automation, got %d", len(got))
	}
	activities := got[0].Activities
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}

	if activities[0].Detail != model.DetailFull {
		t.Errorf("expected first activity detailed, got %q", activities[0].Detail)
	}
	if string(activities[0].Data) != detail1 {
		t.Errorf("expected detail record, got %s", activities[0].Data)
	}

	if activities[1].Detail != model.DetailStub {
		t.Errorf("expected second activity stubbed, got %q", activities[1].Detail)
	}
	if string(activities[1].Data) != stub2 {
		t.Errorf("expected original stub kept, got %s", activities[1].Data)
	}

	if !got[0].Degraded {
		t.Error("expected automation marked degraded")
	}
}

func TestExtractAutomations_ActivitiesFailureYieldsEmptyList(t *testing.T) {
	fake := testutil.NewFakeMC(t)
	fake.Pages = []testutil.PageFixture{{
		Items:     []model.Automation{{ID: "auto-1", Name: "Broken", Status: "Scheduled"}},
		Page:      1,
		PageCount: 1,
	}}
	fake.FailActivities["auto-1"] = true

	recorder := metrics.NewInMemory()
	ex := newExtractor(t, fake, recorder)
	got, err := ex.ExtractAutomations(context.Background(), testToken())
	if err != nil {
		t.Fatalf("expected degraded success, got error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected the automation to survive, got %d results", len(got))
	}
	if got[0].Name != "Broken" || got[0].Status != "Scheduled" {
		t.Errorf("expected automation fields intact, got %+v", got[0].Automation)
	}
	if got[0].Activities == nil || len(got[0].Activities) != 0 {
		t.Errorf("expected empty activities list, got %v", got[0].Activities)
	}
	if !got[0].Degraded {
		t.Error("expected automation marked degraded")
	}

	if snap := recorder.Snapshot(); snap.ActivityListsFailed != 1 {
		t.Errorf("expected 1 failed activity list recorded, got %d", snap.ActivityListsFailed)
	}
}

func TestExtractAutomations_UserDirectoryFailureIsFatal(t *testing.T) {
	fake := testutil.NewFakeMC(t)
	fake.FailUsers = true
	fake.Pages = []testutil.PageFixture{{
		Items:     []model.Automation{{ID: "auto-1"}},
		Page:      1,
		PageCount: 1,
	}}

	ex := newExtractor(t, fake, nil)
	got, err := ex.ExtractAutomations(context.Background(), testToken())
	if err == nil {
		t.Fatal("expected fatal error when user directory fails")
	}
	if got != nil {
		t.Errorf("expected no partial output, got %d results", len(got))
	}
}

func TestExtractAutomations_ListingFailureIsFatal(t *testing.T) {
	fake := testutil.NewFakeMC(t)
	fake.Pages = []testutil.PageFixture{{
		Items:     []model.Automation{{ID: "auto-1"}},
		Page:      1,
		PageCount: 2,
	}}
	fake.FailPage = 2

	ex := newExtractor(t, fake, nil)
	if _, err := ex.ExtractAutomations(context.Background(), testToken()); err == nil {
		t.Fatal("expected fatal error when pagination fails")
	}
}

func TestExtractAutomations_PreservesListingOrder(t *testing.T) {
	page1 := make([]model.Automation, 5)
	page2 := make([]model.Automation, 5)
	ids := make([]string, 0, 10)
	for i := range page1 {
		page1[i] = model.Automation{ID: string(rune('a' + i))}
		ids = append(ids, page1[i].ID)
	}
	for i := range page2 {
		page2[i] = model.Automation{ID: string(rune('f' + i))}
		ids = append(ids, page2[i].ID)
	}

	fake := testutil.NewFakeMC(t)
	fake.Pages = []testutil.PageFixture{
		{Items: page1, Page: 1, PageCount: 2},
		{Items: page2, Page: 2, PageCount: 2},
	}

	ex := newExtractor(t, fake, nil)
	got, err := ex.ExtractAutomations(context.Background(), testToken())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != len(ids) {
		t.Fatalf("expected %d automations, got %d", len(ids), len(got))
	}
	for i, want := range ids {
		if got[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestExtractAutomations_AllDetailedNotDegraded(t *testing.T) {
	stub := `{"id":"act-1"}`
	fake := testutil.NewFakeMC(t)
	fake.Users = []model.User{{ID: "u1", Email: "a@x.com"}}
	fake.Pages = []testutil.PageFixture{{
		Items:     []model.Automation{{ID: "auto-1", CreatedBy: "u1"}},
		Page:      1,
		PageCount: 1,
	}}
	fake.Activities["auto-1"] = []string{stub}
	fake.Details["act-1"] = `{"id":"act-1","full":true}`

	ex := newExtractor(t, fake, nil)
	got, err := ex.ExtractAutomations(context.Background(), testToken())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Degraded {
		t.Error("fully detailed automation should not be degraded")
	}
}
