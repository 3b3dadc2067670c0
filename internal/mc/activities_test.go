package mc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchActivities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/automation/v1/automations/auto-1/activities" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[{"id":"act-1","name":"Import"},{"id":"act-2","name":"Query"}]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	activities, err := c.FetchActivities(context.Background(), testToken(), "auto-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if activities[0].ID != "act-1" || activities[1].ID != "act-2" {
		t.Errorf("expected listing order preserved, got %s, %s", activities[0].ID, activities[1].ID)
	}
}

func TestFetchActivities_NoItemsField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	activities, err := c.FetchActivities(context.Background(), testToken(), "auto-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activities == nil || len(activities) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", activities)
	}
}

func TestFetchActivityDetail(t *testing.T) {
	detail := `{"id":"act-1","name":"Import","fileSpec":"daily_*.csv"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/automation/v1/activities/act-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, detail)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	got, err := c.FetchActivityDetail(context.Background(), testToken(), "act-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != detail {
		t.Errorf("expected detail passthrough, got %s", got)
	}
}

func TestFetchCollection_Passthrough(t *testing.T) {
	payload := `{"count":1,"items":[{"id":"list-1","name":"Newsletter"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hub/v1/lists" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	got, err := c.FetchCollection(context.Background(), testToken(), "hub/v1/lists")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != payload {
		t.Errorf("expected upstream body passthrough, got %s", got)
	}
}
