package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hopper/internal/api"
	"hopper/internal/observability"
	"hopper/internal/queue"
	"hopper/internal/server"
	"hopper/internal/testsupport"
)

func newTestServer(t *testing.T, token string) (*httptest.Server, *queue.Store) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIToken = token
	store := testsupport.NewStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := server.New(cfg, store, logger, observability.New())
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, store
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestSubmitClaimFinalizeLifecycle(t *testing.T) {
	ts, _ := newTestServer(t, "")
	primary, metadata := testsupport.SourcePair(t, []byte("%PDF-1.7 body"), []byte(`{"k":1}`))

	resp := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/jobs", "", api.SubmitRequest{
		ID:           "job-1",
		PrimaryPath:  primary,
		MetadataPath: metadata,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d, want 201", resp.StatusCode)
	}
	var submitted api.SubmitResponse
	decodeInto(t, resp, &submitted)
	if submitted.ID != "job-1" || submitted.State != "jobs" {
		t.Fatalf("submit response = %+v", submitted)
	}

	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/jobs/claim", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("claim status = %d, want 200", resp.StatusCode)
	}
	var claimed api.ClaimResponse
	decodeInto(t, resp, &claimed)
	if claimed.ID != "job-1" {
		t.Fatalf("claimed %q, want job-1", claimed.ID)
	}

	resp = doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/jobs/job-1", "", nil)
	var status api.JobStatus
	decodeInto(t, resp, &status)
	if !status.Locked || status.State != "jobs" {
		t.Fatalf("status after claim = %+v", status)
	}

	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/jobs/job-1/finalize", "", api.TransitionRequest{
		From: "jobs",
		To:   "complete",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("finalize status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/jobs/job-1", "", nil)
	decodeInto(t, resp, &status)
	if status.Locked || status.State != "complete" {
		t.Fatalf("status after finalize = %+v", status)
	}
}

func TestSubmitGeneratesIDWhenOmitted(t *testing.T) {
	ts, store := newTestServer(t, "")
	primary, metadata := testsupport.SourcePair(t, []byte("%PDF-1.7"), []byte(`{}`))

	resp := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/jobs", "", api.SubmitRequest{
		PrimaryPath:  primary,
		MetadataPath: metadata,
		Priority:     true,
	})
	var submitted api.SubmitResponse
	decodeInto(t, resp, &submitted)
	if submitted.ID == "" {
		t.Fatal("expected a generated job ID")
	}
	if submitted.State != "priority_jobs" {
		t.Fatalf("state = %q, want priority_jobs", submitted.State)
	}
	if _, err := store.Status(submitted.ID); err != nil {
		t.Fatalf("generated job not found in store: %v", err)
	}
}

func TestReleaseUnlocksClaimedJob(t *testing.T) {
	ts, store := newTestServer(t, "")
	testsupport.SubmitJob(t, store, "job-r", false)
	if _, _, err := store.ClaimNext(false); err != nil {
		t.Fatalf("ClaimNext failed: %v", err)
	}

	resp := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/jobs/job-r/release", "", api.ReleaseRequest{State: "jobs"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("release status = %d, want 200", resp.StatusCode)
	}
	var status api.JobStatus
	decodeInto(t, resp, &status)
	if status.Locked {
		t.Fatal("release response still reports the job locked")
	}

	probe, err := store.Status("job-r")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if probe.Locked {
		t.Fatal("job still locked in store after release")
	}
}

func TestErrorEnvelopeAndStatusMapping(t *testing.T) {
	ts, store := newTestServer(t, "")

	// Unknown job maps to 404 with the not_found kind.
	resp := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/jobs/ghost", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown job status = %d, want 404", resp.StatusCode)
	}
	var envelope api.Error
	decodeInto(t, resp, &envelope)
	if envelope.Error != "not_found" {
		t.Fatalf("error kind = %q, want not_found", envelope.Error)
	}

	// Bad state names map to 400.
	testsupport.SubmitJob(t, store, "job-x", false)
	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/jobs/job-x/move", "", api.TransitionRequest{
		From: "jobs",
		To:   "bogus",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad state status = %d, want 400", resp.StatusCode)
	}
	decodeInto(t, resp, &envelope)
	if envelope.Error != "invalid_argument" {
		t.Fatalf("error kind = %q, want invalid_argument", envelope.Error)
	}

	// Claiming an empty queue maps to 404.
	drained, _ := newTestServer(t, "")
	resp = doJSON(t, drained.Client(), http.MethodPost, drained.URL+"/api/jobs/claim", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("empty claim status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMalformedBodyRejected(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp, err := ts.Client().Post(ts.URL+"/api/jobs", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var envelope api.Error
	decodeInto(t, resp, &envelope)
	if envelope.Error != "invalid_argument" {
		t.Fatalf("error kind = %q, want invalid_argument", envelope.Error)
	}
}

func TestBearerTokenEnforced(t *testing.T) {
	ts, _ := newTestServer(t, "sekrit")

	resp := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/stats", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/stats", "wrong", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong-token status = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/stats", "sekrit", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", resp.StatusCode)
	}
	var stats api.Stats
	decodeInto(t, resp, &stats)
	if len(stats.States) != len(queue.AllStates()) {
		t.Fatalf("stats states = %d, want %d", len(stats.States), len(queue.AllStates()))
	}

	// Health stays open without a token.
	healthResp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	healthResp.Body.Close()
	if healthResp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", healthResp.StatusCode)
	}
}

func TestStatsReflectQueueContents(t *testing.T) {
	ts, store := newTestServer(t, "")
	testsupport.SubmitJob(t, store, "job-a", false)
	testsupport.SubmitJob(t, store, "job-b", true)

	resp := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/stats", "", nil)
	var stats api.Stats
	decodeInto(t, resp, &stats)
	if stats.TotalJobs != 2 {
		t.Fatalf("TotalJobs = %d, want 2", stats.TotalJobs)
	}
	if stats.States["jobs"].Jobs != 1 || stats.States["priority_jobs"].Jobs != 1 {
		t.Fatalf("per-state jobs = %+v", stats.States)
	}
	if stats.Oldest == "" || stats.Newest == "" {
		t.Fatal("expected populated oldest/newest timestamps")
	}
}

func TestMetricsEndpointExposesCounters(t *testing.T) {
	ts, _ := newTestServer(t, "")

	// Drive one request through the counting middleware first.
	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	resp.Body.Close()

	resp, err = ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics body: %v", err)
	}
	if !strings.Contains(string(body), "hopper_http_requests_total") {
		t.Fatal("metrics output missing hopper_http_requests_total")
	}
}
