package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestCrawlSynchronousShowsStartedMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/crawl/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s; want POST", r.Method)
		}
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("limit = %q; want 5", r.URL.Query().Get("limit"))
		}
		jsonHandler(`{"status":"started"}`)(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "crawl", "--limit", "5")
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}
	if !strings.Contains(out, "Crawl lancé") {
		t.Errorf("crawl output = %q; want started message", out)
	}
}

func TestCrawlBackendDownExitsNonZero(t *testing.T) {
	_, errOut, err := runCommand(t, "http://127.0.0.1:1", "crawl")
	if err == nil {
		t.Fatal("crawl against dead backend must exit non-zero")
	}
	if !strings.Contains(errOut, "Échec du crawl") {
		t.Errorf("stderr = %q; want failure message", errOut)
	}
}

func TestIngestAsyncPollsTaskToCompletion(t *testing.T) {
	var polls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/ingest/run_async", jsonHandler(`{"status":"accepted","task_id":"abc"}`))
	mux.HandleFunc("/tasks/abc", func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		jsonHandler(`{"task_id":"abc","status":"done"}`)(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "ingest", "--async")
	if err != nil {
		t.Fatalf("ingest --async failed: %v", err)
	}
	if polls.Load() == 0 {
		t.Error("task handle was never polled")
	}
	if !strings.Contains(out, "Ingestion lancée") {
		t.Errorf("output = %q; want intermediate started message", out)
	}
	if !strings.Contains(out, "Ingestion terminée") {
		t.Errorf("output = %q; want final done message", out)
	}
}

func TestIngestAsyncNoWaitSkipsPolling(t *testing.T) {
	var polls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/ingest/run_async", jsonHandler(`{"status":"accepted","task_id":"abc"}`))
	mux.HandleFunc("/tasks/abc", func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		jsonHandler(`{"status":"done"}`)(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "ingest", "--async", "--no-wait")
	if err != nil {
		t.Fatalf("ingest --async --no-wait failed: %v", err)
	}
	if polls.Load() != 0 {
		t.Errorf("polled %d times; want 0 with --no-wait", polls.Load())
	}
	if !strings.Contains(out, "task: abc") {
		t.Errorf("output = %q; want the task handle printed", out)
	}
}

func TestEvaluateFailureReportedByBackend(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/evaluate/run", jsonHandler(`{"status":"error","error":"no question sets"}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, errOut, err := runCommand(t, srv.URL, "evaluate")
	if err == nil {
		t.Fatal("evaluate with backend error must exit non-zero")
	}
	if !strings.Contains(errOut, "no question sets") {
		t.Errorf("stderr = %q; want backend reason", errOut)
	}
}

func TestDiscoverPassesTuningFlags(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/discover/run", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("per_query") != "3" || q.Get("max_new") != "10" {
			t.Errorf("query = %v; want per_query=3 max_new=10", q)
		}
		jsonHandler(`{"status":"ok","new_sources":2}`)(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "discover", "--per-query", "3", "--max-new", "10")
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if !strings.Contains(out, "Découverte lancée") {
		t.Errorf("output = %q", out)
	}
}

func TestSeedRuns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/evolve/seed_from_docs", jsonHandler(`{"status":"ok","seeded":4}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "seed")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(out, "Seed lancé") {
		t.Errorf("output = %q", out)
	}
}
