package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// runCommand executes the CLI against a backend URL and captures output.
// The evodash home is isolated per test so no operator state leaks in.
func runCommand(t *testing.T, backendURL string, args ...string) (string, string, error) {
	t.Helper()

	t.Setenv("EVODASH_HOME", t.TempDir())
	t.Setenv("EVODASH_BASE_URL", backendURL)

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

// jsonHandler responds to one route with a fixed JSON body.
func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestVersionFlag(t *testing.T) {
	out, _, err := runCommand(t, "http://localhost:1", "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.HasPrefix(out, "evodash ") {
		t.Errorf("version output = %q; want evodash prefix", out)
	}
}

func TestStatusHealthy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", jsonHandler(`{"status":"ok","env":"prod","version":"1.4.0"}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "ok") || !strings.Contains(out, srv.URL) {
		t.Errorf("status output = %q; want ok and base URL", out)
	}
	if !strings.Contains(out, "1.4.0") {
		t.Errorf("status output = %q; want backend version", out)
	}
}

func TestStatusUnreachable(t *testing.T) {
	_, _, err := runCommand(t, "http://127.0.0.1:1", "status")
	if err == nil {
		t.Fatal("status against unreachable backend must fail")
	}
	if !strings.Contains(err.Error(), "unreachable") {
		t.Errorf("error = %v; want unreachable", err)
	}
}

func TestBaseURLFlagOverridesEnv(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", jsonHandler(`{"status":"ok"}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// Env points nowhere; the flag must win.
	out, _, err := runCommand(t, "http://127.0.0.1:1", "status", "--base-url", srv.URL)
	if err != nil {
		t.Fatalf("status with --base-url failed: %v", err)
	}
	if !strings.Contains(out, srv.URL) {
		t.Errorf("status output = %q; want flag base URL", out)
	}
}

func TestMetricsSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", jsonHandler(`{
		"nb_docs": 128, "nb_sources": 7, "coverage": 0.85,
		"ci": {"overall": 0.91, "exact": 0.77}
	}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "metrics")
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	for _, want := range []string{"128", "7", "85.0%", "0.910"} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q:\n%s", want, out)
		}
	}
}

func TestMetricsHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics/history", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "3" {
			t.Errorf("limit = %q; want 3", r.URL.Query().Get("limit"))
		}
		jsonHandler(`{"items":[{"id":2,"ts":"2026-08-28","overall":0.9},{"id":1,"ts":"2026-08-27","overall":0.8}]}`)(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "metrics", "--history", "3")
	if err != nil {
		t.Fatalf("metrics --history failed: %v", err)
	}
	if !strings.Contains(out, "2026-08-28") || !strings.Contains(out, "0.900") {
		t.Errorf("history output = %q", out)
	}
}

func TestSearchPrintsAnswerAndSources(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "comment indexer" {
			t.Errorf("q = %q; want joined args", got)
		}
		jsonHandler(`{"answer":"Utilisez la commande index.","sources":[["Guide","https://doc.example"]],"confidence":0.8}`)(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "search", "comment", "indexer")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out, "Utilisez la commande index.") {
		t.Errorf("search output missing answer:\n%s", out)
	}
	if !strings.Contains(out, "Guide (https://doc.example)") {
		t.Errorf("search output missing source:\n%s", out)
	}
}

func TestSearchBackendError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", jsonHandler(`{"error":"index not ready"}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, _, err := runCommand(t, srv.URL, "search", "question")
	if err == nil || !strings.Contains(err.Error(), "index not ready") {
		t.Errorf("err = %v; want backend error surfaced", err)
	}
}

func TestDocsList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/docs", jsonHandler(`{"items":[{"url":"https://a","title":"Doc A","date":"2026-08-01","lang":"fr"}]}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "docs")
	if err != nil {
		t.Fatalf("docs failed: %v", err)
	}
	if !strings.Contains(out, "Doc A") {
		t.Errorf("docs output = %q", out)
	}
}

func TestVersionsList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index/versions", jsonHandler(`{"items":[{"id":3,"status":"active","doc_count":40,"threshold_score":0.25,"created_at":"2026-08-20"}]}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "versions", "list")
	if err != nil {
		t.Fatalf("versions list failed: %v", err)
	}
	if !strings.Contains(out, "active") || !strings.Contains(out, "docs=40") {
		t.Errorf("versions output = %q", out)
	}
}
