package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSourcesList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sources", jsonHandler(`{"items":[
		{"id":1,"url":"https://a.example","kind":"html"},
		{"id":2,"url":"https://b.example/feed","kind":"rss"}
	]}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "sources", "list")
	if err != nil {
		t.Fatalf("sources list failed: %v", err)
	}
	if !strings.Contains(out, "https://a.example") || !strings.Contains(out, "rss") {
		t.Errorf("sources output = %q", out)
	}
}

func TestSourcesAdd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sources", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s; want POST", r.Method)
		}
		var body struct {
			URL  string `json:"url"`
			Type string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.URL != "https://new.example" || body.Type != "rss" {
			t.Errorf("body = %+v", body)
		}
		jsonHandler(`{"id":9,"status":"created"}`)(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "sources", "add", "https://new.example", "--kind", "rss")
	if err != nil {
		t.Fatalf("sources add failed: %v", err)
	}
	if !strings.Contains(out, "Source ajoutée") {
		t.Errorf("output = %q", out)
	}
}

func TestSourcesRm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sources/4", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s; want DELETE", r.Method)
		}
		jsonHandler(`{"status":"ok","deleted":1}`)(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "sources", "rm", "4")
	if err != nil {
		t.Fatalf("sources rm failed: %v", err)
	}
	if !strings.Contains(out, "Source supprimée") {
		t.Errorf("output = %q", out)
	}
}

func TestSourcesRmInvalidID(t *testing.T) {
	_, _, err := runCommand(t, "http://127.0.0.1:1", "sources", "rm", "abc")
	if err == nil || !strings.Contains(err.Error(), "invalid source id") {
		t.Errorf("err = %v; want invalid id", err)
	}
}

func TestSourcesTestReachable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sources/2/test", jsonHandler(`{"ok":true,"status":200,"message":"reachable"}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "sources", "test", "2")
	if err != nil {
		t.Fatalf("sources test failed: %v", err)
	}
	if !strings.Contains(out, "ok (200)") {
		t.Errorf("output = %q", out)
	}
}

func TestSourcesTestUnreachable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sources/2/test", jsonHandler(`{"ok":false,"status":503,"message":"connection refused"}`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, _, err := runCommand(t, srv.URL, "sources", "test", "2")
	if err == nil {
		t.Fatal("unreachable source must exit non-zero")
	}
	if !strings.Contains(out, "unreachable (503)") {
		t.Errorf("output = %q", out)
	}
}
