package main

import (
	"os"
	"strings"
	"testing"
)

// Top-level CLI commands that operators reach for first; the README must
// mention each one.
var documentedCommands = []string{
	"status",
	"crawl",
	"ingest",
	"discover",
	"evaluate",
	"seed",
	"sources",
	"settings",
	"search",
	"docs",
	"metrics",
	"versions",
	"events",
	"dash",
}

func TestREADMEDocumentsCommands(t *testing.T) {
	content, err := os.ReadFile("README.md")
	if err != nil {
		t.Fatalf("Failed to read README.md: %v", err)
	}

	readmeText := string(content)

	for _, cmd := range documentedCommands {
		if !strings.Contains(readmeText, "evodash "+cmd) {
			t.Errorf("README.md missing usage of %q", cmd)
		}
	}
}

func TestREADMEDocumentsConfiguration(t *testing.T) {
	content, err := os.ReadFile("README.md")
	if err != nil {
		t.Fatalf("Failed to read README.md: %v", err)
	}

	for _, key := range []string{"base_url", "EVODASH_BASE_URL", "EVODASH_HOME"} {
		if !strings.Contains(string(content), key) {
			t.Errorf("README.md missing configuration key %q", key)
		}
	}
}
