package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

func TestSettingsDecodesItemsMap(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/settings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"items":{"EVENTS_VERBOSE":"1","DISCOVERY_QUERIES":{"queries":["ia"]}}}`)) //nolint:errcheck
	})

	s, err := c.Settings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s["EVENTS_VERBOSE"] != "1" {
		t.Errorf("EVENTS_VERBOSE = %v; want \"1\"", s["EVENTS_VERBOSE"])
	}
}

func TestSaveSettingPostsKeyValue(t *testing.T) {
	t.Parallel()

	var got settingBody
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &got); err != nil {
			t.Errorf("body not JSON: %v", err)
		}
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	if err := c.SaveSetting(context.Background(), "CRAWLER_OBEY_ROBOTS", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "CRAWLER_OBEY_ROBOTS" || got.Value != true {
		t.Errorf("posted %+v; want key/value pair", got)
	}
}

func TestSaveSettingPropagatesBackendError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","error":"db unavailable"}`)) //nolint:errcheck
	})

	if err := c.SaveSetting(context.Background(), "K", "v"); err == nil {
		t.Fatal("expected error for backend-reported failure")
	}
}

func TestParseToggle(t *testing.T) {
	t.Parallel()

	truthy := []any{true, "1", "true", "TRUE", " yes ", "on", float64(1), 1}
	for _, v := range truthy {
		got, err := ParseToggle(v)
		if err != nil {
			t.Errorf("ParseToggle(%v): unexpected error %v", v, err)
		}
		if !got {
			t.Errorf("ParseToggle(%v) = false; want true", v)
		}
	}

	falsy := []any{false, "0", "false", "no", "off", float64(0), 0}
	for _, v := range falsy {
		got, err := ParseToggle(v)
		if err != nil {
			t.Errorf("ParseToggle(%v): unexpected error %v", v, err)
		}
		if got {
			t.Errorf("ParseToggle(%v) = true; want false", v)
		}
	}

	// Unrecognized encodings are parse errors, never a silent false.
	invalid := []any{"maybe", float64(2), map[string]any{"enabled": true}, nil, []any{1}}
	for _, v := range invalid {
		if _, err := ParseToggle(v); err == nil {
			t.Errorf("ParseToggle(%v): expected error", v)
		}
	}
}
