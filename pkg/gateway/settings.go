package gateway

import (
	"context"
	"fmt"
	"strings"
)

// Settings fetches the admin settings map. Hard call: the settings view
// shows stale-or-empty state when this fails, it does not guess.
func (c *Client) Settings(ctx context.Context) (Settings, error) {
	data, err := c.get(ctx, "/admin/settings", nil)
	if err != nil {
		return nil, err
	}

	var env struct {
		Items Settings `json:"items"`
		Error string   `json:"error"`
	}
	if err := decode("/admin/settings", data, &env); err != nil {
		return nil, err
	}
	if env.Error != "" {
		return nil, fmt.Errorf("backend error on /admin/settings: %s", env.Error)
	}

	return env.Items, nil
}

// settingBody is the POST /admin/settings payload.
type settingBody struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SaveSetting upserts a single setting. Hard call.
func (c *Client) SaveSetting(ctx context.Context, key string, value any) error {
	if key == "" {
		return fmt.Errorf("save setting: key is required")
	}

	data, err := c.post(ctx, "/admin/settings", nil, settingBody{Key: key, Value: value})
	if err != nil {
		return err
	}

	var res struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := decode("/admin/settings", data, &res); err != nil {
		return err
	}
	if res.Error != "" {
		return fmt.Errorf("backend error on /admin/settings: %s", res.Error)
	}

	return nil
}

// ParseToggle interprets a stored setting value as a boolean. The backend
// stores toggles inconsistently (true, "1", 1, "true", ...), so the accepted
// encodings are enumerated and anything else is a parse error rather than a
// silent false: a misconfigured toggle should be visible, not masked.
func ParseToggle(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off":
			return false, nil
		}
		return false, fmt.Errorf("unrecognized toggle value %q", v)
	case float64:
		// encoding/json decodes all JSON numbers to float64.
		if v == 1 {
			return true, nil
		}
		if v == 0 {
			return false, nil
		}
		return false, fmt.Errorf("unrecognized toggle number %v", v)
	case int:
		if v == 1 {
			return true, nil
		}
		if v == 0 {
			return false, nil
		}
		return false, fmt.Errorf("unrecognized toggle number %d", v)
	default:
		return false, fmt.Errorf("unrecognized toggle type %T", value)
	}
}
