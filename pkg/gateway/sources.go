package gateway

import (
	"context"
	"fmt"
	"strconv"
)

// createSourceBody is the POST /sources payload.
type createSourceBody struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// CreateSource registers a new crawl source and returns its ID. This is a
// hard call: failure propagates so the operator sees exactly why a mutation
// did not happen. kind defaults to "html" when empty.
func (c *Client) CreateSource(ctx context.Context, sourceURL, kind string) (int64, error) {
	if sourceURL == "" {
		return 0, fmt.Errorf("create source: url is required")
	}
	if kind == "" {
		kind = "html"
	}

	data, err := c.post(ctx, "/sources", nil, createSourceBody{URL: sourceURL, Type: kind})
	if err != nil {
		return 0, err
	}

	var res struct {
		ID    *int64 `json:"id"`
		Error string `json:"error"`
	}
	if err := decode("/sources", data, &res); err != nil {
		return 0, err
	}
	if res.Error != "" {
		return 0, fmt.Errorf("backend error on /sources: %s", res.Error)
	}
	if res.ID == nil {
		return 0, fmt.Errorf("create source: backend returned no id")
	}

	return *res.ID, nil
}

// DeleteSource removes a crawl source by ID and reports how many rows the
// backend deleted (0 when the ID was unknown).
func (c *Client) DeleteSource(ctx context.Context, id int64) (int, error) {
	path := "/sources/" + strconv.FormatInt(id, 10)

	data, err := c.delete(ctx, path)
	if err != nil {
		return 0, err
	}

	var res struct {
		Status  string `json:"status"`
		Deleted int    `json:"deleted"`
		Error   string `json:"error"`
	}
	if err := decode(path, data, &res); err != nil {
		return 0, err
	}
	if res.Error != "" {
		return 0, fmt.Errorf("backend error on %s: %s", path, res.Error)
	}

	return res.Deleted, nil
}

// TestSource checks connectivity of a registered source. A 404 from the
// backend (unknown source ID) propagates as a *StatusError.
func (c *Client) TestSource(ctx context.Context, id int64) (ConnectivityResult, error) {
	var res ConnectivityResult
	path := "/sources/" + strconv.FormatInt(id, 10) + "/test"

	data, err := c.post(ctx, path, nil, nil)
	if err != nil {
		return res, err
	}
	if err := decode(path, data, &res); err != nil {
		return res, err
	}

	return res, nil
}

// activateIndexBody is the POST /index/activate payload.
type activateIndexBody struct {
	IndexVersionID int64   `json:"index_version_id"`
	ThresholdScore float64 `json:"threshold_score"`
}

// ActivateIndex promotes an index version to active with the given minimum
// retrieval threshold.
func (c *Client) ActivateIndex(ctx context.Context, versionID int64, threshold float64) error {
	data, err := c.post(ctx, "/index/activate", nil, activateIndexBody{
		IndexVersionID: versionID,
		ThresholdScore: threshold,
	})
	if err != nil {
		return err
	}

	var res struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := decode("/index/activate", data, &res); err != nil {
		return err
	}
	if res.Error != "" {
		return fmt.Errorf("backend error on /index/activate: %s", res.Error)
	}

	return nil
}
