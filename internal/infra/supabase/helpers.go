package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// ============================================================
// HTTP helpers for POST and PATCH
// ============================================================

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, path, nil)
}

func (c *Client) doPost(ctx context.Context, table string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.doRequest(ctx, http.MethodPost, table, bytes.NewReader(jsonBody))
}

func (c *Client) doPatch(ctx context.Context, path string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.doRequest(ctx, http.MethodPatch, path, bytes.NewReader(jsonBody))
}

func (c *Client) doDelete(ctx context.Context, path string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	return err
}
