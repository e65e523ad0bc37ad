package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

// decodeSuccessResponse copies the response payload into dest. Both a bare
// document and a {"data": ...} envelope are accepted.
func decodeSuccessResponse(resp *Response, dest interface{}) error {
	if resp == nil {
		return errors.New("nil success response")
	}

	raw := bytes.TrimSpace(resp.Body)
	if len(raw) == 0 {
		return malformed(resp.Op, "empty response body")
	}

	if raw[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil {
			data := bytes.TrimSpace(envelope.Data)
			if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
				raw = data
			}
		}
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return &Error{Kind: KindMalformed, Op: resp.Op, Message: "unexpected response shape", Err: err}
	}

	return nil
}

func listAs[T any](ctx context.Context, c *Client, resource string) ([]T, error) {
	resp, err := c.List(ctx, resource, nil)
	if err != nil {
		return nil, err
	}

	var out []T
	if err := decodeSuccessResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func getAs[T any](ctx context.Context, c *Client, resource, id string) (*T, error) {
	resp, err := c.Get(ctx, resource, id)
	if err != nil {
		return nil, err
	}

	var out T
	if err := decodeSuccessResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func createAs[T any](ctx context.Context, c *Client, resource string, payload interface{}) (*T, error) {
	resp, err := c.Create(ctx, resource, payload)
	if err != nil {
		return nil, err
	}

	var out T
	if err := decodeSuccessResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func updateAs[T any](ctx context.Context, c *Client, resource, id string, payload interface{}) (*T, error) {
	resp, err := c.Update(ctx, resource, id, payload)
	if err != nil {
		return nil, err
	}

	var out T
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return &out, nil
	}
	if err := decodeSuccessResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
