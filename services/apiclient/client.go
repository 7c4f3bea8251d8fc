// Package apiclient talks to the TeenFin API on behalf of an admin screen.
// Its persisters plug the API into an ordering.Controller.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// StatusError is returned when the API answers with a non 2xx status.
type StatusError struct {
	Code    int
	ErrCode string // the `code` of the error body, if any
	Message string
}

func (err StatusError) Error() string {
	if err.ErrCode != "" {
		return fmt.Sprintf("api: %d %s: %s", err.Code, err.ErrCode, err.Message)
	}
	return fmt.Sprintf("api: %d: %s", err.Code, err.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client of the API served at baseURL (eg. "https://api.teenfin.test/v1"),
// authenticated with the bearer token.
func New(baseURL, token string, httpClient ...*http.Client) *Client {
	hc := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		hc = httpClient[0]
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    hc,
	}
}

// fetchJSON sends body as JSON and decodes the answer into out. Either may be nil.
func (c *Client) fetchJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.WithStack(statusError(resp))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decoding response body")
}

func statusError(resp *http.Response) *StatusError {
	sErr := &StatusError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		sErr.Message = body.Error
		sErr.ErrCode = body.Code
	} else if len(data) > 0 {
		sErr.Message = strings.TrimSpace(string(data))
	}
	return sErr
}
