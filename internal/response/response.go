// Package response provides generic handlers for platform API responses to
// eliminate boilerplate: status checking, JSON decoding and error shaping.
package response

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
)

// maxErrorBody bounds how much of an error response body is captured into the
// returned error. Platform error bodies are small JSON documents; the cap only
// guards against proxies answering with HTML pages.
const maxErrorBody = 2048

// platformError mirrors the platform's error body shape.
type platformError struct {
	ErrorCode string `json:"error"`
	Message   string `json:"message"`
}

// Error converts a non-success response into an error carrying the status
// code and, when present, the platform's error code and message. The response
// body is consumed.
func Error(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var perr platformError
	if err := json.Unmarshal(body, &perr); err == nil && perr.Message != "" {
		return errors.Newf("API error: status=%d error=%q message=%q",
			resp.StatusCode, perr.ErrorCode, perr.Message)
	}

	return errors.Newf("API error: status=%d", resp.StatusCode)
}

// Decode checks the response status and decodes the JSON body into a new T.
// Any 2xx status is accepted. The response body is closed in all cases.
//
// Usage:
//
//	resp, err := c.http.Do(req)
//	if err != nil {
//		return nil, errors.Wrap(err, "failed to get managed object")
//	}
//	return response.Decode[ManagedObject](resp)
func Decode[T any](resp *http.Response) (*T, error) {
	defer resp.Body.Close()

	if !Success(resp.StatusCode) {
		return nil, Error(resp)
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty response from API")
		}
		return nil, errors.Wrap(err, "failed to decode response")
	}

	return &out, nil
}

// Discard checks the response status and drops the body (DELETE, bodyless
// PUT). The body is drained so the underlying connection can be reused.
func Discard(resp *http.Response) error {
	defer resp.Body.Close()

	if !Success(resp.StatusCode) {
		return Error(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Success reports whether the status code is in the 2xx range.
func Success(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
