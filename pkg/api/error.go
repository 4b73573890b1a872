package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// APIError represents an API error response
type APIError struct {
	Code       string
	Message    string
	StatusCode int
	Details    map[string]interface{}
}

func (e *APIError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("[%d] %s: %s (details: %v)", e.StatusCode, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

// ConflictError reports that the list changed on the server since the
// version the client based its write on.
type ConflictError struct {
	ListID  string
	Message string
	// ServerUpdatedAt is set when the server disclosed its current version
	ServerUpdatedAt *time.Time
}

func (e *ConflictError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("list %s was modified by another session", e.ListID)
	}
	return e.Message
}

// ParseError parses an error response from the API
func ParseError(resp *resty.Response) error {
	statusCode := resp.StatusCode()

	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil && errResp.Code != "" {
		return &APIError{
			Code:       errResp.Code,
			Message:    errResp.Message,
			StatusCode: statusCode,
			Details:    errResp.Details,
		}
	}

	return &APIError{
		Code:       "unknown_error",
		Message:    string(resp.Body()),
		StatusCode: statusCode,
	}
}

// parseConflict returns a ConflictError when resp is a 409 carrying the
// conflict flag, nil otherwise.
func parseConflict(listID string, resp *resty.Response) *ConflictError {
	if resp.StatusCode() != http.StatusConflict {
		return nil
	}
	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err != nil || !errResp.Conflict {
		return nil
	}
	return &ConflictError{
		ListID:          listID,
		Message:         errResp.Message,
		ServerUpdatedAt: errResp.UpdatedAt,
	}
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsConflict reports whether err is a reorder conflict
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// IsUnauthorized checks if error is due to missing/invalid authentication
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	return statusOf(err) >= 500
}

// CheckResponse checks if response is successful and returns error if not
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return ParseError(resp)
	}

	return nil
}
