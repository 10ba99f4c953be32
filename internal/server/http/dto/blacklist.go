package dto

import "encoding/json"

// BlacklistResponse lists blocked phone numbers.
type BlacklistResponse struct {
	Numbers []string `json:"numbers"`
}

// BlacklistRequest describes POST /blacklist payload.
type BlacklistRequest struct {
	Number string `json:"number" binding:"required"`
	Intent string `json:"intent" binding:"required,blacklistintent"`
}

// BlacklistResult echoes the applied change and the execution endpoint reply.
type BlacklistResult struct {
	Status          string          `json:"status"`
	Number          string          `json:"number"`
	Intent          string          `json:"intent"`
	ExecutionResult json.RawMessage `json:"executionResult,omitempty"`
	Error           string          `json:"error,omitempty"`
}
