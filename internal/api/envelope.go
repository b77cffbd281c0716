package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire envelope version. Clients key their parsers on
// this field, so it only changes together with a coordinated client release.
const envelopeVersion = 1

// successEnvelope wraps every successful response body.
type successEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// errorEnvelope wraps every error response body. Simple errors carry a bare
// Error string; coded errors carry code, message, and optional details.
type errorEnvelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps response bodies in the versioned envelope. It
// runs as a huma transformer, so every registered operation passes through
// it; /metrics is mounted outside huma and stays unwrapped.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		env := errorEnvelope{V: envelopeVersion}
		if apiErr.Code == "" {
			env.Error = apiErr.Message
			return env, nil
		}
		env.Code = apiErr.Code
		env.Message = apiErr.Message
		env.Details = apiErr.Details
		return env, nil
	}

	return successEnvelope{V: envelopeVersion, Success: true, Data: v}, nil
}
