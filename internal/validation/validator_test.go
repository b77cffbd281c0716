package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/streamlens/streamlens-server/internal/errors"
	"github.com/streamlens/streamlens-server/internal/validation"
)

type testParams struct {
	Query  string `json:"q" validate:"required,max=200"`
	Limit  int    `json:"limit" validate:"gte=1,lte=100"`
	Offset int    `json:"offset" validate:"gte=0"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(testParams{Query: "nolan", Limit: 25, Offset: 0})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		params    testParams
		wantField string
	}{
		{
			name:      "missing required query",
			params:    testParams{Query: "", Limit: 10},
			wantField: "q",
		},
		{
			name:      "query too long",
			params:    testParams{Query: string(make([]byte, 201)), Limit: 10},
			wantField: "q",
		},
		{
			name:      "limit below minimum",
			params:    testParams{Query: "x", Limit: 0},
			wantField: "limit",
		},
		{
			name:      "limit above maximum",
			params:    testParams{Query: "x", Limit: 101},
			wantField: "limit",
		},
		{
			name:      "negative offset",
			params:    testParams{Query: "x", Limit: 10, Offset: -1},
			wantField: "offset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.params)
			require.Error(t, err)

			var domainErr *apperrors.Error
			require.True(t, apperrors.As(err, &domainErr))
			assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(testParams{Query: "", Limit: 10})
	require.Error(t, err)

	var domainErr *apperrors.Error
	require.True(t, apperrors.As(err, &domainErr))

	// Details are keyed by the JSON tag name, not the struct field name.
	details := domainErr.Details.(map[string]string)
	assert.Contains(t, details, "q")
	assert.NotContains(t, details, "Query")
}
