package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrInvalidTransition", ErrInvalidTransition},
		{"ErrEmptyContent", ErrEmptyContent},
		{"ErrTemplateNotFound", ErrTemplateNotFound},
		{"ErrNoDocuments", ErrNoDocuments},
		{"ErrAnalysisInProgress", ErrAnalysisInProgress},
		{"ErrDocumentTooLarge", ErrDocumentTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestExtractionError(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := fmt.Errorf("analyse: %w", &ExtractionError{FileName: "report.docx", Err: cause})

	var extractErr *ExtractionError
	assert.True(t, errors.As(err, &extractErr))
	assert.Equal(t, "report.docx", extractErr.FileName)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "extracting report.docx: zip: not a valid zip file", extractErr.Error())
}

func TestGatewayError(t *testing.T) {
	t.Run("with status", func(t *testing.T) {
		err := &GatewayError{StatusCode: 401, Err: errors.New("invalid api key")}
		assert.Equal(t, "ai gateway (status 401): invalid api key", err.Error())
		assert.False(t, err.Retryable())
	})

	t.Run("transport failure", func(t *testing.T) {
		err := &GatewayError{Err: errors.New("connection refused")}
		assert.Equal(t, "ai gateway: connection refused", err.Error())
		assert.True(t, err.Retryable())
	})

	t.Run("retryable statuses", func(t *testing.T) {
		assert.True(t, (&GatewayError{StatusCode: 429}).Retryable())
		assert.True(t, (&GatewayError{StatusCode: 503}).Retryable())
		assert.False(t, (&GatewayError{StatusCode: 200}).Retryable())
		assert.False(t, (&GatewayError{StatusCode: 400}).Retryable())
	})
}

func TestPersistenceError(t *testing.T) {
	err := &PersistenceError{Op: "saving issues", Err: ErrNotFound}
	assert.Equal(t, "saving issues: not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
}
