package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WithDetails(t *testing.T) {
	withDetails := ErrProvider.WithDetails(map[string]interface{}{
		"provider_code": "ValidationException",
	})

	assert.Equal(t, "PROVIDER_ERROR", withDetails.Code)
	assert.Equal(t, http.StatusBadGateway, withDetails.StatusCode)
	assert.Equal(t, "ValidationException", withDetails.Details["provider_code"])

	// шаблон не должен меняться
	assert.Empty(t, ErrProvider.Details)
	assert.Equal(t, "PROVIDER_ERROR: Location provider request failed", withDetails.Error())
}

func TestAppError_Is(t *testing.T) {
	err := fmt.Errorf("search: %w", ErrProvider.WithDetails(map[string]interface{}{"provider": "mapbox"}))

	assert.True(t, stderrors.Is(err, ErrProvider))
	assert.False(t, stderrors.Is(err, ErrInvalidRequest))
	assert.False(t, stderrors.Is(stderrors.New("PROVIDER_ERROR"), ErrProvider))
}
