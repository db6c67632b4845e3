package usecase

import (
	stderrors "errors"

	"github.com/route-gateway/internal/domain"
	"github.com/route-gateway/internal/pkg/errors"
)

// toAppError переводит ошибку провайдера в PROVIDER_ERROR с деталями провайдера
func toAppError(err error) error {
	var pe *domain.ProviderError
	if !stderrors.As(err, &pe) {
		return errors.ErrProvider.WithDetails(map[string]interface{}{
			"provider_message": err.Error(),
		})
	}

	details := map[string]interface{}{
		"provider":         pe.Provider,
		"operation":        pe.Operation,
		"provider_message": pe.Message,
	}
	if pe.Code != "" {
		details["provider_code"] = pe.Code
	}
	if pe.StatusCode != 0 {
		details["provider_status"] = pe.StatusCode
	}

	return errors.ErrProvider.WithDetails(details)
}
