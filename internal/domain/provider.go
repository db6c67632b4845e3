package domain

import "fmt"

// ProviderError - ошибка внешнего провайдера геолокации
type ProviderError struct {
	Provider   string
	Operation  string
	Code       string
	Message    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Provider, e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Operation, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
