package msclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	msdomain "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/domain"
)

const maxErrorBody = 512

// RequestError representa qualquer resposta fora da faixa 2xx
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	APIErrors  []msdomain.APIError
}

func newRequestError(method, entityPath string, statusCode int, body []byte) *RequestError {
	reqErr := &RequestError{
		Method:     method,
		Path:       entityPath,
		StatusCode: statusCode,
	}

	var payload msdomain.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		reqErr.APIErrors = payload.Errors
	}

	text := string(body)
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	reqErr.Body = text

	return reqErr
}

func (e *RequestError) Error() string {
	if len(e.APIErrors) > 0 {
		messages := make([]string, 0, len(e.APIErrors))
		for _, apiErr := range e.APIErrors {
			messages = append(messages, fmt.Sprintf("%s (código %d)", apiErr.Error, apiErr.Code))
		}
		return fmt.Sprintf("moysklad: %s %s falhou com status %d: %s", e.Method, e.Path, e.StatusCode, strings.Join(messages, "; "))
	}
	return fmt.Sprintf("moysklad: %s %s falhou com status %d", e.Method, e.Path, e.StatusCode)
}

// Retryable indica limite de requisições ou falha do servidor
func (e *RequestError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsRetryable decide se vale repetir a página. Erros de rede são repetíveis,
// cancelamento de contexto e erros 4xx não.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Retryable()
	}

	return true
}
