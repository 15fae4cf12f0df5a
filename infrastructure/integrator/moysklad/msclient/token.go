package msclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sync"

	"github.com/vfg2006/inventory-sync-api/internal/config"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// tokenSource usa o token configurado ou troca login e senha por um token, guardado até ser recusado
type tokenSource struct {
	httpClient *http.Client
	config     config.MoySklad
	mu         sync.Mutex
	token      string
}

func newTokenSource(httpClient *http.Client, cfg config.MoySklad) *tokenSource {
	return &tokenSource{
		httpClient: httpClient,
		config:     cfg,
		token:      cfg.Token,
	}
}

func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return s.token, nil
	}

	if s.config.Login == "" {
		return "", fmt.Errorf("credenciais do MoySklad não configuradas")
	}

	endpoint, err := url.Parse(s.config.URL)
	if err != nil {
		return "", fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, "security/token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("erro ao criar a requisição de token: %w", err)
	}
	req.SetBasicAuth(s.config.Login, s.config.Password)
	req.Header.Set("Accept", "application/json;charset=utf-8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("erro ao obter token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("erro ao ler resposta de token: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", newRequestError(http.MethodPost, "security/token", resp.StatusCode, body)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("erro ao decodificar token: %w", err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("resposta de token sem access_token")
	}

	s.token = token.AccessToken
	return s.token, nil
}

// invalidate descarta o token recusado para que a próxima chamada peça outro.
// Sem login configurado o token fixo é mantido.
func (s *tokenSource) invalidate(rejected string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Login == "" || s.token != rejected {
		return
	}
	s.token = ""
}
