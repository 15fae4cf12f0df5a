package msclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	jsoniter "github.com/json-iterator/go"
	msdomain "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/domain"
)

// ListResponse mantém as linhas cruas; cada procedimento de sync as decodifica
type ListResponse struct {
	Meta msdomain.Meta         `json:"meta"`
	Rows []jsoniter.RawMessage `json:"rows"`
}

// List busca uma página. Uma página com menos linhas que o limite é a última.
func (c *MoySkladClient) List(ctx context.Context, entityPath string, params ListParams) (*ListResponse, error) {
	endpoint, err := url.Parse(c.config.URL)
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, entityPath)

	query := endpoint.Query()
	params.apply(query)
	endpoint.RawQuery = query.Encode()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	token, err := c.authorize(ctx, req)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler a resposta: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.invalidate(token)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newRequestError(http.MethodGet, entityPath, resp.StatusCode, body)
	}

	var response ListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar a resposta: %w", err)
	}

	if response.Rows == nil {
		response.Rows = []jsoniter.RawMessage{}
	}

	return &response, nil
}

func (c *MoySkladClient) authorize(ctx context.Context, req *http.Request) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return token, nil
}
