package msclient

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

import (
	"context"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/inventory-sync-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client lista coleções paginadas do MoySklad. Não faz retry.
type Client interface {
	List(ctx context.Context, entityPath string, params ListParams) (*ListResponse, error)
}

type MoySkladClient struct {
	httpClient *http.Client
	config     config.MoySklad
	tokens     *tokenSource
	throttle   *time.Ticker
}

// NewClient cria o cliente com timeout e limite de requisições por segundo
func NewClient(cfg *config.Config) *MoySkladClient {
	httpClient := &http.Client{
		Timeout: cfg.MoySklad.Timeout,
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 60 * time.Second
	}

	client := &MoySkladClient{
		httpClient: httpClient,
		config:     cfg.MoySklad,
		tokens:     newTokenSource(httpClient, cfg.MoySklad),
	}

	if cfg.MoySklad.RequestsPerSecond > 0 {
		client.throttle = time.NewTicker(time.Second / time.Duration(cfg.MoySklad.RequestsPerSecond))
	}

	return client
}

// Close libera o ticker do limitador
func (c *MoySkladClient) Close() {
	if c.throttle != nil {
		c.throttle.Stop()
	}
}

func (c *MoySkladClient) wait(ctx context.Context) error {
	if c.throttle == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.throttle.C:
		return nil
	}
}
