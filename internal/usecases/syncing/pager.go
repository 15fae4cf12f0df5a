package syncing

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/msclient"
)

// Pager percorre uma listagem página a página, repetindo falhas transitórias.
// A última página é a primeira com menos linhas que o limite.
type Pager struct {
	client  msclient.Client
	retries int
	delay   time.Duration
}

func NewPager(client msclient.Client, retries int, delay time.Duration) *Pager {
	if retries < 0 {
		retries = 0
	}
	return &Pager{client: client, retries: retries, delay: delay}
}

// Each chama fn para cada página, em sequência. Erro de busca ou de fn interrompe a listagem.
func (p *Pager) Each(ctx context.Context, path string, params msclient.ListParams, fn func(rows []jsoniter.RawMessage) error) error {
	limit := params.Limit

	for {
		resp, err := p.Fetch(ctx, path, params)
		if err != nil {
			return err
		}

		if err := fn(resp.Rows); err != nil {
			return err
		}

		if limit <= 0 || len(resp.Rows) < limit {
			return nil
		}

		params.Offset += limit
	}
}

// Fetch busca uma página com até retries novas tentativas e espera linear entre elas
func (p *Pager) Fetch(ctx context.Context, path string, params msclient.ListParams) (*msclient.ListResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= p.retries; attempt++ {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * p.delay):
			}
		}

		resp, err := p.client.List(ctx, path, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !msclient.IsRetryable(err) {
			break
		}

		logrus.WithFields(logrus.Fields{
			"path":    path,
			"offset":  params.Offset,
			"attempt": attempt + 1,
		}).WithError(err).Warn("Erro transitório ao buscar página, tentando novamente")
	}

	return nil, errors.Wrapf(lastErr, "falha ao buscar %s (offset %d)", path, params.Offset)
}
