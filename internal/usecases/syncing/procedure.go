package syncing

import (
	"context"
	"fmt"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/msclient"
	"github.com/vfg2006/inventory-sync-api/infrastructure/repository"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"github.com/vfg2006/inventory-sync-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	entityPageLimit = 1000
	expandPageLimit = 100
	reportPageLimit = 1000
)

type source struct {
	path  string
	label string
}

type page[T any] struct {
	source   source
	rows     []T
	syncedAt time.Time
}

// pageStats conta o desfecho das linhas de uma página.
// Falta de mapeamento conta como pulada e como erro.
type pageStats struct {
	upserted int
	skipped  int
	errors   int
}

func (s *pageStats) miss() {
	s.skipped++
	s.errors++
}

func (s *pageStats) reject(entityType domain.EntityType, err error) {
	s.miss()
	logrus.WithField("entity_type", entityType).WithError(err).Warn("Linha rejeitada na transformação")
}

// fail registra linhas que não foram gravadas; violação de FK é dependência atrasada
func (s *pageStats) fail(rows int, err error) {
	s.errors += rows
	if postgres.IsForeignKeyViolation(err) {
		s.skipped += rows
	}
}

// write grava as linhas transformadas e contabiliza o que não entrou
func write[T any](ctx context.Context, table repository.Upserter[T], rows []T, stats *pageStats) error {
	if len(rows) == 0 {
		return nil
	}

	written, err := table.Upsert(ctx, rows)
	stats.upserted += written
	if err != nil {
		stats.fail(len(rows)-written, err)
		return err
	}

	return nil
}

// procedure descreve a sincronização de um tipo de entidade
type procedure[T any] struct {
	entityType domain.EntityType
	sources    []source
	limit      int
	expand     string
	// archivable lista também os arquivados, em passagem própria
	archivable bool
	// snapshot não tem filtro de delta na API; sempre roda completo
	snapshot bool
	params   url.Values
	apply    func(ctx context.Context, p page[T]) (pageStats, error)
	// finish roda só quando todas as páginas foram gravadas
	finish func(ctx context.Context, start time.Time) error
}

func run[T any](ctx context.Context, e *Engine, p procedure[T], full bool) *domain.EntitySyncResult {
	start := e.now()
	result := &domain.EntitySyncResult{EntityType: p.entityType, StartedAt: start}

	lastStart, err := e.repos.Watermarks.GetLastSyncStart(ctx, p.entityType)
	if err != nil {
		return e.fail(result, NewSyncError(ErrWatermark, p.entityType, err.Error()))
	}

	mode, passes := plan(p.archivable, p.snapshot, full, lastStart, e.config.Location)
	result.Mode = mode

	logger := logrus.WithFields(logrus.Fields{
		"entity_type": p.entityType,
		"mode":        mode,
	})
	logger.Info("Iniciando sincronização da entidade")

	clean := true
	for _, src := range p.sources {
		for _, filters := range passes {
			params := msclient.ListParams{
				Limit:   p.limit,
				Filters: filters,
				Expand:  p.expand,
				Extra:   p.params,
			}

			pageNumber := 0
			err := e.pager.Each(ctx, src.path, params, func(raw []jsoniter.RawMessage) error {
				pageNumber++
				rows, invalid := decodeRows[T](raw, p.entityType)

				result.Fetched += len(raw)
				result.Errors += invalid
				result.Skipped += invalid

				stats, err := p.apply(ctx, page[T]{source: src, rows: rows, syncedAt: start})
				result.Upserted += stats.upserted
				result.Skipped += stats.skipped
				result.Errors += stats.errors

				if err != nil {
					clean = false
					entry := logger.WithFields(logrus.Fields{
						"path": src.path,
						"page": pageNumber,
						"rows": len(raw),
					}).WithError(err)
					switch {
					case postgres.IsForeignKeyViolation(err):
						entry.Warn("Página com referência ainda não sincronizada, linhas puladas")
					case postgres.IsUniqueViolation(err):
						entry.Error("Página viola chave única, linhas não gravadas")
					default:
						entry.Error("Erro ao gravar página, seguindo para a próxima")
					}
				}

				return nil
			})
			if err != nil {
				return e.fail(result, err)
			}
		}
	}

	if e.config.MaxErrorRate > 0 && result.ErrorRate() > e.config.MaxErrorRate {
		details := "taxa " + formatRate(result.ErrorRate()) + " acima de " + formatRate(e.config.MaxErrorRate)
		return e.fail(result, NewSyncError(ErrErrorRateExceeded, p.entityType, details))
	}

	if p.finish != nil {
		if clean {
			if err := p.finish(ctx, start); err != nil {
				return e.fail(result, err)
			}
		} else {
			logger.Warn("Páginas com falha, etapa final da sincronização não executada")
		}
	}

	if err := e.repos.Watermarks.SetSyncWindow(ctx, p.entityType, start, e.now()); err != nil {
		return e.fail(result, NewSyncError(ErrWatermark, p.entityType, err.Error()))
	}

	result.Success = true
	result.FinishedAt = e.now()

	logger.WithFields(logrus.Fields{
		"fetched":  result.Fetched,
		"upserted": result.Upserted,
		"skipped":  result.Skipped,
		"errors":   result.Errors,
		"duration": result.FinishedAt.Sub(start).String(),
	}).Info("Sincronização da entidade concluída")

	return result
}

// plan decide o modo e as passagens de filtro.
// Incremental exige marca d'água e não ser snapshot. A listagem padrão omite arquivados,
// então arquiváveis fazem uma segunda passagem com archived=true nos dois modos.
func plan(archivable, snapshot, full bool, lastStart *time.Time, loc *time.Location) (domain.SyncMode, [][]msclient.Filter) {
	if !full && !snapshot && lastStart != nil {
		updated := msclient.UpdatedAfter(*lastStart, loc)
		if archivable {
			return domain.SyncModeIncremental, [][]msclient.Filter{{updated}, {updated, msclient.Archived(true)}}
		}
		return domain.SyncModeIncremental, [][]msclient.Filter{{updated}}
	}

	if archivable {
		return domain.SyncModeFull, [][]msclient.Filter{nil, {msclient.Archived(true)}}
	}

	return domain.SyncModeFull, [][]msclient.Filter{nil}
}

func decodeRows[T any](raw []jsoniter.RawMessage, entityType domain.EntityType) ([]T, int) {
	rows := make([]T, 0, len(raw))
	invalid := 0

	for _, item := range raw {
		var row T
		if err := json.Unmarshal(item, &row); err != nil {
			invalid++
			logrus.WithFields(logrus.Fields{
				"entity_type": entityType,
				"row":         utils.PrettyJson([]byte(item)),
			}).WithError(err).Warn("Linha com formato inesperado, ignorada")
			continue
		}
		rows = append(rows, row)
	}

	return rows, invalid
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", utils.RoundWithTwoDecimalPlace(rate*100))
}
