package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/inventory-sync-api/infrastructure/database/postgres"
)

// limite de parâmetros por statement do protocolo do Postgres
const maxStatementParams = 65535

// Upserter grava um lote de linhas de forma idempotente
type Upserter[T any] interface {
	Upsert(ctx context.Context, rows []T) (int, error)
}

// TableSpec descreve uma tabela para o upsert genérico
type TableSpec[T any] struct {
	Name     string
	Conflict []string
	Columns  []string
	// Preserved nunca são sobrescritas no conflito
	Preserved []string
	Key       func(T) string
	Values    func(T) []any
}

// Table é o repositório genérico por nome de tabela e chave de conflito
type Table[T any] struct {
	conn postgres.Queryer
	spec TableSpec[T]
}

func NewTable[T any](conn postgres.Queryer, spec TableSpec[T]) *Table[T] {
	return &Table[T]{conn: conn, spec: spec}
}

func (t *Table[T]) Name() string {
	return t.spec.Name
}

// Upsert grava as linhas em um único INSERT ... ON CONFLICT por bloco.
// Linhas repetidas no mesmo lote ficam com a última ocorrência.
func (t *Table[T]) Upsert(ctx context.Context, rows []T) (int, error) {
	rows = t.dedupe(rows)
	if len(rows) == 0 {
		return 0, nil
	}

	chunkSize := maxStatementParams / len(t.spec.Columns)
	written := 0

	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		query := squirrel.StatementBuilder.
			Insert(t.spec.Name).
			Columns(t.spec.Columns...)

		for _, row := range rows[start:end] {
			query = query.Values(t.spec.Values(row)...)
		}

		sqlQuery, args, err := query.
			Suffix(t.conflictClause()).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return written, fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := t.conn.ExecContext(ctx, sqlQuery, args...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return written, fmt.Errorf("erro no banco de dados em %s: %w (código: %s)", t.spec.Name, pqErr, pqErr.Code)
			}
			return written, fmt.Errorf("erro ao executar a query em %s: %w", t.spec.Name, err)
		}

		written += end - start
	}

	return written, nil
}

func (t *Table[T]) dedupe(rows []T) []T {
	if t.spec.Key == nil || len(rows) < 2 {
		return rows
	}

	position := make(map[string]int, len(rows))
	unique := make([]T, 0, len(rows))
	for _, row := range rows {
		key := t.spec.Key(row)
		if i, ok := position[key]; ok {
			unique[i] = row
			continue
		}
		position[key] = len(unique)
		unique = append(unique, row)
	}

	return unique
}

func (t *Table[T]) conflictClause() string {
	skip := make(map[string]struct{}, len(t.spec.Conflict)+len(t.spec.Preserved))
	for _, column := range t.spec.Conflict {
		skip[column] = struct{}{}
	}
	for _, column := range t.spec.Preserved {
		skip[column] = struct{}{}
	}

	updates := make([]string, 0, len(t.spec.Columns))
	for _, column := range t.spec.Columns {
		if _, ok := skip[column]; ok {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}

	conflict := strings.Join(t.spec.Conflict, ", ")
	if len(updates) == 0 {
		return fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", conflict)
	}

	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", conflict, strings.Join(updates, ", "))
}
