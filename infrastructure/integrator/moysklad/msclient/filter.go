package msclient

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	msdomain "github.com/vfg2006/inventory-sync-api/infrastructure/integrator/moysklad/domain"
)

// Filter é uma cláusula campo/operador/valor do parâmetro filter
type Filter struct {
	Field    string
	Operator string
	Value    string
}

func (f Filter) String() string {
	return f.Field + f.Operator + f.Value
}

// UpdatedAfter gera o filtro estritamente maior que a marca d'água
func UpdatedAfter(t time.Time, loc *time.Location) Filter {
	return Filter{Field: "updated", Operator: ">", Value: msdomain.FormatTimestamp(t, loc)}
}

// Archived restringe a listagem a registros arquivados ou ativos
func Archived(archived bool) Filter {
	return Filter{Field: "archived", Operator: "=", Value: strconv.FormatBool(archived)}
}

// JoinFilters junta as cláusulas com ponto e vírgula
func JoinFilters(filters []Filter) string {
	parts := make([]string, 0, len(filters))
	for _, filter := range filters {
		parts = append(parts, filter.String())
	}
	return strings.Join(parts, ";")
}

// ListParams são os parâmetros de paginação e filtro de uma listagem
type ListParams struct {
	Limit   int
	Offset  int
	Filters []Filter
	Expand  string
	Extra   url.Values
}

func (p ListParams) apply(query url.Values) {
	for key, values := range p.Extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	query.Set("offset", strconv.Itoa(p.Offset))

	if len(p.Filters) > 0 {
		query.Set("filter", JoinFilters(p.Filters))
	}

	if p.Expand != "" {
		query.Set("expand", p.Expand)
	}
}

// ReportWindow monta momentFrom/momentTo dos relatórios
func ReportWindow(from, to time.Time, loc *time.Location) url.Values {
	return url.Values{
		"momentFrom": []string{msdomain.FormatTimestamp(from, loc)},
		"momentTo":   []string{msdomain.FormatTimestamp(to, loc)},
	}
}
