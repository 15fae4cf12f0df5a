package msdomain

import (
	"strings"
	"time"
)

// TimestampLayout é o formato de datas usado pela API e pelos filtros
const TimestampLayout = "2006-01-02 15:04:05"

// Meta é o bloco de metadados presente em toda entidade e em toda listagem
type Meta struct {
	Href      string `json:"href"`
	Type      string `json:"type,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Size      int    `json:"size,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// ID extrai o identificador do final do href
func (m Meta) ID() string {
	href := m.Href
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimRight(href, "/")
	if i := strings.LastIndexByte(href, '/'); i >= 0 {
		return href[i+1:]
	}
	return href
}

// EntityKind devolve o segmento de tipo do href (product, variant, bundle...)
func (m Meta) EntityKind() string {
	href := m.Href
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	parts := strings.Split(strings.TrimRight(href, "/"), "/")
	if len(parts) < 2 {
		return m.Type
	}
	return parts[len(parts)-2]
}

// Ref é uma referência a outra entidade
type Ref struct {
	Meta Meta   `json:"meta"`
	Name string `json:"name,omitempty"`
}

// Timestamp mantém o texto original; o fuso é aplicado na conversão
type Timestamp string

func (t Timestamp) Time(loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(string(t))
	if value == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	// milissegundos após os segundos são aceitos pelo parser mesmo fora do layout
	return time.ParseInLocation(TimestampLayout, value, loc)
}

// FormatTimestamp formata uma data para uso em filtros e parâmetros de relatório
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimestampLayout)
}

// APIError é um item do array "errors" devolvido em respostas de erro
type APIError struct {
	Error    string `json:"error"`
	Code     int    `json:"code"`
	MoreInfo string `json:"moreInfo,omitempty"`
}

type ErrorResponse struct {
	Errors []APIError `json:"errors"`
}
