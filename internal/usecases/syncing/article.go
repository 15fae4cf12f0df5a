package syncing

import "strings"

const (
	missingArticlePrefix  = "NOART-"
	archivedArticleSuffix = "-ARCH-"
)

// shortID usa os 8 primeiros caracteres do ID externo para que o reparo seja estável entre execuções
func shortID(foreignID string) string {
	id := strings.ReplaceAll(foreignID, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// repairArticle garante artigo único entre produtos ativos.
// owners vem do banco e tem prioridade sobre claimed, que guarda os artigos já usados nesta execução.
func repairArticle(article, foreignID string, archived bool, owners, claimed map[string]string) string {
	article = strings.TrimSpace(article)
	id8 := shortID(foreignID)

	if article == "" {
		return missingArticlePrefix + id8
	}

	if archived {
		return article + archivedArticleSuffix + id8
	}

	if owner, ok := owners[article]; ok {
		if owner != foreignID {
			return article + "-" + id8
		}
	} else if other, ok := claimed[article]; ok && other != foreignID {
		return article + "-" + id8
	}

	claimed[article] = foreignID
	return article
}
