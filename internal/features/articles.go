package features

import (
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// ArticleGroupCounts counts articles per (product type, colour group,
// graphical appearance) triple.
func ArticleGroupCounts(articles []domain.Article) map[domain.ProductGroupKey]int {
	counts := make(map[domain.ProductGroupKey]int)
	for _, a := range articles {
		counts[a.GroupKey()]++
	}
	return counts
}

// GroupArticles sets ArticleCount on every article to the size of its product
// group, collapsing thousands of SKUs into a few hundred comparable groups.
func GroupArticles(articles []domain.Article) []domain.Article {
	counts := ArticleGroupCounts(articles)
	for i := range articles {
		articles[i].ArticleCount = counts[articles[i].GroupKey()]
	}
	return articles
}
