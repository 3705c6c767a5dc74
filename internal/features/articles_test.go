package features

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

func TestGroupArticles(t *testing.T) {
	articles := GroupArticles([]domain.Article{
		{ArticleID: "a1", ProductTypeName: "Trousers", ColourGroupName: "Black", GraphicalAppearanceName: "Solid"},
		{ArticleID: "a2", ProductTypeName: "Trousers", ColourGroupName: "Black", GraphicalAppearanceName: "Solid"},
		{ArticleID: "a3", ProductTypeName: "Trousers", ColourGroupName: "Blue", GraphicalAppearanceName: "Solid"},
		{ArticleID: "a4", ProductTypeName: "Sweater", ColourGroupName: "Black", GraphicalAppearanceName: "Solid"},
		{ArticleID: "a5", ProductTypeName: "Trousers", ColourGroupName: "Black", GraphicalAppearanceName: "Solid"},
	})

	want := map[string]int{"a1": 3, "a2": 3, "a3": 1, "a4": 1, "a5": 3}
	for _, a := range articles {
		assert.Equal(t, want[a.ArticleID], a.ArticleCount, a.ArticleID)
	}
}

func TestArticleGroupCounts_SumsToArticleCount(t *testing.T) {
	articles := []domain.Article{
		{ArticleID: "a1", ProductTypeName: "Dress"},
		{ArticleID: "a2", ProductTypeName: "Dress"},
		{ArticleID: "a3", ProductTypeName: "Top", ColourGroupName: "Red"},
	}

	total := 0
	for _, n := range ArticleGroupCounts(articles) {
		total += n
	}
	assert.Equal(t, len(articles), total)
}
