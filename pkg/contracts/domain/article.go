package domain

import "strings"

// Article is one row of the articles table.
type Article struct {
	ArticleID               string `json:"article_id" csv:"article_id" validate:"required"`
	ProductTypeName         string `json:"product_type_name" csv:"product_type_name"`
	ColourGroupName         string `json:"colour_group_name" csv:"colour_group_name"`
	GraphicalAppearanceName string `json:"graphical_appearance_name" csv:"graphical_appearance_name"`

	// ArticleCount is the number of articles sharing this article's ProductGroupKey
	ArticleCount int `json:"article_count" csv:"article_count"`

	// ImagePath is set only when the article image exists on disk
	ImagePath *string `json:"image_path,omitempty" csv:"image_path"`
}

// ArticleColumns lists the raw columns read from the articles table.
var ArticleColumns = []string{"article_id", "product_type_name", "colour_group_name", "graphical_appearance_name"}

// ProductGroupKey identifies an equivalence class of articles.
type ProductGroupKey struct {
	ProductType         string
	ColourGroup         string
	GraphicalAppearance string
}

// GroupKey returns the product group the article belongs to.
func (a Article) GroupKey() ProductGroupKey {
	return ProductGroupKey{
		ProductType:         a.ProductTypeName,
		ColourGroup:         a.ColourGroupName,
		GraphicalAppearance: a.GraphicalAppearanceName,
	}
}

// Label joins the three keywords with single spaces.
func (k ProductGroupKey) Label() string {
	return strings.Join([]string{k.ProductType, k.ColourGroup, k.GraphicalAppearance}, " ")
}
