package files

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// ImageExt is the extension of article images
const ImageExt = ".jpg"

// ImageResolver locates article images laid out as
// <base>/<first 3 chars of article id>/<article id>.jpg
type ImageResolver struct {
	baseDir string
	logger  *slog.Logger
}

// NewImageResolver creates a resolver rooted at baseDir
func NewImageResolver(baseDir string, logger *slog.Logger) *ImageResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageResolver{baseDir: baseDir, logger: logger}
}

// ImagePath returns where the image of articleID would be stored
func (r *ImageResolver) ImagePath(articleID string) string {
	folder := articleID
	if len(folder) > 3 {
		folder = folder[:3]
	}
	return filepath.Join(r.baseDir, folder, articleID+ImageExt)
}

// Resolve returns the image path of articleID if the file exists
func (r *ImageResolver) Resolve(articleID string) (string, bool) {
	if articleID == "" {
		return "", false
	}
	path := r.ImagePath(articleID)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// AddImagePaths sets ImagePath on every article whose image exists and
// clears it on the others. It returns the number of images found.
func (r *ImageResolver) AddImagePaths(articles []domain.Article) int {
	found := 0
	for i := range articles {
		path, ok := r.Resolve(articles[i].ArticleID)
		if !ok {
			articles[i].ImagePath = nil
			continue
		}
		articles[i].ImagePath = domain.StringPtr(path)
		found++
	}

	r.logger.Info("Image paths resolved",
		slog.String("images_dir", r.baseDir),
		slog.Int("article_count", len(articles)),
		slog.Int("images_found", found))
	return found
}
