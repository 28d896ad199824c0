package article

import "github.com/3weTN/latest-news/internal/domain/entity"

// DTO is the resolution response: the article (null on a miss) plus every
// detail URL the resolver attempted.
type DTO struct {
	Article       *entity.Article `json:"article"`
	AttemptedURLs []string        `json:"attemptedUrls"`
}
