package news

import (
	"errors"
	"time"
)

// ErrParse marks a record whose source markup is missing expected
// fields. Collectors log and skip such records; the rest of the batch
// proceeds.
var ErrParse = errors.New("article record missing expected fields")

type RawArticle struct {
	Title       string
	Content     string
	Summary     string
	URL         string
	Source      string
	Publisher   string
	PublishedAt time.Time
}

// Collector fetches raw article records from one source. Fetch returns
// an empty list, not an error, when there are no new articles.
type Collector interface {
	Fetch(limit int) ([]RawArticle, error)
	Name() string
}
