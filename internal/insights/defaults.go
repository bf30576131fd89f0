package insights

import "strings"

// Fallbacks used when configuration leaves a default blank.
const (
	DefaultCategory      = "Actuarial Insights"
	DefaultFeaturedImage = "https://placehold.co/1200x630?text=Insight"
	DefaultAuthor        = "Unknown Author"
)

// Defaults fills fields the uploader did not supply.
type Defaults struct {
	Category      string
	FeaturedImage string
	Author        string
}

func (d Defaults) normalized() Defaults {
	if strings.TrimSpace(d.Category) == "" {
		d.Category = DefaultCategory
	}
	if strings.TrimSpace(d.FeaturedImage) == "" {
		d.FeaturedImage = DefaultFeaturedImage
	}
	if strings.TrimSpace(d.Author) == "" {
		d.Author = DefaultAuthor
	}
	return d
}
