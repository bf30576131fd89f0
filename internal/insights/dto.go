package insights

import "time"

// PDFInfo describes a stored PDF without its content.
type PDFInfo struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"sizeBytes"`
	PageCount int    `json:"pageCount,omitempty"`
	Checksum  string `json:"checksum,omitempty"`
}

// InsightResponse is the outward-facing representation of an insight. It
// never carries the encoded PDF.
type InsightResponse struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content,omitempty"`
	Author        string    `json:"author"`
	Category      string    `json:"category"`
	FeaturedImage string    `json:"featuredImage"`
	PublishDate   time.Time `json:"publishDate"`
	Published     bool      `json:"published"`
	Source        string    `json:"source"`
	ReadTime      int       `json:"readTime"`
	HasPDF        bool      `json:"hasPdf"`
	PDF           *PDFInfo  `json:"pdf,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toResponse(ins Insight) InsightResponse {
	resp := InsightResponse{
		ID:            ins.ID,
		Slug:          ins.Slug,
		Title:         ins.Title,
		Excerpt:       ins.Excerpt,
		Content:       ins.Content,
		Author:        ins.Author,
		Category:      ins.Category,
		FeaturedImage: ins.FeaturedImage,
		PublishDate:   ins.PublishDate,
		Published:     ins.Published,
		Source:        ins.Source,
		ReadTime:      ins.ReadTimeMinutes,
		HasPDF:        ins.HasPDF(),
		CreatedAt:     ins.CreatedAt,
	}
	if p := ins.PDF; p != nil {
		resp.PDF = &PDFInfo{
			Filename:  p.Filename,
			SizeBytes: p.SizeBytes,
			PageCount: p.PageCount,
			Checksum:  p.Checksum,
		}
	}
	return resp
}

// toSummary is toResponse without the body text, for listings.
func toSummary(ins Insight) InsightResponse {
	resp := toResponse(ins)
	resp.Content = ""
	return resp
}
