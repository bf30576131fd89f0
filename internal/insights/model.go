package insights

import "time"

// SourcePDF marks insights created from an uploaded PDF.
const SourcePDF = "pdf"

// Insight is a published article record.
type Insight struct {
	ID              string
	Slug            string
	Title           string
	Excerpt         string
	Content         string
	Author          string
	Category        string
	FeaturedImage   string
	PublishDate     time.Time
	Published       bool
	Source          string
	ReadTimeMinutes int
	PDF             *PDFPayload
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PDFPayload is the original upload stored alongside the record. Data is
// standard base64.
type PDFPayload struct {
	Data      string
	Filename  string
	SizeBytes int64
	PageCount int
	Checksum  string
	MimeType  string
}

// HasPDF reports whether a binary was stored with the record. Listings drop
// Data, so this looks at the payload metadata only.
func (i Insight) HasPDF() bool {
	return i.PDF != nil
}

// WithoutPDFData returns a copy with the encoded binary removed. Payload
// metadata is kept.
func (i Insight) WithoutPDFData() Insight {
	if i.PDF == nil {
		return i
	}
	payload := *i.PDF
	payload.Data = ""
	i.PDF = &payload
	return i
}

// PDFFile is a decoded binary ready to stream.
type PDFFile struct {
	Data     []byte
	Filename string
}
