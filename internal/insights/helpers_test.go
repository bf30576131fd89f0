package insights

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"insights-backend/internal/pdftext"
)

var fixedNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

type spyExtractor struct {
	calls atomic.Int32
	res   pdftext.Result
	err   error
}

func (s *spyExtractor) Extract(ctx context.Context, data []byte) (pdftext.Result, error) {
	s.calls.Add(1)
	if s.err != nil {
		return pdftext.Result{}, s.err
	}
	return s.res, nil
}

func textExtractor(text string) *spyExtractor {
	return &spyExtractor{res: pdftext.Result{Text: text, Pages: 1}}
}

func newTestService(t *testing.T, ext pdftext.Extractor) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	var seq atomic.Int32
	svc := &Service{
		Repo:      repo,
		Extractor: ext,
		Defaults: Defaults{
			Category:      "Test Category",
			FeaturedImage: "https://img.example/default.png",
			Author:        "Unknown Author",
		},
		Now: func() time.Time { return fixedNow },
		NewID: func() string {
			return "ins-" + string(rune('a'+seq.Add(1)-1))
		},
	}
	return svc, repo
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

// multipartBody writes fields first, then files, and returns the body and its
// Content-Type header.
func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func pdfPart(data []byte) filePart {
	return filePart{field: "file", filename: "report.pdf", contentType: "application/pdf", data: data}
}
