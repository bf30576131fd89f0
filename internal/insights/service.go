package insights

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"insights-backend/internal/inference"
	"insights-backend/internal/pdftext"
	"insights-backend/internal/shared/metrics"
	"insights-backend/internal/shared/telemetry"
	"insights-backend/internal/shared/util"
)

const (
	wordsPerMinute = 200
	maxTitleRunes  = 200

	DefaultListLimit = 20
	MaxListLimit     = 50
)

// IngestOptions carries the optional fields an uploader may supply.
type IngestOptions struct {
	Category      string
	FeaturedImage string
	PublishDate   *time.Time
}

// Service turns uploaded PDFs into insights and serves them back.
type Service struct {
	Repo      Repo
	Extractor pdftext.Extractor
	Defaults  Defaults
	Now       func() time.Time
	NewID     func() string
}

// Ingest extracts text from doc, infers its metadata, and stores the result as
// a published insight. The returned insight has its encoded PDF removed.
func (s *Service) Ingest(ctx context.Context, doc UploadedDocument, opts IngestOptions) (Insight, error) {
	start := time.Now()
	ins, err := s.ingest(ctx, doc, opts)
	metrics.ObserveIngest(ingestOutcome(err), time.Since(start))
	if err != nil {
		return Insight{}, err
	}

	metrics.ObservePDFSize(doc.SizeBytes)
	telemetry.Info("insight.created", map[string]any{
		"insight_id": ins.ID,
		"slug":       ins.Slug,
		"size_bytes": doc.SizeBytes,
		"pages":      ins.PDF.PageCount,
		"author":     ins.Author,
	})
	return ins.WithoutPDFData(), nil
}

func (s *Service) ingest(ctx context.Context, doc UploadedDocument, opts IngestOptions) (Insight, error) {
	if len(doc.Bytes) == 0 {
		return Insight{}, newError(ErrBadRequest, MsgFileRequired)
	}

	res, err := s.Extractor.Extract(ctx, doc.Bytes)
	if err != nil {
		switch {
		case errors.Is(err, pdftext.ErrInvalidDocument):
			return Insight{}, newError(ErrInvalidDocument, MsgInvalidDocument)
		case errors.Is(err, pdftext.ErrEmptyDocument):
			return Insight{}, newError(ErrEmptyDocument, MsgEmptyDocument)
		default:
			return Insight{}, fmt.Errorf("extract pdf: %w", err)
		}
	}

	ins := s.assemble(doc, res, inference.Infer(res.Text), opts)
	if err := s.Repo.Create(ctx, ins); err != nil {
		if errors.Is(err, ErrConflict) {
			return Insight{}, newError(ErrConflict, MsgDuplicateTitle)
		}
		return Insight{}, fmt.Errorf("persist insight: %w", err)
	}
	return ins, nil
}

func (s *Service) assemble(doc UploadedDocument, res pdftext.Result, md inference.Metadata, opts IngestOptions) Insight {
	defaults := s.Defaults.normalized()
	now := s.now()

	title := truncateRunes(md.Title, maxTitleRunes)
	author := defaults.Author
	if md.HasAuthor {
		author = md.Author
	}
	category := strings.TrimSpace(opts.Category)
	if category == "" {
		category = defaults.Category
	}
	image := strings.TrimSpace(opts.FeaturedImage)
	if image == "" {
		image = defaults.FeaturedImage
	}
	publishDate := now
	if opts.PublishDate != nil {
		publishDate = opts.PublishDate.UTC()
	}

	return Insight{
		ID:              s.newID(),
		Slug:            util.Slugify(title),
		Title:           title,
		Excerpt:         md.Excerpt,
		Content:         res.Text,
		Author:          author,
		Category:        category,
		FeaturedImage:   image,
		PublishDate:     publishDate,
		Published:       true,
		Source:          SourcePDF,
		ReadTimeMinutes: readTimeMinutes(res.Text),
		PDF: &PDFPayload{
			Data:      base64.StdEncoding.EncodeToString(doc.Bytes),
			Filename:  doc.OriginalFilename,
			SizeBytes: doc.SizeBytes,
			PageCount: res.Pages,
			Checksum:  util.Checksum(doc.Bytes),
			MimeType:  doc.MimeType,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Get returns a published insight without its encoded PDF.
func (s *Service) Get(ctx context.Context, id string) (Insight, error) {
	ins, err := s.published(ctx, id)
	if err != nil {
		return Insight{}, err
	}
	return ins.WithoutPDFData(), nil
}

// GetPDF returns the decoded PDF of a published insight.
func (s *Service) GetPDF(ctx context.Context, id string) (PDFFile, error) {
	ins, err := s.published(ctx, id)
	if err != nil {
		return PDFFile{}, err
	}
	if ins.PDF == nil || ins.PDF.Data == "" {
		return PDFFile{}, newError(ErrNotFound, MsgPDFNotFound)
	}

	data, err := base64.StdEncoding.DecodeString(ins.PDF.Data)
	if err != nil {
		return PDFFile{}, fmt.Errorf("decode pdf payload for %s: %w", id, err)
	}
	return PDFFile{
		Data:     data,
		Filename: util.PDFFileName(ins.PDF.Filename, ins.Slug+".pdf"),
	}, nil
}

// List returns published insights, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Insight, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Limit = clampLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	items, err := s.Repo.ListPublished(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	return items, nil
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

// published loads id and refuses unpublished records whoever asks.
func (s *Service) published(ctx context.Context, id string) (Insight, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Insight{}, newError(ErrNotFound, MsgInsightNotFound)
	}
	ins, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Insight{}, newError(ErrNotFound, MsgInsightNotFound)
		}
		return Insight{}, fmt.Errorf("load insight %s: %w", id, err)
	}
	if !ins.Published {
		return Insight{}, newError(ErrForbidden, MsgNotPublished)
	}
	return ins, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func readTimeMinutes(text string) int {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func ingestOutcome(err error) string {
	var e *Error
	switch {
	case err == nil:
		return metrics.OutcomeCreated
	case errors.Is(err, ErrConflict):
		return metrics.OutcomeConflict
	case errors.As(err, &e):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeFailed
	}
}
