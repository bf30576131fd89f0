package insights

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextFormat = "22P02"
)

const insightColumns = `id, slug, title, excerpt, content, author, category, featured_image, publish_date, published, source, read_time_minutes,
       pdf_data, pdf_filename, pdf_size_bytes, pdf_page_count, pdf_checksum, pdf_mime_type, created_at, updated_at`

// Same shape as insightColumns with the encoded payload left out.
const insightSummaryColumns = `id, slug, title, excerpt, content, author, category, featured_image, publish_date, published, source, read_time_minutes,
       NULL AS pdf_data, pdf_filename, pdf_size_bytes, pdf_page_count, pdf_checksum, pdf_mime_type, created_at, updated_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

// Create inserts a new insight.
func (r *PGRepo) Create(ctx context.Context, ins Insight) error {
	const query = `
INSERT INTO insights (
    id,
    slug,
    title,
    excerpt,
    content,
    author,
    category,
    featured_image,
    publish_date,
    published,
    source,
    read_time_minutes,
    pdf_data,
    pdf_filename,
    pdf_size_bytes,
    pdf_page_count,
    pdf_checksum,
    pdf_mime_type,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	var (
		pdfData     sql.NullString
		pdfFilename sql.NullString
		pdfSize     sql.NullInt64
		pdfPages    sql.NullInt32
		pdfChecksum sql.NullString
		pdfMime     sql.NullString
	)
	if p := ins.PDF; p != nil {
		pdfData = sql.NullString{String: p.Data, Valid: true}
		pdfFilename = sql.NullString{String: p.Filename, Valid: true}
		pdfSize = sql.NullInt64{Int64: p.SizeBytes, Valid: true}
		pdfPages = sql.NullInt32{Int32: int32(p.PageCount), Valid: p.PageCount > 0}
		pdfChecksum = sql.NullString{String: p.Checksum, Valid: p.Checksum != ""}
		pdfMime = sql.NullString{String: p.MimeType, Valid: p.MimeType != ""}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		ins.ID,
		ins.Slug,
		ins.Title,
		ins.Excerpt,
		ins.Content,
		ins.Author,
		ins.Category,
		ins.FeaturedImage,
		ins.PublishDate,
		ins.Published,
		ins.Source,
		ins.ReadTimeMinutes,
		pdfData,
		pdfFilename,
		pdfSize,
		pdfPages,
		pdfChecksum,
		pdfMime,
		ins.CreatedAt,
		ins.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

// GetByID fetches one insight including its encoded PDF.
// Ids that are not UUIDs cannot exist in the table and are reported as not found.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Insight, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Insight{}, ErrNotFound
	}
	query := `SELECT ` + insightColumns + `
FROM insights
WHERE id = $1
LIMIT 1`
	ins, err := scanInsight(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Insight{}, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextFormat {
			return Insight{}, ErrNotFound
		}
		return Insight{}, fmt.Errorf("get insight: %w", err)
	}
	return ins, nil
}

// ListPublished lists published insights ordered by publish date, newest first.
func (r *PGRepo) ListPublished(ctx context.Context, filter ListFilter) ([]Insight, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + insightSummaryColumns + `
FROM insights
WHERE published = TRUE AND ($1 = '' OR LOWER(category) = LOWER($1))
ORDER BY publish_date DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, filter.Category, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Insight, 0, limit)
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Ping checks database connectivity.
func (r *PGRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInsight(row rowScanner) (Insight, error) {
	var (
		ins         Insight
		pdfData     sql.NullString
		pdfFilename sql.NullString
		pdfSize     sql.NullInt64
		pdfPages    sql.NullInt32
		pdfChecksum sql.NullString
		pdfMime     sql.NullString
	)
	err := row.Scan(
		&ins.ID,
		&ins.Slug,
		&ins.Title,
		&ins.Excerpt,
		&ins.Content,
		&ins.Author,
		&ins.Category,
		&ins.FeaturedImage,
		&ins.PublishDate,
		&ins.Published,
		&ins.Source,
		&ins.ReadTimeMinutes,
		&pdfData,
		&pdfFilename,
		&pdfSize,
		&pdfPages,
		&pdfChecksum,
		&pdfMime,
		&ins.CreatedAt,
		&ins.UpdatedAt,
	)
	if err != nil {
		return Insight{}, err
	}
	if pdfFilename.Valid {
		ins.PDF = &PDFPayload{
			Data:      pdfData.String,
			Filename:  pdfFilename.String,
			SizeBytes: pdfSize.Int64,
			PageCount: int(pdfPages.Int32),
			Checksum:  pdfChecksum.String,
			MimeType:  pdfMime.String,
		}
	}
	return ins, nil
}
