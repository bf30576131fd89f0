package insights

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var pgColumns = []string{
	"id", "slug", "title", "excerpt", "content", "author", "category", "featured_image", "publish_date", "published", "source", "read_time_minutes",
	"pdf_data", "pdf_filename", "pdf_size_bytes", "pdf_page_count", "pdf_checksum", "pdf_mime_type", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

const sampleID = "0b6f1d2e-8c4a-4f4e-9a51-3f7d2c9e1a10"

func sampleInsight() Insight {
	return Insight{
		ID:              sampleID,
		Slug:            "quarterly-risk-report-2024",
		Title:           "Quarterly Risk Report 2024",
		Excerpt:         "Reserve adequacy improved",
		Content:         "Reserve adequacy improved across all lines.",
		Author:          "Jane A. Doe",
		Category:        "Market Updates",
		FeaturedImage:   "https://img.example/default.png",
		PublishDate:     fixedNow,
		Published:       true,
		Source:          SourcePDF,
		ReadTimeMinutes: 1,
		PDF: &PDFPayload{
			Data:      "JVBERi0=",
			Filename:  "q2.pdf",
			SizeBytes: 5,
			PageCount: 2,
			Checksum:  "abc123",
			MimeType:  "application/pdf",
		},
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	ins := sampleInsight()

	mock.ExpectExec("INSERT INTO insights").
		WithArgs(
			ins.ID,
			ins.Slug,
			ins.Title,
			sqlmock.AnyArg(), // excerpt
			sqlmock.AnyArg(), // content
			ins.Author,
			ins.Category,
			ins.FeaturedImage,
			sqlmock.AnyArg(), // publish_date
			true,
			SourcePDF,
			sqlmock.AnyArg(), // read_time_minutes
			"JVBERi0=",
			"q2.pdf",
			sqlmock.AnyArg(), // pdf_size_bytes
			sqlmock.AnyArg(), // pdf_page_count
			"abc123",
			"application/pdf",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), ins); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateWithoutPDFWritesNulls(t *testing.T) {
	repo, mock := newMockRepo(t)
	ins := sampleInsight()
	ins.PDF = nil

	mock.ExpectExec("INSERT INTO insights").
		WithArgs(
			ins.ID, ins.Slug, ins.Title, sqlmock.AnyArg(), sqlmock.AnyArg(), ins.Author, ins.Category, ins.FeaturedImage,
			sqlmock.AnyArg(), true, SourcePDF, sqlmock.AnyArg(),
			nil, nil, nil, nil, nil, nil,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), ins); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO insights").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "insights_slug_key"})

	err := repo.Create(context.Background(), sampleInsight())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestPGRepoCreateWrapsOtherErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectExec("INSERT INTO insights").WillReturnError(boom)

	err := repo.Create(context.Background(), sampleInsight())
	if !errors.Is(err, boom) || errors.Is(err, ErrConflict) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	want := sampleInsight()

	rows := sqlmock.NewRows(pgColumns).AddRow(
		want.ID, want.Slug, want.Title, want.Excerpt, want.Content, want.Author, want.Category, want.FeaturedImage,
		want.PublishDate, want.Published, want.Source, int64(want.ReadTimeMinutes),
		want.PDF.Data, want.PDF.Filename, want.PDF.SizeBytes, int64(want.PDF.PageCount), want.PDF.Checksum, want.PDF.MimeType,
		want.CreatedAt, want.UpdatedAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM insights WHERE id = \\$1").
		WithArgs(sampleID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), sampleID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != want.Title || got.Author != want.Author || !got.PublishDate.Equal(want.PublishDate) {
		t.Fatalf("unexpected insight %+v", got)
	}
	if got.PDF == nil || *got.PDF != *want.PDF {
		t.Fatalf("expected payload %+v, got %+v", want.PDF, got.PDF)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	const missing = "7c1e4b0a-2f3d-4e5a-8b6c-9d0e1f2a3b4c"

	mock.ExpectQuery("SELECT (.+) FROM insights WHERE id = \\$1").
		WithArgs(missing).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), missing)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDMalformedIDIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected no query for malformed id: %v", err)
	}

	svc := &Service{Repo: repo, Extractor: textExtractor(scenarioText)}
	_, err = svc.GetPDF(context.Background(), "not-a-uuid")
	if !errors.Is(err, ErrNotFound) || Message(err) != MsgInsightNotFound {
		t.Fatalf("expected not found from GetPDF, got %v", err)
	}
}

func TestPGRepoGetByIDMapsInvalidTextRepresentation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM insights WHERE id = \\$1").
		WithArgs(sampleID).
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.GetByID(context.Background(), sampleID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDWrapsOtherErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT (.+) FROM insights WHERE id = \\$1").
		WithArgs(sampleID).
		WillReturnError(boom)

	_, err := repo.GetByID(context.Background(), sampleID)
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestPGRepoListPublished(t *testing.T) {
	repo, mock := newMockRepo(t)
	ins := sampleInsight()

	rows := sqlmock.NewRows(pgColumns).
		AddRow(
			ins.ID, ins.Slug, ins.Title, ins.Excerpt, ins.Content, ins.Author, ins.Category, ins.FeaturedImage,
			ins.PublishDate, true, ins.Source, int64(1),
			nil, "q2.pdf", int64(5), int64(2), "abc123", "application/pdf",
			ins.CreatedAt, ins.UpdatedAt,
		).
		AddRow(
			"ins-2", "manual-article", "Manual Article", "", "", "Editor", ins.Category, ins.FeaturedImage,
			ins.PublishDate, true, "manual", int64(3),
			nil, nil, nil, nil, nil, nil,
			ins.CreatedAt, ins.UpdatedAt,
		)
	mock.ExpectQuery("SELECT (.+) FROM insights WHERE published = TRUE").
		WithArgs("market updates", 20, 0).
		WillReturnRows(rows)

	items, err := repo.ListPublished(context.Background(), ListFilter{Category: "market updates"})
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].PDF == nil || items[0].PDF.Data != "" || items[0].PDF.Filename != "q2.pdf" {
		t.Fatalf("expected payload metadata without data, got %+v", items[0].PDF)
	}
	if items[1].HasPDF() {
		t.Fatal("expected second item to have no pdf")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
