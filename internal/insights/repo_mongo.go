package insights

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// CollectionName is the MongoDB collection holding insights.
const CollectionName = "insights"

// MongoRepo implements Repo on a MongoDB collection, keeping the encoded PDF
// inside the insight document.
type MongoRepo struct {
	Collection *mongo.Collection
}

var _ Repo = (*MongoRepo)(nil)

// NewMongoRepo binds a MongoRepo to the insights collection of database.
func NewMongoRepo(database *mongo.Database) *MongoRepo {
	return &MongoRepo{Collection: database.Collection(CollectionName)}
}

type pdfDoc struct {
	Data      string `bson:"data,omitempty"`
	Filename  string `bson:"filename"`
	SizeBytes int64  `bson:"sizeBytes"`
	PageCount int    `bson:"pageCount,omitempty"`
	Checksum  string `bson:"checksum,omitempty"`
	MimeType  string `bson:"mimeType,omitempty"`
}

type insightDoc struct {
	ID              string    `bson:"_id"`
	Slug            string    `bson:"slug"`
	Title           string    `bson:"title"`
	Excerpt         string    `bson:"excerpt"`
	Content         string    `bson:"content"`
	Author          string    `bson:"author"`
	Category        string    `bson:"category"`
	FeaturedImage   string    `bson:"featuredImage"`
	PublishDate     time.Time `bson:"publishDate"`
	Published       bool      `bson:"published"`
	Source          string    `bson:"source"`
	ReadTimeMinutes int       `bson:"readTime"`
	PDF             *pdfDoc   `bson:"pdf,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

// EnsureIndexes creates the unique slug index and the listing index.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("insights_slug_key"),
		},
		{
			Keys: bson.D{
				{Key: "published", Value: 1},
				{Key: "publishDate", Value: -1},
			},
			Options: options.Index().SetName("insights_published_date_idx"),
		},
	}
	if _, err := r.Collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create insight indexes: %w", err)
	}
	return nil
}

// Create inserts a new insight.
func (r *MongoRepo) Create(ctx context.Context, ins Insight) error {
	_, err := r.Collection.InsertOne(ctx, toDoc(ins))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

// GetByID fetches one insight including its encoded PDF.
func (r *MongoRepo) GetByID(ctx context.Context, id string) (Insight, error) {
	var doc insightDoc
	err := r.Collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Insight{}, ErrNotFound
		}
		return Insight{}, err
	}
	return fromDoc(doc), nil
}

// ListPublished lists published insights ordered by publish date, newest first.
func (r *MongoRepo) ListPublished(ctx context.Context, filter ListFilter) ([]Insight, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "publishDate", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetProjection(bson.D{{Key: "pdf.data", Value: 0}})

	cursor, err := r.Collection.Find(ctx, listQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Insight, 0, limit)
	for cursor.Next(ctx) {
		var doc insightDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, fromDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Ping checks connectivity to the primary.
func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.Collection.Database().Client().Ping(ctx, readpref.Primary())
}

func listQuery(filter ListFilter) bson.D {
	query := bson.D{{Key: "published", Value: true}}
	if filter.Category != "" {
		pattern := "^" + regexp.QuoteMeta(filter.Category) + "$"
		query = append(query, bson.E{Key: "category", Value: bson.Regex{Pattern: pattern, Options: "i"}})
	}
	return query
}

func toDoc(ins Insight) insightDoc {
	doc := insightDoc{
		ID:              ins.ID,
		Slug:            ins.Slug,
		Title:           ins.Title,
		Excerpt:         ins.Excerpt,
		Content:         ins.Content,
		Author:          ins.Author,
		Category:        ins.Category,
		FeaturedImage:   ins.FeaturedImage,
		PublishDate:     ins.PublishDate,
		Published:       ins.Published,
		Source:          ins.Source,
		ReadTimeMinutes: ins.ReadTimeMinutes,
		CreatedAt:       ins.CreatedAt,
		UpdatedAt:       ins.UpdatedAt,
	}
	if p := ins.PDF; p != nil {
		doc.PDF = &pdfDoc{
			Data:      p.Data,
			Filename:  p.Filename,
			SizeBytes: p.SizeBytes,
			PageCount: p.PageCount,
			Checksum:  p.Checksum,
			MimeType:  p.MimeType,
		}
	}
	return doc
}

func fromDoc(doc insightDoc) Insight {
	ins := Insight{
		ID:              doc.ID,
		Slug:            doc.Slug,
		Title:           doc.Title,
		Excerpt:         doc.Excerpt,
		Content:         doc.Content,
		Author:          doc.Author,
		Category:        doc.Category,
		FeaturedImage:   doc.FeaturedImage,
		PublishDate:     doc.PublishDate.UTC(),
		Published:       doc.Published,
		Source:          doc.Source,
		ReadTimeMinutes: doc.ReadTimeMinutes,
		CreatedAt:       doc.CreatedAt.UTC(),
		UpdatedAt:       doc.UpdatedAt.UTC(),
	}
	if p := doc.PDF; p != nil {
		ins.PDF = &PDFPayload{
			Data:      p.Data,
			Filename:  p.Filename,
			SizeBytes: p.SizeBytes,
			PageCount: p.PageCount,
			Checksum:  p.Checksum,
			MimeType:  p.MimeType,
		}
	}
	return ins
}
