package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"insights-backend/internal/bootstrap"
	"insights-backend/internal/insights"
	"insights-backend/internal/pdftext"
	"insights-backend/internal/shared/config"
	"insights-backend/internal/shared/storage/db"
	"insights-backend/internal/shared/telemetry"
)

var pdfMagic = []byte("%PDF-")

type importOptions struct {
	workers     int
	category    string
	image       string
	publishDate string
}

func newImportCmd(load func() config.Config) *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import PATH...",
		Short: "Ingest PDF files or directories of PDFs into the configured store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			files, err := collectPDFs(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no .pdf files found")
			}
			ingestOpts, err := opts.ingestOptions()
			if err != nil {
				return err
			}

			store, err := bootstrap.OpenStore(cmd.Context(), cfg, db.DefaultCLIOptions())
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			svc := bootstrap.NewInsightService(cfg, store.Repo, pdftext.NewExtractor())
			failed := importFiles(cmd.Context(), svc, files, cfg.MaxUploadBytes, opts.workers, ingestOpts)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d files\n", len(files)-failed, len(files))
			if failed > 0 {
				return fmt.Errorf("%d files failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 4, "files ingested concurrently")
	cmd.Flags().StringVar(&opts.category, "category", "", "category for every imported insight")
	cmd.Flags().StringVar(&opts.image, "featured-image", "", "featured image URL for every imported insight")
	cmd.Flags().StringVar(&opts.publishDate, "publish-date", "", "publish date (YYYY-MM-DD or RFC3339)")
	return cmd
}

func (o importOptions) ingestOptions() (insights.IngestOptions, error) {
	out := insights.IngestOptions{Category: o.category, FeaturedImage: o.image}
	raw := strings.TrimSpace(o.publishDate)
	if raw == "" {
		return out, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			out.PublishDate = &utc
			return out, nil
		}
	}
	return out, fmt.Errorf("invalid --publish-date %q", raw)
}

// importFiles ingests files with at most workers in flight and returns how
// many failed. One failure does not stop the others.
func importFiles(ctx context.Context, svc *insights.Service, files []string, maxBytes int64, workers int, opts insights.IngestOptions) int {
	if workers < 1 {
		workers = 1
	}
	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			ins, err := importFile(gctx, svc, path, maxBytes, opts)
			if err != nil {
				failed.Add(1)
				telemetry.Warn("import.file_failed", map[string]any{
					"file":  path,
					"error": err.Error(),
				})
				return nil
			}
			telemetry.Info("import.file_done", map[string]any{
				"file":       path,
				"insight_id": ins.ID,
				"title":      ins.Title,
			})
			return nil
		})
	}
	_ = g.Wait()
	return int(failed.Load())
}

func importFile(ctx context.Context, svc *insights.Service, path string, maxBytes int64, opts insights.IngestOptions) (insights.Insight, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return insights.Insight{}, err
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return insights.Insight{}, fmt.Errorf("%w: %s", insights.ErrUnsupportedMediaType, path)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return insights.Insight{}, fmt.Errorf("%w: %s", insights.ErrPayloadTooLarge, path)
	}
	return svc.Ingest(ctx, insights.UploadedDocument{
		Bytes:            data,
		MimeType:         "application/pdf",
		SizeBytes:        int64(len(data)),
		OriginalFilename: filepath.Base(path),
	}, opts)
}

// collectPDFs expands directories one level deep and keeps .pdf files, sorted
// and de-duplicated.
func collectPDFs(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if !strings.EqualFold(filepath.Ext(p), ".pdf") {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(p))
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				add(filepath.Join(p, e.Name()))
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
