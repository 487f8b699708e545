// Command catalog-import loads gzip-compressed NDJSON product feeds into the
// catalog. Feeds from multiple vendors may repeat a product ID; the last
// occurrence wins. Each feed file is scanned concurrently, and a bloom
// filter tracks seen IDs so duplicate-heavy feeds can be reported without
// holding every record in memory.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/product"
	"github.com/Jatin-1111/darziewebsite-sub000/internal/repository"
)

const (
	seenCapacity  = 10_000_000
	seenFPR       = 0.001
	progressEvery = 100_000
)

type feedRecord struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	SalePrice   decimal.Decimal `json:"salePrice"`
	TotalStock  int             `json:"totalStock"`
	Images      []string        `json:"images"`
}

func main() {
	var (
		feedDir     string
		databaseURL string
	)

	flag.StringVar(&feedDir, "feed-dir", "data", "directory containing *.ndjson.gz product feeds")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, feedDir, databaseURL); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, feedDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(feedDir, "*.ndjson.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.ndjson.gz feeds found in %s", feedDir)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	imp := &importer{
		repo: repository.NewProductRepository(pool),
		seen: bloom.NewWithEstimates(seenCapacity, seenFPR),
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		g.Go(imp.importFile(ctx, f))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("import summary",
		slog.Int("files", len(files)),
		slog.Uint64("imported", imp.imported),
		slog.Uint64("duplicates", imp.duplicates),
		slog.Uint64("skipped", imp.skipped),
	)

	return nil
}

type importer struct {
	repo *repository.ProductRepository

	mu         sync.Mutex
	seen       *bloom.BloomFilter
	imported   uint64
	duplicates uint64
	skipped    uint64
}

func (imp *importer) importFile(ctx context.Context, path string) func() error {
	return func() error {
		var count uint64
		if err := streamGzLines(ctx, path, func(line []byte) error {
			count++
			if count%progressEvery == 0 {
				slog.Info("import progress", slog.String("file", path), slog.Uint64("records", count))
			}
			return imp.importRecord(ctx, path, line)
		}); err != nil {
			return errors.Wrapf(err, "import feed %s", path)
		}

		slog.Info("feed complete", slog.String("file", path), slog.Uint64("records", count))
		return nil
	}
}

func (imp *importer) importRecord(ctx context.Context, path string, line []byte) error {
	var rec feedRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		slog.Warn("skipping malformed feed record", slog.String("file", path), slog.String("error", err.Error()))
		imp.mu.Lock()
		imp.skipped++
		imp.mu.Unlock()
		return nil
	}
	if rec.ID == "" || rec.Title == "" || !rec.Price.IsPositive() {
		imp.mu.Lock()
		imp.skipped++
		imp.mu.Unlock()
		return nil
	}

	imp.mu.Lock()
	if imp.seen.TestString(rec.ID) {
		imp.duplicates++
	}
	imp.seen.AddString(rec.ID)
	imp.mu.Unlock()

	if err := imp.repo.Upsert(ctx, &product.Product{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Category:    product.Category(rec.Category),
		Price:       rec.Price,
		SalePrice:   rec.SalePrice,
		TotalStock:  rec.TotalStock,
		Images:      rec.Images,
	}); err != nil {
		return errors.Wrapf(err, "upsert product %s", rec.ID)
	}

	imp.mu.Lock()
	imp.imported++
	imp.mu.Unlock()
	return nil
}

// streamGzLines opens a gzip-compressed file and calls fn for each line.
func streamGzLines(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
