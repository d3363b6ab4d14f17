package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

const (
	// DefaultWorkers is the ingest worker pool size.
	DefaultWorkers = 4

	// DefaultMaxFileSize is the largest file the connector will read.
	DefaultMaxFileSize = 5 << 20
)

// binaryExtensions are skipped without reading the file.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".pdf": true, ".zip": true, ".gz": true, ".tar": true, ".bz2": true,
	".exe": true, ".so": true, ".dylib": true, ".dll": true, ".bin": true,
	".woff": true, ".woff2": true, ".ttf": true, ".jar": true, ".class": true,
	".o": true, ".a": true, ".db": true, ".sqlite": true,
}

// File is one readable text file found under the connector root.
type File struct {
	Path     string
	SourceID string
	Content  string
}

// Summary reports the outcome of a directory ingest.
type Summary struct {
	Indexed   int // documents whose chunk set changed
	Unchanged int // documents skipped by the content-hash check
	Skipped   int // files with no indexable content
	Failed    int
}

// Connector walks a directory tree and feeds text files to an indexer.
type Connector struct {
	rootPath string
	workers  int
	maxSize  int64
}

// Option configures a Connector.
type Option func(*Connector)

// WithWorkers sets the ingest worker pool size.
func WithWorkers(n int) Option {
	return func(c *Connector) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMaxFileSize sets the largest file size the connector will read.
func WithMaxFileSize(n int64) Option {
	return func(c *Connector) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// New creates a connector rooted at the given directory.
// The path may start with ~ and is resolved to an absolute path.
func New(rootPath string, opts ...Option) (*Connector, error) {
	resolved, err := ExpandPath(rootPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory does not exist: %s", resolved)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", resolved)
	}

	c := &Connector{
		rootPath: resolved,
		workers:  DefaultWorkers,
		maxSize:  DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RootPath returns the resolved absolute root directory.
func (c *Connector) RootPath() string {
	return c.rootPath
}

// Walk streams readable text files under the root. Both channels close
// when the walk finishes; the error channel carries at most one error.
func (c *Connector) Walk(ctx context.Context) (<-chan File, <-chan error) {
	files := make(chan File)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			name := d.Name()
			if d.IsDir() {
				if path != c.rootPath && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}

			file, ok := c.load(path)
			if !ok {
				return nil
			}

			select {
			case files <- file:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			errs <- err
		}
	}()

	return files, errs
}

// load reads a single file, applying the connector's skip rules.
// Returns ok=false for hidden, binary, oversized or unreadable files.
func (c *Connector) load(path string) (File, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return File{}, false
	}
	if binaryExtensions[strings.ToLower(filepath.Ext(name))] {
		return File{}, false
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return File{}, false
	}
	if !info.Mode().IsRegular() {
		return File{}, false
	}
	if info.Size() > c.maxSize {
		logger.Debug("Skipping %s: %d bytes exceeds limit", path, info.Size())
		return File{}, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return File{}, false
	}
	if isBinary(content) {
		return File{}, false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return File{}, false
	}

	return File{
		Path:     abs,
		SourceID: SourceIDFor(abs),
		Content:  string(content),
	}, true
}

// IngestAll walks the root and indexes every text file through a
// bounded worker pool. The returned summary counts per-file outcomes;
// a non-nil error means the walk itself failed.
func (c *Connector) IngestAll(ctx context.Context, indexer driving.IndexService) (Summary, error) {
	files, errs := c.Walk(ctx)

	var (
		mu      sync.Mutex
		summary Summary
		wg      sync.WaitGroup
	)

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range files {
				result, err := indexer.IndexDocument(ctx, file.SourceID, file.Content)

				mu.Lock()
				switch {
				case errors.Is(err, domain.ErrNoContent):
					summary.Skipped++
				case err != nil:
					logger.Warn("Failed to index %s: %v", file.Path, err)
					summary.Failed++
				case result.Changed:
					logger.Info("Indexed %s (%d chunks)", file.Path, result.ChunkCount)
					summary.Indexed++
				default:
					summary.Unchanged++
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	walkErr := <-errs
	return summary, walkErr
}

// isBinary reports whether content looks like binary data.
// Uses the NUL-byte heuristic over the first 8000 bytes.
func isBinary(content []byte) bool {
	sample := content
	if len(sample) > 8000 {
		sample = sample[:8000]
	}
	return bytes.IndexByte(sample, 0) >= 0
}
