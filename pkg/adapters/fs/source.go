// Package fs provides file-backed sources: single files, doublestar globs and
// a watcher that reports changes to the files a glob matches.
package fs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/gather/pkg/core"
	"github.com/aretw0/gather/pkg/source"
)

// Config holds the settings shared by File and Glob sources.
type Config struct {
	// Strict keeps numbers as json.Number in every format.
	Strict bool
	// Decoders overrides DefaultDecoders. Keys are extensions with the dot.
	Decoders map[string]Decoder
	Logger   *slog.Logger
}

func (c Config) decoder(path string) (Decoder, error) {
	decoders := c.Decoders
	if decoders == nil {
		decoders = DefaultDecoders(c.Strict)
	}
	ext := strings.ToLower(filepath.Ext(path))
	d, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return d, nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ReadFile decodes every record stored in path.
func ReadFile(path string, cfg Config) ([]core.Item, error) {
	d, err := cfg.decoder(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	items, err := d.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return items, nil
}

// File is a source backed by one file.
type File struct {
	ID     string
	Path   string
	Config Config
}

// NewFile creates a File source named after the file.
func NewFile(path string, cfg Config) *File {
	return &File{ID: path, Path: path, Config: cfg}
}

func (f *File) Name() string { return f.ID }

func (f *File) Query(ctx context.Context) (*core.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := ReadFile(f.Path, f.Config)
	if err != nil {
		return nil, err
	}
	return core.NewCollection(items...), nil
}

// Glob is a source backed by every file a doublestar pattern matches,
// read in lexical order. Files with an unknown extension are skipped; files
// that fail to decode are reported as collection errors.
type Glob struct {
	ID      string
	Pattern string
	Config  Config
}

// NewGlob creates a Glob source named after its pattern.
func NewGlob(pattern string, cfg Config) *Glob {
	return &Glob{ID: pattern, Pattern: pattern, Config: cfg}
}

func (g *Glob) Name() string { return g.ID }

// Files returns the matching paths in lexical order.
func (g *Glob) Files() ([]string, error) {
	matches, err := doublestar.FilepathGlob(g.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", g.Pattern, err)
	}
	slices.Sort(matches)
	return matches, nil
}

func (g *Glob) Query(ctx context.Context) (*core.Collection, error) {
	files, err := g.Files()
	if err != nil {
		return nil, err
	}

	logger := g.Config.logger()
	coll := core.NewCollection()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := g.Config.decoder(path); err != nil {
			logger.Debug("skipping file", "path", path, "reason", err)
			continue
		}

		items, err := ReadFile(path, g.Config)
		if err != nil {
			coll.AddError(err.Error())
			continue
		}
		for _, item := range items {
			coll.Add(item)
		}
	}
	return coll, nil
}

var (
	_ source.Source = (*File)(nil)
	_ source.Source = (*Glob)(nil)
)
