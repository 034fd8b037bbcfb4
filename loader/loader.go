// Package loader reads collection data files from a content directory and
// validates every entry against its collection schema.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/reglet-dev/reglet-content/parser"
	"github.com/reglet-dev/reglet-content/schema"
	"github.com/reglet-dev/reglet-content/validation"
)

// DefaultContentDir is where collections live unless configured otherwise.
const DefaultContentDir = "src/content"

// dataFilePattern matches every file; parser.Supported picks the data files
// so extension matching stays case-insensitive.
const dataFilePattern = "**"

// RawEntry is a validated entry before it is decoded into a typed value.
type RawEntry struct {
	Data       any
	ID         string
	Collection string
	Source     string
}

// UnitEntry is a validated entry of the units collection.
type UnitEntry struct {
	ID     string
	Source string
	Nodes  schema.Unit
}

// Loader loads and validates collection entries from disk.
type Loader struct {
	validator   *validation.Validator
	collections map[string]schema.Collection
	contentDir  string
	logger      *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithContentDir sets the directory holding one subdirectory per collection.
func WithContentDir(dir string) LoaderOption {
	return func(l *Loader) {
		if dir != "" {
			l.contentDir = dir
		}
	}
}

// WithCollections replaces the collection definitions the loader knows about.
func WithCollections(collections map[string]schema.Collection) LoaderOption {
	return func(l *Loader) { l.collections = collections }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader validating entries with v.
func NewLoader(v *validation.Validator, opts ...LoaderOption) *Loader {
	l := &Loader{
		validator:   v,
		collections: schema.Collections(),
		contentDir:  DefaultContentDir,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ContentDir returns the directory the loader reads from.
func (l *Loader) ContentDir() string {
	return l.contentDir
}

// LoadUnits loads every entry of the units collection.
func (l *Loader) LoadUnits(ctx context.Context) ([]UnitEntry, error) {
	raw, err := l.Load(ctx, schema.UnitsCollectionName)
	if err != nil {
		return nil, err
	}

	entries := make([]UnitEntry, 0, len(raw))
	for _, r := range raw {
		nodes, err := validation.Decode[schema.Unit](l.validator, r.Collection, r.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Source, err)
		}
		entries = append(entries, UnitEntry{ID: r.ID, Source: r.Source, Nodes: nodes})
	}
	return entries, nil
}

// Load reads and validates every data file of the named collection.
// Entries are sorted by ID. Every invalid file is reported; schema
// mismatches are *validation.SchemaError values joined into one error.
func (l *Loader) Load(ctx context.Context, name string) ([]RawEntry, error) {
	c, ok := l.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", validation.ErrUnknownCollection, name)
	}
	if c.Type != schema.DataCollection {
		return nil, fmt.Errorf("collection %s: unsupported type %q", name, c.Type)
	}

	dir := filepath.Join(l.contentDir, name)
	root, err := os.OpenRoot(dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("collection directory not found", "collection", name, "dir", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open collection directory %q: %w", dir, err)
	}
	defer func() { _ = root.Close() }()

	fsys := root.FS()
	matches, err := doublestar.Glob(fsys, dataFilePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing %s entries: %w", name, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if !parser.Supported(m) {
			l.logger.Debug("skipping non-data file", "collection", name, "file", m)
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)

	var (
		entries []RawEntry
		errs    []error
		seen    = make(map[string]string, len(files))
	)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source := filepath.Join(dir, filepath.FromSlash(file))
		id := strings.TrimSuffix(file, path.Ext(file))
		if prev, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate %s entry id %q (also in %s)", source, name, id, prev))
			continue
		}
		seen[id] = source

		entry, err := l.loadFile(fsys, c, file, source)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entry.ID = id

		l.logger.Debug("loaded entry", "collection", name, "id", id, "source", source)
		entries = append(entries, entry)
	}

	if len(errs) > 0 {
		l.logger.Error("collection has invalid entries", "collection", name, "invalid", len(errs))
		return nil, errors.Join(errs...)
	}

	l.logger.Info("collection loaded", "collection", name, "entries", len(entries))
	return entries, nil
}

func (l *Loader) loadFile(fsys fs.FS, c schema.Collection, file, source string) (RawEntry, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return RawEntry{}, fmt.Errorf("failed to read %s: %w", source, err)
	}

	p, err := parser.ForPath(file)
	if err != nil {
		return RawEntry{}, fmt.Errorf("%s: %w", source, err)
	}

	doc, err := p.Parse(data)
	if err != nil {
		return RawEntry{}, fmt.Errorf("%s: %w", source, err)
	}

	value, field, err := extractField(c, doc)
	if err != nil {
		return RawEntry{}, &validation.SchemaError{
			Collection: c.Name,
			Source:     source,
			Errors:     []validation.FieldError{{Message: err.Error()}},
		}
	}

	res, err := l.validator.Validate(c.Name, value)
	if err != nil {
		return RawEntry{}, fmt.Errorf("%s: %w", source, err)
	}
	if !res.Valid {
		return RawEntry{}, &validation.SchemaError{
			Collection: c.Name,
			Source:     source,
			Field:      field,
			Errors:     res.Errors,
		}
	}

	return RawEntry{Data: value, Collection: c.Name, Source: source}, nil
}

// extractField returns the part of doc the collection schema applies to and
// its JSON pointer.
func extractField(c schema.Collection, doc any) (any, string, error) {
	if c.Field == "" {
		return doc, "", nil
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("expected object with property '%s'", c.Field)
	}
	value, ok := obj[c.Field]
	if !ok {
		return nil, "", fmt.Errorf("missing properties: '%s'", c.Field)
	}
	return value, "/" + c.Field, nil
}
