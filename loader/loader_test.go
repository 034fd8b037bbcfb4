package loader_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/reglet-content/loader"
	"github.com/reglet-dev/reglet-content/registry"
	"github.com/reglet-dev/reglet-content/schema"
	"github.com/reglet-dev/reglet-content/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func newLoader(t *testing.T, contentDir string) *loader.Loader {
	t.Helper()
	reg, err := registry.NewDefaultRegistry()
	require.NoError(t, err)
	return loader.NewLoader(
		validation.NewValidator(reg),
		loader.WithContentDir(contentDir),
		loader.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestLoader_LoadUnits(t *testing.T) {
	ctx := context.Background()

	t.Run("json and yaml entries", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "units/saludos.json", `{"nodes": [[{"value": "hola", "audio": true}, {"value": "adiós"}]]}`)
		writeFile(t, dir, "units/basico/numeros.yaml", "nodes:\n  - - value: uno\n  - - value: dos\n      audio: false\n")
		writeFile(t, dir, "units/README.md", "ignored")

		entries, err := newLoader(t, dir).LoadUnits(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, "basico/numeros", entries[0].ID)
		assert.Equal(t, schema.Unit{
			{{Value: "uno"}},
			{{Value: "dos", Audio: schema.Bool(false)}},
		}, entries[0].Nodes)

		assert.Equal(t, "saludos", entries[1].ID)
		assert.Equal(t, filepath.Join(dir, "units", "saludos.json"), entries[1].Source)
		assert.Equal(t, schema.Unit{
			{{Value: "hola", Audio: schema.Bool(true)}, {Value: "adiós"}},
		}, entries[1].Nodes)
	})

	t.Run("extensions match case-insensitively", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "units/SALUDOS.JSON", `{"nodes": [[{"value": "hola"}]]}`)
		writeFile(t, dir, "units/numeros.Yml", "nodes:\n  - - value: uno\n")
		writeFile(t, dir, "units/notes.TXT", "ignored")

		entries, err := newLoader(t, dir).LoadUnits(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "SALUDOS", entries[0].ID)
		assert.Equal(t, "numeros", entries[1].ID)
	})

	t.Run("missing collection directory", func(t *testing.T) {
		entries, err := newLoader(t, t.TempDir()).LoadUnits(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("invalid entries are all reported", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "units/ok.json", `{"nodes": [[{"value": "hola"}]]}`)
		writeFile(t, dir, "units/no-value.json", `{"nodes": [[{"audio": true}]]}`)
		writeFile(t, dir, "units/bad-audio.yaml", "nodes:\n  - - value: hola\n      audio: 3\n")

		_, err := newLoader(t, dir).LoadUnits(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, validation.ErrSchemaValidation))
		assert.Contains(t, err.Error(), filepath.Join(dir, "units", "no-value.json"))
		assert.Contains(t, err.Error(), "/nodes/0/0")
		assert.Contains(t, err.Error(), filepath.Join(dir, "units", "bad-audio.yaml"))
		assert.Contains(t, err.Error(), "/nodes/0/0/audio")
		assert.NotContains(t, err.Error(), "ok.json")
	})

	t.Run("missing nodes property", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "units/empty.json", `{"items": []}`)

		_, err := newLoader(t, dir).LoadUnits(ctx)
		require.Error(t, err)

		var serr *validation.SchemaError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, "units", serr.Collection)
		assert.Contains(t, serr.Error(), "nodes")
	})

	t.Run("wrong nesting", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "units/flat.json", `{"nodes": [{"value": "hola"}]}`)

		_, err := newLoader(t, dir).LoadUnits(ctx)
		require.Error(t, err)

		var serr *validation.SchemaError
		require.True(t, errors.As(err, &serr))
		first := serr.Errors[0]
		assert.Equal(t, "/nodes/0", serr.Location(first))
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "units/broken.json", `{"nodes": [`)

		_, err := newLoader(t, dir).LoadUnits(ctx)
		require.Error(t, err)
		assert.False(t, errors.Is(err, validation.ErrSchemaValidation))
		assert.Contains(t, err.Error(), "broken.json")
	})

	t.Run("duplicate ids", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "units/saludos.json", `{"nodes": []}`)
		writeFile(t, dir, "units/saludos.yaml", "nodes: []\n")

		_, err := newLoader(t, dir).LoadUnits(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "units/saludos.json", `{"nodes": []}`)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := newLoader(t, dir).LoadUnits(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown collection", func(t *testing.T) {
		_, err := newLoader(t, t.TempDir()).Load(ctx, "lessons")
		assert.ErrorIs(t, err, validation.ErrUnknownCollection)
	})

	t.Run("raw entries keep generic data", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "units/saludos.json", `{"nodes": [[{"value": "hola"}]]}`)

		entries, err := newLoader(t, dir).Load(ctx, "units")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "units", entries[0].Collection)
		assert.Equal(t, []interface{}{
			[]interface{}{map[string]interface{}{"value": "hola"}},
		}, entries[0].Data)
	})

	t.Run("custom collection without field", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "phrases/one.json", `[[{"value": "hola"}]]`)

		reg := registry.NewRegistry()
		require.NoError(t, reg.Register("phrases", schema.Unit{}))

		l := loader.NewLoader(
			validation.NewValidator(reg),
			loader.WithContentDir(dir),
			loader.WithCollections(map[string]schema.Collection{
				"phrases": {Name: "phrases", Type: schema.DataCollection, Model: schema.Unit{}},
			}),
			loader.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)

		entries, err := l.Load(ctx, "phrases")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "one", entries[0].ID)
	})
}
