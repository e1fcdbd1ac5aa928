package platform_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gather/internal/platform"
	"github.com/aretw0/gather/pkg/core"
	"github.com/aretw0/gather/pkg/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func ids(m *core.MultiCollection) []any {
	var out []any
	for _, item := range m.All() {
		out = append(out, item["id"])
	}
	return out
}

func seedDB(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range []string{
		`CREATE TABLE jobs (id TEXT, remote INTEGER)`,
		`INSERT INTO jobs VALUES ('db-1', 1), ('db-2', 0)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestRun_FilesAndDatabase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data", "board.json"),
		`[{"id": "json-1", "remote": 1}, {"id": "json-2", "remote": 0}]`)
	writeFile(t, filepath.Join(dir, "data", "feed.yaml"), "- id: yaml-1\n  remote: 1\n")
	seedDB(t, filepath.Join(dir, "jobs.db"))

	queryPath := filepath.Join(dir, "gather.yaml")
	writeFile(t, queryPath, fmt.Sprintf(`
sources:
  - name: files
    path: "data/*"
  - name: db
    dsn: %q
    query: SELECT id, remote FROM jobs
filters:
  - field: remote
    value: 1
order:
  field: id
  direction: asc
limit: 2
`, filepath.Join(dir, "jobs.db")))

	q, err := platform.LoadQuery(queryPath)
	require.NoError(t, err)
	assert.Equal(t, dir, q.BaseDir)

	merged, err := platform.Run(context.Background(), q)
	require.NoError(t, err)

	// remote == 1 leaves db-1, json-1, yaml-1; ascending and limited to two.
	assert.Equal(t, []any{"db-1", "json-1"}, ids(merged))
	assert.Empty(t, merged.Errors())
}

func TestRun_FiltersCSVWithJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"id": "a1", "remote": true, "n": 5}`)
	writeFile(t, filepath.Join(dir, "b.csv"), "id,remote,n\nb1,true,5\nb2,false,6\n")

	for _, filter := range []string{"remote=true", "n=5"} {
		t.Run(filter, func(t *testing.T) {
			f, err := platform.ParseFilter(filter)
			require.NoError(t, err)
			q := &platform.Query{
				Sources: []platform.SourceSpec{{Path: "*"}},
				Filters: []platform.FilterSpec{f},
				Order:   &platform.OrderSpec{Field: "id", Direction: "asc"},
				BaseDir: dir,
			}

			merged, err := platform.Run(context.Background(), q)
			require.NoError(t, err)
			assert.Equal(t, []any{"a1", "b1"}, ids(merged))
		})
	}
}

func TestRun_SourceErrorsAreKept(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.json"), `{"id": "1"}`)
	writeFile(t, filepath.Join(dir, "bad.json"), `{"id":`)

	q := &platform.Query{
		Sources: []platform.SourceSpec{{Path: "*.json"}},
		BaseDir: dir,
	}
	down := source.NewStatic("remote").WithError("remote: unavailable")

	merged, err := platform.Run(context.Background(), q, platform.WithSources(down))
	require.NoError(t, err)

	assert.Equal(t, []any{"1"}, ids(merged))
	require.Len(t, merged.Errors(), 2)
	assert.Contains(t, merged.Errors()[0], "bad.json")
	assert.Equal(t, "remote: unavailable", merged.Errors()[1])
}

func TestRun_InvalidFieldSurfaces(t *testing.T) {
	q := &platform.Query{
		Sources: []platform.SourceSpec{{Path: filepath.Join(t.TempDir(), "*.json")}},
		Order:   &platform.OrderSpec{Field: "missing"},
	}
	extra := source.NewStatic("static", core.Item{"id": "1"})

	_, err := platform.Run(context.Background(), q, platform.WithSources(extra))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidField)
}

func TestNewPipeline_BadDatabase(t *testing.T) {
	q := &platform.Query{
		Sources: []platform.SourceSpec{{DSN: "x", Query: "SELECT 1", Driver: "nope"}},
	}
	_, err := platform.NewPipeline(context.Background(), q)
	assert.Error(t, err)
}

func TestPipeline_Patterns(t *testing.T) {
	q := &platform.Query{
		Sources: []platform.SourceSpec{
			{Path: "data/*.json"},
			{Path: "/abs/*.yaml"},
		},
		BaseDir: "/base",
	}
	p, err := platform.NewPipeline(context.Background(), q)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{filepath.Join("/base", "data/*.json"), "/abs/*.yaml"}, p.Patterns())
}
