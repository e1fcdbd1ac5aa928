package platform

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/gather/pkg/core"
)

// DefaultDriver is used for SQL sources that do not name one.
const DefaultDriver = "sqlite"

// Query describes which sources to gather and how to shape the merged result.
type Query struct {
	Sources     []SourceSpec `yaml:"sources"`
	Filters     []FilterSpec `yaml:"filters,omitempty"`
	Order       *OrderSpec   `yaml:"order,omitempty"`
	Limit       int          `yaml:"limit,omitempty"`
	Strict      bool         `yaml:"strict,omitempty"`
	Concurrency int          `yaml:"concurrency,omitempty"`

	// BaseDir resolves relative source paths. LoadQuery sets it to the
	// directory holding the query file.
	BaseDir string `yaml:"-"`
}

// SourceSpec declares one source: either a file glob (Path) or an SQL query
// (DSN + Query).
type SourceSpec struct {
	Name   string `yaml:"name,omitempty"`
	Path   string `yaml:"path,omitempty"`
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
	Query  string `yaml:"query,omitempty"`
	Args   []any  `yaml:"args,omitempty"`
}

// FilterSpec keeps the items whose Field equals Value.
type FilterSpec struct {
	Field string `yaml:"field"`
	Value any    `yaml:"value"`
}

// OrderSpec sorts the merged items.
type OrderSpec struct {
	Field     string `yaml:"field"`
	Direction string `yaml:"direction,omitempty"`
}

// LoadQuery reads and validates a YAML query file.
func LoadQuery(path string) (*Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query: %w", err)
	}

	q, err := ParseQuery(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	q.BaseDir = filepath.Dir(path)
	return q, nil
}

// ParseQuery decodes and validates a YAML query. Unknown keys are rejected.
func ParseQuery(data []byte) (*Query, error) {
	var q Query
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&q); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

// Validate checks the query for structural mistakes.
func (q *Query) Validate() error {
	if len(q.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalidQuery)
	}

	for i, s := range q.Sources {
		hasPath := s.Path != ""
		hasSQL := s.DSN != "" || s.Query != ""
		switch {
		case hasPath && hasSQL:
			return fmt.Errorf("%w: source %d: path and dsn/query are mutually exclusive", ErrInvalidQuery, i)
		case !hasPath && !hasSQL:
			return fmt.Errorf("%w: source %d: either path or dsn and query is required", ErrInvalidQuery, i)
		case hasSQL && (s.DSN == "" || s.Query == ""):
			return fmt.Errorf("%w: source %d: sql sources need both dsn and query", ErrInvalidQuery, i)
		}
	}

	for i, f := range q.Filters {
		if f.Field == "" {
			return fmt.Errorf("%w: filter %d: field is required", ErrInvalidQuery, i)
		}
	}

	if q.Order != nil {
		if q.Order.Field == "" {
			return fmt.Errorf("%w: order: field is required", ErrInvalidQuery)
		}
		if _, err := core.ParseDirection(q.Order.Direction); err != nil {
			return fmt.Errorf("%w: order: %v", ErrInvalidQuery, err)
		}
	}

	if q.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidQuery)
	}
	return nil
}

// ParseFilter parses "field=value". The value is read as a YAML scalar so
// "true", "42" and "remote" become a bool, an int and a string.
func ParseFilter(s string) (FilterSpec, error) {
	field, raw, ok := strings.Cut(s, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return FilterSpec{}, fmt.Errorf("%w: filter %q must look like field=value", ErrInvalidQuery, s)
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	switch value.(type) {
	case nil, map[string]any, []any:
		value = raw
	}
	return FilterSpec{Field: field, Value: value}, nil
}

// SourceName returns the display name of the i-th source.
func (s SourceSpec) SourceName(i int) string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Path != "":
		return s.Path
	default:
		return fmt.Sprintf("sql-%d", i)
	}
}
