package fs

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/gather/pkg/core"
)

// ErrUnsupportedFormat is returned for files without a registered decoder.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ContentField is the item field holding a Markdown body.
const ContentField = "content"

// Decoder reads every record stored in a file format.
type Decoder interface {
	Decode(r io.Reader) ([]core.Item, error)
}

// DefaultDecoders returns the standard set of decoders keyed by extension.
func DefaultDecoders(strict bool) map[string]Decoder {
	return map[string]Decoder{
		".json": NewJSONDecoder(strict),
		".yaml": NewYAMLDecoder(strict),
		".yml":  NewYAMLDecoder(strict),
		".csv":  NewCSVDecoder(strict),
		".md":   NewMarkdownDecoder(strict),
	}
}

// --- JSON Decoder ---

// JSONDecoder reads a single object or an array of objects.
type JSONDecoder struct {
	// Strict keeps numbers as json.Number to avoid precision loss.
	Strict bool
}

// NewJSONDecoder creates a new JSON decoder.
func NewJSONDecoder(strict bool) *JSONDecoder {
	return &JSONDecoder{Strict: strict}
}

func (d *JSONDecoder) Decode(r io.Reader) ([]core.Item, error) {
	decoder := json.NewDecoder(r)
	if d.Strict {
		decoder.UseNumber()
	}

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return toItems(payload)
}

// --- YAML Decoder ---

// YAMLDecoder reads a mapping or a sequence of mappings. Multi-document
// streams yield the records of every document in order.
type YAMLDecoder struct {
	// Strict converts numbers to json.Number, matching JSON strict mode.
	Strict bool
}

// NewYAMLDecoder creates a new YAML decoder.
func NewYAMLDecoder(strict bool) *YAMLDecoder {
	return &YAMLDecoder{Strict: strict}
}

func (d *YAMLDecoder) Decode(r io.Reader) ([]core.Item, error) {
	decoder := yaml.NewDecoder(r)

	var items []core.Item
	for {
		var payload any
		err := decoder.Decode(&payload)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
		if payload == nil {
			continue
		}
		if d.Strict {
			payload = recursiveNormalize(payload)
		}

		docItems, err := toItems(payload)
		if err != nil {
			return nil, err
		}
		items = append(items, docItems...)
	}
	return items, nil
}

// --- Markdown Decoder ---

// MarkdownDecoder reads one record: the YAML frontmatter fields plus the
// body under ContentField.
type MarkdownDecoder struct {
	// Strict converts numbers to json.Number, matching JSON strict mode.
	Strict bool
}

// NewMarkdownDecoder creates a new Markdown decoder.
func NewMarkdownDecoder(strict bool) *MarkdownDecoder {
	return &MarkdownDecoder{Strict: strict}
}

func (d *MarkdownDecoder) Decode(r io.Reader) ([]core.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	item := make(core.Item)

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		item[ContentField] = string(data)
		return []core.Item{item}, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	var meta map[string]any
	if err := yaml.Unmarshal(parts[0], &meta); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if d.Strict {
		meta = recursiveNormalize(meta).(map[string]any)
	}
	for k, v := range meta {
		item[k] = v
	}

	body := strings.TrimPrefix(string(parts[1]), "\r")
	body = strings.TrimPrefix(body, "\n")
	item[ContentField] = body

	return []core.Item{item}, nil
}

// --- CSV Decoder ---

// CSVDecoder reads a header row followed by one record per row.
type CSVDecoder struct {
	// Strict keeps numeric cells as json.Number.
	Strict bool
}

// NewCSVDecoder creates a new CSV decoder.
func NewCSVDecoder(strict bool) *CSVDecoder {
	return &CSVDecoder{Strict: strict}
}

func (d *CSVDecoder) Decode(r io.Reader) ([]core.Item, error) {
	reader := csv.NewReader(r)
	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var items []core.Item
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", line, err)
		}

		item := make(core.Item, len(headers))
		for i, h := range headers {
			item[strings.TrimSpace(h)] = UnmarshalCSVValue(row[i], d.Strict)
		}
		items = append(items, item)
	}
	return items, nil
}

// --- Helpers ---

// UnmarshalCSVValue attempts to parse a string as JSON if it looks like a Map or Slice.
// Plain cells holding a YAML bool or number are returned typed, so CSV records
// compare like their JSON and YAML counterparts. Otherwise returns the trimmed string.
//
// CAVEAT: This uses a heuristic (starts/ends with {} or []). A raw string that
// happens to be valid JSON (e.g. "[1]") is interpreted as structured data.
func UnmarshalCSVValue(val string, strict bool) any {
	valTrimmed := strings.TrimSpace(val)
	if (strings.HasPrefix(valTrimmed, "{") && strings.HasSuffix(valTrimmed, "}")) ||
		(strings.HasPrefix(valTrimmed, "[") && strings.HasSuffix(valTrimmed, "]")) {
		var parsed any
		decoder := json.NewDecoder(strings.NewReader(valTrimmed))
		if strict {
			decoder.UseNumber()
		}
		if err := decoder.Decode(&parsed); err == nil {
			return parsed
		}
	}
	if scalar, ok := unmarshalScalar(valTrimmed); ok {
		if strict {
			return recursiveNormalize(scalar)
		}
		return scalar
	}
	return valTrimmed
}

// unmarshalScalar reads s as a YAML scalar and reports whether it is a bool
// or a number.
func unmarshalScalar(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(s), &node); err != nil || len(node.Content) != 1 {
		return nil, false
	}
	n := node.Content[0]
	if n.Kind != yaml.ScalarNode || n.Style != 0 {
		return nil, false
	}
	switch n.Tag {
	case "!!bool", "!!int", "!!float":
	default:
		return nil, false
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// toItems turns a decoded payload into records: an object is one record,
// an array must hold only objects.
func toItems(payload any) ([]core.Item, error) {
	switch v := payload.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []core.Item{core.Item(v)}, nil
	case []any:
		items := make([]core.Item, 0, len(v))
		for i, elem := range v {
			m, ok := elem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("record %d: expected an object, got %T", i, elem)
			}
			items = append(items, core.Item(m))
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected an object or a list of objects, got %T", payload)
	}
}

// recursiveNormalize traverses the map/slice and converts numeric types to json.Number.
// This ensures consistency with JSON Strict mode.
func recursiveNormalize(val any) any {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = recursiveNormalize(val)
		}
		return l
	case int:
		return json.Number(fmt.Sprintf("%d", v))
	case int64:
		return json.Number(fmt.Sprintf("%d", v))
	case uint64:
		return json.Number(fmt.Sprintf("%d", v))
	case float64:
		return json.Number(fmt.Sprintf("%v", v))
	default:
		return v
	}
}
