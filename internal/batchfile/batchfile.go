// Package batchfile reads task batches from JSON, TOML, or YAML documents
// into the generic form accepted by the engine.
package batchfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/triage/internal/engine"
	"github.com/papapumpkin/triage/internal/task"
)

// Format identifies a batch document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// FormatFromPath infers the format from a file extension. Unknown
// extensions, and stdin, are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user-supplied format name. An empty name means
// "infer from the path".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case "", FormatJSON, FormatTOML, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown input format %q (want json, toml, or yaml)", name)
	}
}

// Load reads the batch at path ("-" for stdin). If format is empty it is
// inferred from the path.
func Load(path string, format Format, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == Stdin {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading batch %s: %w", path, err)
	}
	if format == "" {
		format = FormatFromPath(path)
	}
	return Decode(data, format)
}

// Decode parses data in the given format. Syntax errors and documents of
// the wrong shape wrap task.ErrMalformedInput.
func Decode(data []byte, format Format) (any, error) {
	switch format {
	case FormatJSON, "":
		return engine.DecodeJSON(data)
	case FormatTOML:
		return decodeTOML(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

// decodeTOML expects the batch as an array of tables named "tasks":
//
//	[[tasks]]
//	id = 1
//	title = "Fix critical bug"
//	due_date = 2025-11-28
func decodeTOML(data []byte) (any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid TOML: %v", task.ErrMalformedInput, err)
	}
	tasks, ok := doc["tasks"]
	if !ok {
		// An empty document is an empty batch.
		if len(doc) == 0 {
			return []any{}, nil
		}
		return nil, fmt.Errorf("%w: TOML batch must define [[tasks]]", task.ErrMalformedInput)
	}
	return normalizeTOML(tasks), nil
}

// normalizeTOML converts TOML-specific date values into the forms the
// validator accepts.
func normalizeTOML(v any) any {
	switch x := v.(type) {
	case toml.LocalDate:
		return x.String()
	case toml.LocalDateTime:
		return x.LocalDate.String()
	case toml.LocalTime:
		return x.String()
	case time.Time:
		return x
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = normalizeTOML(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = normalizeTOML(item)
		}
		return out
	default:
		return v
	}
}

func decodeYAML(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []any{}, nil
	}
	var payload any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %v", task.ErrMalformedInput, err)
	}
	return payload, nil
}
