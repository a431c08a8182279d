// =============================================================================
// FEC to CSV Converter - Schema Registry Module
// =============================================================================
//
// This module answers one question for the record decoder: given a format
// version and a record type code, what ordered field list should the record
// decode against?
//
// DATABASE:
//   The known (version, code) -> field list mappings live in an embedded
//   YAML database (database.yaml). Each entry carries a code pattern and a
//   version pattern, both regular expressions, because the filing format
//   reuses one layout across families of codes (every "SA11AI", "SA17" and
//   so on resolves through the "^SA" entry) and across runs of versions.
//
// LOOKUP:
//   Entries are consulted in file order; the first entry whose version and
//   code patterns both match wins. The returned LineSchema carries the
//   queried code (not the entry's canonical label), so two different codes
//   sharing a layout still produce distinct schemas. Results are cached per
//   (version, code) pair.
//
// CUSTOMIZATION:
//   The registry is data-driven: adding a form or a new format version is a
//   database edit, not a code change. Load supports swapping in an
//   external database without rebuilding.
//
// =============================================================================

package schemas

import (
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed database.yaml
var embeddedDatabase []byte

// =============================================================================
// ERROR TYPE
// =============================================================================

// NotFoundError reports a (version, code) pair the registry knows nothing
// about. It is fatal for the record that triggered the lookup, and for that
// record only.
type NotFoundError struct {
	Version string
	Code    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no schema for record code %q in format version %q", e.Code, e.Version)
}

// =============================================================================
// DATABASE FILE STRUCTURES
// =============================================================================

// databaseFile is the YAML shape of the schema database.
type databaseFile struct {
	Schemas []schemaEntry `yaml:"schemas"`
}

// schemaEntry is one database row: a family of record codes, the versions
// the layout applies to, and the ordered field list.
type schemaEntry struct {
	// Code is the canonical label for the entry, e.g. "SA". Used in
	// validation errors only.
	Code string `yaml:"code"`

	// CodePattern matches the record codes this entry covers.
	CodePattern string `yaml:"code_pattern"`

	// Versions matches the format versions this layout applies to.
	Versions string `yaml:"versions"`

	// Fields is the ordered field list, including the leading form_type
	// column.
	Fields []fieldEntry `yaml:"fields"`
}

// fieldEntry is one field of a schema entry.
type fieldEntry struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// validTypes is the set of type names the database may use.
var validTypes = map[string]bool{
	"string": true, "integer": true, "float": true, "date": true, "boolean": true,
}

// =============================================================================
// REGISTRY STRUCTURE
// =============================================================================

// compiledEntry is a schemaEntry with its patterns compiled and its field
// list converted to the shared FieldSchema type.
type compiledEntry struct {
	code      string
	codeRE    *regexp.Regexp
	versionRE *regexp.Regexp
	fields    []types.FieldSchema
}

// Registry is the authoritative, version-partitioned schema lookup table.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	entries []compiledEntry

	// cache memoizes lookups per (version, code) pair. Lookup is called
	// once per record, so a long filing hits the same handful of keys
	// millions of times.
	mu    sync.RWMutex
	cache map[string]*types.LineSchema
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded database.
//
// The embedded database is validated at first use; it ships inside the
// binary, so a malformed database is a build defect and panics rather than
// returning an error every caller would have to handle.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(strings.NewReader(string(embeddedDatabase)))
		if err != nil {
			panic(fmt.Sprintf("embedded schema database is invalid: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Load reads and validates a schema database from a reader.
//
// VALIDATION:
//   Every entry must have a code label, compilable code and version
//   patterns, and a non-empty field list using only the known type names.
//   A database that fails validation is rejected whole; a registry with
//   half-loaded entries would misdecode silently.
func Load(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema database: %w", err)
	}

	var file databaseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schema database: %w", err)
	}
	if len(file.Schemas) == 0 {
		return nil, fmt.Errorf("schema database contains no entries")
	}

	reg := &Registry{
		entries: make([]compiledEntry, 0, len(file.Schemas)),
		cache:   make(map[string]*types.LineSchema),
	}

	for i, entry := range file.Schemas {
		compiled, err := compileEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("schema database entry %d (%s): %w", i+1, entry.Code, err)
		}
		reg.entries = append(reg.entries, compiled)
	}

	return reg, nil
}

// compileEntry validates one database entry and compiles its patterns.
func compileEntry(entry schemaEntry) (compiledEntry, error) {
	if entry.Code == "" {
		return compiledEntry{}, fmt.Errorf("missing code label")
	}
	if entry.CodePattern == "" {
		return compiledEntry{}, fmt.Errorf("missing code_pattern")
	}
	if entry.Versions == "" {
		return compiledEntry{}, fmt.Errorf("missing versions pattern")
	}
	if len(entry.Fields) == 0 {
		return compiledEntry{}, fmt.Errorf("empty field list")
	}

	codeRE, err := regexp.Compile(entry.CodePattern)
	if err != nil {
		return compiledEntry{}, fmt.Errorf("invalid code_pattern: %w", err)
	}
	versionRE, err := regexp.Compile(entry.Versions)
	if err != nil {
		return compiledEntry{}, fmt.Errorf("invalid versions pattern: %w", err)
	}

	fields := make([]types.FieldSchema, 0, len(entry.Fields))
	for j, f := range entry.Fields {
		if f.Name == "" {
			return compiledEntry{}, fmt.Errorf("field %d has no name", j+1)
		}
		typ := f.Type
		if typ == "" {
			typ = "string"
		}
		if !validTypes[typ] {
			return compiledEntry{}, fmt.Errorf("field %q has unknown type %q", f.Name, f.Type)
		}
		fields = append(fields, types.FieldSchema{
			Name: f.Name,
			Kind: types.ParseValueKind(typ),
		})
	}

	return compiledEntry{
		code:      entry.Code,
		codeRE:    codeRE,
		versionRE: versionRE,
		fields:    fields,
	}, nil
}

// =============================================================================
// LOOKUP
// =============================================================================

// Lookup implements types.SchemaRegistry.
//
// The code is normalized (trimmed, upper-cased) before matching, since
// filings are inconsistent about case. On a miss the returned error is a
// *NotFoundError carrying both the version and the code.
func (r *Registry) Lookup(version, code string) (*types.LineSchema, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	key := version + "\x00" + normalized

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		if cached == nil {
			return nil, &NotFoundError{Version: version, Code: normalized}
		}
		return cached, nil
	}

	schema := r.find(version, normalized)

	r.mu.Lock()
	r.cache[key] = schema
	r.mu.Unlock()

	if schema == nil {
		return nil, &NotFoundError{Version: version, Code: normalized}
	}
	return schema, nil
}

// find scans the entries in file order and builds the schema for the first
// match, or nil when nothing matches.
func (r *Registry) find(version, code string) *types.LineSchema {
	for _, entry := range r.entries {
		if entry.versionRE.MatchString(version) && entry.codeRE.MatchString(code) {
			return &types.LineSchema{Code: code, Fields: entry.fields}
		}
	}
	return nil
}
