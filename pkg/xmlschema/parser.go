package xmlschema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/auditstream/gdpdu/pkg/core/schema"
)

// Parser - one descriptor parsing strategy. Parse reads the descriptor from
// directoryPath and returns the full schema; any error aborts the import for
// that directory (schema parsing is all-or-nothing).
type Parser interface {
	Parse(directoryPath string, cfg Config) (*schema.Schema, error)
	ParserType() string
}

// ParserConstructor - function creating a new parser instance
type ParserConstructor func() Parser

var (
	registryMu sync.RWMutex
	registry   = make(map[string]ParserConstructor)
)

// Register registers a parser constructor under a strategy name. Called from
// init() functions of the parser implementations; the registry is effectively
// read-only afterwards.
func Register(parserType string, constructor ParserConstructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[parserType] = constructor
}

// Get returns a new parser of the named strategy. The error lists the
// available strategies so a misspelled name is diagnosable from the status
// text alone.
func Get(parserType string) (Parser, error) {
	registryMu.RLock()
	constructor, ok := registry[parserType]
	registryMu.RUnlock()

	if !ok {
		available := Available()
		if len(available) == 0 {
			return nil, fmt.Errorf("parser type %q not found (none registered)", parserType)
		}
		return nil, fmt.Errorf("parser type %q not found (available: %s)",
			parserType, strings.Join(available, ", "))
	}

	return constructor(), nil
}

// Available returns the registered strategy names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]string, 0, len(registry))
	for parserType := range registry {
		types = append(types, parserType)
	}
	sort.Strings(types)
	return types
}
