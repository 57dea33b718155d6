package config

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"nsquery/internal/errors"
	"nsquery/internal/logging"
)

//go:embed saved_queries.yaml
var configFS embed.FS

// SavedQuery is a named SuiteQL text sent verbatim when selected.
type SavedQuery struct {
	Name        string `yaml:"-"`
	Description string `yaml:"description"`
	Query       string `yaml:"query"`
}

type savedQueriesFile struct {
	Queries map[string]SavedQuery `yaml:"queries"`
}

// QueryCatalog is a set of saved queries keyed by name.
type QueryCatalog struct {
	queries map[string]SavedQuery
}

// ConfigLoader handles loading saved queries from the embedded YAML file or a user file
type ConfigLoader struct {
	logger *logging.Logger
}

// NewConfigLoader creates a new configuration loader
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{
		logger: logging.NewDefaultLogger("config"),
	}
}

// LoadSavedQueries loads the catalog shipped with the binary
func (cl *ConfigLoader) LoadSavedQueries() (*QueryCatalog, error) {
	data, err := configFS.ReadFile("saved_queries.yaml")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfiguration,
			"failed to read embedded saved queries")
	}
	return cl.parse(data, "embedded saved queries")
}

// LoadSavedQueriesFile loads a catalog of the same shape from disk
func (cl *ConfigLoader) LoadSavedQueriesFile(path string) (*QueryCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfiguration,
			fmt.Sprintf("failed to read saved queries file %s", path))
	}
	return cl.parse(data, path)
}

func (cl *ConfigLoader) parse(data []byte, source string) (*QueryCatalog, error) {
	var file savedQueriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfiguration,
			fmt.Sprintf("failed to parse %s", source))
	}

	catalog := &QueryCatalog{queries: make(map[string]SavedQuery, len(file.Queries))}
	for name, q := range file.Queries {
		if strings.TrimSpace(q.Query) == "" {
			return nil, errors.Configuration(fmt.Sprintf("saved query %q in %s has no query text", name, source))
		}
		q.Name = name
		q.Query = strings.TrimSpace(q.Query)
		catalog.queries[name] = q
	}

	cl.logger.Debug("Loaded %d saved queries from %s", len(catalog.queries), source)
	return catalog, nil
}

// Get returns the saved query with the given name
func (c *QueryCatalog) Get(name string) (SavedQuery, error) {
	q, ok := c.queries[name]
	if !ok {
		return SavedQuery{}, errors.Validation(
			fmt.Sprintf("unknown saved query %q (available: %s)", name, strings.Join(c.Names(), ", ")))
	}
	return q, nil
}

// Names returns the saved query names in sorted order
func (c *QueryCatalog) Names() []string {
	names := make([]string, 0, len(c.queries))
	for name := range c.queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the saved queries sorted by name
func (c *QueryCatalog) All() []SavedQuery {
	out := make([]SavedQuery, 0, len(c.queries))
	for _, name := range c.Names() {
		out = append(out, c.queries[name])
	}
	return out
}
