package persona

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Definition declares one persona and the completion settings used for it.
type Definition struct {
	Name           string   `yaml:"name"`
	PromptFile     string   `yaml:"prompt_file"`
	Provider       string   `yaml:"provider"`
	Model          string   `yaml:"model"`
	Temperature    *float32 `yaml:"temperature"`
	MaxTokens      int      `yaml:"max_tokens"`
	FormatReply    bool     `yaml:"format_reply"`
	StyleDirective string   `yaml:"style_directive"`
}

type Catalog struct {
	defs map[string]Definition
}

type catalogFile struct {
	Personas []Definition `yaml:"personas"`
}

// Defaults fill the gaps a catalog entry leaves open.
type Defaults struct {
	Provider string
	Model    string
}

func float32Ptr(v float32) *float32 { return &v }

// DefaultCatalog is used when no catalog file exists.
func DefaultCatalog(d Defaults) *Catalog {
	c, _ := NewCatalog([]Definition{
		{Name: "hitesh", Model: "gpt-4.1-mini", FormatReply: true},
		{Name: "piyush", Model: "gpt-4o-mini", Temperature: float32Ptr(0.8), MaxTokens: 500},
	}, d)
	return c
}

// LoadCatalog reads a YAML catalog. A missing file yields DefaultCatalog.
func LoadCatalog(path string, d Defaults) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultCatalog(d), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read persona catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse persona catalog %s: %w", path, err)
	}
	return NewCatalog(f.Personas, d)
}

func NewCatalog(defs []Definition, d Defaults) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, errors.New("persona catalog is empty")
	}
	c := &Catalog{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if !namePattern.MatchString(def.Name) {
			return nil, fmt.Errorf("invalid persona name %q", def.Name)
		}
		if _, dup := c.defs[def.Name]; dup {
			return nil, fmt.Errorf("duplicate persona %q", def.Name)
		}
		if def.PromptFile == "" {
			def.PromptFile = def.Name + ".txt"
		}
		if def.Provider == "" {
			def.Provider = d.Provider
		}
		if def.Model == "" {
			def.Model = d.Model
		}
		if def.MaxTokens < 0 {
			return nil, fmt.Errorf("persona %q: max_tokens must not be negative", def.Name)
		}
		c.defs[def.Name] = def
	}
	return c, nil
}

func (c *Catalog) Lookup(name string) (Definition, bool) {
	def, ok := c.defs[name]
	return def, ok
}

// Names returns persona names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.defs))
	for n := range c.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
