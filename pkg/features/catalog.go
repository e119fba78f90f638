package features

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed dorms.yaml
var dormsYAML []byte

// Dorm a residence hall with its housing page
type Dorm struct {
	Name string `yaml:"name" json:"name"`
	Slug string `yaml:"-"    json:"slug"`
	URL  string `yaml:"url"  json:"url"`
}

// Catalog the known dorms, addressable by slug
type Catalog struct {
	dorms  []Dorm
	bySlug map[string]Dorm
}

// LoadCatalog parses the embedded dorm list
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(dormsYAML)
}

// ParseCatalog parses a YAML document of the form {dorms: [{name, url}]}
func ParseCatalog(raw []byte) (*Catalog, error) {
	var doc struct {
		Dorms []Dorm `yaml:"dorms"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse dorm catalog: %w", err)
	}

	c := &Catalog{bySlug: make(map[string]Dorm, len(doc.Dorms))}
	for _, d := range doc.Dorms {
		d.Slug = Slug(d.Name)
		if d.Slug == "" || d.URL == "" {
			return nil, fmt.Errorf("dorm catalog entry %q is incomplete", d.Name)
		}
		if _, dup := c.bySlug[d.Slug]; dup {
			return nil, fmt.Errorf("dorm catalog has duplicate slug %q", d.Slug)
		}
		c.bySlug[d.Slug] = d
		c.dorms = append(c.dorms, d)
	}
	return c, nil
}

// All returns the dorms in catalog order
func (c *Catalog) All() []Dorm {
	out := make([]Dorm, len(c.dorms))
	copy(out, c.dorms)
	return out
}

// Lookup finds a dorm by display name or slug
func (c *Catalog) Lookup(nameOrSlug string) (Dorm, bool) {
	d, ok := c.bySlug[Slug(nameOrSlug)]
	return d, ok
}

// Slug lower-cases name and joins its letter/digit runs with '-'
func Slug(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
