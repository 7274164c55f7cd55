// Package templates provides predefined task blueprints.
package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xvierd/chorebook/internal/domain"
)

//go:embed templates.yaml
var builtin []byte

// ErrTemplateNotFound is returned by Find for unknown names.
var ErrTemplateNotFound = errors.New("template not found")

// Category groups templates for display.
type Category struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Template is a suggested task.
type Template struct {
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description" json:"description"`
	Icon        string           `yaml:"icon" json:"icon"`
	Category    string           `yaml:"category" json:"category"`
	Time        string           `yaml:"time" json:"time"`
	Days        []domain.Weekday `yaml:"days" json:"days"`
}

// Spec converts the template into task fields.
func (t Template) Spec() domain.TaskSpec {
	return domain.TaskSpec{
		Name:             t.Name,
		Description:      t.Description,
		DaysOfWeek:       slices.Clone(t.Days),
		NotificationTime: t.Time,
	}
}

// Catalog is a parsed template file.
type Catalog struct {
	Categories []Category `yaml:"categories" json:"categories"`
	Templates  []Template `yaml:"templates" json:"templates"`
}

// Parse decodes and validates a template file.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	for i := range c.Templates {
		spec := c.Templates[i].Spec()
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("template %q: %w", c.Templates[i].Name, err)
		}
		c.Templates[i].Days = spec.DaysOfWeek
	}
	return &c, nil
}

// Builtin returns the embedded catalogue.
func Builtin() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return c
}

// Load returns the builtin catalogue extended with the templates in
// userFile. A missing file is not an error. User templates replace
// builtins of the same name.
func Load(userFile string) (*Catalog, error) {
	c := Builtin()
	if userFile == "" {
		return c, nil
	}
	data, err := os.ReadFile(userFile)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	user, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for _, cat := range user.Categories {
		if !slices.ContainsFunc(c.Categories, func(x Category) bool { return x.ID == cat.ID }) {
			c.Categories = append(c.Categories, cat)
		}
	}
	for _, t := range user.Templates {
		i := slices.IndexFunc(c.Templates, func(x Template) bool { return strings.EqualFold(x.Name, t.Name) })
		if i >= 0 {
			c.Templates[i] = t
			continue
		}
		c.Templates = append(c.Templates, t)
	}
	return c, nil
}

// Find looks a template up by name, ignoring case.
func (c *Catalog) Find(name string) (Template, error) {
	name = strings.TrimSpace(name)
	for _, t := range c.Templates {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// InCategory returns the templates of one category in file order.
func (c *Catalog) InCategory(id string) []Template {
	var out []Template
	for _, t := range c.Templates {
		if t.Category == id {
			out = append(out, t)
		}
	}
	return out
}
