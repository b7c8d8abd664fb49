package template

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// catalog is the on-disk template file layout.
type catalog struct {
	Templates []Template `yaml:"templates"`
}

// ErrEmptyCatalog is returned when a template file declares no templates.
var ErrEmptyCatalog = errors.New("template catalog contains no templates")

// Load parses a YAML template catalog from the reader:
//
//	templates:
//	  - id: welcome
//	    channel: email
//	    subject: "Welcome, {name}"
//	    body: "Hello {name}, glad to have you."
//	    required_variables: [name]
//	    version: 1
func Load(r io.Reader) ([]Template, error) {
	var c catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode template catalog: %w", err)
	}
	if len(c.Templates) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c.Templates, nil
}

// LoadFile reads a YAML template catalog from disk.
func LoadFile(path string) ([]Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template catalog %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// RegisterFile loads a YAML catalog and registers every template it declares.
// Registration stops at the first invalid template.
func (r *Registry) RegisterFile(path string) error {
	templates, err := LoadFile(path)
	if err != nil {
		return err
	}
	for _, t := range templates {
		if err := r.Register(t); err != nil {
			return fmt.Errorf("template %q: %w", t.ID, err)
		}
	}
	return nil
}
