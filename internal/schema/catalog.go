package schema

import (
	"errors"
	"fmt"
)

var ErrUnknownIndustry = errors.New("unknown industry")

// Catalog is the read-only set of industry schema descriptors available to
// the trainer. It is built once at startup and needs no synchronization.
type Catalog struct {
	descriptors map[string]*Descriptor
	order       []string
}

// NewCatalog builds a catalog from the given descriptors. Every descriptor
// is validated up front; a malformed or duplicated descriptor fails the
// whole catalog rather than surfacing later at use time.
func NewCatalog(descriptors ...*Descriptor) (*Catalog, error) {
	c := &Catalog{descriptors: make(map[string]*Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("invalid schema descriptor: %w", err)
		}
		if _, ok := c.descriptors[d.Industry]; ok {
			return nil, fmt.Errorf("duplicate industry %q", d.Industry)
		}
		c.descriptors[d.Industry] = d
		c.order = append(c.order, d.Industry)
	}
	return c, nil
}

// Describe returns the descriptor for an industry.
func (c *Catalog) Describe(industry string) (*Descriptor, error) {
	d, ok := c.descriptors[industry]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIndustry, industry)
	}
	return d, nil
}

// RenderPrompt renders the schema preamble for an industry.
func (c *Catalog) RenderPrompt(industry string) (string, error) {
	d, err := c.Describe(industry)
	if err != nil {
		return "", err
	}
	return d.RenderPrompt(), nil
}

// Industries returns the industry names in registration order.
func (c *Catalog) Industries() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
