package hcl

import (
	"errors"
	"fmt"

	"github.com/ComNetsHH/FlowEmu/internal/config"
)

// Validate checks a model for errors the struct tags cannot express:
// inverted bounds, defaults outside them, duplicate port or value ids within
// a template, and flow items without ports.
func (l *Loader) Validate(m *config.Model) error {
	if err := l.validate.Struct(m); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	var errs []error
	for _, g := range m.Groups {
		for _, t := range g.Templates {
			if err := validateTemplate(t); err != nil {
				errs = append(errs, fmt.Errorf("group %q template %q: %w", g.Name, t.Type, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func validateTemplate(t *config.Template) error {
	ports := make(map[string]struct{})
	values := make(map[string]struct{})
	var errs []error
	for _, c := range t.Content {
		switch c.Kind {
		case "parameter", "statistic":
			if _, dup := values[c.ID]; dup {
				errs = append(errs, fmt.Errorf("duplicate %s id %q", c.Kind, c.ID))
			}
			values[c.ID] = struct{}{}
		case "flow":
			if len(c.Ports) == 0 {
				errs = append(errs, errors.New("flow content without ports"))
			}
			for _, p := range c.Ports {
				if _, dup := ports[p.ID]; dup {
					errs = append(errs, fmt.Errorf("duplicate port id %q", p.ID))
				}
				ports[p.ID] = struct{}{}
			}
		}
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			errs = append(errs, fmt.Errorf("%s %q: min %g exceeds max %g", c.Kind, c.ID, *c.Min, *c.Max))
		}
		if d := c.Default; d != nil {
			if (c.Min != nil && *d < *c.Min) || (c.Max != nil && *d > *c.Max) {
				errs = append(errs, fmt.Errorf("%s %q: default %g outside bounds", c.Kind, c.ID, *d))
			}
		}
	}
	return errors.Join(errs...)
}
