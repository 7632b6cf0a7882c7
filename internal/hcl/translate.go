package hcl

import (
	"fmt"
	"time"

	"github.com/ComNetsHH/FlowEmu/internal/config"
	"github.com/ComNetsHH/FlowEmu/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translateSettings copies the set attributes of the broker, topics and
// editor blocks over the model. Unset attributes keep earlier values.
func translateSettings(m *config.Model, f *schema.File) error {
	if b := f.Broker; b != nil {
		if b.URL != "" {
			m.Broker.URL = b.URL
		}
		if b.ClientID != "" {
			m.Broker.ClientID = b.ClientID
		}
		if b.Namespace != "" {
			m.Broker.Namespace = b.Namespace
		}
		if b.KeepAlive != "" {
			d, err := parseDuration("broker.keepalive", b.KeepAlive)
			if err != nil {
				return err
			}
			m.Broker.KeepAlive = d
		}
	}
	if t := f.Topics; t != nil {
		if t.GetPrefix != "" {
			m.Topics.GetPrefix = t.GetPrefix
		}
		if t.SetPrefix != "" {
			m.Topics.SetPrefix = t.SetPrefix
		}
	}
	if e := f.Editor; e != nil && e.SettleWindow != "" {
		d, err := parseDuration("editor.settle_window", e.SettleWindow)
		if err != nil {
			return err
		}
		m.Editor.SettleWindow = d
	}
	return nil
}

// translateGroup converts the HCL-specific group schema into the agnostic model.
func translateGroup(g *schema.Group) (*config.Group, error) {
	out := &config.Group{Name: g.Name, Collapsed: g.Collapsed}
	for _, t := range g.Templates {
		tmpl, err := translateTemplate(t)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Name, err)
		}
		out.Templates = append(out.Templates, tmpl)
	}
	return out, nil
}

// translateTemplate converts the HCL-specific template schema into the agnostic model.
func translateTemplate(t *schema.Template) (*config.Template, error) {
	out := &config.Template{Type: t.Type, Title: t.Title, Removable: true}
	if out.Title == "" {
		out.Title = t.Type
	}
	if t.Removable != nil {
		out.Removable = *t.Removable
	}
	for _, c := range t.Content {
		item, err := translateContent(c)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Type, err)
		}
		out.Content = append(out.Content, item)
	}
	return out, nil
}

func translateContent(c *schema.Content) (*config.Content, error) {
	out := &config.Content{
		Kind:    c.Kind,
		Text:    c.Text,
		ID:      c.ID,
		Label:   c.Label,
		Unit:    c.Unit,
		Integer: c.Integer,
	}
	var err error
	if out.Min, err = numberValue("min", c.Min); err != nil {
		return nil, err
	}
	if out.Max, err = numberValue("max", c.Max); err != nil {
		return nil, err
	}
	if out.Default, err = numberValue("default", c.Default); err != nil {
		return nil, err
	}
	step, err := numberValue("step", c.Step)
	if err != nil {
		return nil, err
	}
	if step != nil {
		out.Step = *step
	}
	for _, p := range c.Ports {
		out.Ports = append(out.Ports, &config.Port{Side: p.Side, ID: p.ID, Role: p.Role, Label: p.Label})
	}
	return out, nil
}

// numberValue converts an optional attribute to a float. Absent and null
// attributes yield nil; numeric strings are accepted.
func numberValue(name string, v *cty.Value) (*float64, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%s: value must be known", name)
	}
	num, err := convert.Convert(*v, cty.Number)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var f float64
	if err := gocty.FromCtyValue(num, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &f, nil
}

func parseDuration(name, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}
