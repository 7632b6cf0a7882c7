package library

import (
	"fmt"

	"github.com/ComNetsHH/FlowEmu/internal/config"
	"github.com/ComNetsHH/FlowEmu/internal/editor"
)

// GroupsFromConfig builds template groups from the configuration model.
func GroupsFromConfig(groups []*config.Group) ([]*Group, error) {
	out := make([]*Group, 0, len(groups))
	for _, g := range groups {
		group := &Group{Name: g.Name, Collapsed: g.Collapsed}
		for _, t := range g.Templates {
			n, err := TemplateFromConfig(t)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", g.Name, err)
			}
			group.Templates = append(group.Templates, n)
		}
		out = append(out, group)
	}
	return out, nil
}

// TemplateFromConfig builds a detached template node.
func TemplateFromConfig(t *config.Template) (*editor.Node, error) {
	d := editor.NodeData{Type: t.Type, Title: t.Title, Removable: t.Removable}
	for _, c := range t.Content {
		cd, err := contentData(c)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Type, err)
		}
		d.Content = append(d.Content, cd)
	}
	n, err := editor.NewNodeFromData(editor.NodeID(t.Type), d)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", t.Type, err)
	}
	return n, nil
}

func contentData(c *config.Content) (editor.ContentData, error) {
	cd := editor.ContentData{
		Kind:    editor.ContentKind(c.Kind),
		ID:      c.ID,
		Label:   c.Label,
		Unit:    c.Unit,
		Integer: c.Integer,
		Min:     c.Min,
		Max:     c.Max,
		Step:    c.Step,
		Default: c.Default,
	}
	switch cd.Kind {
	case editor.KindLabel:
		cd.Label = c.Text
	case editor.KindFlow:
		cd.Ports = editor.PortsData{Left: []editor.PortData{}, Right: []editor.PortData{}}
		for _, p := range c.Ports {
			role, err := editor.ParsePortRole(p.Role)
			if err != nil {
				return cd, fmt.Errorf("port %q: %w", p.ID, err)
			}
			side, err := editor.ParseSide(p.Side)
			if err != nil {
				return cd, fmt.Errorf("port %q: %w", p.ID, err)
			}
			pd := editor.PortData{ID: editor.PortID(p.ID), Role: role, Label: p.Label}
			if side == editor.Left {
				cd.Ports.Left = append(cd.Ports.Left, pd)
			} else {
				cd.Ports.Right = append(cd.Ports.Right, pd)
			}
		}
	}
	return cd, nil
}
