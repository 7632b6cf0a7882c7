package config

import (
	"slices"
	"time"
)

// Model is the unified, format-agnostic representation of the entire
// application configuration: the bus connection and the node library.
type Model struct {
	Broker Broker
	Topics Topics
	Editor Editor
	Groups []*Group `validate:"dive"`
}

// Broker describes the message-bus connection.
type Broker struct {
	URL       string `validate:"omitempty,url"`
	ClientID  string
	KeepAlive time.Duration `validate:"gte=0"`
	// Namespace is the socket.io namespace; MQTT ignores it.
	Namespace string
}

// Topics holds the prefixes of the inbound and outbound topic trees.
type Topics struct {
	GetPrefix string `validate:"required"`
	SetPrefix string `validate:"required"`
}

// Editor holds editor tuning.
type Editor struct {
	SettleWindow time.Duration `validate:"gte=0"`
}

// Group is a named, collapsible set of node templates.
type Group struct {
	Name      string `validate:"required"`
	Collapsed bool
	Templates []*Template `validate:"dive"`
}

// Template describes a node type offered by the library.
type Template struct {
	Type      string `validate:"required"`
	Title     string
	Removable bool
	Content   []*Content `validate:"dive"`
}

// Content is one item of a template body.
type Content struct {
	Kind    string `validate:"oneof=label parameter statistic flow"`
	Text    string
	ID      string `validate:"required_if=Kind parameter,required_if=Kind statistic"`
	Label   string
	Unit    string
	Integer bool
	Min     *float64
	Max     *float64
	Step    float64 `validate:"gte=0"`
	Default *float64
	Ports   []*Port `validate:"dive"`
}

// Port is a port of a flow content item.
type Port struct {
	Side  string `validate:"oneof=left right"`
	ID    string `validate:"required"`
	Role  string `validate:"oneof=sending receiving requesting responding"`
	Label string
}

// Defaults used when no configuration sets a value.
const (
	DefaultBrokerURL = "tcp://localhost:1883"
	DefaultGetPrefix = "get"
	DefaultSetPrefix = "set"
)

// NewModel returns a model holding the built-in defaults.
func NewModel() *Model {
	return &Model{
		Broker: Broker{URL: DefaultBrokerURL, KeepAlive: 30 * time.Second},
		Topics: Topics{GetPrefix: DefaultGetPrefix, SetPrefix: DefaultSetPrefix},
		Editor: Editor{SettleWindow: time.Second},
	}
}

// Group returns the group with the given name, or nil.
func (m *Model) Group(name string) *Group {
	for _, g := range m.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Merge folds a group into the model. A group that already exists keeps its
// position and its templates are replaced by type or appended. Template types
// are unique across groups: a type defined again leaves its previous group.
func (m *Model) Merge(g *Group) {
	for _, t := range g.Templates {
		m.dropTemplate(t.Type, g.Name)
	}
	existing := m.Group(g.Name)
	if existing == nil {
		m.Groups = append(m.Groups, g)
		return
	}
	existing.Collapsed = g.Collapsed
	for _, t := range g.Templates {
		if i := slices.IndexFunc(existing.Templates, func(old *Template) bool { return old.Type == t.Type }); i >= 0 {
			existing.Templates[i] = t
			continue
		}
		existing.Templates = append(existing.Templates, t)
	}
}

func (m *Model) dropTemplate(typ, keepGroup string) {
	for _, g := range m.Groups {
		if g.Name == keepGroup {
			continue
		}
		g.Templates = slices.DeleteFunc(g.Templates, func(t *Template) bool { return t.Type == typ })
	}
}

// Template returns the template of the given type from any group, or nil.
func (m *Model) Template(typ string) *Template {
	for _, g := range m.Groups {
		for _, t := range g.Templates {
			if t.Type == typ {
				return t
			}
		}
	}
	return nil
}
