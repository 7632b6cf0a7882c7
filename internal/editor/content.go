package editor

import (
	"fmt"
	"math"
	"strings"

	"github.com/ComNetsHH/FlowEmu/internal/control"
)

// ContentKind names a content variant on the wire.
type ContentKind string

const (
	KindLabel     ContentKind = "label"
	KindParameter ContentKind = "parameter"
	KindStatistic ContentKind = "statistic"
	KindFlow      ContentKind = "flow"
)

// Content is one item in a node body. The set of variants is closed:
// *Label, *Parameter, *Statistic and *Flow.
type Content interface {
	Kind() ContentKind
	// Data returns the serialized form of the item.
	Data() ContentData

	rows() int
	key() string
}

// Label is static text.
type Label struct {
	Text string
}

// NewLabel returns a label item.
func NewLabel(text string) *Label { return &Label{Text: text} }

func (*Label) Kind() ContentKind { return KindLabel }
func (*Label) rows() int         { return 1 }
func (l *Label) key() string     { return "label:" + l.Text }
func (l *Label) Data() ContentData {
	return ContentData{Kind: KindLabel, Label: l.Text}
}

// Parameter is a live-editable numeric value of the node's backend module.
type Parameter struct {
	ID      string
	Label   string
	Unit    string
	Integer bool
	Min     *float64
	Max     *float64
	Step    float64
	// Default is shown until the backend reports a value. It is not part of
	// the serialized document.
	Default *float64

	node  *Node
	value *control.Value
}

func (*Parameter) Kind() ContentKind { return KindParameter }
func (*Parameter) rows() int         { return 1 }
func (p *Parameter) key() string     { return "parameter:" + p.ID }
func (p *Parameter) Data() ContentData {
	return ContentData{
		Kind:    KindParameter,
		ID:      p.ID,
		Label:   p.Label,
		Unit:    p.Unit,
		Integer: p.Integer,
		Min:     cloneFloat(p.Min),
		Max:     cloneFloat(p.Max),
		Step:    p.Step,
		Default: cloneFloat(p.Default),
	}
}

// Node returns the node holding the parameter.
func (p *Parameter) Node() *Node { return p.node }

// Value returns the value to display.
func (p *Parameter) Value() float64 {
	if p.value == nil {
		return 0
	}
	return p.value.Shown()
}

// Known reports whether an authoritative value has arrived.
func (p *Parameter) Known() bool {
	if p.value == nil {
		return false
	}
	_, ok := p.value.Authoritative()
	return ok
}

// Dirty reports whether a local edit is still settling.
func (p *Parameter) Dirty() bool {
	return p.value != nil && p.value.Dirty()
}

// Normalize clamps x into the parameter's bounds and rounds integer parameters.
func (p *Parameter) Normalize(x float64) float64 {
	if p.Integer {
		x = math.Round(x)
	}
	if p.Min != nil && x < *p.Min {
		x = *p.Min
	}
	if p.Max != nil && x > *p.Max {
		x = *p.Max
	}
	return x
}

// Format renders v the way it travels on the wire.
func (p *Parameter) Format(v float64) string { return FormatValue(v, p.Integer) }

// Statistic is a read-only value streamed from the backend.
type Statistic struct {
	ID      string
	Label   string
	Unit    string
	Integer bool

	node  *Node
	value float64
	known bool
}

func (*Statistic) Kind() ContentKind { return KindStatistic }
func (*Statistic) rows() int         { return 1 }
func (s *Statistic) key() string     { return "statistic:" + s.ID }
func (s *Statistic) Data() ContentData {
	return ContentData{Kind: KindStatistic, ID: s.ID, Label: s.Label, Unit: s.Unit, Integer: s.Integer}
}

// Node returns the node holding the statistic.
func (s *Statistic) Node() *Node { return s.node }

// Value returns the last reported value and whether any has been reported.
func (s *Statistic) Value() (float64, bool) { return s.value, s.known }

// Flow is a row of ports on the left and right edges of a node.
type Flow struct {
	Left  []*Port
	Right []*Port
}

// NewFlow places the given ports on their sides.
func NewFlow(left, right []*Port) *Flow {
	for _, p := range left {
		p.side = Left
	}
	for _, p := range right {
		p.side = Right
	}
	return &Flow{Left: left, Right: right}
}

func (*Flow) Kind() ContentKind { return KindFlow }

func (f *Flow) rows() int { return max(len(f.Left), len(f.Right)) }

func (f *Flow) key() string {
	ids := make([]string, 0, len(f.Left)+len(f.Right))
	for _, p := range f.Left {
		ids = append(ids, "l."+string(p.id))
	}
	for _, p := range f.Right {
		ids = append(ids, "r."+string(p.id))
	}
	return "flow:" + strings.Join(ids, ",")
}

func (f *Flow) Data() ContentData {
	d := ContentData{Kind: KindFlow, Ports: PortsData{Left: []PortData{}, Right: []PortData{}}}
	for _, p := range f.Left {
		d.Ports.Left = append(d.Ports.Left, PortData{ID: p.id, Role: p.role, Label: p.label})
	}
	for _, p := range f.Right {
		d.Ports.Right = append(d.Ports.Right, PortData{ID: p.id, Role: p.role, Label: p.label})
	}
	return d
}

// Ports returns the left ports followed by the right ports.
func (f *Flow) Ports() []*Port {
	out := make([]*Port, 0, len(f.Left)+len(f.Right))
	out = append(out, f.Left...)
	return append(out, f.Right...)
}

// NewContent builds a content item from its serialized form.
func NewContent(d ContentData) (Content, error) {
	switch d.Kind {
	case KindLabel:
		return NewLabel(d.Label), nil
	case KindParameter:
		return &Parameter{
			ID:      d.ID,
			Label:   d.Label,
			Unit:    d.Unit,
			Integer: d.Integer,
			Min:     cloneFloat(d.Min),
			Max:     cloneFloat(d.Max),
			Step:    d.Step,
			Default: cloneFloat(d.Default),
		}, nil
	case KindStatistic:
		return &Statistic{ID: d.ID, Label: d.Label, Unit: d.Unit, Integer: d.Integer}, nil
	case KindFlow:
		left := make([]*Port, 0, len(d.Ports.Left))
		for _, p := range d.Ports.Left {
			left = append(left, NewPort(p.ID, p.Role, p.Label))
		}
		right := make([]*Port, 0, len(d.Ports.Right))
		for _, p := range d.Ports.Right {
			right = append(right, NewPort(p.ID, p.Role, p.Label))
		}
		return NewFlow(left, right), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownContent, d.Kind)
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
