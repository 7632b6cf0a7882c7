package editor

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ComNetsHH/FlowEmu/internal/geom"
)

// Document is the serialized graph: committed state only.
type Document struct {
	Nodes map[NodeID]NodeData `json:"nodes"`
	Paths []PathData          `json:"paths"`
}

// NodeData is the serialized form of a node.
type NodeData struct {
	Type      string        `json:"type"`
	Title     string        `json:"title"`
	Removable bool          `json:"removable"`
	Position  geom.Point    `json:"position"`
	Size      geom.Size     `json:"size"`
	Content   []ContentData `json:"content"`
}

// PortRef names a port by node and port id.
type PortRef struct {
	Node NodeID `json:"node"`
	Port PortID `json:"port"`
}

// PathData is the serialized form of a path. A nil end is the pointer.
type PathData struct {
	From *PortRef `json:"from"`
	To   *PortRef `json:"to"`
}

// PortData is the serialized form of a port inside a flow item.
type PortData struct {
	ID    PortID   `json:"id"`
	Role  PortRole `json:"type"`
	Label string   `json:"label"`
}

// PortsData groups flow ports by side.
type PortsData struct {
	Left  []PortData `json:"left"`
	Right []PortData `json:"right"`
}

// ContentData is the serialized form of any content item. Only the fields
// of its Kind are written.
type ContentData struct {
	Kind    ContentKind
	ID      string
	Label   string
	Unit    string
	Integer bool
	Min     *float64
	Max     *float64
	Step    float64
	Default *float64
	Ports   PortsData
}

type labelJSON struct {
	Type  ContentKind `json:"type"`
	Label string      `json:"label"`
}

type parameterJSON struct {
	Type    ContentKind `json:"type"`
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Unit    string      `json:"unit"`
	Integer bool        `json:"integer"`
	Min     *float64    `json:"min"`
	Max     *float64    `json:"max"`
	Step    float64     `json:"step"`
}

type statisticJSON struct {
	Type    ContentKind `json:"type"`
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Unit    string      `json:"unit"`
	Integer bool        `json:"integer"`
}

type flowJSON struct {
	Type  ContentKind `json:"type"`
	Ports PortsData   `json:"ports"`
}

// MarshalJSON writes the variant selected by Kind.
func (c ContentData) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindLabel:
		return json.Marshal(labelJSON{Type: c.Kind, Label: c.Label})
	case KindParameter:
		return json.Marshal(parameterJSON{
			Type: c.Kind, ID: c.ID, Label: c.Label, Unit: c.Unit,
			Integer: c.Integer, Min: c.Min, Max: c.Max, Step: c.Step,
		})
	case KindStatistic:
		return json.Marshal(statisticJSON{Type: c.Kind, ID: c.ID, Label: c.Label, Unit: c.Unit, Integer: c.Integer})
	case KindFlow:
		ports := c.Ports
		if ports.Left == nil {
			ports.Left = []PortData{}
		}
		if ports.Right == nil {
			ports.Right = []PortData{}
		}
		return json.Marshal(flowJSON{Type: c.Kind, Ports: ports})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownContent, c.Kind)
}

// UnmarshalJSON reads the variant named by the "type" field.
func (c *ContentData) UnmarshalJSON(b []byte) error {
	var head struct {
		Type ContentKind `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	switch head.Type {
	case KindLabel:
		var v labelJSON
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*c = ContentData{Kind: v.Type, Label: v.Label}
	case KindParameter:
		var v parameterJSON
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*c = ContentData{Kind: v.Type, ID: v.ID, Label: v.Label, Unit: v.Unit, Integer: v.Integer, Min: v.Min, Max: v.Max, Step: v.Step}
	case KindStatistic:
		var v statisticJSON
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*c = ContentData{Kind: v.Type, ID: v.ID, Label: v.Label, Unit: v.Unit, Integer: v.Integer}
	case KindFlow:
		var v flowJSON
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*c = ContentData{Kind: v.Type, Ports: v.Ports}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownContent, head.Type)
	}
	return nil
}

// FormatValue renders a numeric value as plain decimal text.
func FormatValue(v float64, integer bool) string {
	if integer {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseValue parses plain decimal text.
func ParseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	return v, nil
}
