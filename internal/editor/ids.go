package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// NodeID identifies a node within one editor.
type NodeID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *NodeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = NodeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("node id: %w", err)
	}
	*id = NodeID(n.String())
	return nil
}

// PortID identifies a port within its node.
type PortID string

// idSource hands out creation-timestamp ids that never repeat within one editor.
type idSource struct {
	now  func() time.Time
	last int64
}

func (s *idSource) next() NodeID {
	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return NodeID(strconv.FormatInt(ms, 10))
}
