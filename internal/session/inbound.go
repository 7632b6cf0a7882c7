package session

import (
	"encoding/json"
	"strings"

	"github.com/ComNetsHH/FlowEmu/internal/editor"
	"github.com/ComNetsHH/FlowEmu/internal/topic"
)

// handleModule reconciles a node snapshot from get/module/<id>. An empty
// payload removes the node.
func (s *Session) handleModule(t string, payload []byte) {
	segs := topic.Split(t)
	id := editor.NodeID(segs[len(segs)-1])
	if id == "" {
		s.logger.Warn("Ignoring module message without id.", "topic", t)
		return
	}

	if len(strings.TrimSpace(string(payload))) == 0 {
		if s.editor.Node(id) != nil {
			_ = s.editor.RemoveNode(id, Remote)
		}
		return
	}

	var d editor.NodeData
	if err := json.Unmarshal(payload, &d); err != nil {
		s.logger.Warn("Ignoring malformed module message.", "topic", t, "error", err)
		return
	}
	if s.editor.Node(id) != nil {
		_ = s.editor.UpdateNode(id, d, Remote)
		return
	}
	n, err := editor.NewNodeFromData(id, d)
	if err != nil {
		s.logger.Warn("Ignoring invalid module message.", "topic", t, "error", err)
		return
	}
	_ = s.editor.AddNode(n, Remote)
}

// handlePaths reconciles the committed link list from get/paths.
func (s *Session) handlePaths(t string, payload []byte) {
	var paths []editor.PathData
	if len(strings.TrimSpace(string(payload))) > 0 {
		if err := json.Unmarshal(payload, &paths); err != nil {
			s.logger.Warn("Ignoring malformed paths message.", "topic", t, "error", err)
			return
		}
	}
	s.editor.UpdatePaths(paths, Remote)
}

func (s *Session) handleParameter(id editor.NodeID, parameterID string) func(string, []byte) {
	return func(t string, payload []byte) {
		v, err := editor.ParseValue(string(payload))
		if err != nil {
			s.logger.Warn("Ignoring malformed parameter value.", "topic", t, "error", err)
			return
		}
		_ = s.editor.SetParameterValue(id, parameterID, v)
	}
}

func (s *Session) handleStatistic(id editor.NodeID, statisticID string) func(string, []byte) {
	return func(t string, payload []byte) {
		v, err := editor.ParseValue(string(payload))
		if err != nil {
			s.logger.Warn("Ignoring malformed statistic value.", "topic", t, "error", err)
			return
		}
		_ = s.editor.SetStatisticValue(id, statisticID, v)
	}
}
