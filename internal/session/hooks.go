package session

import (
	"github.com/ComNetsHH/FlowEmu/internal/editor"
)

func (s *Session) onNodeAdd(n *editor.Node, cb any) {
	s.observe("node_add", cb)
	if cb == Remote {
		return
	}
	s.publish(s.setTopic(ModuleSegment, string(n.ID())), n.Data())
}

func (s *Session) onNodeChange(n *editor.Node, cb any) {
	s.observe("node_change", cb)
	if cb == Remote {
		return
	}
	s.publish(s.setTopic(ModuleSegment, string(n.ID())), n.Data())
}

func (s *Session) onNodeRemove(n *editor.Node, cb any) {
	s.dropValues(n.ID())
	s.observe("node_remove", cb)
	if cb == Remote {
		return
	}
	s.publish(s.setTopic(ModuleSegment, string(n.ID())), nil)
}

// onLinkChange publishes the full committed list, which is what the backend
// consumes, for both additions and removals.
func (s *Session) onLinkChange(kind string) func(*editor.Path, any) {
	return func(_ *editor.Path, cb any) {
		s.observe(kind, cb)
		if cb == Remote {
			return
		}
		s.publish(s.setTopic(PathsSegment), s.editor.Serialize().Paths)
	}
}

func (s *Session) onParameterAdd(n *editor.Node, parameterID string) {
	sub := s.client.Subscribe(s.getTopic(ModuleSegment, string(n.ID()), parameterID), s.handleParameter(n.ID(), parameterID))
	s.values[n.ID()] = append(s.values[n.ID()], sub)
}

func (s *Session) onStatisticAdd(n *editor.Node, statisticID string) {
	sub := s.client.Subscribe(s.getTopic(ModuleSegment, string(n.ID()), statisticID), s.handleStatistic(n.ID(), statisticID))
	s.values[n.ID()] = append(s.values[n.ID()], sub)
}

func (s *Session) onParameterChange(n *editor.Node, parameterID string, v float64) {
	text := editor.FormatValue(v, false)
	if p := n.Parameter(parameterID); p != nil {
		text = p.Format(v)
	}
	s.publish(s.setTopic(ModuleSegment, string(n.ID()), parameterID), text)
}

// dropValues removes the per-value subscriptions of a node by exact pattern.
func (s *Session) dropValues(id editor.NodeID) {
	for _, sub := range s.values[id] {
		s.client.Unsubscribe(sub.Pattern())
	}
	delete(s.values, id)
}
