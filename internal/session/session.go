// Package session binds an editor to the message bus. Inbound node, path and
// value messages are reconciled into the editor; local edits reported by the
// editor hooks are published back. Changes that came from the bus carry the
// Remote marker and are never echoed.
package session

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
	"github.com/ComNetsHH/FlowEmu/internal/editor"
	"github.com/ComNetsHH/FlowEmu/internal/pubsub"
	"github.com/ComNetsHH/FlowEmu/internal/topic"
)

type marker string

// Remote is the callbackData the session passes for changes that came from
// the bus.
const Remote marker = "remote"

// Topic tree names below the get/set prefixes.
const (
	ModuleSegment = "module"
	PathsSegment  = "paths"
)

// Topics holds the prefixes of the inbound and outbound topic trees.
type Topics struct {
	Get string
	Set string
}

// DefaultTopics matches the FlowEmu backend.
var DefaultTopics = Topics{Get: "get", Set: "set"}

// GraphRecorder observes graph changes, typically for metrics.
type GraphRecorder interface {
	ObserveGraphChange(kind, origin string)
	SetGraphSize(nodes, links int)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.logger = ctxlog.OrDiscard(l) } }

// WithTopics overrides the topic prefixes.
func WithTopics(t Topics) Option { return func(s *Session) { s.topics = t } }

// WithRecorder installs a graph change observer.
func WithRecorder(r GraphRecorder) Option { return func(s *Session) { s.recorder = r } }

// Session owns the editor hooks. All methods, like the editor itself, must be
// called from the goroutine that owns the editor; the client's executor must
// deliver messages there as well.
type Session struct {
	editor   *editor.Editor
	client   *pubsub.Client
	logger   *slog.Logger
	topics   Topics
	recorder GraphRecorder

	subs   []*pubsub.Subscription
	values map[editor.NodeID][]*pubsub.Subscription
}

// New creates a session and installs its hooks on ed, replacing any hooks
// set before.
func New(ed *editor.Editor, client *pubsub.Client, opts ...Option) *Session {
	s := &Session{
		editor: ed,
		client: client,
		logger: ctxlog.OrDiscard(nil),
		topics: DefaultTopics,
		values: make(map[editor.NodeID][]*pubsub.Subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")
	ed.SetHooks(editor.Hooks{
		OnNodeAdd:         s.onNodeAdd,
		OnNodeChange:      s.onNodeChange,
		OnNodeRemove:      s.onNodeRemove,
		OnLinkAdd:         s.onLinkChange("link_add"),
		OnLinkRemove:      s.onLinkChange("link_remove"),
		OnParameterAdd:    s.onParameterAdd,
		OnParameterChange: s.onParameterChange,
		OnStatisticAdd:    s.onStatisticAdd,
	})
	return s
}

// Open subscribes to the node and path trees. Retained messages on them
// populate the editor.
func (s *Session) Open() {
	s.subs = append(s.subs,
		s.client.Subscribe(s.getTopic(ModuleSegment, topic.SingleLevel), s.handleModule),
		s.client.Subscribe(s.getTopic(PathsSegment), s.handlePaths),
	)
	s.logger.Info("Session opened.", "get_prefix", s.topics.Get, "set_prefix", s.topics.Set)
}

// Close drops every subscription the session holds.
func (s *Session) Close() {
	for _, sub := range s.subs {
		s.client.UnsubscribeHandle(sub)
	}
	s.subs = nil
	for id := range s.values {
		s.dropValues(id)
	}
	s.logger.Info("Session closed.")
}

// Snapshot writes the serialized graph as indented JSON.
func (s *Session) Snapshot(w io.Writer) error {
	b, err := json.MarshalIndent(s.editor.Serialize(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (s *Session) getTopic(parts ...string) string {
	return topic.Join(append([]string{s.topics.Get}, parts...)...)
}

func (s *Session) setTopic(parts ...string) string {
	return topic.Join(append([]string{s.topics.Set}, parts...)...)
}

func origin(cb any) string {
	if cb == Remote {
		return "remote"
	}
	return "local"
}

func (s *Session) observe(kind string, cb any) {
	if s.recorder == nil {
		return
	}
	s.recorder.ObserveGraphChange(kind, origin(cb))
	s.recorder.SetGraphSize(len(s.editor.Nodes()), len(s.editor.Paths()))
}

func (s *Session) publish(t string, payload any) {
	if err := s.client.Publish(t, payload); err != nil {
		s.logger.Error("Failed to publish.", "topic", t, "error", err)
	}
}
