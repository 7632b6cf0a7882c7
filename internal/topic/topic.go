// Package topic implements the subscription pattern matching used by the
// pub/sub facade. Patterns and topics are '/'-delimited segment lists; '+'
// matches exactly one segment and '#' matches the remainder of the topic.
package topic

import "strings"

const (
	// Separator delimits topic segments.
	Separator = "/"
	// SingleLevel matches any one segment.
	SingleLevel = "+"
	// MultiLevel matches the current and all remaining segments.
	MultiLevel = "#"
)

// Matches reports whether the subscription pattern matches the concrete topic.
// Malformed patterns never panic; they simply fail to match.
func Matches(pattern, topic string) bool {
	p := strings.Split(pattern, Separator)
	t := strings.Split(topic, Separator)

	for i, seg := range p {
		if seg == MultiLevel {
			return true
		}
		if i >= len(t) {
			return false
		}
		if seg == SingleLevel {
			continue
		}
		if seg != t[i] {
			return false
		}
	}
	return len(p) == len(t)
}

// Join builds a topic from its segments.
func Join(segments ...string) string {
	return strings.Join(segments, Separator)
}

// Split returns the segments of a topic.
func Split(topic string) []string {
	return strings.Split(topic, Separator)
}
