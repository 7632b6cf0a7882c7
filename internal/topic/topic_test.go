package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		pattern string
		topic   string
		want    bool
	}{
		{"exact", "a/b/c", "a/b/c", true},
		{"literal mismatch", "a/b/c", "a/x/c", false},
		{"single level wildcard", "a/+/c", "a/x/c", true},
		{"single level wildcard wrong tail", "a/+/c", "a/x/d", false},
		{"multi level wildcard", "a/#", "a/b/c/d", true},
		{"multi level wildcard matches one", "a/#", "a/b", true},
		{"bare multi level", "#", "anything/at/all", true},
		{"length mismatch without hash", "a/+", "a/b/c", false},
		{"pattern longer than topic", "a/b/c", "a/b", false},
		{"plus does not match missing segment", "a/b/+", "a/b", false},
		{"empty segments are literal", "a//c", "a//c", true},
		{"module topic", "get/module/+", "get/module/1700000000000", true},
		{"module param does not match module pattern", "get/module/+", "get/module/1/delay", false},
		{"hash after literal mismatch", "x/#", "a/b", false},
		{"malformed pattern degrades", "a/#/b", "a/q/r", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Matches(tc.pattern, tc.topic))
		})
	}
}

func TestJoinSplit(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "set/module/7/delay", Join("set", "module", "7", "delay"))
	assert.Equal(t, []string{"get", "paths"}, Split("get/paths"))
}
