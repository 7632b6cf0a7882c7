package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(g *Group) []string {
	var out []string
	for _, t := range g.Templates {
		out = append(out, t.Type+":"+t.Title)
	}
	return out
}

func TestMerge(t *testing.T) {
	t.Parallel()
	// Arrange
	m := NewModel()
	m.Merge(&Group{Name: "Delay", Templates: []*Template{{Type: "fixed_delay", Title: "Fixed"}}})
	m.Merge(&Group{Name: "Loss", Templates: []*Template{{Type: "uncorrelated_loss", Title: "Loss"}}})

	// Act
	m.Merge(&Group{Name: "Delay", Collapsed: true, Templates: []*Template{
		{Type: "fixed_delay", Title: "Fixed v2"},
		{Type: "null", Title: "Null"},
	}})
	m.Merge(&Group{Name: "Misc", Templates: []*Template{{Type: "uncorrelated_loss", Title: "Moved"}}})

	// Assert
	require.Len(t, m.Groups, 3)
	assert.Equal(t, "Delay", m.Groups[0].Name)
	assert.True(t, m.Groups[0].Collapsed)
	assert.Equal(t, []string{"fixed_delay:Fixed v2", "null:Null"}, types(m.Groups[0]))
	assert.Empty(t, m.Group("Loss").Templates)
	assert.Equal(t, "Moved", m.Template("uncorrelated_loss").Title)
	assert.Nil(t, m.Template("missing"))
}

func TestNewModelDefaults(t *testing.T) {
	t.Parallel()
	m := NewModel()
	assert.Equal(t, DefaultBrokerURL, m.Broker.URL)
	assert.Equal(t, "get", m.Topics.GetPrefix)
	assert.Equal(t, "set", m.Topics.SetPrefix)
}
