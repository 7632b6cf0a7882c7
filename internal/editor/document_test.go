package editor

import (
	"encoding/json"
	"testing"

	"github.com/ComNetsHH/FlowEmu/internal/geom"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedNode(t *testing.T) *Node {
	t.Helper()
	n := NewNode("42", "trace_rate", "Trace Rate")
	require.NoError(t, n.AddContent(NewLabel("Downlink trace")))
	lo := 0.0
	require.NoError(t, n.AddContent(&Parameter{ID: "probability", Label: "Loss", Unit: "%", Min: &lo, Step: 0.0001}))
	require.NoError(t, n.AddContent(NewFlow(
		[]*Port{NewPort("lr_in", Receiving, "In"), NewPort("rl_out", Sending, "Out")},
		[]*Port{NewPort("lr_out", Sending, "Out")},
	)))
	return n
}

func TestNodeData_RoundTripIsByteIdentical(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	first, err := json.Marshal(mixedNode(t).Data())
	require.NoError(t, err)

	// --- Act ---
	var d NodeData
	require.NoError(t, json.Unmarshal(first, &d))
	rebuilt, err := NewNodeFromData("42", d)
	require.NoError(t, err)
	second, err := json.Marshal(rebuilt.Data())
	require.NoError(t, err)

	// --- Assert ---
	assert.Equal(t, string(first), string(second))
	assert.Len(t, rebuilt.Ports(), 3)
	assert.Equal(t, Left, rebuilt.Port("rl_out").Side())
}

func TestContentData_WireShape(t *testing.T) {
	t.Parallel()
	n := mixedNode(t)
	b, err := json.Marshal(n.Data().Content)
	require.NoError(t, err)

	want := `[` +
		`{"type":"label","label":"Downlink trace"},` +
		`{"type":"parameter","id":"probability","label":"Loss","unit":"%","integer":false,"min":0,"max":null,"step":0.0001},` +
		`{"type":"flow","ports":{"left":[{"id":"lr_in","type":"receiving","label":"In"},{"id":"rl_out","type":"sending","label":"Out"}],"right":[{"id":"lr_out","type":"sending","label":"Out"}]}}` +
		`]`
	assert.JSONEq(t, want, string(b))
}

func TestDocument_DecodeBackendPayload(t *testing.T) {
	t.Parallel()
	payload := `{
		"nodes": {
			"7": {"type":"throughput_meter","title":"Throughput Meter","removable":true,
			      "position":{"x":10,"y":20},"size":{"width":200,"height":120},
			      "content":[{"type":"statistic","id":"bytes_per_second","label":"Bytes","unit":"B/s","integer":false}]}
		},
		"paths": [{"from":{"node":7,"port":"out"},"to":{"node":"8","port":"in"}}]
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(payload), &doc))

	want := Document{
		Nodes: map[NodeID]NodeData{
			"7": {
				Type:      "throughput_meter",
				Title:     "Throughput Meter",
				Removable: true,
				Position:  geom.Point{X: 10, Y: 20},
				Size:      geom.Size{Width: 200, Height: 120},
				Content:   []ContentData{{Kind: KindStatistic, ID: "bytes_per_second", Label: "Bytes", Unit: "B/s"}},
			},
		},
		Paths: []PathData{{From: &PortRef{Node: "7", Port: "out"}, To: &PortRef{Node: "8", Port: "in"}}},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("decoded document mismatch (-want +got):\n%s", diff)
	}
}

func TestContentData_UnknownKind(t *testing.T) {
	t.Parallel()
	var c ContentData
	err := json.Unmarshal([]byte(`{"type":"chart"}`), &c)
	assert.ErrorIs(t, err, ErrUnknownContent)
}

func TestFormatAndParseValue(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0.0125", FormatValue(0.0125, false))
	assert.Equal(t, "40", FormatValue(39.6, true))
	v, err := ParseValue(" 40 ")
	require.NoError(t, err)
	assert.Equal(t, 40.0, v)
	_, err = ParseValue("forty")
	assert.Error(t, err)
}
