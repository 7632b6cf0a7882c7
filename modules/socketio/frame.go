package socketio

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PublishFrame is the argument of a "publish" event.
func PublishFrame(topic string, payload []byte) map[string]any {
	return map[string]any{"topic": topic, "payload": string(payload)}
}

// DecodeMessage extracts topic and payload from the arguments of a "message"
// event. The payload may arrive as text, binary, or an already decoded JSON
// value, which is re-encoded.
func DecodeMessage(args ...any) (string, []byte, error) {
	if len(args) == 0 {
		return "", nil, errors.New("message without arguments")
	}
	topic, ok := args[0].(string)
	if !ok || topic == "" {
		return "", nil, fmt.Errorf("message topic is %T, want non-empty string", args[0])
	}
	if len(args) < 2 || args[1] == nil {
		return topic, []byte{}, nil
	}
	switch p := args[1].(type) {
	case string:
		return topic, []byte(p), nil
	case []byte:
		return topic, p, nil
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return "", nil, fmt.Errorf("re-encoding payload for %s: %w", topic, err)
		}
		return topic, b, nil
	}
}

func disconnectError(args ...any) error {
	if len(args) == 0 {
		return errors.New("disconnected")
	}
	if err, ok := args[0].(error); ok {
		return err
	}
	return fmt.Errorf("disconnected: %v", args[0])
}
