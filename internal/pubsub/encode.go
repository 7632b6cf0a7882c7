package pubsub

import (
	"encoding"
	"encoding/json"
	"fmt"
	"strconv"
)

// Encode turns a publish payload into bytes. Text and bytes pass through,
// numbers become plain decimal text, nil becomes an empty payload and
// anything else is serialized as JSON.
func Encode(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case json.RawMessage:
		return v, nil
	case float64:
		return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case float32:
		return []byte(strconv.FormatFloat(float64(v), 'f', -1, 32)), nil
	case int:
		return []byte(strconv.Itoa(v)), nil
	case int64:
		return []byte(strconv.FormatInt(v, 10)), nil
	case int32:
		return []byte(strconv.FormatInt(int64(v), 10)), nil
	case uint:
		return []byte(strconv.FormatUint(uint64(v), 10)), nil
	case uint64:
		return []byte(strconv.FormatUint(v, 10)), nil
	case bool:
		return []byte(strconv.FormatBool(v)), nil
	case json.Marshaler:
		return v.MarshalJSON()
	case encoding.TextMarshaler:
		return v.MarshalText()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return b, nil
}
