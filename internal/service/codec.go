package service

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec marshals plain Go structs as JSON. It replaces connect's built-in
// "json" codec, which only accepts generated protobuf messages.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
