package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type envelope struct {
	Type *string `json:"type"`
}

func kindOf(data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", ErrEmptyFrame
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == nil || *env.Type == "" {
		return "", ErrMissingType
	}
	return *env.Type, nil
}

// DecodeClient parses one JSON client message. Only a broken envelope or an
// unknown type is an error; bad numeric fields are left invalid in the result.
func DecodeClient(data []byte) (ClientMessage, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	var msg ClientMessage
	switch kind {
	case TypeJoin:
		msg, err = decodeAs[Join](data)
	case TypeUpdateState:
		msg, err = decodeAs[UpdateState](data)
	case TypeCollectPoint:
		msg, err = decodeAs[CollectPoint](data)
	case TypeCaptureStatic:
		msg, err = decodeAs[CaptureStatic](data)
	case TypeShockwave:
		msg, err = decodeAs[Shockwave](data)
	case TypeDowned:
		msg = Downed{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return msg, nil
}

// DecodeServer parses one JSON server message.
func DecodeServer(data []byte) (ServerMessage, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	var msg ServerMessage
	switch kind {
	case TypeFullGameState:
		msg, err = decodeAs[FullGameState](data)
	case TypeGameStateUpdate:
		msg, err = decodeAs[GameStateUpdate](data)
	case TypePointCollected:
		msg, err = decodeAs[PointCollected](data)
	case TypeStaticsCaptured:
		msg, err = decodeAs[StaticsCaptured](data)
	case TypeShockwave:
		msg, err = decodeAs[ShockwaveFired](data)
	case TypePlayerJoined:
		msg, err = decodeAs[PlayerJoined](data)
	case TypePlayerLeft:
		msg, err = decodeAs[PlayerLeft](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return msg, nil
}

func decodeAs[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

func DecodeClientFrame(f Frame, o Options) (ClientMessage, error) {
	data, err := canonical(f, o)
	if err != nil {
		return nil, err
	}
	return DecodeClient(data)
}

func DecodeServerFrame(f Frame, o Options) (ServerMessage, error) {
	data, err := canonical(f, o)
	if err != nil {
		return nil, err
	}
	return DecodeServer(data)
}
