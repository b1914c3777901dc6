package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Codec names a frame encoding. JSON objects are the canonical form: the
// binary codecs carry the same object tree.
type Codec string

const (
	JSON    Codec = "json"
	MsgPack Codec = "msgpack"
	Proto   Codec = "proto"
)

// MaxFrameBytes bounds a decoded frame, compressed or not.
const MaxFrameBytes = 1 << 20

var (
	ErrEmptyFrame   = errors.New("empty frame")
	ErrMissingType  = errors.New("missing type")
	ErrUnknownType  = errors.New("unknown message type")
	ErrUnknownCodec = errors.New("unknown codec")
	ErrFrameTooBig  = errors.New("frame too large")
)

// Options is what a connection negotiated. It is comparable so broadcasts
// can cache one encoding per distinct value.
type Options struct {
	Codec    Codec
	Compress bool
}

// ParseOptions reads ?codec=json|msgpack|proto&compress=lz4.
func ParseOptions(q url.Values) (Options, error) {
	o := Options{Codec: JSON}
	switch c := Codec(strings.ToLower(q.Get("codec"))); c {
	case "":
	case JSON, MsgPack, Proto:
		o.Codec = c
	default:
		return o, fmt.Errorf("%w: %q", ErrUnknownCodec, c)
	}
	switch z := strings.ToLower(q.Get("compress")); z {
	case "", "none":
	case "lz4":
		o.Compress = true
	default:
		return o, fmt.Errorf("unknown compression %q", z)
	}
	return o, nil
}

// Query is the inverse of ParseOptions, for dialing clients.
func (o Options) Query() url.Values {
	q := url.Values{}
	if o.Codec != "" && o.Codec != JSON {
		q.Set("codec", string(o.Codec))
	}
	if o.Compress {
		q.Set("compress", "lz4")
	}
	return q
}

func (o Options) String() string {
	s := string(o.Codec)
	if s == "" {
		s = string(JSON)
	}
	if o.Compress {
		s += "+lz4"
	}
	return s
}

// Frame is one websocket message. Binary is false only for plain JSON text.
type Frame struct {
	Binary bool
	Data   []byte
}

// Encode frames m with its type discriminator.
func Encode(m Message, o Options) (Frame, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return Frame{}, fmt.Errorf("marshal %s: %w", m.Kind(), err)
	}
	data := tagged(m.Kind(), body)

	f := Frame{Data: data}
	switch o.Codec {
	case "", JSON:
	case MsgPack, Proto:
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return Frame{}, fmt.Errorf("object tree %s: %w", m.Kind(), err)
		}
		if f.Data, err = encodeObject(o.Codec, obj); err != nil {
			return Frame{}, fmt.Errorf("encode %s as %s: %w", m.Kind(), o.Codec, err)
		}
		f.Binary = true
	default:
		return Frame{}, fmt.Errorf("%w: %q", ErrUnknownCodec, o.Codec)
	}
	if o.Compress {
		if f.Data, err = compress(f.Data); err != nil {
			return Frame{}, fmt.Errorf("compress %s: %w", m.Kind(), err)
		}
		f.Binary = true
	}
	return f, nil
}

// tagged splices "type" in front of the other fields of a JSON object.
func tagged(kind string, body []byte) []byte {
	out := make([]byte, 0, len(body)+len(kind)+10)
	out = append(out, `{"type":`...)
	out = strconv.AppendQuote(out, kind)
	if len(body) > 2 {
		out = append(out, ',')
	}
	return append(out, body[1:]...)
}

func encodeObject(c Codec, obj map[string]any) ([]byte, error) {
	if c == MsgPack {
		return msgpack.Marshal(obj)
	}
	st, err := structpb.NewStruct(obj)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}

// canonical turns any frame into the JSON object it carries. Text frames are
// always JSON; binary frames follow the negotiated codec and compression.
func canonical(f Frame, o Options) ([]byte, error) {
	if len(f.Data) == 0 {
		return nil, ErrEmptyFrame
	}
	if len(f.Data) > MaxFrameBytes {
		return nil, ErrFrameTooBig
	}
	if !f.Binary {
		return f.Data, nil
	}
	data := f.Data
	if o.Compress {
		var err error
		if data, err = decompress(data); err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
	}

	var obj map[string]any
	switch o.Codec {
	case "", JSON:
		return data, nil
	case MsgPack:
		if err := msgpack.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("msgpack: %w", err)
		}
	case Proto:
		var st structpb.Struct
		if err := proto.Unmarshal(data, &st); err != nil {
			return nil, fmt.Errorf("proto: %w", err)
		}
		obj = st.AsMap()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, o.Codec)
	}
	if obj == nil {
		return nil, ErrEmptyFrame
	}
	out, err := json.Marshal(sanitize(obj))
	if err != nil {
		return nil, fmt.Errorf("rebuild json: %w", err)
	}
	return out, nil
}

// sanitize removes non-finite numbers, which JSON cannot carry. Map entries
// are deleted and slice elements become null, so lenient fields treat them
// as absent.
func sanitize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			if badFloat(e) {
				delete(t, k)
				continue
			}
			t[k] = sanitize(e)
		}
	case []any:
		for i, e := range t {
			if badFloat(e) {
				t[i] = nil
				continue
			}
			t[i] = sanitize(e)
		}
	}
	return v
}

func badFloat(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f) || math.IsInf(f, 0)
	case float32:
		return math.IsNaN(float64(f)) || math.IsInf(float64(f), 0)
	}
	return false
}

func compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(src []byte) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(src))
	out, err := io.ReadAll(io.LimitReader(zr, MaxFrameBytes+1))
	if err != nil {
		return nil, err
	}
	if len(out) > MaxFrameBytes {
		return nil, ErrFrameTooBig
	}
	return out, nil
}
