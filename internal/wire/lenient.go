package wire

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"LoopSnake/internal/game"
	"LoopSnake/internal/geom"
)

var null = []byte("null")

// Num is a numeric field that never fails a decode. Anything that is not a
// finite JSON number leaves OK false so the field can be dropped on its own.
type Num struct {
	V  float64
	OK bool
}

// N wraps v, marking it invalid when it is not finite.
func N(v float64) Num { return Num{V: v, OK: geom.IsFinite(v)} }

func (n *Num) UnmarshalJSON(b []byte) error {
	*n = Num{}
	v, err := strconv.ParseFloat(string(bytes.TrimSpace(b)), 64)
	if err != nil || !geom.IsFinite(v) {
		return nil
	}
	*n = Num{V: v, OK: true}
	return nil
}

func (n Num) MarshalJSON() ([]byte, error) {
	if !n.OK {
		return null, nil
	}
	return strconv.AppendFloat(nil, n.V, 'g', -1, 64), nil
}

// Ptr returns nil for an invalid field.
func (n Num) Ptr() *float64 {
	if !n.OK {
		return nil
	}
	v := n.V
	return &v
}

// Int accepts whole numbers in [0, 1e9].
func (n Num) Int() (int, bool) {
	if !n.OK || n.V < 0 || n.V > 1e9 || n.V != math.Trunc(n.V) {
		return 0, false
	}
	return int(n.V), true
}

func (n Num) IntPtr() *int {
	v, ok := n.Int()
	if !ok {
		return nil
	}
	return &v
}

// Text accepts a JSON string, or a number kept as its literal text. Other
// shapes decode to the empty string.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if json.Unmarshal(b, &s) == nil {
			*t = Text(s)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*t = Text(b)
	}
	return nil
}

type TrailPoint struct {
	X Num `json:"x"`
	Y Num `json:"y"`
}

// Trail is nil when the field was absent or not an array, and non-nil (maybe
// empty) when an array was sent. Elements that are not objects are skipped.
type Trail []TrailPoint

func (t *Trail) UnmarshalJSON(b []byte) error {
	*t = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		return nil
	}
	out := make(Trail, 0, len(raw))
	for _, r := range raw {
		var pt TrailPoint
		if json.Unmarshal(r, &pt) == nil {
			out = append(out, pt)
		}
	}
	*t = out
	return nil
}

// Points keeps only the elements with both coordinates valid.
func (t Trail) Points() []geom.Vec2 {
	out := make([]geom.Vec2, 0, len(t))
	for _, pt := range t {
		if pt.X.OK && pt.Y.OK {
			out = append(out, geom.Vec2{X: pt.X.V, Y: pt.Y.V})
		}
	}
	return out
}

func TrailOf(pts []geom.Vec2) Trail {
	out := make(Trail, len(pts))
	for i, p := range pts {
		out[i] = TrailPoint{X: N(p.X), Y: N(p.Y)}
	}
	return out
}

// IDList is a list of entity ids. Entries that are not whole numbers are
// dropped.
type IDList []game.EntityID

func (l *IDList) UnmarshalJSON(b []byte) error {
	*l = nil
	var raw []Num
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	for _, n := range raw {
		if n.OK && n.V == math.Trunc(n.V) && math.Abs(n.V) < 1<<53 {
			*l = append(*l, game.EntityID(n.V))
		}
	}
	return nil
}

// ID converts a single id field; ok is false when it was not a whole number.
func (n Num) ID() (game.EntityID, bool) {
	if !n.OK || n.V != math.Trunc(n.V) || math.Abs(n.V) >= 1<<53 {
		return 0, false
	}
	return game.EntityID(n.V), true
}
