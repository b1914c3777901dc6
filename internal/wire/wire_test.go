package wire

import (
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"strings"
	"testing"

	"LoopSnake/internal/game"
	"LoopSnake/internal/geom"

	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestDecodeClientErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "  ", ErrEmptyFrame},
		{"no type", `{"x":1}`, ErrMissingType},
		{"blank type", `{"type":""}`, ErrMissingType},
		{"unknown", `{"type":"teleport"}`, ErrUnknownType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeClient([]byte(tc.in))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := DecodeClient([]byte(`{"type":`)); err == nil {
		t.Fatal("expected an error for truncated JSON")
	}
}

func TestDecodeUpdateStateFieldByField(t *testing.T) {
	in := `{"type":"updateState","id":"abc","name":42,"x":"NaN","y":250.5,
		"trail":[{"x":1,"y":2},{"x":null,"y":3},7,{"x":4,"y":5}],"maxTrail":1e400,"score":3}`
	msg, err := DecodeClient([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := msg.(UpdateState)
	if !ok {
		t.Fatalf("expected UpdateState, got %T", msg)
	}
	u := m.Update()
	if u.Name != "42" {
		t.Fatalf("expected numeric name kept as text, got %q", u.Name)
	}
	if u.X != nil {
		t.Fatalf("expected x dropped, got %v", *u.X)
	}
	if u.Y == nil || *u.Y != 250.5 {
		t.Fatalf("expected y 250.5, got %v", u.Y)
	}
	if !u.HasTrail || len(u.Trail) != 2 {
		t.Fatalf("expected 2 valid trail points, got %v", u.Trail)
	}
	if u.Trail[1] != (geom.Vec2{X: 4, Y: 5}) {
		t.Fatalf("unexpected trail point %+v", u.Trail[1])
	}
	if u.MaxTrail != nil {
		t.Fatal("overflowing maxTrail must be dropped")
	}
	if u.Score == nil || *u.Score != 3 {
		t.Fatalf("expected score 3, got %v", u.Score)
	}
}

func TestDecodeUpdateStateWithoutTrail(t *testing.T) {
	msg, err := DecodeClient([]byte(`{"type":"updateState","x":1,"trail":"oops"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u := msg.(UpdateState).Update(); u.HasTrail {
		t.Fatal("a non-array trail must count as absent")
	}
}

func TestDecodeClaims(t *testing.T) {
	msg, err := DecodeClient([]byte(`{"type":"captureStatic","staticIds":[3,"x",4.5,9]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := msg.(CaptureStatic).StaticIDs
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 9 {
		t.Fatalf("expected [3 9], got %v", ids)
	}

	msg, err = DecodeClient([]byte(`{"type":"collectPoint","pointId":17}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, ok := msg.(CollectPoint).PointID.ID(); !ok || id != 17 {
		t.Fatalf("expected point 17, got %d %v", id, ok)
	}

	msg, err = DecodeClient([]byte(`{"type":"shockwave","x":1,"y":"2","radius":50}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := msg.(Shockwave).Origin(); ok {
		t.Fatal("origin with a string coordinate must be invalid")
	}

	msg, err = DecodeClient([]byte(`{"type":"downed"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := msg.(Downed); !ok {
		t.Fatalf("expected Downed, got %T", msg)
	}
}

func TestJoinRequestDefaults(t *testing.T) {
	msg, err := DecodeClient([]byte(`{"type":"join","id":"p1","name":"Ann","x":"left"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := msg.(Join).Request("p1")
	if req.ID != "p1" || req.Name != "Ann" || req.X != nil {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestEncodeAddsTypeFirst(t *testing.T) {
	f, err := Encode(PlayerLeft{PlayerID: "p1"}, Options{Codec: JSON})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Binary {
		t.Fatal("JSON must be sent as text")
	}
	if got := string(f.Data); got != `{"type":"playerLeft","playerId":"p1"}` {
		t.Fatalf("unexpected frame %s", got)
	}

	f, err = Encode(Downed{}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := string(f.Data); got != `{"type":"downed"}` {
		t.Fatalf("unexpected frame %s", got)
	}
}

func sampleUpdate() GameStateUpdate {
	snap := game.Snapshot{
		Tick:    9,
		CameraY: 123.5,
		Points:  []game.Point{{ID: 4, Seed: 77, X: 10, Y: 20, VX: -3, VY: 1.5, R: 7, Hue: 250}},
		Statics: []game.Static{{ID: 5, X: 1, Y: 2, R: 16, Captured: true}},
		Players: map[string]game.PlayerView{
			"a": {ID: "a", Name: "Ann", Score: 3, X: 4, Y: 5, Trail: []geom.Vec2{{X: 1, Y: 1}}, MaxTrail: 70},
		},
	}
	return NewGameStateUpdate(snap)
}

func TestServerRoundTripAcrossCodecs(t *testing.T) {
	want := sampleUpdate()
	for _, o := range []Options{
		{Codec: JSON},
		{Codec: JSON, Compress: true},
		{Codec: MsgPack},
		{Codec: MsgPack, Compress: true},
		{Codec: Proto},
		{Codec: Proto, Compress: true},
	} {
		t.Run(o.String(), func(t *testing.T) {
			f, err := Encode(want, o)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if o.Codec != JSON || o.Compress {
				if !f.Binary {
					t.Fatal("expected a binary frame")
				}
			}
			msg, err := DecodeServerFrame(f, o)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			got, ok := msg.(GameStateUpdate)
			if !ok {
				t.Fatalf("expected GameStateUpdate, got %T", msg)
			}
			if got.Tick != 9 || got.Digest != want.Digest || got.GameState.CameraY != 123.5 {
				t.Fatalf("header mismatch: %+v", got)
			}
			if got.GameState.Points[0] != want.GameState.Points[0] {
				t.Fatalf("point mismatch: %+v", got.GameState.Points[0])
			}
			if !got.GameState.Statics[0].Captured {
				t.Fatal("captured flag lost")
			}
			p := got.Players["a"]
			if p.Name != "Ann" || p.MaxTrail != 70 || len(p.Trail) != 1 {
				t.Fatalf("player mismatch: %+v", p)
			}
		})
	}
}

func TestClientRoundTripAcrossCodecs(t *testing.T) {
	want := UpdateState{
		ID:       "p1",
		Name:     "Ann",
		X:        N(10),
		Y:        N(20),
		Trail:    TrailOf([]geom.Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}}),
		MaxTrail: N(55),
	}
	for _, o := range []Options{{Codec: JSON}, {Codec: MsgPack, Compress: true}, {Codec: Proto}} {
		f, err := Encode(want, o)
		if err != nil {
			t.Fatalf("%s encode: %v", o, err)
		}
		msg, err := DecodeClientFrame(f, o)
		if err != nil {
			t.Fatalf("%s decode: %v", o, err)
		}
		u := msg.(UpdateState).Update()
		if u.Name != "Ann" || *u.X != 10 || len(u.Trail) != 2 || *u.MaxTrail != 55 {
			t.Fatalf("%s: unexpected update %+v", o, u)
		}
		if u.Score != nil {
			t.Fatalf("%s: unset score must stay absent", o)
		}
	}
}

func TestBinaryNonFiniteNumbersAreDropped(t *testing.T) {
	obj := map[string]any{
		"type":  "updateState",
		"x":     math.NaN(),
		"y":     12.0,
		"trail": []any{map[string]any{"x": math.Inf(1), "y": 1.0}, map[string]any{"x": 2.0, "y": 3.0}},
	}
	data, err := msgpack.Marshal(obj)
	if err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	msg, err := DecodeClientFrame(Frame{Binary: true, Data: data}, Options{Codec: MsgPack})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	u := msg.(UpdateState).Update()
	if u.X != nil || u.Y == nil || *u.Y != 12 {
		t.Fatalf("expected only y to survive, got x=%v y=%v", u.X, u.Y)
	}
	if len(u.Trail) != 1 || u.Trail[0] != (geom.Vec2{X: 2, Y: 3}) {
		t.Fatalf("expected one finite trail point, got %v", u.Trail)
	}

	st, err := structpb.NewStruct(map[string]any{"type": "shockwave", "x": 1.0, "y": 2.0, "radius": math.Inf(1)})
	if err != nil {
		t.Fatalf("structpb: %v", err)
	}
	data, err = proto.Marshal(st)
	if err != nil {
		t.Fatalf("proto: %v", err)
	}
	msg, err = DecodeClientFrame(Frame{Binary: true, Data: data}, Options{Codec: Proto})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.(Shockwave).Radius.OK {
		t.Fatal("infinite radius must be invalid")
	}
}

func TestTextFramesAreAlwaysJSON(t *testing.T) {
	msg, err := DecodeClientFrame(Frame{Data: []byte(`{"type":"downed"}`)}, Options{Codec: Proto, Compress: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := msg.(Downed); !ok {
		t.Fatalf("expected Downed, got %T", msg)
	}
}

func TestGarbageBinaryFrame(t *testing.T) {
	for _, o := range []Options{{Codec: MsgPack}, {Codec: Proto, Compress: true}} {
		if _, err := DecodeClientFrame(Frame{Binary: true, Data: []byte{0xc1, 0xff, 0x00}}, o); err == nil {
			t.Fatalf("%s: expected an error", o)
		}
	}
	if _, err := DecodeClientFrame(Frame{Binary: true}, Options{Codec: MsgPack}); !errors.Is(err, ErrEmptyFrame) {
		t.Fatalf("expected empty frame error, got %v", err)
	}
}

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions(url.Values{"codec": {"MsgPack"}, "compress": {"lz4"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o != (Options{Codec: MsgPack, Compress: true}) {
		t.Fatalf("unexpected options %+v", o)
	}
	back, _ := ParseOptions(o.Query())
	if back != o {
		t.Fatalf("query round trip changed options: %+v", back)
	}
	if o, _ := ParseOptions(url.Values{}); o != (Options{Codec: JSON}) {
		t.Fatalf("expected JSON default, got %+v", o)
	}
	if _, err := ParseOptions(url.Values{"codec": {"xml"}}); !errors.Is(err, ErrUnknownCodec) {
		t.Fatalf("expected unknown codec, got %v", err)
	}
	if _, err := ParseOptions(url.Values{"compress": {"zstd"}}); err == nil {
		t.Fatal("expected unknown compression error")
	}
}

func TestDigestIgnoresOrderAndMotion(t *testing.T) {
	points := []game.Point{{ID: 1, X: 5}, {ID: 2, X: 6}}
	statics := []game.Static{{ID: 3}, {ID: 4, Captured: true}}
	a := Digest(points, statics)

	moved := []game.Point{{ID: 2, X: 60}, {ID: 1, X: 50}}
	swapped := []game.Static{{ID: 4, Captured: true}, {ID: 3}}
	if b := Digest(moved, swapped); a != b {
		t.Fatalf("expected equal digests, got %s and %s", a, b)
	}
	if c := Digest(points, []game.Static{{ID: 3, Captured: true}, {ID: 4, Captured: true}}); c == a {
		t.Fatal("capture change must change the digest")
	}
	if d := Digest(points[:1], statics); d == a {
		t.Fatal("missing point must change the digest")
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(a))
	}
}

func TestFullGameStateCarriesProtocol(t *testing.T) {
	full := game.FullState{Snapshot: game.Snapshot{CameraY: 10}, ScrollSpeed: 120, ChunkHeight: 320, Width: 800, ViewHeight: 600}
	f, err := Encode(NewFullGameState(full, "me"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(f.Data, &raw); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if raw["type"] != TypeFullGameState || raw["yourId"] != "me" || raw["protocol"] != float64(ProtocolVersion) {
		t.Fatalf("unexpected header %v", raw)
	}
	if !strings.Contains(string(f.Data), `"scrollSpeed":120`) {
		t.Fatalf("expected scroll speed in %s", f.Data)
	}
}

func TestFromEvent(t *testing.T) {
	msg, ok := FromEvent(game.ShockwaveFired{PlayerID: "a", Origin: geom.Vec2{X: 1, Y: 2}, Radius: 30})
	if !ok {
		t.Fatal("expected a message")
	}
	sw := msg.(ShockwaveFired)
	if sw.Kind() != TypeShockwave || sw.X != 1 || sw.Y != 2 || sw.Radius != 30 {
		t.Fatalf("unexpected message %+v", sw)
	}
}
