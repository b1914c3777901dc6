package wire

import (
	"LoopSnake/internal/game"
	"LoopSnake/internal/geom"
)

// ProtocolVersion is announced in fullGameState.
const ProtocolVersion = 1

// Message kinds, as carried in the "type" discriminator.
const (
	TypeJoin          = "join"
	TypeUpdateState   = "updateState"
	TypeCollectPoint  = "collectPoint"
	TypeCaptureStatic = "captureStatic"
	TypeShockwave     = "shockwave"
	TypeDowned        = "downed"

	TypeFullGameState   = "fullGameState"
	TypeGameStateUpdate = "gameStateUpdate"
	TypePointCollected  = "pointCollected"
	TypeStaticsCaptured = "staticsCaptured"
	TypePlayerJoined    = "playerJoined"
	TypePlayerLeft      = "playerLeft"
)

// Message is anything that can be framed with a type discriminator.
type Message interface {
	Kind() string
}

/* --------------------------- client -> server --------------------------- */

// ClientMessage is the closed set of intents a client may send.
type ClientMessage interface {
	Message
	clientMessage()
}

type Join struct {
	ID   Text `json:"id"`
	Name Text `json:"name"`
	X    Num  `json:"x"`
	Y    Num  `json:"y"`
}

type UpdateState struct {
	ID       Text  `json:"id"`
	Name     Text  `json:"name"`
	X        Num   `json:"x"`
	Y        Num   `json:"y"`
	Trail    Trail `json:"trail"`
	MaxTrail Num   `json:"maxTrail"`
	Score    Num   `json:"score"`
}

type CollectPoint struct {
	PointID Num `json:"pointId"`
}

type CaptureStatic struct {
	StaticIDs IDList `json:"staticIds"`
}

type Shockwave struct {
	X      Num `json:"x"`
	Y      Num `json:"y"`
	Radius Num `json:"radius"`
}

// Downed reports that the sender was knocked out by a shockwave hit.
type Downed struct{}

func (Join) Kind() string          { return TypeJoin }
func (UpdateState) Kind() string   { return TypeUpdateState }
func (CollectPoint) Kind() string  { return TypeCollectPoint }
func (CaptureStatic) Kind() string { return TypeCaptureStatic }
func (Shockwave) Kind() string     { return TypeShockwave }
func (Downed) Kind() string        { return TypeDowned }

func (Join) clientMessage()          {}
func (UpdateState) clientMessage()   {}
func (CollectPoint) clientMessage()  {}
func (CaptureStatic) clientMessage() {}
func (Shockwave) clientMessage()     {}
func (Downed) clientMessage()        {}

// Request converts a join into the room's request. id is the id the session
// settled on, which may differ from the one the client sent.
func (m Join) Request(id string) game.JoinRequest {
	return game.JoinRequest{ID: id, Name: string(m.Name), X: m.X.Ptr()}
}

// Update keeps only the fields that survived validation.
func (m UpdateState) Update() game.StateUpdate {
	u := game.StateUpdate{
		Name:     string(m.Name),
		X:        m.X.Ptr(),
		Y:        m.Y.Ptr(),
		MaxTrail: m.MaxTrail.IntPtr(),
		Score:    m.Score.IntPtr(),
	}
	if m.Trail != nil {
		u.HasTrail = true
		u.Trail = m.Trail.Points()
	}
	return u
}

func (m Shockwave) Origin() (geom.Vec2, bool) {
	if !m.X.OK || !m.Y.OK {
		return geom.Vec2{}, false
	}
	return geom.Vec2{X: m.X.V, Y: m.Y.V}, true
}

/* --------------------------- server -> client --------------------------- */

// ServerMessage is the closed set of messages the server sends.
type ServerMessage interface {
	Message
	serverMessage()
}

// GameState is the world part of a snapshot. The scroll fields are only
// filled in fullGameState.
type GameState struct {
	Points      []game.Point  `json:"points"`
	Statics     []game.Static `json:"statics"`
	CameraY     float64       `json:"cameraY"`
	ScrollSpeed float64       `json:"scrollSpeed,omitempty"`
	ChunkHeight float64       `json:"chunkHeight,omitempty"`
	LastSpawnY  float64       `json:"lastSpawnY,omitempty"`
	Width       float64       `json:"width,omitempty"`
	ViewHeight  float64       `json:"viewHeight,omitempty"`
}

type FullGameState struct {
	GameState GameState                  `json:"gameState"`
	Players   map[string]game.PlayerView `json:"players"`
	YourID    string                     `json:"yourId"`
	Protocol  int                        `json:"protocol"`
}

type GameStateUpdate struct {
	GameState GameState                  `json:"gameState"`
	Players   map[string]game.PlayerView `json:"players"`
	Tick      uint64                     `json:"tick"`
	Digest    string                     `json:"digest"`
}

type PointCollected struct {
	PointID  game.EntityID `json:"pointId"`
	NewPoint game.Point    `json:"newPoint"`
	PlayerID string        `json:"playerId"`
}

type StaticsCaptured struct {
	StaticIDs []game.EntityID `json:"staticIds"`
	PlayerID  string          `json:"playerId"`
}

type ShockwaveFired struct {
	PlayerID string  `json:"playerId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
}

type PlayerJoined struct {
	Player game.PlayerView `json:"player"`
}

type PlayerLeft struct {
	PlayerID string `json:"playerId"`
}

func (FullGameState) Kind() string   { return TypeFullGameState }
func (GameStateUpdate) Kind() string { return TypeGameStateUpdate }
func (PointCollected) Kind() string  { return TypePointCollected }
func (StaticsCaptured) Kind() string { return TypeStaticsCaptured }
func (ShockwaveFired) Kind() string  { return TypeShockwave }
func (PlayerJoined) Kind() string    { return TypePlayerJoined }
func (PlayerLeft) Kind() string      { return TypePlayerLeft }

func (FullGameState) serverMessage()   {}
func (GameStateUpdate) serverMessage() {}
func (PointCollected) serverMessage()  {}
func (StaticsCaptured) serverMessage() {}
func (ShockwaveFired) serverMessage()  {}
func (PlayerJoined) serverMessage()    {}
func (PlayerLeft) serverMessage()      {}

func NewFullGameState(full game.FullState, yourID string) FullGameState {
	return FullGameState{
		GameState: GameState{
			Points:      full.Points,
			Statics:     full.Statics,
			CameraY:     full.CameraY,
			ScrollSpeed: full.ScrollSpeed,
			ChunkHeight: full.ChunkHeight,
			LastSpawnY:  full.LastSpawnY,
			Width:       full.Width,
			ViewHeight:  full.ViewHeight,
		},
		Players:  full.Players,
		YourID:   yourID,
		Protocol: ProtocolVersion,
	}
}

func NewGameStateUpdate(snap game.Snapshot) GameStateUpdate {
	return GameStateUpdate{
		GameState: GameState{
			Points:  snap.Points,
			Statics: snap.Statics,
			CameraY: snap.CameraY,
		},
		Players: snap.Players,
		Tick:    snap.Tick,
		Digest:  Digest(snap.Points, snap.Statics),
	}
}

// FromEvent maps a room event to its broadcast message.
func FromEvent(ev game.Event) (ServerMessage, bool) {
	switch e := ev.(type) {
	case game.PlayerJoined:
		return PlayerJoined{Player: e.Player}, true
	case game.PlayerLeft:
		return PlayerLeft{PlayerID: e.PlayerID}, true
	case game.PointCollected:
		return PointCollected{PointID: e.PointID, NewPoint: e.NewPoint, PlayerID: e.PlayerID}, true
	case game.StaticsCaptured:
		return StaticsCaptured{StaticIDs: e.StaticIDs, PlayerID: e.PlayerID}, true
	case game.ShockwaveFired:
		return ShockwaveFired{PlayerID: e.PlayerID, X: e.Origin.X, Y: e.Origin.Y, Radius: e.Radius}, true
	}
	return nil, false
}
