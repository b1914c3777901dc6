package game

import "LoopSnake/internal/geom"

// Event is something a room operation wants broadcast. Events carry copies,
// never pointers into the live world.
type Event interface{ isEvent() }

type PlayerJoined struct {
	Player PlayerView
}

type PlayerLeft struct {
	PlayerID string
}

type PointCollected struct {
	PointID  EntityID
	NewPoint Point
	PlayerID string
}

type StaticsCaptured struct {
	StaticIDs []EntityID
	PlayerID  string
}

// ShockwaveFired goes to every session except the one that fired it.
type ShockwaveFired struct {
	PlayerID string
	Origin   geom.Vec2
	Radius   float64
}

func (PlayerJoined) isEvent()    {}
func (PlayerLeft) isEvent()      {}
func (PointCollected) isEvent()  {}
func (StaticsCaptured) isEvent() {}
func (ShockwaveFired) isEvent()  {}

// PlayerView is the broadcast form of a player.
type PlayerView struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Score    int         `json:"score"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Trail    []geom.Vec2 `json:"trail"`
	MaxTrail int         `json:"maxTrail"`
	Downed   bool        `json:"downed,omitempty"`
}

// Snapshot is a detached copy of the world taken under the room lock.
type Snapshot struct {
	Tick    uint64
	CameraY float64
	Points  []Point
	Statics []Static
	Players map[string]PlayerView
}

// FullState is what a joining player receives.
type FullState struct {
	Snapshot
	ScrollSpeed float64
	ChunkHeight float64
	LastSpawnY  float64
	Width       float64
	ViewHeight  float64
}
