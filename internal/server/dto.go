package server

type healthDTO struct {
	Status      string  `json:"status"`
	Players     int     `json:"players"`
	Connections int     `json:"connections"`
	Points      int     `json:"points"`
	Statics     int     `json:"statics"`
	CameraY     float64 `json:"cameraY"`
	Tick        uint64  `json:"tick"`
}

func newHealthDTO(h *Hub) healthDTO {
	st := h.Room.Stats()
	return healthDTO{
		Status:      "ok",
		Players:     st.Players,
		Connections: h.Connections(),
		Points:      st.Points,
		Statics:     st.Statics,
		CameraY:     st.CameraY,
		Tick:        st.Ticks,
	}
}
