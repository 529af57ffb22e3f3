package game

// Snapshot is the state of a run at one frame, rounded for logging.
type Snapshot struct {
	Frame        uint64      `json:"frame" msgpack:"frame"`
	Elapsed      float64     `json:"elapsed" msgpack:"elapsed"`
	Width        float64     `json:"width" msgpack:"width"`
	Height       float64     `json:"height" msgpack:"height"`
	Score        int         `json:"score" msgpack:"score"`
	Lives        int         `json:"lives" msgpack:"lives"`
	RespawnTimer float64     `json:"respawn_timer" msgpack:"respawn_timer"`
	GameOver     bool        `json:"game_over" msgpack:"game_over"`
	Ship         ShipState   `json:"ship" msgpack:"ship"`
	Counts       Counts      `json:"counts" msgpack:"counts"`
	Asteroids    []BodyState `json:"asteroids" msgpack:"asteroids"`
	Shots        []BodyState `json:"shots" msgpack:"shots"`
	PowerUps     []BodyState `json:"powerups" msgpack:"powerups"`
	Bombs        []BodyState `json:"bombs" msgpack:"bombs"`
}

type ShipState struct {
	X            float64 `json:"x" msgpack:"x"`
	Y            float64 `json:"y" msgpack:"y"`
	VX           float64 `json:"vx" msgpack:"vx"`
	VY           float64 `json:"vy" msgpack:"vy"`
	Radius       float64 `json:"radius" msgpack:"radius"`
	Heading      float64 `json:"heading" msgpack:"heading"`
	Weapon       string  `json:"weapon" msgpack:"weapon"`
	Cooldown     float64 `json:"cooldown" msgpack:"cooldown"`
	Invulnerable float64 `json:"invulnerable" msgpack:"invulnerable"`
	SpeedBoost   float64 `json:"speed_boost" msgpack:"speed_boost"`
}

type Counts struct {
	Asteroids int `json:"asteroids" msgpack:"asteroids"`
	Shots     int `json:"shots" msgpack:"shots"`
	PowerUps  int `json:"powerups" msgpack:"powerups"`
	Bombs     int `json:"bombs" msgpack:"bombs"`
	Particles int `json:"particles" msgpack:"particles"`
}

type BodyState struct {
	ID     uint64  `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	VX     float64 `json:"vx" msgpack:"vx"`
	VY     float64 `json:"vy" msgpack:"vy"`
	Radius float64 `json:"radius" msgpack:"radius"`
	Kind   string  `json:"kind,omitempty" msgpack:"kind,omitempty"`
}

func bodyState(id uint64, b *Body, kind string) BodyState {
	return BodyState{
		ID:     id,
		X:      round2(b.Pos.X),
		Y:      round2(b.Pos.Y),
		VX:     round2(b.Vel.X),
		VY:     round2(b.Vel.Y),
		Radius: round2(b.Radius),
		Kind:   kind,
	}
}

// sample returns the first n body states of items.
func sample[T any](items []T, n int, fn func(T) BodyState) []BodyState {
	if n > len(items) {
		n = len(items)
	}
	out := make([]BodyState, 0, n)
	for _, it := range items[:n] {
		out = append(out, fn(it))
	}
	return out
}
