package game

import "fmt"

// StateField names what changed in a state notification.
type StateField string

const (
	FieldScore        StateField = "score"
	FieldLives        StateField = "lives"
	FieldRespawnTimer StateField = "respawn_timer"
	FieldGameOver     StateField = "game_over"
	FieldReset        StateField = "reset"
)

// StateObserver receives the state after a mutation of the field it
// registered for.
type StateObserver func(s *State)

// State is the score, lives and respawn state machine of one run. It changes
// only through its methods, each of which notifies observers.
type State struct {
	score        int
	lives        int
	respawnTimer float64
	gameOver     bool

	startLives int
	observers  map[StateField][]StateObserver
}

func NewState(lives int) *State {
	return &State{
		score:      0,
		lives:      lives,
		startLives: lives,
		observers:  make(map[StateField][]StateObserver),
	}
}

func (s *State) Score() int { return s.score }
func (s *State) Lives() int { return s.lives }
func (s *State) RespawnTimer() float64 { return s.respawnTimer }
func (s *State) GameOver() bool { return s.gameOver }

// Active reports whether the ship is in play.
func (s *State) Active() bool { return s.respawnTimer <= 0 && !s.gameOver }

// OnChange registers fn for mutations of field.
func (s *State) OnChange(field StateField, fn StateObserver) {
	s.observers[field] = append(s.observers[field], fn)
}

func (s *State) notify(field StateField) {
	for _, fn := range s.observers[field] {
		fn(s)
	}
}

// AddScore adds points. Negative points are a programmer error.
func (s *State) AddScore(points int) {
	if points < 0 {
		panic(fmt.Sprintf("game: negative score delta %d", points))
	}
	if points == 0 {
		return
	}
	s.score += points
	s.notify(FieldScore)
}

// LoseLife takes one life and reports whether that ended the game.
func (s *State) LoseLife() bool {
	if s.gameOver {
		return true
	}
	s.lives--
	s.notify(FieldLives)
	if s.lives <= 0 {
		s.lives = 0
		s.gameOver = true
		s.notify(FieldGameOver)
	}
	return s.gameOver
}

// SetRespawnTimer arms the respawn wait.
func (s *State) SetRespawnTimer(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	s.respawnTimer = seconds
	s.notify(FieldRespawnTimer)
}

// timerEpsilon absorbs the rounding left after summing fixed frame steps.
const timerEpsilon = 1e-9

// TickRespawn counts the respawn timer down and reports whether it elapsed
// during this tick.
func (s *State) TickRespawn(dt float64) bool {
	if s.respawnTimer <= 0 {
		return false
	}
	s.respawnTimer = countdown(s.respawnTimer, dt)
	if s.respawnTimer <= timerEpsilon {
		s.respawnTimer = 0
	}
	s.notify(FieldRespawnTimer)
	return s.respawnTimer == 0
}

// Reset restores the starting values.
func (s *State) Reset() {
	s.score = 0
	s.lives = s.startLives
	s.respawnTimer = 0
	s.gameOver = false
	s.notify(FieldReset)
}
