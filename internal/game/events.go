package game

// EventType names a gameplay notification.
type EventType string

const (
	EventAsteroidShot          EventType = "asteroid_shot"
	EventAsteroidSplit         EventType = "asteroid_split"
	EventAsteroidSpawned       EventType = "asteroid_spawned"
	EventPlayerHit             EventType = "player_hit"
	EventPlayerRespawned       EventType = "player_respawned"
	EventGameOver              EventType = "game_over"
	EventPowerUpSpawned        EventType = "powerup_spawned"
	EventPowerUpCollected      EventType = "powerup_collected"
	EventPowerUpExpired        EventType = "powerup_expired"
	EventWeaponFired           EventType = "weapon_fired"
	EventWeaponChanged         EventType = "weapon_changed"
	EventBombDropped           EventType = "bomb_dropped"
	EventBombDetonated         EventType = "bomb_detonated"
	EventParticlePoolExhausted EventType = "particle_pool_exhausted"
)

// Event is one notification. Only the fields relevant to Type are set.
type Event struct {
	Type   EventType `json:"type" msgpack:"type"`
	Frame  uint64    `json:"frame" msgpack:"frame"`
	X      float64   `json:"x" msgpack:"x"`
	Y      float64   `json:"y" msgpack:"y"`
	ID     uint64    `json:"id,omitempty" msgpack:"id,omitempty"`
	Radius float64   `json:"radius,omitempty" msgpack:"radius,omitempty"`
	Points int       `json:"points,omitempty" msgpack:"points,omitempty"`
	Kind   string    `json:"kind,omitempty" msgpack:"kind,omitempty"`
	Lives  int       `json:"lives,omitempty" msgpack:"lives,omitempty"`
	Count  int       `json:"count,omitempty" msgpack:"count,omitempty"`
}

type EventHandler func(Event)

// Subscription identifies a handler registered on an EventBus.
type Subscription struct {
	typ EventType
	id  uint64
	all bool
}

type handlerEntry struct {
	id uint64
	fn EventHandler
}

// EventBus is a synchronous publish/subscribe hub owned by one game.
// Handlers run on the emitting goroutine in subscription order.
type EventBus struct {
	handlers map[EventType][]handlerEntry
	all      []handlerEntry
	nextID   uint64
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]handlerEntry),
	}
}

// Subscribe registers fn for events of type t.
func (eb *EventBus) Subscribe(t EventType, fn EventHandler) Subscription {
	eb.nextID++
	eb.handlers[t] = append(eb.handlers[t], handlerEntry{eb.nextID, fn})
	return Subscription{typ: t, id: eb.nextID}
}

// SubscribeAll registers fn for every event.
func (eb *EventBus) SubscribeAll(fn EventHandler) Subscription {
	eb.nextID++
	eb.all = append(eb.all, handlerEntry{eb.nextID, fn})
	return Subscription{id: eb.nextID, all: true}
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (eb *EventBus) Unsubscribe(s Subscription) {
	if s.all {
		eb.all = removeHandler(eb.all, s.id)
		return
	}
	eb.handlers[s.typ] = removeHandler(eb.handlers[s.typ], s.id)
}

func removeHandler(hs []handlerEntry, id uint64) []handlerEntry {
	for i, h := range hs {
		if h.id == id {
			return append(hs[:i:i], hs[i+1:]...)
		}
	}
	return hs
}

func (eb *EventBus) Emit(e Event) {
	for _, h := range eb.handlers[e.Type] {
		h.fn(e)
	}
	for _, h := range eb.all {
		h.fn(e)
	}
}

// Clear drops every handler.
func (eb *EventBus) Clear() {
	clear(eb.handlers)
	eb.all = nil
}
