package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"asteroids/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Board plays a short synthesized effect for gameplay events. When the audio
// device cannot be opened the board stays silent.
type Board struct {
	rate   beep.SampleRate
	volume float64
	log    *zap.Logger

	mu   sync.Mutex
	sink func(beep.Streamer)
	bus  *game.EventBus
	subs []game.Subscription
}

// New returns a silent board. volume is a base-2 exponent applied to every
// effect.
func New(volume float64, log *zap.Logger) *Board {
	if log == nil {
		log = zap.NewNop()
	}
	return &Board{rate: sampleRate, volume: volume, log: log}
}

// Start opens the speaker. Failure is logged and leaves the board silent.
func (b *Board) Start() {
	if err := speaker.Init(b.rate, b.rate.N(time.Second/10)); err != nil {
		b.log.Warn("audio unavailable, running silent", zap.Error(err))
		return
	}
	b.mu.Lock()
	b.sink = func(s beep.Streamer) { speaker.Play(s) }
	b.mu.Unlock()
}

// Attach subscribes the board to the events it voices.
func (b *Board) Attach(bus *game.EventBus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bus = bus
	for _, t := range []game.EventType{
		game.EventWeaponFired,
		game.EventAsteroidShot,
		game.EventPlayerHit,
		game.EventPlayerRespawned,
		game.EventPowerUpCollected,
		game.EventBombDropped,
		game.EventBombDetonated,
		game.EventGameOver,
	} {
		b.subs = append(b.subs, bus.Subscribe(t, b.handle))
	}
}

// Close detaches from the bus and stops playback.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bus != nil {
		for _, s := range b.subs {
			b.bus.Unsubscribe(s)
		}
		b.subs = nil
		b.bus = nil
	}
	if b.sink != nil {
		speaker.Clear()
		b.sink = nil
	}
}

func (b *Board) handle(e game.Event) {
	s := b.Effect(e)
	if s == nil {
		return
	}
	b.mu.Lock()
	sink := b.sink
	b.mu.Unlock()
	if sink != nil {
		sink(gain(s, b.volume))
	}
}

// Effect builds the streamer for e, or nil when e has no sound.
func (b *Board) Effect(e game.Event) beep.Streamer {
	r := b.rate
	switch e.Type {
	case game.EventWeaponFired:
		return tone(880, 60*time.Millisecond, WaveSquare, r)
	case game.EventAsteroidShot:
		d := 180 * time.Millisecond
		switch e.Kind {
		case game.TierLarge.String():
			d = 400 * time.Millisecond
		case game.TierMedium.String():
			d = 280 * time.Millisecond
		}
		return NewEnvelope(NewOscillator(0, d, WaveNoise, r), d, 2*time.Millisecond, d*3/4, r)
	case game.EventPlayerHit:
		return beep.Seq(
			tone(220, 150*time.Millisecond, WaveSaw, r),
			tone(110, 300*time.Millisecond, WaveSaw, r),
		)
	case game.EventPlayerRespawned:
		return beep.Seq(
			tone(440, 80*time.Millisecond, WaveSine, r),
			tone(660, 120*time.Millisecond, WaveSine, r),
		)
	case game.EventPowerUpCollected:
		return beep.Seq(
			tone(987.77, 80*time.Millisecond, WaveSquare, r),
			tone(1318.51, 200*time.Millisecond, WaveSquare, r),
		)
	case game.EventBombDropped:
		return tone(330, 90*time.Millisecond, WaveSine, r)
	case game.EventBombDetonated:
		d := 600 * time.Millisecond
		return beep.Mix(
			NewEnvelope(NewOscillator(0, d, WaveNoise, r), d, 2*time.Millisecond, d/2, r),
			gain(tone(55, d, WaveSine, r), 0.5),
		)
	case game.EventGameOver:
		return beep.Seq(
			tone(392, 250*time.Millisecond, WaveSaw, r),
			tone(311.13, 250*time.Millisecond, WaveSaw, r),
			tone(261.63, 500*time.Millisecond, WaveSaw, r),
		)
	}
	return nil
}
