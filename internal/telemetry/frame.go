package telemetry

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"asteroids/internal/game"
)

// FrameKind tags what a frame carries.
type FrameKind string

const (
	KindEvent    FrameKind = "event"
	KindSnapshot FrameKind = "snapshot"
)

// Frame is the unit every sink receives and the binary message spectators
// read. Exactly one of Event and Snapshot is set.
type Frame struct {
	Kind     FrameKind      `msgpack:"k" json:"kind"`
	RunID    string         `msgpack:"r" json:"run_id"`
	Event    *game.Event    `msgpack:"e,omitempty" json:"event,omitempty"`
	Snapshot *game.Snapshot `msgpack:"s,omitempty" json:"snapshot,omitempty"`
}

// FrameNumber returns the game frame the payload was taken at.
func (f *Frame) FrameNumber() uint64 {
	switch {
	case f.Event != nil:
		return f.Event.Frame
	case f.Snapshot != nil:
		return f.Snapshot.Frame
	}
	return 0
}

func EventFrame(runID string, e game.Event) Frame {
	return Frame{Kind: KindEvent, RunID: runID, Event: &e}
}

func SnapshotFrame(runID string, s game.Snapshot) Frame {
	return Frame{Kind: KindSnapshot, RunID: runID, Snapshot: &s}
}

// EncodeFrame serializes f with msgpack.
func EncodeFrame(f Frame) ([]byte, error) {
	return msgpack.Marshal(&f)
}

// DecodeFrame parses a msgpack frame and checks its payload matches its kind.
func DecodeFrame(b []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(b, &f); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	switch {
	case f.Kind == KindEvent && f.Event != nil:
	case f.Kind == KindSnapshot && f.Snapshot != nil:
	default:
		return Frame{}, fmt.Errorf("decode frame: kind %q without payload", f.Kind)
	}
	return f, nil
}
