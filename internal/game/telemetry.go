package game

// Telemetry receives the loop's events and periodic snapshots. Calls happen
// on the loop goroutine and must not block.
type Telemetry interface {
	RecordEvent(Event)
	RecordSnapshot(Snapshot)
}

type nopTelemetry struct{}

func (nopTelemetry) RecordEvent(Event)       {}
func (nopTelemetry) RecordSnapshot(Snapshot) {}

// NopTelemetry discards everything.
func NopTelemetry() Telemetry { return nopTelemetry{} }
