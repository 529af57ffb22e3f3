package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// JSONLSink appends one JSON object per frame to a file.
type JSONLSink struct {
	file *os.File
	log  *zap.Logger
}

var _ Sink = (*JSONLSink)(nil)

// OpenJSONL opens path for appending, creating parent directories.
func OpenJSONL(path string) (*JSONLSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonl dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc := zapcore.EncoderConfig{
		TimeKey:        "ts",
		MessageKey:     "kind",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(f), zapcore.InfoLevel)
	return &JSONLSink{file: f, log: zap.New(core)}, nil
}

func (j *JSONLSink) WriteBatch(frames []Frame) error {
	for _, f := range frames {
		fields := []zap.Field{
			zap.String("run_id", f.RunID),
			zap.Uint64("frame", f.FrameNumber()),
		}
		switch {
		case f.Event != nil:
			fields = append(fields, zap.String("type", string(f.Event.Type)), zap.Any("data", f.Event))
		case f.Snapshot != nil:
			fields = append(fields, zap.Any("data", f.Snapshot))
		}
		j.log.Info(string(f.Kind), fields...)
	}
	return j.log.Sync()
}

func (j *JSONLSink) Close() error {
	_ = j.log.Sync()
	return j.file.Close()
}
