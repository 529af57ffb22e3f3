package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"asteroids/internal/game"
	"asteroids/internal/telemetry"
)

const topScores = 5

// report prints the final score and, when a store is open, the high-score
// table.
func report(w io.Writer, res game.Result, store *telemetry.Store, log *zap.Logger) {
	log.Info("final score",
		zap.Int("score", res.Score),
		zap.String("reason", string(res.Reason)),
		zap.Uint64("frames", res.Frames),
		zap.Float64("elapsed", res.Elapsed),
	)
	fmt.Fprintf(w, "Final score: %d (%s after %d frames)\n", res.Score, res.Reason, res.Frames)

	if store == nil {
		return
	}
	top, err := store.TopScores(topScores)
	if err != nil {
		log.Warn("load high scores", zap.Error(err))
		return
	}
	if len(top) == 0 {
		return
	}
	fmt.Fprintln(w, "High scores:")
	for i, hs := range top {
		fmt.Fprintf(w, "%2d. %6d  %s  %s\n", i+1, hs.Score, hs.CreatedAt.Format("2006-01-02 15:04"), shortID(hs.RunID))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
