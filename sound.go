//go:build !noaudio

package main

import (
	"go.uber.org/zap"

	"asteroids/internal/audio"
	"asteroids/internal/config"
	"asteroids/internal/game"
)

// startAudio attaches a sound board to g's events and returns its closer.
func startAudio(g *game.Game, c config.Audio, log *zap.Logger) func() {
	board := audio.New(c.Volume, log)
	board.Start()
	board.Attach(g.Bus())
	return board.Close
}
