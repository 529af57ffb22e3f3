//go:build noaudio

package main

import (
	"go.uber.org/zap"

	"asteroids/internal/config"
	"asteroids/internal/game"
)

// startAudio is a no-op in builds without the audio backend.
func startAudio(_ *game.Game, _ config.Audio, log *zap.Logger) func() {
	log.Info("built without audio")
	return func() {}
}
