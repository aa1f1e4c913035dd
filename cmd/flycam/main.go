// Command flycam opens a window and draws a textured pentagon under a keyboard and mouse driven camera.
//
//	W/S forward/backward, A/D strafe, Space/Shift up/down, Enter looks back at the origin, Esc quits.
package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/Carmen-Shannon/flycam/engine"
	"github.com/Carmen-Shannon/flycam/engine/config"
)

func init() {
	// GLFW and the surface must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; defaults are used when empty")
	debug := flag.Bool("debug", false, "log the camera eye and target every frame")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("[flycam] %v", err)
		}
	}
	if *debug {
		cfg.Debug = true
	}

	loop, err := engine.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("[flycam] setup failed: %v", err)
	}
	if err := loop.Run(); err != nil {
		log.Fatalf("[flycam] %v", err)
	}
}
