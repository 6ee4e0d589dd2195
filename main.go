package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jfad2010/ivangohsgreen/prefabs"
	"github.com/jfad2010/ivangohsgreen/telemetry"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	encounter := flag.String("encounter", prefabs.DefaultEncounter, "encounter file in prefabs/ (.yaml optional)")
	addr := flag.String("telemetry", "", "serve per-tick frames over websocket at this address, e.g. :8090")
	watch := flag.Bool("watch", true, "reload the encounter when prefabs/ changes on disk")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	var watcher *prefabs.Watcher
	if *watch {
		w, err := prefabs.NewWatcher(0, prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			logger.Printf("main: hot reload disabled: %v", err)
		} else {
			watcher = w
			defer watcher.Close()
		}
	}

	var hub *telemetry.Hub
	if *addr != "" {
		hub = telemetry.NewHub(logger)
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Printf("main: telemetry on ws://%s/ws", *addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("main: telemetry: %v", err)
			}
		}()
		defer func() {
			hub.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	game, err := NewGame(*encounter, *debug, logger, hub, watcher)
	if err != nil {
		logger.Fatalf("main: %v", err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(game.viewWidth), int(game.viewHeight))
	ebiten.SetWindowTitle("ivangohsgreen")

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Printf("main: %v", err)
	}
}
