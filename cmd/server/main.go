package main

import (
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	root "tessera"
	"tessera/internal/engine"
	"tessera/internal/game"
	"tessera/internal/game/tessera"
	"tessera/internal/server"
	"tessera/internal/session"
	"tessera/internal/storage"
)

func main() {
	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}

	dbPath := "tessera.db"
	if p := os.Getenv("DB_PATH"); p != "" {
		dbPath = p
	}

	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer store.Close()

	registry := game.NewRegistry()
	registry.Register(loadGame())
	log.Printf("registered games: %v", registry.Names())

	mgr := session.NewManager(registry, store)
	if err := mgr.Restore(); err != nil {
		log.Printf("warning: restore sessions: %v", err)
	}

	// Cleanup stale sessions every minute, remove after 1 hour
	go mgr.CleanupLoop(1*time.Minute, 1*time.Hour)

	webFS, err := fs.Sub(root.WebFS, "web")
	if err != nil {
		log.Fatalf("web assets: %v", err)
	}
	srv := server.New(registry, mgr, webFS)

	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// loadGame builds the tessera game, optionally with a deck layout picked
// from a YAML file: LAYOUTS_PATH names the file, LAYOUT the entry.
func loadGame() tessera.Tessera {
	path := os.Getenv("LAYOUTS_PATH")
	if path == "" {
		return tessera.Tessera{Layout: engine.StandardLayout()}
	}

	layouts, err := tessera.LoadLayouts(path)
	if err != nil {
		log.Fatalf("load layouts: %v", err)
	}
	name := os.Getenv("LAYOUT")
	if name == "" {
		name = "standard"
	}
	layout, ok := layouts[name]
	if !ok {
		log.Fatalf("layout %q not found in %s", name, path)
	}
	g, err := tessera.New(layout)
	if err != nil {
		log.Fatalf("layout %q: %v", name, err)
	}
	log.Printf("using layout %q from %s", name, path)
	return g
}
