package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/wintidy/internal/arrange"
	"github.com/1broseidon/wintidy/internal/config"
	"github.com/1broseidon/wintidy/internal/hotkeys"
	"github.com/1broseidon/wintidy/internal/ipc"
	"github.com/1broseidon/wintidy/internal/platform"
)

func runDaemon() {
	// Refuse to start a second instance; it would steal the socket from the
	// one already answering on it.
	if err := ipc.NewClient().Ping(); err == nil {
		log.Fatal("Another wintidy daemon is already running")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (default layout: %s, undo depth: %d)",
		cfg.DefaultLayout, cfg.EffectiveMaxUndoDepth())

	// Connect to display server
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	log.Println("wintidy daemon started successfully")

	manager := arrange.NewManager(backend, cfg)

	// Setup hotkey handler
	hotkeyHandler := hotkeys.NewHandler(backend, manager)
	if err := hotkeyHandler.RegisterAll(cfg.Hotkeys); err != nil {
		log.Fatalf("Failed to register hotkeys: %v", err)
	}

	// Create config reload channel
	reloadChan := make(chan struct{}, 1)

	// Start IPC server
	ipcServer, err := ipc.NewServer(manager, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Watch the config file for edits.
	var watcherUpdates <-chan *config.Config
	configPath, err := config.DefaultConfigPath()
	if err == nil {
		watcher, werr := config.NewWatcher(configPath)
		if werr != nil {
			log.Printf("Warning: config watcher disabled: %v", werr)
		} else {
			defer watcher.Close()
			watcherUpdates = watcher.Updates()
		}
	}

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	applyConfig := func(newCfg *config.Config) {
		manager.UpdateConfig(newCfg)
		hotkeyHandler.UnregisterAll()
		if err := hotkeyHandler.RegisterAll(newCfg.Hotkeys); err != nil {
			log.Printf("Warning: failed to rebind hotkeys: %v", err)
		}
		log.Println("Config reloaded successfully")
	}

	// Handle signals and config reloads
	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					newCfg, err := config.Load()
					if err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					applyConfig(newCfg)

				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down wintidy daemon...")
					ipcServer.Stop()
					os.Exit(0)
				}

			case newCfg := <-watcherUpdates:
				log.Println("Config file changed, reloading...")
				applyConfig(newCfg)

			case <-reloadChan:
				// Config was reloaded via IPC; the manager already holds the
				// new config, only the hotkeys need rebinding.
				applyConfig(manager.Config())
			}
		}
	}()

	// Start event loop (blocking)
	log.Println("Entering event loop...")
	backend.EventLoop()
}
