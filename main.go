package main

import (
	"flag"
	"fmt"
	"log"

	"MarkupBoard/internal/config"
	"MarkupBoard/internal/net"
	"MarkupBoard/internal/state"
	"MarkupBoard/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to "+config.FileName)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[BOARD] %v", err)
	}
	opts, err := cfg.BoardOptions()
	if err != nil {
		log.Fatalf("[BOARD] %v", err)
	}

	board := state.NewBoard(opts)
	app := ui.NewApp(board, cfg)

	if cfg.Bridge.Enabled {
		bridge, stop := startBridge(cfg.Bridge, app)
		defer stop()
		app.OnEvent = bridge.Broadcast
	}

	app.Run()
}

// startBridge serves the websocket bridge in the background. stop shuts
// the bridge and its mDNS advertisement down.
func startBridge(cfg config.BridgeConfig, app *ui.App) (bridge *net.Bridge, stop func()) {
	bridge = net.NewBridge(app.Apply)
	go func() {
		if err := bridge.Serve(fmt.Sprintf(":%d", cfg.Port), cfg.Path); err != nil {
			log.Printf("[BRIDGE] %v", err)
			app.SetStatus("Bridge stopped: " + err.Error())
		}
	}()

	hostIP, err := net.OutgoingIP()
	if err != nil {
		log.Printf("[BRIDGE] No outgoing address: %v", err)
		hostIP = "127.0.0.1"
	}
	link := fmt.Sprintf("ws://%s:%d%s", hostIP, cfg.Port, cfg.Path)
	app.ShowLink(link)

	stop = func() {
		if err := bridge.Close(); err != nil {
			log.Printf("[BRIDGE] %v", err)
		}
	}
	if !cfg.Advertise {
		return bridge, stop
	}

	server, err := net.Advertise(cfg.Port, "path="+cfg.Path)
	if err != nil {
		log.Printf("[MDNS] %v", err)
		return bridge, stop
	}
	log.Printf("[MDNS] Advertising %s on port %d", net.ServiceType, cfg.Port)
	return bridge, func() {
		server.Shutdown()
		stop()
	}
}
