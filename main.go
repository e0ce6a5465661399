package main

import (
	"context"
	"embed"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/presence.report/internal/ld2410"
	"github.com/banshee-data/presence.report/internal/monitor"
	"github.com/banshee-data/presence.report/internal/serialmux"
	"github.com/banshee-data/presence.report/internal/version"
)

var (
	//go:embed static/*
	staticFiles embed.FS
	devMode     = flag.Bool("dev", false, "Run in dev mode against fixtures.txt instead of a serial port")
	listen      = flag.String("listen", ":8080", "Listen address")
	portPath    = flag.String("port", "/dev/ttyUSB0", "Serial port device path")
	baudRate    = flag.Int("baud", 115200, "Serial port baud rate")
)

// pump feeds serial lines through the decoder into the shared sensor model,
// records detection samples into the history buffers, and publishes the
// merged change mask so render clients know what went stale.
type pump struct {
	decoder *ld2410.Decoder
	state   *ld2410.State
	history *monitor.History
	hub     *monitor.Hub
	lines   *monitor.LineLog
}

func (p *pump) handleLine(line string) {
	p.lines.Observe(line)

	events := p.decoder.Decode(line)
	if len(events) == 0 {
		return
	}
	changes := p.state.ApplyAll(events)
	for _, ev := range events {
		if du, ok := ev.(ld2410.DetectionUpdate); ok {
			p.history.Record(du.Sample)
		}
	}
	if changes != 0 {
		p.hub.Publish(changes)
	}
}

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	log.Printf("presence.report %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	var m serialmux.SerialMuxInterface
	if *devMode {
		data, err := os.ReadFile("fixtures.txt")
		if err != nil {
			log.Fatalf("failed to open fixtures file: %v", err)
		}
		m = serialmux.NewMockSerialMux(data)
	} else {
		var err error
		m, err = serialmux.NewRealSerialMux(*portPath, serialmux.PortOptions{BaudRate: *baudRate})
		if err != nil {
			log.Fatalf("failed to open sensor port: %v", err)
		}
	}
	defer m.Close()

	state := ld2410.NewState()
	p := &pump{
		decoder: &ld2410.Decoder{},
		state:   state,
		history: monitor.NewHistory(),
		hub:     monitor.NewHub(),
		lines:   monitor.NewLineLog(),
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the serial port
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := m.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor serial port: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	// ask the sensor for its configuration dump once the monitor is up;
	// the reply arrives as ordinary telemetry lines
	if err := m.Initialize(); err != nil {
		log.Printf("failed to request sensor config: %v", err)
	}

	// subscribe to serial lines and feed them through the decoder
	wg.Add(1)
	go func() {
		defer wg.Done()
		id, c := m.Subscribe()
		defer m.Unsubscribe(id)
		for {
			select {
			case line := <-c:
				p.handleLine(line)
			case <-ctx.Done():
				log.Printf("decode routine terminated")
				return
			}
		}
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// mount the admin debugging routes (accessible only in dev mode or over Tailscale)
		m.AttachAdminRoutes(mux)

		monMux := monitor.NewServer(state, p.hub, p.history, p.lines).ServeMux()
		mux.Handle("/api/", monMux)
		mux.Handle("/charts/", monMux)

		// read static files from the embedded filesystem in production or from
		// the local ./static in dev for easier iteration without restarting the
		// server
		var staticHandler http.Handler
		if *devMode {
			staticHandler = http.FileServer(http.Dir("./static"))
		} else {
			staticHandler = http.FileServer(http.FS(staticFiles))
		}
		mux.Handle("/", staticHandler)

		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("got request %q", r.URL.Path)
			mux.ServeHTTP(w, r)
		})

		server := &http.Server{
			Addr:    *listen,
			Handler: h,
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
