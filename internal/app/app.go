// Package app wires configuration, logging, persistence, and the HTTP
// surface into a runnable match server.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/viper"

	"tacstrike/server"
	"tacstrike/server/internal/history"
	"tacstrike/server/logging"
)

// Config captures every tunable the process reads at startup.
type Config struct {
	ListenAddr  string
	Seed        string
	HistoryPath string
	LogLevel    string
	LogConsole  bool
}

// LoadConfig reads tacstrike.yaml (working directory) plus TACSTRIKE_*
// environment overrides. Missing files fall back to defaults; a malformed
// file is an error.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("tacstrike")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("tacstrike")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8780")
	v.SetDefault("seed", "")
	v.SetDefault("history_path", "tacstrike.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_console", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return Config{
		ListenAddr:  v.GetString("listen_addr"),
		Seed:        v.GetString("seed"),
		HistoryPath: v.GetString("history_path"),
		LogLevel:    v.GetString("log_level"),
		LogConsole:  v.GetBool("log_console"),
	}, nil
}

// App is the composed server process.
type App struct {
	cfg       Config
	hub       *server.Hub
	publisher logging.Publisher
	store     *history.Store
	upgrader  websocket.Upgrader
}

// New builds the process from config: publisher, history store, and one
// match hub seeded from config (or the default map seed when empty).
func New(cfg Config) (*App, error) {
	severity := logging.ParseSeverity(cfg.LogLevel)
	var publisher logging.Publisher
	if cfg.LogConsole {
		publisher = logging.NewConsolePublisher(severity)
	} else {
		publisher = logging.NewZerologPublisher(os.Stdout, severity)
	}

	var store *history.Store
	if cfg.HistoryPath != "" {
		var err error
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
	}

	hub, err := server.NewHub(server.HubConfig{
		Seed:      cfg.Seed,
		Publisher: publisher,
		History:   store,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:       cfg,
		hub:       hub,
		publisher: publisher,
		store:     store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}, nil
}

// Handler exposes the HTTP surface: websocket attach plus diagnostics.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", a.handleWS)
	mux.HandleFunc("/diagnostics", a.handleDiagnostics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (a *App) handleWS(w http.ResponseWriter, r *http.Request) {
	side, err := parseSide(r.URL.Query().Get("side"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	// The handshake goes out before Subscribe makes the connection visible
	// to the tick broadcaster: it is always the first frame and never
	// concurrent with a broadcast write on the same conn.
	if data, err := json.Marshal(a.hub.Join(side)); err == nil {
		conn.WriteMessage(websocket.TextMessage, data)
	}

	sub := a.hub.Subscribe(side, conn)
	go a.readPump(sub, conn)
}

func (a *App) readPump(sub *server.Subscriber, conn *websocket.Conn) {
	defer a.hub.Unsubscribe(sub)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		a.hub.HandleMessage(sub, data)
	}
}

func (a *App) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(a.hub.Diagnostics())
	if err != nil {
		http.Error(w, "encode diagnostics", http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

// Run serves HTTP and drives the simulation until the context is cancelled
// or the match finishes.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    a.cfg.ListenAddr,
		Handler: a.Handler(),
	}

	stop := make(chan struct{})
	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		a.hub.RunSimulation(stop)
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case <-simDone:
	case runErr = <-errCh:
	}

	close(stop)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	<-simDone

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return runErr
	}
	return nil
}

func parseSide(raw string) (server.Team, error) {
	switch strings.ToLower(raw) {
	case "attackers", "":
		return server.TeamAttackers, nil
	case "defenders":
		return server.TeamDefenders, nil
	default:
		return server.TeamAttackers, fmt.Errorf("unknown side %q", raw)
	}
}
