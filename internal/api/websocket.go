package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"weatherstack/internal/launcher"
	"weatherstack/internal/logger"
	"weatherstack/internal/models"
	"weatherstack/internal/platform"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for localhost usage
	},
}

// LogStreamer handles WebSocket connections for log streaming. Process
// services are followed through their log files, unit services through the
// service manager's journal.
type LogStreamer struct {
	specs []models.ServiceSpec
	units platform.Manager
}

// NewLogStreamer creates a new log streamer
func NewLogStreamer(specs []models.ServiceSpec, units platform.Manager) *LogStreamer {
	return &LogStreamer{specs: specs, units: units}
}

func (ls *LogStreamer) findSpec(name string) (models.ServiceSpec, bool) {
	for _, spec := range ls.specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return models.ServiceSpec{}, false
}

// openStream picks the log source for a spec.
func (ls *LogStreamer) openStream(ctx context.Context, spec models.ServiceSpec) (<-chan string, error) {
	if spec.Kind() == models.StrategyUnit {
		if ls.units == nil {
			return nil, errNoManager
		}
		return ls.units.StreamLogs(ctx, spec.Unit)
	}
	return launcher.FollowFile(ctx, launcher.ResolveLogPath(spec))
}

var errNoManager = errors.New("no service manager available")

// HandleLogStream handles WebSocket connections for streaming logs
func (ls *LogStreamer) HandleLogStream(w http.ResponseWriter, r *http.Request, serviceName string) {
	spec, ok := ls.findSpec(serviceName)
	if !ok {
		http.Error(w, "service not found: "+serviceName, http.StatusNotFound)
		return
	}

	logger.Debug("websocket log stream requested", "service", serviceName)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "service", serviceName, "error", err)
		return
	}
	defer conn.Close()

	logger.Info("websocket connected", "service", serviceName)

	// Create a context that cancels when the connection closes
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Handle client disconnect
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket client disconnected", "service", serviceName)
				cancel()
				return
			}
		}
	}()

	logCh, err := ls.openStream(ctx, spec)
	if err != nil {
		logger.Error("failed to start log stream", "service", serviceName, "error", err)
		conn.WriteMessage(websocket.TextMessage, []byte("Error: "+err.Error()))
		return
	}

	// Send an initial message
	conn.WriteMessage(websocket.TextMessage, []byte("--- Connected to log stream for "+serviceName+" ---"))

	// Stream logs to the WebSocket
	for {
		select {
		case <-ctx.Done():
			logger.Debug("websocket stream ended", "service", serviceName, "reason", "context cancelled")
			return
		case line, ok := <-logCh:
			if !ok {
				logger.Debug("websocket stream ended", "service", serviceName, "reason", "channel closed")
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				logger.Debug("websocket write failed", "service", serviceName, "error", err)
				return
			}
		}
	}
}
