package stream

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
	clientBuffer = 64
)

// Hub fans tick reports and store deposits out to websocket subscribers.
// Subscribers that fall behind lose messages instead of slowing the tick loop.
type Hub struct {
	engine *world.Engine
	logger logging.SimulationLogger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu      sync.RWMutex
	clients map[uint64]chan []byte

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHub creates a hub reading the current tick from engine
func NewHub(engine *world.Engine, logger logging.SimulationLogger) *Hub {
	return &Hub{
		engine: engine,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return isLoopbackRemote(r.RemoteAddr) },
		},
		clients: make(map[uint64]chan []byte),
	}
}

// Start forwards central store deposits until Stop
func (h *Hub) Start(ctx context.Context) {
	ctx, h.cancel = context.WithCancel(ctx)

	var (
		deposits    <-chan storage.DepositNotification
		unsubscribe func()
	)
	_ = h.engine.Execute(ctx, func(w world.World) error {
		deposits, unsubscribe = w.Store.SubscribeToDeposits()
		return nil
	})
	if deposits == nil {
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-deposits:
				if !ok {
					return
				}
				h.broadcast(depositMessage(n))
			}
		}
	}()
}

// Stop ends deposit forwarding and disconnects every subscriber
func (h *Hub) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
	h.wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, out := range h.clients {
		close(out)
		delete(h.clients, id)
	}
}

// OnTick implements world.TickObserver
func (h *Hub) OnTick(_ context.Context, report simulation.TickReport) {
	h.broadcast(tickMessage(report))
}

// Subscribers returns the number of connected clients
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log(logging.LevelError, "Failed to encode stream message", map[string]interface{}{"error": err.Error()})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, out := range h.clients {
		select {
		case out <- b:
		default:
			// slow subscriber, drop
		}
	}
}

func (h *Hub) join() (uint64, chan []byte) {
	id := h.nextID.Add(1)
	out := make(chan []byte, clientBuffer)

	h.mu.Lock()
	h.clients[id] = out
	h.mu.Unlock()
	return id, out
}

func (h *Hub) leave(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if out, ok := h.clients[id]; ok {
		close(out)
		delete(h.clients, id)
	}
}

// Handler upgrades loopback requests and streams messages until the client goes away
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out := h.join()
		defer h.leave(id)

		hello, _ := json.Marshal(HelloMsg{
			Type:            TypeHello,
			ProtocolVersion: ProtocolVersion,
			Tick:            h.engine.CurrentTick(),
		})
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
			return
		}

		// Reader: subscribers send nothing, but reading surfaces close frames.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-closed:
				return
			case b, ok := <-out:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "daemon stopping"),
						time.Now().Add(time.Second))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}
	}
}

// NewServer builds the HTTP server exposing the hub at /ws
func NewServer(addr string, hub *Hub) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (h *Hub) log(level, message string, metadata map[string]interface{}) {
	if h.logger != nil {
		h.logger.Log(level, message, metadata)
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Verify interface implementation
var _ world.TickObserver = (*Hub)(nil)
