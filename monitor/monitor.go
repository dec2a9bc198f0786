// Package monitor serves the live panel state over HTTP.
package monitor

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"sync"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mastercactapus/repatcher-osc/bridge"
	"github.com/mastercactapus/repatcher-osc/logging"
	"github.com/mastercactapus/repatcher-osc/metrics"
	"github.com/mastercactapus/repatcher-osc/repatcher"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// ControlChannel is the SSE channel every event is sent to.
const ControlChannel = "/events/control"

const (
	eventBuffer  = 256
	clientBuffer = 64
)

// Monitor is an http.Handler exposing the panel:
//
//	GET /api/state   current State as JSON
//	/events/control  server-sent events, one per control change
//	GET /ws          the same events over a websocket
//	GET /metrics     prometheus metrics
type Monitor struct {
	http.Handler

	sse      *sse.Server
	upgrader websocket.Upgrader

	events chan repatcher.Event
	quit   chan struct{}
	once   sync.Once

	mx    sync.RWMutex
	state State

	cmx     sync.Mutex
	clients map[chan []byte]struct{}

	log *logrus.Entry
}

var _ bridge.Observer = &Monitor{}

// New creates a Monitor and starts its dispatch loop. Call Close to stop it.
func New() *Monitor {
	metrics.Register()

	r := mux.NewRouter()
	m := &Monitor{
		Handler: r,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
		events:  make(chan repatcher.Event, eventBuffer),
		quit:    make(chan struct{}),
		clients: make(map[chan []byte]struct{}),
		log:     logging.New("monitor"),
	}

	r.HandleFunc("/api/state", m.serveState).Methods("GET")
	r.HandleFunc("/ws", m.serveWS).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.PathPrefix("/events/").Handler(m.sse)

	go m.loop()
	return m
}

// Observe implements bridge.Observer. Events are dropped if the monitor
// is falling behind.
func (m *Monitor) Observe(ev repatcher.Event) {
	select {
	case <-m.quit:
	case m.events <- ev:
	default:
	}
}

// State returns a copy of the current panel state.
func (m *Monitor) State() State {
	m.mx.RLock()
	defer m.mx.RUnlock()
	return m.state
}

// Close stops the dispatch loop and disconnects stream clients.
func (m *Monitor) Close() {
	m.once.Do(func() {
		close(m.quit)
		m.sse.Shutdown()
	})
}

func (m *Monitor) loop() {
	for {
		select {
		case <-m.quit:
			return
		case ev := <-m.events:
			m.mx.Lock()
			m.state.apply(ev)
			m.mx.Unlock()

			data, err := json.Marshal(newControlMessage(ev))
			if err != nil {
				m.log.WithError(err).Error("marshal event")
				continue
			}
			m.sse.SendMessage(ControlChannel, sse.SimpleMessage(string(data)))
			m.broadcast(data)
		}
	}
}

func (m *Monitor) broadcast(data []byte) {
	m.cmx.Lock()
	defer m.cmx.Unlock()
	for ch := range m.clients {
		select {
		case ch <- data:
		default:
			// slow client, skip
		}
	}
}

func (m *Monitor) addClient() chan []byte {
	ch := make(chan []byte, clientBuffer)
	m.cmx.Lock()
	m.clients[ch] = struct{}{}
	m.cmx.Unlock()
	return ch
}

func (m *Monitor) removeClient(ch chan []byte) {
	m.cmx.Lock()
	delete(m.clients, ch)
	m.cmx.Unlock()
}

func (m *Monitor) serveState(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(m.State())
	if err != nil {
		m.log.WithError(err).Error("encode state")
	}
}

func (m *Monitor) serveWS(w http.ResponseWriter, req *http.Request) {
	// registered before the handshake completes so no event is missed
	ch := m.addClient()
	defer m.removeClient(ch)

	ws, err := m.upgrader.Upgrade(w, req, nil)
	if err != nil {
		m.log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer ws.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-m.quit:
			return
		case <-closed:
			return
		case data := <-ch:
			err = ws.WriteMessage(websocket.TextMessage, data)
			if err != nil {
				m.log.WithError(err).Debug("websocket write")
				return
			}
		}
	}
}
