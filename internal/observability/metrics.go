package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for dispatched dialogue events,
// recovered errors, and HTTP requests.
type Metrics struct {
	mu           sync.Mutex
	eventCount   map[string]int64
	errorCount   map[string]int64
	requestCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		eventCount:   make(map[string]int64),
		errorCount:   make(map[string]int64),
		requestCount: make(map[string]int64),
	}
}

// RecordEvent counts a dialogue event dispatched in a given state.
func (m *Metrics) RecordEvent(state, event string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCount[state+"|"+event]++
}

// RecordError counts an error recovered by the dialogue engine.
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[code]++
}

// RecordRequest increments counters for HTTP requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// Snapshot copies the current counters for reporting.
func (m *Metrics) Snapshot() (events, errors, requests map[string]int64) {
	if m == nil {
		return nil, nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	events = make(map[string]int64, len(m.eventCount))
	for k, v := range m.eventCount {
		events[k] = v
	}
	errors = make(map[string]int64, len(m.errorCount))
	for k, v := range m.errorCount {
		errors[k] = v
	}
	requests = make(map[string]int64, len(m.requestCount))
	for k, v := range m.requestCount {
		requests[k] = v
	}
	return events, errors, requests
}
