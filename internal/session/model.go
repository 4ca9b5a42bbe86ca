package session

import (
	"context"
	"sync"
	"time"

	"github.com/meetscribe/meetscribe/internal/analyzer"
)

// State is the pipeline position of a run. Transitions fire sequentially:
// idle -> validating -> (extracting ->) transcribing -> summarizing -> ready,
// with failed reachable from any non-terminal state. A ready session may
// pass through notifying and returns to ready regardless of the delivery
// outcome.
type State string

const (
	StateIdle         State = "idle"
	StateValidating   State = "validating"
	StateExtracting   State = "extracting"
	StateTranscribing State = "transcribing"
	StateSummarizing  State = "summarizing"
	StateNotifying    State = "notifying"
	StateReady        State = "ready"
	StateFailed       State = "failed"
)

// Terminal reports whether the pipeline has finished, successfully or not.
func (s State) Terminal() bool {
	return s == StateReady || s == StateFailed
}

// Upload is the raw user input that seeds a run.
type Upload struct {
	Filename    string
	Data        []byte
	MeetingType analyzer.MeetingType
}

// Event is published to subscribers on every state change.
type Event struct {
	SessionID string `json:"session_id"`
	State     State  `json:"state"`
	Error     string `json:"error,omitempty"`
}

// Session holds one run's transient data. Everything here is discarded when
// the process exits or a new upload replaces the run; nothing is persisted.
type Session struct {
	ID          string
	MeetingType analyzer.MeetingType
	CreatedAt   time.Time

	mu          sync.RWMutex
	state       State
	transcript  string
	result      analyzer.Result
	report      []byte
	runErr      error
	deliveryErr error
	listeners   map[int]chan Event
	nextSub     int

	done     chan struct{}
	doneOnce sync.Once
}

func newSession(id string, meetingType analyzer.MeetingType) *Session {
	return &Session{
		ID:          id,
		MeetingType: meetingType,
		CreatedAt:   time.Now(),
		state:       StateIdle,
		listeners:   make(map[int]chan Event),
		done:        make(chan struct{}),
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Transcript() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript
}

func (s *Session) Result() analyzer.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Report returns the rendered document, or false when the run is not ready.
func (s *Session) Report() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.report) == 0 {
		return nil, false
	}
	return s.report, true
}

// Err returns the originating pipeline error for a failed run.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runErr
}

// DeliveryErr returns the last notification failure, if any. Delivery
// problems never fail the run itself.
func (s *Session) DeliveryErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deliveryErr
}

// Wait blocks until the run reaches a terminal state or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers a progress listener. The returned cancel function
// must be called when the listener goes away.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, 16)
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	event := Event{SessionID: s.ID, State: state}
	s.publishLocked(event)
	s.mu.Unlock()
}

func (s *Session) setTranscript(transcript string) {
	s.mu.Lock()
	s.transcript = transcript
	s.mu.Unlock()
}

func (s *Session) complete(result analyzer.Result, report []byte) {
	s.mu.Lock()
	s.result = result
	s.report = report
	s.state = StateReady
	s.publishLocked(Event{SessionID: s.ID, State: StateReady})
	s.mu.Unlock()
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.state = StateFailed
	s.runErr = err
	s.publishLocked(Event{SessionID: s.ID, State: StateFailed, Error: err.Error()})
	s.mu.Unlock()
	s.doneOnce.Do(func() { close(s.done) })
}

// finishNotify moves the session back to ready, recording the delivery
// outcome. The report stays available either way.
func (s *Session) finishNotify(err error) {
	s.mu.Lock()
	s.deliveryErr = err
	s.state = StateReady
	event := Event{SessionID: s.ID, State: StateReady}
	if err != nil {
		event.Error = err.Error()
	}
	s.publishLocked(event)
	s.mu.Unlock()
}

// publishLocked delivers the event without blocking; slow listeners drop
// intermediate events rather than stalling the pipeline.
func (s *Session) publishLocked(event Event) {
	for _, ch := range s.listeners {
		select {
		case ch <- event:
		default:
		}
	}
}
