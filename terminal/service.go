package terminal

import (
	"sync"
)

// Service manages terminal lifecycle and event pumping as a hub service
type Service struct {
	backend Backend
	handler func(Event)

	term    Terminal
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// NewService creates a terminal service. A nil backend selects the process tty.
// handler receives every event on the pump goroutine.
func NewService(backend Backend, handler func(Event)) *Service {
	if backend == nil {
		backend = newBackend()
	}
	return &Service{
		backend: backend,
		handler: handler,
		term:    NewWithBackend(backend),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "terminal"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service, entering raw mode and the alternate screen
func (s *Service) Init(args ...any) error {
	return s.term.Init()
}

// Start implements service.Service, launching the event pump
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.running = true
	go s.pumpLoop()
	return nil
}

func (s *Service) pumpLoop() {
	defer close(s.doneCh)
	defer Recover(s.term, "TERMINAL PUMP")

	events := s.term.Events()
	for {
		select {
		case <-s.stopCh:
			return
		case ev := <-events:
			if s.handler != nil {
				s.handler(ev)
			}
			if ev.Type == EventClosed || ev.Type == EventError {
				return
			}
		}
	}
}

// Stop implements service.Service, halting the pump and restoring the terminal
func (s *Service) Stop() error {
	s.mu.Lock()
	wasRunning := s.running
	if s.running {
		s.running = false
		close(s.stopCh)
	}
	s.mu.Unlock()

	if wasRunning {
		<-s.doneCh
	}
	s.term.Fini()
	return nil
}

// Terminal returns the wrapped terminal; it is usable once Init succeeded
func (s *Service) Terminal() Terminal {
	return s.term
}
