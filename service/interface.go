// Package service manages long-lived resources owned by a runtime: terminals,
// timers, storage. Services are registered in a Hub that starts them in
// dependency order and stops them in reverse.
package service

// Service defines the lifecycle interface for infrastructure subsystems
//
// Lifecycle:
//  1. Construction (via factory)
//  2. Init(args...) - configuration and resource acquisition
//  3. Start() - launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	// Init configures the service from optional args
	Init(args ...any) error

	// Start begins service operation (launches goroutines if any)
	// Called after all services have initialized
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent - safe to call multiple times
	Stop() error
}

// Func adapts plain functions to a Service with no dependencies. Nil hooks are no-ops.
type Func struct {
	ID      string
	OnInit  func() error
	OnStart func() error
	OnStop  func() error
}

func (f *Func) Name() string { return f.ID }

func (f *Func) Dependencies() []string { return nil }

func (f *Func) Init(args ...any) error {
	if f.OnInit == nil {
		return nil
	}
	return f.OnInit()
}

func (f *Func) Start() error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart()
}

func (f *Func) Stop() error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop()
}
