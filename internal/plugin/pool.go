package plugin

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/scriptbridge/internal/host/gojahost"
)

var (
	ErrPoolClosed = errors.New("session pool is closed")
	ErrTimeout    = errors.New("session acquisition timeout")
)

// DefaultAcquireTimeout bounds how long Acquire waits for a free session
const DefaultAcquireTimeout = 5 * time.Second

// Pool manages reusable sessions so that concurrent callers never share
// an instance
type Pool struct {
	plugin   *Plugin
	config   gojahost.Config
	sessions chan *Session
	size     int
	mu       sync.RWMutex
	closed   bool

	AcquireTimeout time.Duration
}

// NewPool creates size sessions up front
func NewPool(p *Plugin, config gojahost.Config, size int) (*Pool, error) {
	if size <= 0 {
		size = 4
	}

	pool := &Pool{
		plugin:         p,
		config:         config,
		sessions:       make(chan *Session, size),
		size:           size,
		AcquireTimeout: DefaultAcquireTimeout,
	}

	for i := 0; i < size; i++ {
		s, err := p.NewSession(config)
		if err != nil {
			pool.Close()
			return nil, err
		}
		pool.sessions <- s
	}

	return pool, nil
}

// Acquire gets a session from the pool
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	timer := time.NewTimer(p.AcquireTimeout)
	defer timer.Stop()

	select {
	case s := <-p.sessions:
		p.inUse(1)
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrTimeout
	}
}

// Release resets the session and returns it to the pool
func (p *Pool) Release(s *Session) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	p.inUse(-1)
	if p.closed {
		return s.Close()
	}

	if err := s.Reset(); err != nil {
		s.Close()
		p.plugin.logger.Warn("session reset failed, replacing", zap.Error(err))
		if fresh, ferr := p.plugin.NewSession(p.config); ferr == nil {
			p.sessions <- fresh
		}
		return err
	}

	select {
	case p.sessions <- s:
		return nil
	default:
		return s.Close()
	}
}

// Execute runs script on a pooled session
func (p *Pool) Execute(ctx context.Context, script string) (*gojahost.Result, error) {
	s, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(s)

	return s.Execute(ctx, script)
}

// Close closes the pool and all idle sessions
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	close(p.sessions)

	for s := range p.sessions {
		s.Close()
	}

	return nil
}

// Stats returns pool statistics
func (p *Pool) Stats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	available := 0
	if !p.closed {
		available = len(p.sessions)
	}
	return map[string]interface{}{
		"size":      p.size,
		"available": available,
		"in_use":    p.size - available,
		"closed":    p.closed,
	}
}

func (p *Pool) inUse(delta float64) {
	if m := p.plugin.metrics; m != nil {
		m.PoolInUse.Add(delta)
	}
}
