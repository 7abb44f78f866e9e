package sync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rvergnes/edtcal/internal/ics"
)

// The parse worker runs ICS parsing off the calling goroutine. Requests
// and responses form a closed tagged-union protocol correlated by a
// monotonically increasing id through a pending-request table, so
// several parses can be in flight without confusion. If the worker fails
// to initialize, the parser falls back to parsing synchronously on the
// calling goroutine; the transition is one-way and sticky.

type msgKind string

const (
	kindInit  msgKind = "init"
	kindParse msgKind = "parse"
)

type workerRequest struct {
	Kind    msgKind
	ID      uint64
	Content string
}

type workerResponse struct {
	Kind   msgKind
	ID     uint64
	OK     bool
	Result *ics.Result
	Error  string
}

type parserMode int

const (
	modeWorker parserMode = iota
	modeFallback
)

// Parser dispatches parse requests to the worker goroutine, or to the
// sticky synchronous fallback once the worker is unavailable.
type Parser struct {
	logger *slog.Logger

	mu      sync.Mutex
	mode    parserMode
	nextID  uint64
	pending map[uint64]chan workerResponse

	requests chan workerRequest
	done     chan struct{}
	stopOnce sync.Once

	fallbackOnce sync.Once
}

// NewParser starts the worker goroutine and performs the init handshake.
// A failed handshake activates fallback mode immediately.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{
		logger:   logger,
		pending:  make(map[uint64]chan workerResponse),
		requests: make(chan workerRequest),
		done:     make(chan struct{}),
	}

	responses := make(chan workerResponse)
	go p.workerLoop(responses)
	go p.dispatchLoop(responses)

	if err := p.handshake(); err != nil {
		p.logger.Warn("parse worker init failed, using synchronous fallback", "error", err)
		p.activateFallback()
	}
	return p
}

// Parse hands content to the worker, or parses inline in fallback mode.
// Pending requests are rejected with ErrWorkerTerminated on Close.
func (p *Parser) Parse(ctx context.Context, content string) (*ics.Result, error) {
	if p.currentMode() == modeFallback {
		return p.parseFallback(content), nil
	}

	id, ch := p.register()
	defer p.unregister(id)

	req := workerRequest{Kind: kindParse, ID: id, Content: content}
	select {
	case p.requests <- req:
	case <-p.done:
		return nil, ErrWorkerTerminated
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, ErrWorkerTerminated
		}
		if !resp.OK {
			// Worker-side failure: go sticky fallback and retry inline.
			p.logger.Warn("parse worker failed, switching to synchronous fallback", "error", resp.Error)
			p.activateFallback()
			return p.parseFallback(content), nil
		}
		return resp.Result, nil
	case <-p.done:
		return nil, ErrWorkerTerminated
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close tears the worker down and rejects every pending request, so no
// caller is left hanging.
func (p *Parser) Close() {
	p.stopOnce.Do(func() {
		close(p.done)

		p.mu.Lock()
		defer p.mu.Unlock()
		for id, ch := range p.pending {
			delete(p.pending, id)
			close(ch)
		}
	})
}

func (p *Parser) workerLoop(responses chan<- workerResponse) {
	for {
		select {
		case req := <-p.requests:
			var resp workerResponse
			switch req.Kind {
			case kindInit:
				resp = workerResponse{Kind: kindInit, ID: req.ID, OK: true}
			case kindParse:
				resp = workerResponse{Kind: kindParse, ID: req.ID, OK: true, Result: ics.Parse(req.Content)}
			default:
				resp = workerResponse{Kind: req.Kind, ID: req.ID, OK: false, Error: "unknown request kind"}
			}
			select {
			case responses <- resp:
			case <-p.done:
				return
			}
		case <-p.done:
			return
		}
	}
}

func (p *Parser) dispatchLoop(responses <-chan workerResponse) {
	for {
		select {
		case resp := <-responses:
			p.mu.Lock()
			ch, ok := p.pending[resp.ID]
			if ok {
				delete(p.pending, resp.ID)
			}
			p.mu.Unlock()
			if ok {
				ch <- resp
			}
		case <-p.done:
			return
		}
	}
}

func (p *Parser) handshake() error {
	id, ch := p.register()
	defer p.unregister(id)

	select {
	case p.requests <- workerRequest{Kind: kindInit, ID: id}:
	case <-p.done:
		return ErrWorkerTerminated
	}

	resp, ok := <-ch
	if !ok {
		return ErrWorkerTerminated
	}
	if !resp.OK {
		return ErrWorkerTerminated
	}
	return nil
}

// register allocates a request id and its response channel. The channel
// is buffered so the dispatcher never blocks on a caller that gave up.
func (p *Parser) register() (uint64, chan workerResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := p.nextID
	ch := make(chan workerResponse, 1)
	p.pending[id] = ch
	return id, ch
}

func (p *Parser) unregister(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, id)
}

func (p *Parser) currentMode() parserMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

func (p *Parser) activateFallback() {
	p.mu.Lock()
	p.mode = modeFallback
	p.mu.Unlock()
}

// parseFallback parses on the calling goroutine. The one-time setup
// mirrors the worker's init handshake.
func (p *Parser) parseFallback(content string) *ics.Result {
	p.fallbackOnce.Do(func() {
		p.logger.Info("synchronous parse fallback active")
	})
	return ics.Parse(content)
}
