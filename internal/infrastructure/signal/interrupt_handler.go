// Package signal provides signal handling utilities for the explorer shell.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultInterruptTimeout is how long a first Ctrl+C waits for the second.
const DefaultInterruptTimeout = 2 * time.Second

// InterruptHandler manages Ctrl+C (SIGINT) with a double-press exit pattern.
// On first press, it fires the FirstPress channel without cancelling the context.
// On second press within the timeout, it cancels the context (ending the shell).
// If the timeout expires without a second press, the counter resets.
// SIGTERM cancels the context at once.
type InterruptHandler struct {
	timeout       time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
	firstPressCh  chan struct{}
	lastPressTime time.Time
	pressCount    int
	running       bool
	mu            sync.Mutex
	resetTimer    *time.Timer
	sigCh         chan os.Signal
	stopCh        chan struct{}
}

// NewInterruptHandler creates an InterruptHandler whose context is derived from parent.
func NewInterruptHandler(parent context.Context, timeout time.Duration) *InterruptHandler {
	ctx, cancel := context.WithCancel(parent)
	return &InterruptHandler{
		timeout:      timeout,
		ctx:          ctx,
		cancel:       cancel,
		firstPressCh: make(chan struct{}, 1),
	}
}

// Start begins listening for SIGINT and SIGTERM. Calling it again is a no-op.
func (h *InterruptHandler) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return
	}

	h.running = true
	h.sigCh = make(chan os.Signal, 1)
	h.stopCh = make(chan struct{})
	signal.Notify(h.sigCh, os.Interrupt, syscall.SIGTERM)

	sigCh, stopCh := h.sigCh, h.stopCh
	go func() {
		for {
			select {
			case <-stopCh:
				return
			case sig := <-sigCh:
				h.handle(sig)
			}
		}
	}()
}

// handle applies one received signal.
func (h *InterruptHandler) handle(sig os.Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return
	}

	if sig == syscall.SIGTERM {
		h.cancelNow()
		return
	}

	now := time.Now()
	if h.pressCount > 0 && now.Sub(h.lastPressTime) < h.timeout {
		h.cancelNow()
		return
	}
	h.firstPress(now)
}

// Press counts a Ctrl+C that was read as a key instead of received as SIGINT,
// as happens while a line editor holds the terminal in raw mode.
func (h *InterruptHandler) Press() {
	h.handle(os.Interrupt)
}

// Caller must hold h.mu.
func (h *InterruptHandler) cancelNow() {
	h.cancel()
	h.pressCount = 0
	h.stopResetTimer()
}

// firstPress fires the FirstPress channel and arms the reset timer.
// Caller must hold h.mu.
func (h *InterruptHandler) firstPress(at time.Time) {
	h.pressCount = 1
	h.lastPressTime = at

	select {
	case h.firstPressCh <- struct{}{}:
	default:
		// previous press not consumed yet
	}

	h.stopResetTimer()
	h.resetTimer = time.AfterFunc(h.timeout, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.pressCount = 0
	})
}

// Caller must hold h.mu.
func (h *InterruptHandler) stopResetTimer() {
	if h.resetTimer != nil {
		h.resetTimer.Stop()
		h.resetTimer = nil
	}
}

// Stop stops listening for signals. It is safe to call Stop multiple times.
// The context is left as it is.
func (h *InterruptHandler) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return
	}

	h.running = false
	signal.Stop(h.sigCh)
	close(h.stopCh)
	h.sigCh, h.stopCh = nil, nil
	h.stopResetTimer()
}

// Context returns a context that is cancelled when the user confirms exit
// by pressing Ctrl+C twice within the timeout, on SIGTERM, or when the parent ends.
func (h *InterruptHandler) Context() context.Context {
	return h.ctx
}

// FirstPress returns a channel that receives a value on the first Ctrl+C of a
// pair, so the shell can print "Press Ctrl+C again to exit".
func (h *InterruptHandler) FirstPress() <-chan struct{} {
	return h.firstPressCh
}

type handlerKey struct{}

// WithInterruptHandler returns a copy of ctx carrying h.
func WithInterruptHandler(ctx context.Context, h *InterruptHandler) context.Context {
	return context.WithValue(ctx, handlerKey{}, h)
}

// InterruptHandlerFromContext returns the handler stored by WithInterruptHandler, or nil.
func InterruptHandlerFromContext(ctx context.Context) *InterruptHandler {
	h, _ := ctx.Value(handlerKey{}).(*InterruptHandler)
	return h
}
