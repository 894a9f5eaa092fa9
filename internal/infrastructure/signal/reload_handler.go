package signal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ReloadHandler turns SIGHUP into reload requests. Requests arriving before the
// previous one is consumed are coalesced, so the shell applies a reload between
// commands rather than from the signal goroutine.
type ReloadHandler struct {
	reloadCh chan struct{}
	running  bool
	mu       sync.Mutex
	sigCh    chan os.Signal
	stopCh   chan struct{}
}

// NewReloadHandler creates a ReloadHandler. It does nothing until Start.
func NewReloadHandler() *ReloadHandler {
	return &ReloadHandler{reloadCh: make(chan struct{}, 1)}
}

// Start begins listening for SIGHUP. Calling it again is a no-op.
func (h *ReloadHandler) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return
	}

	h.running = true
	h.sigCh = make(chan os.Signal, 1)
	h.stopCh = make(chan struct{})
	signal.Notify(h.sigCh, syscall.SIGHUP)

	// Capture channel references to avoid racing with Stop
	sigCh, stopCh := h.sigCh, h.stopCh
	go func() {
		for {
			select {
			case <-stopCh:
				return
			case <-sigCh:
				h.request()
			}
		}
	}()
}

func (h *ReloadHandler) request() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return
	}
	select {
	case h.reloadCh <- struct{}{}:
	default:
	}
}

// Reloads returns the channel that receives one value per pending reload.
func (h *ReloadHandler) Reloads() <-chan struct{} {
	return h.reloadCh
}

// Stop stops listening for SIGHUP. It is safe to call Stop multiple times.
func (h *ReloadHandler) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return
	}

	h.running = false
	signal.Stop(h.sigCh)
	close(h.stopCh)
	h.sigCh, h.stopCh = nil, nil
}
