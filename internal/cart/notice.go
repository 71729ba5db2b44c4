package cart

import (
	"sync"
	"time"
)

// Notice is a flag that turns itself off a fixed delay after the last Show.
// A nil *Notice is valid and never visible.
type Notice struct {
	mu      sync.Mutex
	delay   time.Duration
	visible bool
	gen     uint64
	timer   *time.Timer
}

func NewNotice(delay time.Duration) *Notice {
	return &Notice{delay: delay}
}

func (n *Notice) Show() {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	n.visible = true
	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.gen == gen {
			n.visible = false
		}
	})
}

func (n *Notice) Visible() bool {
	if n == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visible
}

func (n *Notice) Stop() {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.visible = false
}
