package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Cooldown gates how often a command may fire per channel. An interval of
// zero disables the gate entirely.
type Cooldown struct {
	interval time.Duration
	mutex    sync.Mutex
	last     map[string]time.Time
}

func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{
		interval: interval,
		last:     make(map[string]time.Time),
	}
}

// Ready reports whether the command may fire in the channel now and, when it
// may, records the invocation time.
func (c *Cooldown) Ready(channel, name string) bool {
	if c.interval <= 0 {
		return true
	}

	key := channel + "/" + name

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	if last, ok := c.last[key]; ok && now.Sub(last) < c.interval {
		log.Debug().Str("channel", channel).Str("command", name).Msg("command on cooldown")
		return false
	}

	c.last[key] = now
	return true
}
