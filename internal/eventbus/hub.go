package eventbus

import (
	"context"
	"sync"
	"time"
)

// 养成事件类型
const (
	TypeXPGained     = "xp_gained"
	TypeLevelUp      = "level_up"
	TypeAuditMissing = "xp_audit_missing"
	TypeFocus        = "focus_recorded"
	TypeCaptured     = "pokemon_captured"
)

type Event struct {
	Type      string         `json:"type"`
	Owner     int64          `json:"-"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

type subscriber struct {
	owner int64 // 0 表示接收所有用户的事件
}

type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]subscriber)}
}

func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().UnixMilli()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch, sub := range h.subs {
		if sub.owner != 0 && sub.owner != evt.Owner {
			continue
		}
		select {
		case ch <- evt:
		default:
			// 慢消费者直接丢弃，避免阻塞写入链路
		}
	}
}

// Subscribe 订阅某个用户的事件，ctx 结束后自动退订并关闭通道
func (h *Hub) Subscribe(ctx context.Context, owner int64, buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	h.subs[ch] = subscriber{owner: owner}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Subscribers 当前订阅者数量
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
