package network

import (
	"sync"

	"jungle-server/internal/rooms"
	"jungle-server/pkg/api"
	"jungle-server/pkg/logger"
)

// MailboxSize - буфер исходящих кадров на одно соединение.
const MailboxSize = 256

// Broadcaster занимается только доставкой кадров подписчикам.
// Один канал на соединение, поэтому порядок кадров для получателя - FIFO.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ConnID -> Личный канал
	subscribers map[rooms.ConnID]chan api.Envelope
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[rooms.ConnID]chan api.Envelope),
	}
}

// Register создает личный канал для соединения (браузер или бот)
func (b *Broadcaster) Register(id rooms.ConnID) <-chan api.Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.Envelope, MailboxSize)
	b.subscribers[id] = ch
	return ch
}

// Unregister удаляет подписчика и закрывает его канал
func (b *Broadcaster) Unregister(id rooms.ConnID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// SendTo кладет кадр в канал получателя (fire-and-forget).
// false - получателя нет или его канал переполнен.
func (b *Broadcaster) SendTo(id rooms.ConnID, msg api.Envelope) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[id]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		logger.Component("hub").WithField("conn", id).Warn("Mailbox full, frame dropped")
		return false
	}
}

// HasSubscriber проверяет, подключено ли соединение
func (b *Broadcaster) HasSubscriber(id rooms.ConnID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
