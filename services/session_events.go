package services

import (
	"sync"

	"Sistem-Absensi-Cuti/models"

	"github.com/google/uuid"
)

// SessionListener dipanggil setiap kali sebuah sesi kerja berubah dan
// sudah tersimpan. Callback dijalankan sinkron, jadi jangan blocking lama.
type SessionListener func(session *models.WorkSession)

// SessionEventHub adalah registry subscribe/unsubscribe eksplisit untuk
// perubahan sesi. Token langganan dipakai untuk berhenti berlangganan.
type SessionEventHub struct {
	mu        sync.RWMutex
	listeners map[string]SessionListener
}

func NewSessionEventHub() *SessionEventHub {
	return &SessionEventHub{
		listeners: make(map[string]SessionListener),
	}
}

// Subscribe mendaftarkan listener dan mengembalikan token langganan.
func (h *SessionEventHub) Subscribe(listener SessionListener) string {
	token := uuid.New().String()

	h.mu.Lock()
	h.listeners[token] = listener
	h.mu.Unlock()

	return token
}

// Unsubscribe melepas listener; token tak dikenal diabaikan.
func (h *SessionEventHub) Unsubscribe(token string) {
	h.mu.Lock()
	delete(h.listeners, token)
	h.mu.Unlock()
}

// Publish mengirim sesi ke semua listener terdaftar.
func (h *SessionEventHub) Publish(session *models.WorkSession) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, listener := range h.listeners {
		listener(session)
	}
}
