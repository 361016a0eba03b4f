package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/session/domain/entity"
)

// SessionStore registro en memoria de sesiones de conversación. Cada sesión
// se crea en la primera interacción y expira tras la ventana de inactividad
// configurada (el carrito abandonado se descarta con ella). El acceso entre
// sesiones es concurrente; la serialización por sesión la da el lock de la
// propia sesión.
type SessionStore struct {
	sessions map[string]*entity.Session
	ttl      time.Duration
	mu       sync.RWMutex
}

// NewSessionStore crea un nuevo store con la ventana de inactividad indicada
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entity.Session),
		ttl:      ttl,
	}
}

// GetOrCreate devuelve la sesión del tenant+conversación, creándola si no
// existe o si la anterior expiró
func (s *SessionStore) GetOrCreate(tenantID, sessionID string) *entity.Session {
	key := sessionKey(tenantID, sessionID)

	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok && !sess.ExpiredSince(s.ttl) {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Revalidar bajo el write lock (otra goroutine pudo crearla mientras tanto)
	if sess, ok := s.sessions[key]; ok && !sess.ExpiredSince(s.ttl) {
		return sess
	}
	sess = entity.NewSession(tenantID, sessionID)
	s.sessions[key] = sess
	return sess
}

// Count devuelve la cantidad de sesiones vivas
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// PurgeExpired elimina las sesiones inactivas y devuelve cuántas se borraron
func (s *SessionStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for key, sess := range s.sessions {
		if sess.ExpiredSince(s.ttl) {
			delete(s.sessions, key)
			purged++
		}
	}
	return purged
}

// StartJanitor corre la limpieza periódica de sesiones expiradas hasta que
// el contexto se cancele. Pensado para una goroutine desde main.
func (s *SessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if purged := s.PurgeExpired(); purged > 0 {
				log.Printf("🧹 %d sesiones inactivas descartadas", purged)
			}
		}
	}
}

func sessionKey(tenantID, sessionID string) string {
	return tenantID + ":" + sessionID
}
