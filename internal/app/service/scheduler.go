package service

import (
	"sync"
	"time"
)

// ReformScheduler serializa reforms por guild y escalona los que llegan en
// paralelo: delay = posición en la cola al entrar × intervalo fijo, para no
// reventar el endpoint del planner con varios guilds a la vez.
type ReformScheduler struct {
	mu      sync.Mutex
	stagger time.Duration
	order   []string // guildIDs en orden de llegada
}

func NewReformScheduler(stagger time.Duration) *ReformScheduler {
	return &ReformScheduler{stagger: stagger}
}

// Enqueue reserva el slot del guild. ok=false si ya hay un reform en vuelo
// para ese guild (no encola duplicados).
func (q *ReformScheduler) Enqueue(guildID string) (time.Duration, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, id := range q.order {
		if id == guildID {
			return 0, false
		}
	}
	delay := time.Duration(len(q.order)) * q.stagger
	q.order = append(q.order, guildID)
	return delay, true
}

// Release libera el slot. Siempre, incluso en paths de error: si no, los
// guilds encolados detrás quedan bloqueados para siempre.
func (q *ReformScheduler) Release(guildID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, id := range q.order {
		if id == guildID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}

func (q *ReformScheduler) IsActive(guildID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, id := range q.order {
		if id == guildID {
			return true
		}
	}
	return false
}
