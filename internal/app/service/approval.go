package service

import (
	"errors"
	"sync"
	"time"
)

type ApprovalOutcome string

const (
	ApprovalConfirmed ApprovalOutcome = "confirmed"
	ApprovalRejected  ApprovalOutcome = "rejected"
	ApprovalTimedOut  ApprovalOutcome = "timed_out"
)

var ErrApprovalActive = errors.New("ya hay una aprobación activa para este guild")

// ApprovalGate junta confirmaciones multi-admin con deadline. Una sola sesión
// viva por guild; el set de aprobadores se congela al abrir (si promueven un
// admin a mitad de votación, no puede confirmar).
type ApprovalGate struct {
	mu       sync.Mutex
	window   time.Duration
	sessions map[string]*approvalSession
}

type approvalSession struct {
	ownerID   string
	eligible  map[string]struct{}
	confirmed map[string]struct{}
	quorum    int
	timer     *time.Timer
	done      chan ApprovalOutcome
}

func NewApprovalGate(window time.Duration) *ApprovalGate {
	return &ApprovalGate{
		window:   window,
		sessions: make(map[string]*approvalSession),
	}
}

// Open crea la sesión para el guild. adminIDs son los miembros no-bot con el
// bit Administrator (el owner suele venir incluido). Quorum = ceil(admins/2),
// y el owner tiene que confirmar siempre; si el único admin es el owner,
// alcanza con su confirmación sola.
func (g *ApprovalGate) Open(guildID, ownerID string, adminIDs []string) (<-chan ApprovalOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.sessions[guildID]; ok {
		return nil, ErrApprovalActive
	}

	sess := &approvalSession{
		ownerID:   ownerID,
		eligible:  make(map[string]struct{}, len(adminIDs)+1),
		confirmed: make(map[string]struct{}),
		done:      make(chan ApprovalOutcome, 1),
	}
	for _, id := range adminIDs {
		sess.eligible[id] = struct{}{}
	}
	sess.eligible[ownerID] = struct{}{}

	sess.quorum = (len(adminIDs) + 1) / 2 // ceil(n/2)
	if sess.quorum < 1 {
		sess.quorum = 1
	}

	sess.timer = time.AfterFunc(g.window, func() { g.expire(guildID, sess) })
	g.sessions[guildID] = sess
	return sess.done, nil
}

// Confirm registra la confirmación de un actor. Idempotente: repetir no
// duplica. Devuelve false si no hay sesión o el actor no es elegible.
func (g *ApprovalGate) Confirm(guildID, actorID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	sess, ok := g.sessions[guildID]
	if !ok {
		return false
	}
	if _, ok := sess.eligible[actorID]; !ok {
		return false
	}
	sess.confirmed[actorID] = struct{}{}

	if _, ownerOK := sess.confirmed[sess.ownerID]; ownerOK && len(sess.confirmed) >= sess.quorum {
		g.resolveLocked(guildID, sess, ApprovalConfirmed)
	}
	return true
}

// Active indica si el guild tiene una sesión abierta.
func (g *ApprovalGate) Active(guildID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.sessions[guildID]
	return ok
}

func (g *ApprovalGate) expire(guildID string, sess *approvalSession) {
	g.mu.Lock()
	defer g.mu.Unlock()
	// la sesión pudo resolverse (o reabrirse) entre el disparo y el lock
	if cur, ok := g.sessions[guildID]; !ok || cur != sess {
		return
	}
	g.resolveLocked(guildID, sess, ApprovalTimedOut)
}

func (g *ApprovalGate) resolveLocked(guildID string, sess *approvalSession, out ApprovalOutcome) {
	sess.timer.Stop()
	delete(g.sessions, guildID)
	sess.done <- out
}
