package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

const plannerOK = `{
  "roles": [{"name": "Mod", "permissions": ["KickMembers"]}],
  "categories": [{"name": "Comunidad"}],
  "channels": [{"name": "general", "type": "text", "category": "Comunidad"}],
  "delete": ["viejo"]
}`

func newReformService(f *fakeSurface, planner PlannerAPI) (*ReformService, *fakeRuns) {
	runs := newFakeRuns()
	svc := NewReformService(
		f, planner, newMemRepo(), runs,
		NewApprovalGate(time.Second),
		NewReformScheduler(0),
		NewStatusReporter(f, 5*time.Millisecond),
	)
	return svc, runs
}

// busca los mensajes posteados al canal de estado (ya borrado o no)
func statusMessages(f *fakeSurface) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, msgs := range f.messages {
		for _, m := range msgs {
			if strings.HasPrefix(m, "🚀") || strings.HasPrefix(m, "❌") {
				return append([]string(nil), f.messages[id]...)
			}
		}
	}
	return nil
}

func TestReformRunEndToEnd(t *testing.T) {
	f := newFakeSurface(guildID)
	f.channels = []Channel{
		{ID: "ch-1", Name: "charla", Kind: "text"},
		{ID: "ch-2", Name: "viejo", Kind: "text"},
	}
	svc, runs := newReformService(f, &fakePlanner{resp: plannerOK})

	if err := svc.Run(context.Background(), guildID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, ok := f.roleByName("Mod"); !ok {
		t.Error("role Mod no creado")
	}
	if _, ok := f.channelByName("general"); !ok {
		t.Error("canal general no creado")
	}
	if _, ok := f.channelByName("viejo"); ok {
		t.Error("canal viejo no borrado")
	}

	// canales de texto lockeados antes de reformar
	lock := f.overwrites["ch-1"]
	send, _ := domain.PermissionBit("SendMessages")
	if len(lock) == 0 || lock[0].ID != guildID || lock[0].Deny&send == 0 {
		t.Errorf("lock de charla = %+v", lock)
	}

	msgs := statusMessages(f)
	if len(msgs) == 0 || !strings.HasPrefix(msgs[0], "🚀") {
		t.Fatalf("mensajes de estado = %v", msgs)
	}
	last := msgs[len(msgs)-1]
	if !strings.HasPrefix(last, "✅ Reform completado") {
		t.Errorf("mensaje terminal = %q", last)
	}

	// el canal de estado se baja después del teardown
	time.Sleep(50 * time.Millisecond)
	if _, ok := f.channelByName(domain.StatusChannelName); ok {
		t.Error("el canal de estado sigue vivo")
	}

	if runs.finished["run-1"] != "ok" {
		t.Errorf("auditoría = %q, esperaba ok", runs.finished["run-1"])
	}
	if svc.sched.IsActive(guildID) {
		t.Error("slot del scheduler no liberado")
	}
}

func TestReformRunInvalidPlannerResponse(t *testing.T) {
	f := newFakeSurface(guildID)
	svc, runs := newReformService(f, &fakePlanner{resp: "no soy json"})

	if err := svc.Run(context.Background(), guildID); err == nil {
		t.Fatal("Run aceptó una respuesta inválida del planner")
	}

	if f.rolesCreated != 0 || f.catsCreated != 0 {
		t.Error("una respuesta inválida igual mutó el guild")
	}
	msgs := statusMessages(f)
	found := false
	for _, m := range msgs {
		if strings.Contains(m, "Respuesta del AI inválida") {
			found = true
		}
	}
	if !found {
		t.Errorf("no se avisó el error en el canal de estado: %v", msgs)
	}
	if runs.finished["run-1"] != "failed" {
		t.Errorf("auditoría = %q, esperaba failed", runs.finished["run-1"])
	}
	if svc.sched.IsActive(guildID) {
		t.Error("slot del scheduler no liberado tras el fallo")
	}
}

func TestReformRunMutualExclusion(t *testing.T) {
	f := newFakeSurface(guildID)
	svc, _ := newReformService(f, &fakePlanner{resp: plannerOK})

	svc.sched.Enqueue(guildID)
	if err := svc.Run(context.Background(), guildID); err != ErrReformActive {
		t.Fatalf("Run con slot tomado: err = %v, esperaba ErrReformActive", err)
	}
}

func TestRequestApprovalFiltersAdmins(t *testing.T) {
	f := newFakeSurface(guildID)
	f.members = []Member{
		{ID: "owner-1", Admin: true},
		{ID: "a1", Admin: true},
		{ID: "bot-x", Admin: true, Bot: true},
		{ID: "pleb", Admin: false},
	}
	svc, _ := newReformService(f, &fakePlanner{resp: plannerOK})

	req, err := svc.RequestApproval(guildID)
	if err != nil {
		t.Fatalf("RequestApproval: %v", err)
	}
	if req.TotalAdmins != 2 {
		t.Errorf("TotalAdmins = %d, esperaba 2 (bots y no-admins afuera)", req.TotalAdmins)
	}
	if req.OwnerOnly {
		t.Error("OwnerOnly = true con dos admins")
	}

	// bot admin no puede confirmar aunque tenga el bit
	if svc.Confirm(guildID, "bot-x") {
		t.Error("un bot confirmó la aprobación")
	}

	svc.Confirm(guildID, "owner-1")
	out, ok := resolved(t, req.Outcome)
	if !ok || out != ApprovalConfirmed {
		t.Fatalf("outcome = %q, ok = %v", out, ok)
	}
}

func TestRequestApprovalOwnerOnly(t *testing.T) {
	f := newFakeSurface(guildID)
	f.members = []Member{{ID: "owner-1", Admin: true}}
	svc, _ := newReformService(f, &fakePlanner{resp: plannerOK})

	req, err := svc.RequestApproval(guildID)
	if err != nil {
		t.Fatalf("RequestApproval: %v", err)
	}
	if !req.OwnerOnly || req.Quorum != 1 {
		t.Errorf("req = %+v, esperaba owner-only con quorum 1", req)
	}
}

func TestRequestApprovalBlockedWhileReformActive(t *testing.T) {
	f := newFakeSurface(guildID)
	f.members = []Member{{ID: "owner-1", Admin: true}}
	svc, _ := newReformService(f, &fakePlanner{resp: plannerOK})

	svc.sched.Enqueue(guildID)
	if _, err := svc.RequestApproval(guildID); err != ErrReformActive {
		t.Fatalf("err = %v, esperaba ErrReformActive", err)
	}
}

func TestDeleteAllKeepsInvokerAndEveryone(t *testing.T) {
	f := newFakeSurface(guildID)
	f.roles = append(f.roles, Role{ID: "r1", Name: "Mod"})
	f.channels = []Channel{
		{ID: "ch-1", Name: "general", Kind: "text"},
		{ID: "ch-2", Name: "voz", Kind: "voice"},
	}
	svc, _ := newReformService(f, &fakePlanner{resp: plannerOK})

	if err := svc.DeleteAll(guildID, "ch-1"); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	if _, ok := f.roleByName("Mod"); ok {
		t.Error("role Mod sobrevivió al nuke")
	}
	if _, ok := f.roleByName("@everyone"); !ok {
		t.Error("everyone fue borrado")
	}
	if _, ok := f.channelByName("general"); !ok {
		t.Error("el canal invocador fue borrado")
	}
	if _, ok := f.channelByName("voz"); ok {
		t.Error("el canal de voz sobrevivió")
	}
}

func TestBuildReformPromptShape(t *testing.T) {
	meta := GuildMeta{Name: "Testland", Locale: "es-ES", OwnerID: "owner-1"}
	cfg := domain.GuildConfig{
		GuildID:     guildID,
		Context:     "server de prueba",
		Suggestions: []string{"más canales de voz"},
	}
	snap := domain.StructureSnapshot{Roles: []domain.RoleInfo{{Name: "Mod"}}}

	msgs := buildReformPrompt(meta, cfg, snap)
	if len(msgs) != 5 {
		t.Fatalf("mensajes = %d, esperaba 5", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[4].Role != "user" {
		t.Errorf("roles = %s..%s", msgs[0].Role, msgs[4].Role)
	}
	if !strings.Contains(msgs[1].Content, "server de prueba") {
		t.Error("el contexto del guild no está en el prompt")
	}
	if !strings.Contains(msgs[2].Content, "más canales de voz") {
		t.Error("las sugerencias no están en el prompt")
	}
	if !strings.Contains(msgs[4].Content, "es-ES") || !strings.Contains(msgs[4].Content, `"Mod"`) {
		t.Errorf("mensaje user = %q", msgs[4].Content)
	}
}
