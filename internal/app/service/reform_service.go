package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

var ErrReformActive = errors.New("ya hay un reform en curso para este guild")

// ReformService orquesta el workflow completo: aprobación → slot del
// scheduler → lock de canales → snapshot → planner → apply → reporte.
type ReformService struct {
	surface  GuildSurface
	planner  PlannerAPI
	repo     ConfigRepo
	runs     RunsRepo
	gate     *ApprovalGate
	sched    *ReformScheduler
	snap     *StructureSnapshotter
	applier  *StructureApplier
	reporter *StatusReporter
}

func NewReformService(surface GuildSurface, planner PlannerAPI, repo ConfigRepo, runs RunsRepo, gate *ApprovalGate, sched *ReformScheduler, reporter *StatusReporter) *ReformService {
	return &ReformService{
		surface:  surface,
		planner:  planner,
		repo:     repo,
		runs:     runs,
		gate:     gate,
		sched:    sched,
		snap:     NewStructureSnapshotter(surface),
		applier:  NewStructureApplier(surface),
		reporter: reporter,
	}
}

// ApprovalRequest es lo que el router necesita para armar el mensaje de
// confirmación y esperar el resultado.
type ApprovalRequest struct {
	Outcome     <-chan ApprovalOutcome
	Quorum      int
	TotalAdmins int
	OwnerOnly   bool
}

// RequestApproval abre la sesión de aprobación. El set de admins se captura
// acá una sola vez; cambios de permisos a mitad de la votación no cuentan.
func (s *ReformService) RequestApproval(guildID string) (ApprovalRequest, error) {
	if s.sched.IsActive(guildID) {
		return ApprovalRequest{}, ErrReformActive
	}

	meta, err := s.surface.GuildMeta(guildID)
	if err != nil {
		return ApprovalRequest{}, err
	}
	members, err := s.surface.Members(guildID)
	if err != nil {
		return ApprovalRequest{}, err
	}

	var adminIDs []string
	for _, m := range members {
		if m.Admin && !m.Bot {
			adminIDs = append(adminIDs, m.ID)
		}
	}

	ch, err := s.gate.Open(guildID, meta.OwnerID, adminIDs)
	if err != nil {
		return ApprovalRequest{}, err
	}
	return ApprovalRequest{
		Outcome:     ch,
		Quorum:      (len(adminIDs) + 1) / 2,
		TotalAdmins: len(adminIDs),
		OwnerOnly:   len(adminIDs) == 1 && adminIDs[0] == meta.OwnerID,
	}, nil
}

// Confirm registra el click de confirmación de un actor elegible.
func (s *ReformService) Confirm(guildID, actorID string) bool {
	return s.gate.Confirm(guildID, actorID)
}

// ApprovalPending indica si hay una votación abierta para el guild.
func (s *ReformService) ApprovalPending(guildID string) bool {
	return s.gate.Active(guildID)
}

// Run ejecuta el reform post-aprobación. No hay cancelación una vez arrancado:
// corre hasta completar o fallar, y el slot del scheduler se libera siempre.
func (s *ReformService) Run(ctx context.Context, guildID string) error {
	delay, ok := s.sched.Enqueue(guildID)
	if !ok {
		return ErrReformActive
	}
	defer s.sched.Release(guildID)

	runID, err := s.runs.Start(ctx, guildID)
	if err != nil {
		log.Printf("[reform] run audit guild=%s: %v", guildID, err)
	}
	outcome := "failed"
	defer func() {
		if runID != "" {
			if err := s.runs.Finish(context.Background(), runID, outcome); err != nil {
				log.Printf("[reform] run audit close: %v", err)
			}
		}
	}()

	s.lockAllChannels(guildID)

	if delay > 0 {
		log.Printf("[reform] guild=%s encolado, espera %s", guildID, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	st, err := s.reporter.Open(guildID)
	if err != nil {
		return fmt.Errorf("abrir canal de estado: %w", err)
	}
	var jobErr error
	defer func() {
		if jobErr != nil {
			st.Post("❌ Error durante el reform: " + jobErr.Error())
		}
		st.Close()
	}()

	st.Post("🚀 Arrancando el reform del servidor...")

	snapshot, err := s.snap.Capture(guildID)
	if err != nil {
		jobErr = fmt.Errorf("snapshot: %w", err)
		return jobErr
	}
	meta, err := s.surface.GuildMeta(guildID)
	if err != nil {
		jobErr = err
		return jobErr
	}
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		jobErr = fmt.Errorf("config: %w", err)
		return jobErr
	}

	raw, err := s.planner.Complete(ctx, buildReformPrompt(meta, cfg, snapshot))
	if err != nil {
		jobErr = fmt.Errorf("planner: %w", err)
		return jobErr
	}
	st.Post("🤖 Recomendaciones del AI recibidas...")

	cs, err := domain.ParseChangeSet(raw)
	if err != nil {
		st.Post("❌ Respuesta del AI inválida")
		jobErr = fmt.Errorf("parsear respuesta del AI: %w", err)
		return jobErr
	}

	rep, err := s.applier.Apply(guildID, cs, st.Post)
	if err != nil {
		jobErr = fmt.Errorf("apply: %w", err)
		return jobErr
	}

	st.Post(fmt.Sprintf("✅ Reform completado: %d roles, %d categorías, %d canales nuevos, %d borrados.",
		rep.RolesCreated, rep.CategoriesCreated, rep.ChannelsCreated, rep.Deleted))
	outcome = "ok"
	log.Printf("[reform] guild=%s ok: %+v", guildID, rep)
	return nil
}

// DeleteAll borra todos los roles, canales y categorías del guild menos el
// role everyone y el canal desde donde se invocó. Best-effort por ítem.
func (s *ReformService) DeleteAll(guildID, keepChannelID string) error {
	roles, err := s.surface.Roles(guildID)
	if err != nil {
		return err
	}
	for _, r := range roles {
		if r.ID == guildID {
			continue
		}
		if err := s.surface.RoleDelete(guildID, r.ID); err != nil {
			log.Printf("[nuke] role %q: %v", r.Name, err)
		}
	}
	channels, err := s.surface.Channels(guildID)
	if err != nil {
		return err
	}
	for _, ch := range channels {
		if ch.ID == keepChannelID {
			continue
		}
		if err := s.surface.ChannelDelete(ch.ID); err != nil {
			log.Printf("[nuke] channel %q: %v", ch.Name, err)
		}
	}
	return nil
}

// lockAllChannels congela la escritura de everyone en todos los canales de
// texto antes de reformar. Best-effort: un canal que falla no frena el resto.
func (s *ReformService) lockAllChannels(guildID string) {
	channels, err := s.surface.Channels(guildID)
	if err != nil {
		log.Printf("[reform] lock guild=%s: %v", guildID, err)
		return
	}
	deny := domain.ResolvePermissions([]string{"SendMessages", "AddReactions"})
	for _, ch := range channels {
		if ch.Kind != "text" {
			continue
		}
		if err := s.surface.OverwriteSet(ch.ID, Overwrite{ID: guildID, Deny: deny}); err != nil {
			log.Printf("[reform] lock %q: %v", ch.Name, err)
		}
	}
}

func buildReformPrompt(meta GuildMeta, cfg domain.GuildConfig, snapshot domain.StructureSnapshot) []domain.ChatMessage {
	snapJSON, _ := json.Marshal(snapshot)

	suggestions := ""
	if len(cfg.Suggestions) > 0 {
		suggestions = "Suggestions to implement (if empty, there's none):\n" + strings.Join(cfg.Suggestions, "\n")
	}

	return []domain.ChatMessage{
		{Role: "system", Content: "You are assisting in a server reform."},
		{Role: "system", Content: fmt.Sprintf("CONTEXT: %s\nJSON example:\n%s", cfg.Context, plannerExampleJSON)},
		{Role: "system", Content: suggestions},
		{Role: "system", Content: "Respond with valid JSON for new/modified structures only. Do not duplicate existing roles/channels unless modifications are needed. Perform a full reform, with lots of new changes. To give a role admin perms, include Administrator in the permissions array. Do NOT include text before or after the JSON, return the JSON alone, with no markdown. Do not ask questions."},
		{Role: "user", Content: fmt.Sprintf("Restructure this server considering the structure I'll give you and the provided suggestions (if they exist). Only provide new or modified elements. Do NOT include text before or after the JSON, don't use markdown. Just the JSON alone. Language: %s. Server structure: %s", meta.Locale, snapJSON)},
	}
}

// Esquema de ejemplo que se le muestra al modelo para fijar el formato.
const plannerExampleJSON = `{
  "roles": [
    {"name": "Server Admin", "permissions": ["Administrator"]},
    {"name": "Moderator", "permissions": ["ManageMessages", "KickMembers", "BanMembers", "ManageNicknames", "ViewAuditLog"]},
    {"name": "Event Manager", "permissions": ["ManageEvents", "ManageThreads", "CreatePublicThreads", "CreatePrivateThreads"]},
    {"name": "Regular Member", "permissions": ["ViewChannel", "SendMessages", "EmbedLinks", "AttachFiles", "AddReactions", "UseExternalEmojis"]}
  ],
  "categories": [
    {"name": "INFORMATION"},
    {"name": "COMMUNITY"},
    {"name": "EVENTS"},
    {"name": "VOICE LOUNGES"}
  ],
  "channels": [
    {"name": "welcome", "type": "text", "category": "INFORMATION", "description": "Welcome to our server! Please read the rules.", "permissions": [{"role": "Regular Member", "permissions": {"SendMessages": false, "AddReactions": true}}]},
    {"name": "rules", "type": "text", "category": "INFORMATION", "description": "Server rules and guidelines", "permissions": [{"role": "Regular Member", "permissions": {"SendMessages": false, "AddReactions": false}}]},
    {"name": "announcements", "type": "text", "category": "INFORMATION", "description": "Important server announcements", "permissions": [{"role": "Regular Member", "permissions": {"SendMessages": false, "AddReactions": true}}]},
    {"name": "general-chat", "type": "text", "category": "COMMUNITY", "description": "General discussion channel"},
    {"name": "memes", "type": "text", "category": "COMMUNITY", "description": "Share your favorite memes"},
    {"name": "event-planning", "type": "text", "category": "EVENTS", "description": "Plan and discuss upcoming events", "permissions": [{"role": "Event Manager", "permissions": {"ManageMessages": true, "MentionEveryone": true}}]},
    {"name": "Gaming Lounge", "type": "voice", "category": "VOICE LOUNGES"},
    {"name": "Chill Zone", "type": "voice", "category": "VOICE LOUNGES"}
  ],
  "delete": ["old-announcements", "outdated-rules", "archived-chat"]
}`
