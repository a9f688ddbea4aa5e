package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// fakeSurface: guild en memoria para probar snapshot/applier/reform sin tocar
// la API real. El role everyone se siembra con ID == guildID.
type fakeSurface struct {
	mu      sync.Mutex
	guildID string
	botID   string
	meta    GuildMeta

	members  []Member
	roles    []Role
	channels []Channel

	rolePerms  map[string]int64       // roleID -> permisos al crear
	createOws  map[string][]Overwrite // channelID -> overwrites al crear
	overwrites map[string][]Overwrite // channelID -> OverwriteSet acumulados
	resets     map[string][]Overwrite // channelID -> último ChannelSetOverwrites
	parents    map[string]string      // channelID -> parentID seteado
	messages   map[string][]string    // channelID -> mensajes posteados
	history    map[string][]domain.HistoryMessage
	deleted    []string

	rolesCreated    int
	catsCreated     int
	channelsCreated int
	nextID          int

	failRoleCreate map[string]bool // nombre -> falla simulada
}

func newFakeSurface(guildID string) *fakeSurface {
	return &fakeSurface{
		guildID:        guildID,
		botID:          "bot-1",
		meta:           GuildMeta{Name: "Testland", Locale: "es-ES", OwnerID: "owner-1"},
		roles:          []Role{{ID: guildID, Name: "@everyone"}},
		rolePerms:      map[string]int64{},
		createOws:      map[string][]Overwrite{},
		overwrites:     map[string][]Overwrite{},
		resets:         map[string][]Overwrite{},
		parents:        map[string]string{},
		messages:       map[string][]string{},
		history:        map[string][]domain.HistoryMessage{},
		failRoleCreate: map[string]bool{},
	}
}

func (f *fakeSurface) genID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeSurface) BotID() string { return f.botID }

func (f *fakeSurface) GuildMeta(string) (GuildMeta, error) { return f.meta, nil }

func (f *fakeSurface) Members(string) ([]Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Member(nil), f.members...), nil
}

func (f *fakeSurface) Roles(string) ([]Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Role(nil), f.roles...), nil
}

func (f *fakeSurface) Channels(string) ([]Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Channel(nil), f.channels...), nil
}

func (f *fakeSurface) RoleCreate(_, name string, perms int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRoleCreate[name] {
		return "", fmt.Errorf("role create %q: api error", name)
	}
	id := f.genID("role")
	f.roles = append(f.roles, Role{ID: id, Name: name})
	f.rolePerms[id] = perms
	f.rolesCreated++
	return id, nil
}

func (f *fakeSurface) RoleDelete(_, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.roles {
		if r.ID == roleID {
			f.roles = append(f.roles[:i], f.roles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("role %s no existe", roleID)
}

func (f *fakeSurface) CategoryCreate(_, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.genID("cat")
	f.channels = append(f.channels, Channel{ID: id, Name: name, Kind: "category"})
	f.catsCreated++
	return id, nil
}

func (f *fakeSurface) ChannelCreate(_, name, kind, topic string, ows []Overwrite) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.genID("chan")
	f.channels = append(f.channels, Channel{ID: id, Name: name, Kind: kind, Topic: topic})
	f.createOws[id] = append([]Overwrite(nil), ows...)
	f.channelsCreated++
	return id, nil
}

func (f *fakeSurface) ChannelDelete(channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ch := range f.channels {
		if ch.ID == channelID {
			f.channels = append(f.channels[:i], f.channels[i+1:]...)
			f.deleted = append(f.deleted, channelID)
			return nil
		}
	}
	return fmt.Errorf("canal %s no existe", channelID)
}

func (f *fakeSurface) ChannelSetParent(channelID, parentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ch := range f.channels {
		if ch.ID == channelID {
			f.channels[i].ParentID = parentID
			f.parents[channelID] = parentID
			return nil
		}
	}
	return fmt.Errorf("canal %s no existe", channelID)
}

func (f *fakeSurface) ChannelSetOverwrites(channelID string, ows []Overwrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets[channelID] = append([]Overwrite(nil), ows...)
	return nil
}

func (f *fakeSurface) OverwriteSet(channelID string, ow Overwrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overwrites[channelID] = append(f.overwrites[channelID], ow)
	return nil
}

func (f *fakeSurface) SendMessage(channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[channelID] = append(f.messages[channelID], content)
	return nil
}

func (f *fakeSurface) ChannelHistory(channelID, _ string, _ int) ([]domain.HistoryMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.HistoryMessage(nil), f.history[channelID]...), nil
}

func (f *fakeSurface) channelByName(name string) (Channel, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.channels {
		if ch.Name == name {
			return ch, true
		}
	}
	return Channel{}, false
}

func (f *fakeSurface) roleByName(name string) (Role, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}

// --- planner fake ---

type fakePlanner struct {
	resp  string
	err   error
	calls int
}

func (p *fakePlanner) Complete(context.Context, []domain.ChatMessage) (string, error) {
	p.calls++
	return p.resp, p.err
}

// --- repo fake en memoria ---

type memRepo struct {
	mu   sync.Mutex
	cfgs map[string]domain.GuildConfig
}

func newMemRepo() *memRepo { return &memRepo{cfgs: map[string]domain.GuildConfig{}} }

func (r *memRepo) Get(_ context.Context, guildID string) (domain.GuildConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.cfgs[guildID]
	if !ok {
		return domain.GuildConfig{GuildID: guildID}, nil
	}
	out := domain.GuildConfig{GuildID: guildID, Context: cfg.Context}
	out.Suggestions = append(out.Suggestions, cfg.Suggestions...)
	out.WhitelistedChannelIDs = append(out.WhitelistedChannelIDs, cfg.WhitelistedChannelIDs...)
	return out, nil
}

func (r *memRepo) Put(_ context.Context, cfg domain.GuildConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfgs[cfg.GuildID] = cfg
	return nil
}

// --- auditoría fake ---

type fakeRuns struct {
	mu       sync.Mutex
	started  []string
	finished map[string]string // runID -> outcome
	n        int
}

func newFakeRuns() *fakeRuns { return &fakeRuns{finished: map[string]string{}} }

func (r *fakeRuns) Start(_ context.Context, guildID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	id := fmt.Sprintf("run-%d", r.n)
	r.started = append(r.started, guildID)
	return id, nil
}

func (r *fakeRuns) Finish(_ context.Context, runID, outcome string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished[runID] = outcome
	return nil
}
