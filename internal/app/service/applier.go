package service

import (
	"log"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// ApplyReport resume lo que efectivamente se tocó en un apply.
type ApplyReport struct {
	Deleted           int
	RolesCreated      int
	CategoriesCreated int
	ChannelsCreated   int
	Moved             int
	PermissionsSet    int
}

// pendingChannel: canal recién creado con referencias sin resolver (categoría
// y overwrites por role). Se resuelven en pases posteriores, cuando ya existen
// los ids de categorías y roles.
type pendingChannel struct {
	id       string
	name     string
	category string
	perms    []domain.ChannelRolePerms
}

// StructureApplier ejecuta un ChangeSet contra el guild vivo, idempotente y en
// orden de dependencias: deletes, roles, categorías, canales, moves, permisos.
// Cada ítem está aislado: un fallo se loguea y no corta el resto (mutación
// bulk best-effort, no transaccional).
type StructureApplier struct {
	surface GuildSurface
}

func NewStructureApplier(surface GuildSurface) *StructureApplier {
	return &StructureApplier{surface: surface}
}

func (a *StructureApplier) Apply(guildID string, cs domain.ChangeSet, notify func(string)) (ApplyReport, error) {
	var rep ApplyReport
	if notify == nil {
		notify = func(string) {}
	}
	if err := cs.Validate(); err != nil {
		return rep, err
	}

	roles, err := a.surface.Roles(guildID)
	if err != nil {
		return rep, err
	}
	channels, err := a.surface.Channels(guildID)
	if err != nil {
		return rep, err
	}

	roleIDs := make(map[string]string, len(roles)) // nombre -> id
	for _, r := range roles {
		roleIDs[r.Name] = r.ID
	}
	chanIDs := make(map[string]string, len(channels)) // nombre -> id (canales y categorías)
	catIDs := make(map[string]string)                 // nombre -> id, solo categorías
	for _, ch := range channels {
		chanIDs[ch.Name] = ch.ID
		if ch.Kind == "category" {
			catIDs[ch.Name] = ch.ID
		}
	}

	// 1) deletes: best-effort contra nombres posiblemente stale; los que no
	// existen se saltan sin error.
	if len(cs.Delete) > 0 {
		notify("🗑️ Eliminando canales y categorías viejas...")
		for _, name := range cs.Delete {
			id, ok := chanIDs[name]
			if !ok {
				continue
			}
			if err := a.surface.ChannelDelete(id); err != nil {
				log.Printf("[reform] delete %q: %v", name, err)
				continue
			}
			delete(chanIDs, name)
			delete(catIDs, name)
			rep.Deleted++
		}
	}

	// 2) roles: solo los que no existen por nombre. Los existentes no se
	// tocan, el reform es aditivo, no pisa permisos.
	if len(cs.Roles) > 0 {
		notify("👥 Creando roles nuevos...")
		for _, r := range cs.Roles {
			if _, ok := roleIDs[r.Name]; ok {
				continue
			}
			perms := domain.ResolvePermissions(r.Permissions)
			id, err := a.surface.RoleCreate(guildID, r.Name, perms)
			if err != nil {
				log.Printf("[reform] role create %q: %v", r.Name, err)
				continue
			}
			roleIDs[r.Name] = id
			rep.RolesCreated++
		}
	}

	// 3) categorías: crear faltantes, reusar id de las existentes. Nunca se
	// borran implícitamente.
	if len(cs.Categories) > 0 {
		notify("📁 Creando categorías...")
		for _, c := range cs.Categories {
			if _, ok := catIDs[c.Name]; ok {
				continue
			}
			id, err := a.surface.CategoryCreate(guildID, c.Name)
			if err != nil {
				log.Printf("[reform] category create %q: %v", c.Name, err)
				continue
			}
			catIDs[c.Name] = id
			chanIDs[c.Name] = id
			rep.CategoriesCreated++
		}
	}

	// 4) canales: crear con baseline deny-everyone / allow-bot; categoría y
	// permisos finos quedan pendientes para los pases 5 y 6.
	var pending []pendingChannel
	if len(cs.Channels) > 0 {
		notify("💬 Creando canales...")
		for _, ch := range cs.Channels {
			if _, ok := chanIDs[ch.Name]; ok {
				continue
			}
			kind := "text"
			if ch.Type == "voice" {
				kind = "voice"
			}
			id, err := a.surface.ChannelCreate(guildID, ch.Name, kind, ch.Description, a.defaultOverwrites(guildID))
			if err != nil {
				log.Printf("[reform] channel create %q: %v", ch.Name, err)
				continue
			}
			chanIDs[ch.Name] = id
			rep.ChannelsCreated++
			if ch.Category != "" || len(ch.Permissions) > 0 {
				pending = append(pending, pendingChannel{id: id, name: ch.Name, category: ch.Category, perms: ch.Permissions})
			}
		}
	}

	// 5) mover canales a sus categorías
	moves := 0
	for _, p := range pending {
		if p.category != "" {
			moves++
		}
	}
	if moves > 0 {
		notify("📋 Organizando canales en categorías...")
		for _, p := range pending {
			if p.category == "" {
				continue
			}
			catID, ok := catIDs[p.category]
			if !ok {
				log.Printf("[reform] move %q: categoría %q desconocida", p.name, p.category)
				continue
			}
			if err := a.surface.ChannelSetParent(p.id, catID); err != nil {
				log.Printf("[reform] move %q -> %q: %v", p.name, p.category, err)
				continue
			}
			rep.Moved++
		}
	}

	// 6) overwrites por role: reset al baseline y después una entrada por
	// role pedido. Roles desconocidos se saltan.
	withPerms := 0
	for _, p := range pending {
		if len(p.perms) > 0 {
			withPerms++
		}
	}
	if withPerms > 0 {
		notify("🔒 Aplicando permisos de canal...")
		for _, p := range pending {
			if len(p.perms) == 0 {
				continue
			}
			if err := a.surface.ChannelSetOverwrites(p.id, a.visibleBaseline(guildID)); err != nil {
				log.Printf("[reform] perms reset %q: %v", p.name, err)
				continue
			}
			for _, rp := range p.perms {
				roleID, ok := roleIDs[rp.Role]
				if !ok {
					continue
				}
				var allow, deny int64
				for name, on := range rp.Permissions {
					bit, known := domain.PermissionBit(name)
					if !known {
						continue
					}
					if on {
						allow |= bit
					} else {
						deny |= bit
					}
				}
				if err := a.surface.OverwriteSet(p.id, Overwrite{ID: roleID, Allow: allow, Deny: deny}); err != nil {
					log.Printf("[reform] perms %q role=%q: %v", p.name, rp.Role, err)
					continue
				}
				rep.PermissionsSet++
			}
		}
	}

	return rep, nil
}

// Baseline de creación: everyone no ve ni escribe ni conecta, el bot sí puede
// seguir administrando el canal.
func (a *StructureApplier) defaultOverwrites(guildID string) []Overwrite {
	return []Overwrite{
		{ID: guildID, Deny: domain.ResolvePermissions([]string{"ViewChannel", "SendMessages", "Connect"})},
		{ID: a.surface.BotID(), Member: true, Allow: domain.ResolvePermissions([]string{"ViewChannel", "SendMessages", "ManageChannels", "ManageRoles"})},
	}
}

// Baseline previo a permisos finos: visible pero de solo lectura.
func (a *StructureApplier) visibleBaseline(guildID string) []Overwrite {
	return []Overwrite{
		{ID: guildID, Allow: domain.ResolvePermissions([]string{"ViewChannel"}), Deny: domain.ResolvePermissions([]string{"SendMessages", "Connect"})},
		{ID: a.surface.BotID(), Member: true, Allow: domain.ResolvePermissions([]string{"ViewChannel", "SendMessages", "ManageChannels", "ManageRoles"})},
	}
}
