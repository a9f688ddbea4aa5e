package service

import "github.com/Gen1xLol/AIsemble/internal/domain"

// StructureSnapshotter captura la topología actual del guild en la forma que
// consume el planner. Lectura pura, sin efectos; correr después del lock de
// canales para que el snapshot coincida con el estado congelado.
type StructureSnapshotter struct {
	surface GuildSurface
}

func NewStructureSnapshotter(surface GuildSurface) *StructureSnapshotter {
	return &StructureSnapshotter{surface: surface}
}

func (s *StructureSnapshotter) Capture(guildID string) (domain.StructureSnapshot, error) {
	var snap domain.StructureSnapshot

	roles, err := s.surface.Roles(guildID)
	if err != nil {
		return snap, err
	}
	for _, r := range roles {
		if r.ID == guildID { // everyone implícito, no va al snapshot
			continue
		}
		snap.Roles = append(snap.Roles, domain.RoleInfo{Name: r.Name})
	}

	channels, err := s.surface.Channels(guildID)
	if err != nil {
		return snap, err
	}

	catNames := make(map[string]string) // id -> nombre, para resolver parents
	for _, ch := range channels {
		if ch.Kind == "category" {
			catNames[ch.ID] = ch.Name
			snap.Categories = append(snap.Categories, domain.CategoryInfo{Name: ch.Name, ID: ch.ID})
		}
	}
	for _, ch := range channels {
		if ch.Kind == "category" {
			continue
		}
		kind := "text"
		if ch.Kind == "voice" {
			kind = "voice"
		}
		snap.Channels = append(snap.Channels, domain.ChannelInfo{
			Name:        ch.Name,
			Type:        kind,
			Category:    catNames[ch.ParentID],
			Description: ch.Topic,
		})
	}
	return snap, nil
}
