package storage

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// Document es el JSON completo en disco: tres mapas top-level keyed por guild.
type Document struct {
	Suggestions       map[string][]string `json:"suggestions"`
	Contexts          map[string]string   `json:"contexts"`
	ChannelWhitelists map[string][]string `json:"channelWhitelists"`
}

// JSONStore persiste la config por guild en un solo documento JSON, semántica
// read-whole/write-whole. El mutex protege el archivo, no el ciclo
// read-modify-write de los servicios (esa carrera es conocida y aceptada).
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// OpenJSON abre el store; si el archivo no existe lo inicializa con los tres
// mapas vacíos.
func OpenJSON(path string) (*JSONStore, error) {
	s := &JSONStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(Document{
			Suggestions:       map[string][]string{},
			Contexts:          map[string]string{},
			ChannelWhitelists: map[string][]string{},
		}); err != nil {
			return nil, err
		}
	}
	// valida que el documento se pueda leer
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) load() (Document, error) {
	var doc Document
	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, err
	}
	if doc.Suggestions == nil {
		doc.Suggestions = map[string][]string{}
	}
	if doc.Contexts == nil {
		doc.Contexts = map[string]string{}
	}
	if doc.ChannelWhitelists == nil {
		doc.ChannelWhitelists = map[string][]string{}
	}
	return doc, nil
}

func (s *JSONStore) save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Get devuelve la config del guild; un guild sin entradas da config vacía
// (se crea recién en el primer Put).
func (s *JSONStore) Get(_ context.Context, guildID string) (domain.GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return domain.GuildConfig{}, err
	}
	cfg := domain.GuildConfig{
		GuildID: guildID,
		Context: doc.Contexts[guildID],
	}
	// copias: el caller muta los slices
	cfg.Suggestions = append(cfg.Suggestions, doc.Suggestions[guildID]...)
	cfg.WhitelistedChannelIDs = append(cfg.WhitelistedChannelIDs, doc.ChannelWhitelists[guildID]...)
	return cfg, nil
}

func (s *JSONStore) Put(_ context.Context, cfg domain.GuildConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Contexts[cfg.GuildID] = cfg.Context
	doc.Suggestions[cfg.GuildID] = cfg.Suggestions
	doc.ChannelWhitelists[cfg.GuildID] = cfg.WhitelistedChannelIDs
	return s.save(doc)
}
