package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

func newStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := OpenJSON(path)
	if err != nil {
		t.Fatalf("OpenJSON: %v", err)
	}
	return s, path
}

func TestOpenJSONInitializesFile(t *testing.T) {
	_, path := newStore(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("leer archivo: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("documento inicial inválido: %v", err)
	}
	for _, key := range []string{"suggestions", "contexts", "channelWhitelists"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("falta la clave top-level %q", key)
		}
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	s, path := newStore(t)
	ctx := context.Background()

	cfg := domain.GuildConfig{
		GuildID:               "g1",
		Context:               "server de prueba",
		Suggestions:           []string{"más memes", "menos spam"},
		WhitelistedChannelIDs: []string{"ch-1"},
	}
	if err := s.Put(ctx, cfg); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// releer desde disco con un store nuevo: persiste de verdad
	s2, err := OpenJSON(path)
	if err != nil {
		t.Fatalf("reabrir: %v", err)
	}
	got, err := s2.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Context != cfg.Context {
		t.Errorf("Context = %q", got.Context)
	}
	if len(got.Suggestions) != 2 || got.Suggestions[0] != "más memes" {
		t.Errorf("Suggestions = %v", got.Suggestions)
	}
	if len(got.WhitelistedChannelIDs) != 1 {
		t.Errorf("whitelist = %v", got.WhitelistedChannelIDs)
	}
}

func TestJSONStoreUnknownGuildIsEmpty(t *testing.T) {
	s, _ := newStore(t)

	cfg, err := s.Get(context.Background(), "nunca-visto")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.Context != "" || len(cfg.Suggestions) != 0 || len(cfg.WhitelistedChannelIDs) != 0 {
		t.Errorf("config de guild desconocido no vacía: %+v", cfg)
	}
}

func TestJSONStoreGetReturnsCopies(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.Put(ctx, domain.GuildConfig{GuildID: "g1", Suggestions: []string{"original"}})

	cfg, _ := s.Get(ctx, "g1")
	cfg.Suggestions[0] = "mutada"

	again, _ := s.Get(ctx, "g1")
	if again.Suggestions[0] != "original" {
		t.Error("Get devolvió el slice interno, no una copia")
	}
}

// Documenta la carrera read-modify-write conocida: dos escritores que leen la
// misma versión se pisan el update (último Put gana). Aceptado a frecuencia de
// comandos humanos.
func TestJSONStoreLastPutWins(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	a, _ := s.Get(ctx, "g1")
	b, _ := s.Get(ctx, "g1")

	a.GuildID, a.Suggestions = "g1", append(a.Suggestions, "de-a")
	b.GuildID, b.Suggestions = "g1", append(b.Suggestions, "de-b")

	s.Put(ctx, a)
	s.Put(ctx, b)

	final, _ := s.Get(ctx, "g1")
	if len(final.Suggestions) != 1 || final.Suggestions[0] != "de-b" {
		t.Errorf("Suggestions = %v, esperaba que el último Put pise al primero", final.Suggestions)
	}
}

func TestJSONStoreToleratesPartialDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte(`{"contexts": {"g1": "hola"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := OpenJSON(path)
	if err != nil {
		t.Fatalf("OpenJSON con documento parcial: %v", err)
	}
	cfg, err := s.Get(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.Context != "hola" {
		t.Errorf("Context = %q", cfg.Context)
	}
	// los mapas ausentes no rompen el Put
	cfg.Suggestions = append(cfg.Suggestions, "x")
	if err := s.Put(context.Background(), cfg); err != nil {
		t.Fatalf("Put sobre documento parcial: %v", err)
	}
}
