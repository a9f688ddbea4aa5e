package service

import (
	"testing"
	"time"
)

func TestSchedulerStaggerByPosition(t *testing.T) {
	q := NewReformScheduler(3 * time.Minute)

	cases := []struct {
		guild string
		want  time.Duration
	}{
		{"g1", 0},
		{"g2", 3 * time.Minute},
		{"g3", 6 * time.Minute},
	}
	for _, c := range cases {
		delay, ok := q.Enqueue(c.guild)
		if !ok {
			t.Fatalf("Enqueue(%s) rechazado", c.guild)
		}
		if delay != c.want {
			t.Errorf("Enqueue(%s) delay = %v, esperaba %v", c.guild, delay, c.want)
		}
	}
}

func TestSchedulerRejectsDuplicate(t *testing.T) {
	q := NewReformScheduler(time.Minute)

	if _, ok := q.Enqueue("g1"); !ok {
		t.Fatal("primer Enqueue rechazado")
	}
	if _, ok := q.Enqueue("g1"); ok {
		t.Error("Enqueue duplicado aceptado")
	}
	if !q.IsActive("g1") {
		t.Error("IsActive = false con el guild encolado")
	}
}

func TestSchedulerReleaseFreesSlot(t *testing.T) {
	q := NewReformScheduler(time.Minute)

	q.Enqueue("g1")
	q.Enqueue("g2")
	q.Release("g1")

	if q.IsActive("g1") {
		t.Error("g1 sigue activo después de Release")
	}
	// g1 liberado: re-encolar entra detrás de g2
	delay, ok := q.Enqueue("g1")
	if !ok || delay != time.Minute {
		t.Errorf("re-Enqueue: delay = %v, ok = %v; esperaba 1m detrás de g2", delay, ok)
	}

	// Release de un guild ausente no rompe nada
	q.Release("no-existe")
}
