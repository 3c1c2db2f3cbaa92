package cron

import (
	"context"
	"strings"
	"testing"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsOrderAndCopies(t *testing.T) {
	registry, err := NewRegistry(nil, &stubJob{name: "licensing_refresh"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	needed := &stubJob{name: "needed_states"}
	if err := registry.Register(needed); err != nil {
		t.Fatalf("register: %v", err)
	}

	if got := strings.Join(registry.Names(), ","); got != "licensing_refresh,needed_states" {
		t.Fatalf("unexpected order %q", got)
	}
	jobs := registry.Jobs()
	if jobs[1] != needed {
		t.Fatal("jobs returned out of order")
	}
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatal("internal slice leaked")
	}
}

func TestRegistryRejectsDuplicateAndBlankNames(t *testing.T) {
	registry, err := NewRegistry(&stubJob{name: "needed_states"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if err := registry.Register(&stubJob{name: "needed_states"}); err == nil {
		t.Fatal("expected duplicate name error")
	}
	if err := registry.Register(&stubJob{name: "  "}); err == nil {
		t.Fatal("expected blank name error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatal("expected nil job error")
	}
	if _, err := NewRegistry(&stubJob{name: "a"}, &stubJob{name: "a"}); err == nil {
		t.Fatal("expected constructor to reject duplicates")
	}
	if len(registry.Jobs()) != 1 {
		t.Fatalf("rejected jobs must not be stored, got %d", len(registry.Jobs()))
	}
}
