package components

import (
	"testing"

	"github.com/leagravellard/Projet-GENAI/schema"
)

func TestMemoryOverflow(t *testing.T) {
	mem := NewMemory(3)
	mem.NewTurn()
	for _, v := range []string{"un", "deux", "trois", "quatre"} {
		mem.NewMessage(UserRole, schema.String(v))
	}
	history := mem.History()
	if len(history) != 3 {
		t.Fatalf("expect 3 messages, but got %d", len(history))
	}
	if got := history[0].Text(); got != "deux" {
		t.Errorf("expect oldest message deux, but got %s", got)
	}
	if recent := mem.Recent(1); len(recent) != 1 || recent[0].Text() != "quatre" {
		t.Errorf("unexpected recent messages: %v", recent)
	}
}

func TestMemoryDeleteTurn(t *testing.T) {
	mem := NewMemory(0)
	first := mem.NewTurn()
	mem.NewMessage(UserRole, schema.String("Bonjour"))
	mem.NewMessage(AssistantRole, schema.String("Bonjour !"))
	second := mem.NewTurn()
	mem.NewMessage(UserRole, schema.String("3*4+2 ?"))
	if err := mem.DeleteTurn(second); err != nil {
		t.Fatal(err)
	}
	if mem.MessageCount() != 2 {
		t.Errorf("expect 2 messages, but got %d", mem.MessageCount())
	}
	if mem.TurnID() != first {
		t.Errorf("expect turn %s, but got %s", first, mem.TurnID())
	}
	if err := mem.DeleteTurn("missing"); err == nil {
		t.Error("expect error for missing turn")
	}
}
