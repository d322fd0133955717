package statemachine

import (
	"testing"

	"cafe-pos-api/models"
)

func TestKitchenWorkflowHappyPath(t *testing.T) {
	steps := []struct {
		from, to models.OrderStatus
		actor    string
	}{
		{models.StatusPending, models.StatusPreparing, "kitchen"},
		{models.StatusPreparing, models.StatusReady, "kitchen"},
		{models.StatusReady, models.StatusServed, "waiter"},
	}
	for _, s := range steps {
		if err := CanTransition(s.from, s.to, s.actor); err != nil {
			t.Errorf("%s -> %s by %s should be allowed: %v", s.from, s.to, s.actor, err)
		}
	}
}

func TestInvalidTransitionsRejected(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		actor    string
	}{
		{models.StatusPending, models.StatusReady, "kitchen"},    // skipping a step
		{models.StatusPending, models.StatusPreparing, "waiter"}, // wrong actor
		{models.StatusReady, models.StatusServed, "kitchen"},
		{models.StatusServed, models.StatusPending, "kitchen"}, // terminal
	}
	for _, s := range cases {
		if err := CanTransition(s.from, s.to, s.actor); err == nil {
			t.Errorf("%s -> %s by %s should be rejected", s.from, s.to, s.actor)
		}
	}
}

func TestServedIsTerminal(t *testing.T) {
	if nexts := ValidTransitionsFrom(models.StatusServed); len(nexts) != 0 {
		t.Fatalf("SERVED must be terminal, got next states %v", nexts)
	}
}
