package interpreter_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dshills/insights/internal/interpreter"
	"github.com/dshills/insights/internal/json"
	"github.com/dshills/insights/internal/messages"
)

func noop(json.RawMessage, *int) error { return nil }

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := interpreter.NewRegistry(interpreter.DuplicateOverwrite)

	replaced, err := registry.Register(messages.ScopingGetCurrentState, noop)
	if err != nil || replaced {
		t.Fatalf("Register = %v, %v", replaced, err)
	}
	if registry.Get(messages.ScopingGetCurrentState) == nil {
		t.Fatal("expected non-nil callback")
	}
	if registry.Get(messages.ScopingAddSelector) != nil {
		t.Error("expected nil for missing type")
	}

	replaced, _ = registry.Register(messages.ScopingGetCurrentState, noop)
	if !replaced {
		t.Error("second registration should report replacement")
	}
	if registry.Count() != 1 {
		t.Errorf("Count() = %d, want 1", registry.Count())
	}
}

func TestRegistryListSortedAndClear(t *testing.T) {
	registry := interpreter.NewRegistry(interpreter.DuplicateReject)
	_, _ = registry.Register(messages.UserConfigGetCurrentState, noop)
	_, _ = registry.Register(messages.CommandGetCommands, noop)
	_, _ = registry.Register(messages.LaunchPanelGet, noop)

	list := registry.List()
	want := []messages.Type{messages.CommandGetCommands, messages.LaunchPanelGet, messages.UserConfigGetCurrentState}
	if len(list) != len(want) {
		t.Fatalf("List() = %v", list)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, list[i], want[i])
		}
	}

	registry.Unregister(messages.LaunchPanelGet)
	if registry.Has(messages.LaunchPanelGet) {
		t.Error("expected LaunchPanelGet to be unregistered")
	}

	registry.Clear()
	if registry.Count() != 0 {
		t.Errorf("Count() after Clear = %d", registry.Count())
	}
}

func TestCollector(t *testing.T) {
	interp := interpreter.New(interpreter.DefaultConfig().WithMetrics(), nil)
	_ = interp.RegisterTypeToPayloadCallback(messages.LaunchPanelGet, noop)
	_ = interp.RegisterTypeToPayloadCallback(messages.LaunchPanelSet, noop)

	_, _ = interp.Interpret(messages.Message{MessageType: messages.LaunchPanelGet})
	_, _ = interp.Interpret(messages.Message{MessageType: messages.LaunchPanelGet})
	_, _ = interp.Interpret(messages.Message{MessageType: "insights/nobody/home"})

	c := interpreter.NewCollector(interp)

	// Two types seen (one routed, one dropped): one series each.
	if n := testutil.CollectAndCount(c, "insights_interpreter_messages_total"); n != 2 {
		t.Errorf("messages_total series = %d, want 2", n)
	}
	if n := testutil.CollectAndCount(c, "insights_interpreter_registered_callbacks"); n != 1 {
		t.Errorf("registered_callbacks series = %d, want 1", n)
	}

	stats := interp.Metrics().TypeStats(messages.LaunchPanelGet)
	if stats.Count != 2 {
		t.Errorf("LaunchPanelGet count = %d, want 2", stats.Count)
	}
}

func TestCollectorWithoutMetrics(t *testing.T) {
	interp := interpreter.NewWithDefaults()
	c := interpreter.NewCollector(interp)

	if n := testutil.CollectAndCount(c); n != 1 {
		t.Errorf("series = %d, want only registered_callbacks", n)
	}
}
