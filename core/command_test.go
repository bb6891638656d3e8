package core

import "testing"

func TestCommandTable(t *testing.T) {
	table := NewCommandTable()

	var called string
	table.Register("ping", "ping", Literal("ping"), func(line string) {
		called = line
	})

	cmd, ok := table.Lookup("ping")
	if !ok {
		t.Fatal("Failed to retrieve registered command")
	}
	if cmd.Name != "ping" {
		t.Errorf("Expected command name 'ping', got '%s'", cmd.Name)
	}

	if !table.Dispatch("ping") {
		t.Error("Expected ping to match")
	}
	if called != "ping" {
		t.Error("Command handler was not called")
	}

	// Unmatched lines go to the fallback
	var fallback string
	table.SetFallback(func(line string) { fallback = line })
	if table.Dispatch("pong") {
		t.Error("Expected pong not to match")
	}
	if fallback != "pong" {
		t.Errorf("Expected fallback for 'pong', got %q", fallback)
	}
}

func TestCommandTableOrder(t *testing.T) {
	table := NewCommandTable()

	var hits []string
	anything := func(string) bool { return true }
	table.Register("first", "a", anything, func(string) { hits = append(hits, "first") })
	table.Register("second", "b", anything, func(string) { hits = append(hits, "second") })
	table.Register("third", "c", Literal("c"), func(string) { hits = append(hits, "third") })

	if table.Count() != 3 {
		t.Errorf("Expected 3 commands, got %d", table.Count())
	}

	table.Dispatch("c")
	if len(hits) != 1 || hits[0] != "first" {
		t.Errorf("Expected first match to win, got %v", hits)
	}

	if got := table.Usage(); got != "a b c" {
		t.Errorf("Expected usage 'a b c', got %q", got)
	}
}

func TestCommandTableDuplicate(t *testing.T) {
	table := NewCommandTable()

	var hit string
	table.Register("cmd", "one", Literal("x"), func(string) { hit = "one" })
	table.Register("cmd", "two", Literal("x"), func(string) { hit = "two" })

	if table.Count() != 1 {
		t.Errorf("Expected duplicate to be ignored, got %d commands", table.Count())
	}
	table.Dispatch("x")
	if hit != "one" {
		t.Errorf("Expected first registration to be kept, got %q", hit)
	}
}

func TestCommandTableNoFallback(t *testing.T) {
	table := NewCommandTable()
	if table.Dispatch("anything") {
		t.Error("Expected no match on empty table")
	}
}

func TestLiteral(t *testing.T) {
	match := Literal("test")
	for line, want := range map[string]bool{
		"test":  true,
		"TEST":  false,
		"test ": false,
		" test": false,
		"tes":   false,
		"":      false,
	} {
		if got := match(line); got != want {
			t.Errorf("Literal(test)(%q): expected %v, got %v", line, want, got)
		}
	}
}
