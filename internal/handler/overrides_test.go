package handler

import "testing"

func TestSessionOverridesPrune(t *testing.T) {
	so := NewSessionOverrides()
	for _, tok := range []string{"a", "b", "c"} {
		if _, err := so.Set(tok, "task:tk-001", "08:00"); err != nil {
			t.Fatalf("Set(%s): %v", tok, err)
		}
	}

	n := so.Prune(func(tok string) bool { return tok == "b" })
	if n != 2 {
		t.Errorf("pruned %d, want 2", n)
	}
	if len(so.Get("a")) != 0 || len(so.Get("c")) != 0 {
		t.Error("dead sessions kept their overrides")
	}
	if so.Get("b")["task:tk-001"] != "08:00" {
		t.Error("live session lost its override")
	}
}
