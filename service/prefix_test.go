package service

import "testing"

func openTestPrefixStore(t *testing.T) *PrefixStore {
	t.Helper()
	store, err := OpenPrefixStore(t.TempDir(), "e!")
	if err != nil {
		t.Fatalf("OpenPrefixStore: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestPrefixDefault(t *testing.T) {
	store := openTestPrefixStore(t)
	if got := store.Get("guild-1"); got != "e!" {
		t.Errorf("Get on unset guild = %q, want the default %q", got, "e!")
	}
}

func TestPrefixSetAndGet(t *testing.T) {
	store := openTestPrefixStore(t)
	if err := store.Set("guild-1", "!"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := store.Get("guild-1"); got != "!" {
		t.Errorf("Get = %q, want %q", got, "!")
	}
	if got := store.Get("guild-2"); got != "e!" {
		t.Errorf("other guild Get = %q, want the default", got)
	}
}
