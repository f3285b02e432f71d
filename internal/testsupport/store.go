package testsupport

import (
	"context"
	"testing"

	"ffjob/internal/config"
	"ffjob/internal/job"
	"ffjob/internal/optionset"
)

// MustOpenStore opens the option-set store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *optionset.Store {
	t.Helper()

	store, err := optionset.Open(context.Background(), cfg.OptionSets.DBPath)
	if err != nil {
		t.Fatalf("optionset.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// PutOptionSet stores a named option set for tests.
func PutOptionSet(t testing.TB, store *optionset.Store, name string, opts job.Options) *optionset.Set {
	t.Helper()

	set, err := store.Put(context.Background(), optionset.Set{Name: name, Options: opts})
	if err != nil {
		t.Fatalf("store.Put: %v", err)
	}
	return set
}
