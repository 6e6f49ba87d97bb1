package update

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setTestState(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	return filepath.Join(dir, "damngood", "update-check.json")
}

func TestLoadState_NoFile(t *testing.T) {
	setTestState(t)

	state, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState returned error: %v", err)
	}

	if !state.LastCheckedAt.IsZero() {
		t.Errorf("expected zero LastCheckedAt, got %v", state.LastCheckedAt)
	}

	if state.LatestVersion != "" {
		t.Errorf("expected empty LatestVersion, got %q", state.LatestVersion)
	}
}

func TestSaveAndLoadState(t *testing.T) {
	stateFile := setTestState(t)

	now := time.Now().Truncate(time.Second)
	original := &State{
		LastCheckedAt:  now,
		LatestVersion:  "1.2.3",
		CurrentVersion: "1.0.0",
		ReleaseURL:     "https://example.com/release",
	}

	if err := SaveState(original); err != nil {
		t.Fatalf("SaveState returned error: %v", err)
	}

	if _, err := os.Stat(stateFile); os.IsNotExist(err) {
		t.Fatal("state file was not created")
	}

	loaded, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState returned error: %v", err)
	}

	if !loaded.LastCheckedAt.Equal(now) {
		t.Errorf("LastCheckedAt: got %v, want %v", loaded.LastCheckedAt, now)
	}

	if loaded.LatestVersion != "1.2.3" {
		t.Errorf("LatestVersion: got %q, want %q", loaded.LatestVersion, "1.2.3")
	}

	if loaded.ReleaseURL != "https://example.com/release" {
		t.Errorf("ReleaseURL: got %q", loaded.ReleaseURL)
	}
}

func TestShouldCheck(t *testing.T) {
	fresh := &State{LastCheckedAt: time.Now()}
	if fresh.ShouldCheck() {
		t.Error("ShouldCheck returned true for fresh state")
	}

	stale := &State{LastCheckedAt: time.Now().Add(-25 * time.Hour)}
	if !stale.ShouldCheck() {
		t.Error("ShouldCheck returned false for stale state")
	}

	zero := &State{}
	if !zero.ShouldCheck() {
		t.Error("ShouldCheck returned false for zero-time state")
	}
}

func TestHasUpdate(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		current string
		want    bool
	}{
		{"newer available", State{LatestVersion: "2.0.0"}, "1.0.0", true},
		{"same version", State{LatestVersion: "1.0.0"}, "1.0.0", false},
		{"older cached", State{LatestVersion: "0.9.0"}, "1.0.0", false},
		{"empty latest", State{LatestVersion: ""}, "1.0.0", false},
		{"empty current", State{LatestVersion: "2.0.0"}, "", false},
		{"dev current", State{LatestVersion: "2.0.0"}, "dev", false},
		{"invalid latest", State{LatestVersion: "not-a-version"}, "1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.HasUpdate(tt.current); got != tt.want {
				t.Errorf("HasUpdate(%q) = %v, want %v", tt.current, got, tt.want)
			}
		})
	}
}

func TestLoadState_CorruptedFile(t *testing.T) {
	stateFile := setTestState(t)

	if err := os.MkdirAll(filepath.Dir(stateFile), 0o700); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(stateFile, []byte("not json{{{"), 0o600); err != nil {
		t.Fatal(err)
	}

	// A corrupt cache means we just check again; never an error.
	state, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState returned error for corrupt file: %v", err)
	}

	if !state.ShouldCheck() {
		t.Error("corrupt state should force a fresh check")
	}
}
