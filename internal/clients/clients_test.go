package clients

import (
	"path/filepath"
	"testing"

	clierrors "github.com/5LV10/damngood/internal/errors"
)

func tempClients(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "clients.json")
}

func TestRegister_LowercasesAndDefaultsKey(t *testing.T) {
	store, err := Load(tempClients(t))
	if err != nil {
		t.Fatal(err)
	}

	d := store.Register("Windsurf", "/tmp/mcp.json", "")

	if d.Name != "windsurf" {
		t.Errorf("Name = %q, want lowercase", d.Name)
	}

	if d.Key != DefaultKey {
		t.Errorf("Key = %q, want %q", d.Key, DefaultKey)
	}

	if !d.Enabled || d.AutoDiscovered {
		t.Errorf("descriptor = %+v, want enabled manual client", d)
	}

	if _, ok := store.Get("WINDSURF"); !ok {
		t.Error("Get should be case-insensitive")
	}
}

func TestRemove_ProtectsAutoDiscovered(t *testing.T) {
	store, err := Load(tempClients(t))
	if err != nil {
		t.Fatal(err)
	}

	store.Merge([]Descriptor{{
		Name:           "cursor",
		Path:           "/home/u/.cursor/mcp.json",
		Key:            DefaultKey,
		AutoDiscovered: true,
		Enabled:        true,
	}})

	err = store.Remove("cursor")

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) {
		t.Fatalf("error is %T, want *CLIError", err)
	}

	if _, ok := store.Get("cursor"); !ok {
		t.Error("protected client was removed")
	}
}

func TestRemove_ManualClient(t *testing.T) {
	store, err := Load(tempClients(t))
	if err != nil {
		t.Fatal(err)
	}

	store.Register("windsurf", "/tmp/mcp.json", "")

	if err := store.Remove("windsurf"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if store.Len() != 0 {
		t.Error("client still present after Remove")
	}
}

func TestRemove_Unknown(t *testing.T) {
	store, err := Load(tempClients(t))
	if err != nil {
		t.Fatal(err)
	}

	var cliErr *clierrors.CLIError
	if err := store.Remove("ghost"); !clierrors.As(err, &cliErr) || cliErr.Code != clierrors.ExitNotFound {
		t.Errorf("Remove unknown = %v, want not-found CLIError", err)
	}
}

func TestMerge_PreservesUserState(t *testing.T) {
	store, err := Load(tempClients(t))
	if err != nil {
		t.Fatal(err)
	}

	discovered := []Descriptor{
		{Name: "cursor", Path: "/h/.cursor/mcp.json", Key: DefaultKey, AutoDiscovered: true, Enabled: true},
		{Name: "claude", Path: "/h/.claude/config.json", Key: DefaultKey, AutoDiscovered: true, Enabled: true},
	}

	if added := store.Merge(discovered); added != 2 {
		t.Fatalf("first Merge added %d, want 2", added)
	}

	// The user disables cursor; a rediscovery must not re-enable it.
	if err := store.SetEnabled("cursor", false); err != nil {
		t.Fatal(err)
	}

	if added := store.Merge(discovered); added != 0 {
		t.Errorf("second Merge added %d, want 0", added)
	}

	d, _ := store.Get("cursor")
	if d.Enabled {
		t.Error("discovery re-enabled a client the user disabled")
	}
}

func TestEnabled_SortedAndFiltered(t *testing.T) {
	store, err := Load(tempClients(t))
	if err != nil {
		t.Fatal(err)
	}

	store.Register("zed", "/z", "")
	store.Register("cursor", "/c", "")
	store.Register("gemini", "/g", "")

	if err := store.SetEnabled("gemini", false); err != nil {
		t.Fatal(err)
	}

	enabled := store.Enabled()
	if len(enabled) != 2 {
		t.Fatalf("Enabled() returned %d clients, want 2", len(enabled))
	}

	if enabled[0].Name != "cursor" || enabled[1].Name != "zed" {
		t.Errorf("Enabled() order = %s, %s; want cursor, zed", enabled[0].Name, enabled[1].Name)
	}
}

func TestSetEnabled_Unknown(t *testing.T) {
	store, err := Load(tempClients(t))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.SetEnabled("ghost", true); err == nil {
		t.Error("SetEnabled on unknown client should fail")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := tempClients(t)

	store, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	store.Register("opencode", "/h/.config/opencode/opencode.json", "mcp")

	if err := store.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	d, ok := reloaded.Get("opencode")
	if !ok {
		t.Fatal("client lost in round trip")
	}

	if d.Key != "mcp" {
		t.Errorf("Key = %q, want mcp", d.Key)
	}
}
