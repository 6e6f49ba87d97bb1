package doctor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func setTestEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}

	dataDir := filepath.Join(home, "data")
	t.Setenv("DAMNGOOD_REGISTRY_DIR", dataDir)

	return dataDir
}

func TestRunner_RunsChecksInOrder(t *testing.T) {
	r := &Runner{}
	r.AddCheck("first", func(context.Context) Result {
		return Result{Status: StatusPass, Message: "ok"}
	})
	r.AddCheck("second", func(context.Context) Result {
		return Result{Status: StatusFail, Message: "broken"}
	})

	results := r.Run(context.Background())

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if results[0].Name != "first" || results[1].Name != "second" {
		t.Errorf("order = %s, %s", results[0].Name, results[1].Name)
	}
}

func TestSummary(t *testing.T) {
	results := []Result{
		{Status: StatusPass},
		{Status: StatusPass},
		{Status: StatusWarn},
		{Status: StatusFail},
	}

	passed, failed, warnings := Summary(results)
	if passed != 2 || failed != 1 || warnings != 1 {
		t.Errorf("Summary = %d/%d/%d, want 2/1/1", passed, failed, warnings)
	}
}

func TestStatusSymbol(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPass, "ok"},
		{StatusWarn, "warn"},
		{StatusFail, "fail"},
	}

	for _, tt := range tests {
		if got := tt.status.Symbol(); got != tt.want {
			t.Errorf("Symbol(%v) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestCheckDataDir_CreatesAndPasses(t *testing.T) {
	dataDir := setTestEnv(t)

	res := checkDataDir(context.Background())
	if res.Status != StatusPass {
		t.Fatalf("checkDataDir = %+v", res)
	}

	if _, err := os.Stat(dataDir); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}

func TestCheckRegistry_WarnsWhenEmpty(t *testing.T) {
	setTestEnv(t)

	res := checkRegistry(context.Background())
	if res.Status != StatusWarn {
		t.Errorf("empty registry check = %+v, want warn", res)
	}
}

func TestCheckRegistry_FailsOnCorruptFile(t *testing.T) {
	dataDir := setTestEnv(t)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dataDir, "registry.json"), []byte("{bad"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := checkRegistry(context.Background())
	if res.Status != StatusFail {
		t.Errorf("corrupt registry check = %+v, want fail", res)
	}
}

func TestCheckClientFiles_SkipsMissingFiles(t *testing.T) {
	dataDir := setTestEnv(t)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}

	clientsDoc := `{"clients": {"cursor": {
		"name": "cursor",
		"path": "` + filepath.ToSlash(filepath.Join(dataDir, "nope.json")) + `",
		"key": "mcpServers",
		"auto_discovered": true,
		"enabled": true
	}}}`

	if err := os.WriteFile(filepath.Join(dataDir, "clients.json"), []byte(clientsDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	res := checkClientFiles(context.Background())
	if res.Status != StatusPass {
		t.Errorf("missing client file should not fail doctor: %+v", res)
	}
}

func TestCheckEditor_WarnsWhenNothingResolves(t *testing.T) {
	setTestEnv(t)
	t.Setenv("EDITOR", "")
	t.Setenv("PATH", t.TempDir())

	res := checkEditor(context.Background())
	if res.Status != StatusWarn {
		t.Errorf("checkEditor = %+v, want warn", res)
	}
}
