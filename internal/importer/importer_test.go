package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/5LV10/damngood/internal/clients"
	"github.com/5LV10/damngood/internal/registry"
)

// scriptedDecider replays a fixed list of decisions and records what it was
// asked about.
type scriptedDecider struct {
	answers []Decision
	asked   []string
}

func (d *scriptedDecider) Decide(serverName, clientName string) (Decision, error) {
	d.asked = append(d.asked, serverName+"@"+clientName)

	if len(d.answers) == 0 {
		return No, nil
	}

	answer := d.answers[0]
	d.answers = d.answers[1:]

	return answer, nil
}

func emptyRegistry(t *testing.T) *registry.Store {
	t.Helper()

	reg, err := registry.Load(filepath.Join(t.TempDir(), "registry.json"))
	if err != nil {
		t.Fatal(err)
	}

	return reg
}

func writeClient(t *testing.T, name, key, content string) clients.Descriptor {
	t.Helper()

	path := filepath.Join(t.TempDir(), name+".json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return clients.Descriptor{Name: name, Path: path, Key: key, Enabled: true}
}

func TestRun_ImportsAcceptedEntries(t *testing.T) {
	reg := emptyRegistry(t)
	cursor := writeClient(t, "cursor", "mcpServers", `{
		"mcpServers": {
			"alpha": {"command": "npx", "args": ["alpha"]},
			"beta": {"command": "deno"}
		}
	}`)

	decider := &scriptedDecider{answers: []Decision{Yes, No}}

	imported, err := Run(reg, []clients.Descriptor{cursor}, decider)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !reflect.DeepEqual(imported, []string{"alpha"}) {
		t.Errorf("imported = %v, want [alpha]", imported)
	}

	rec, ok := reg.Get("alpha")
	if !ok {
		t.Fatal("alpha not in registry")
	}

	if !reflect.DeepEqual(rec.Clients, []string{"cursor"}) {
		t.Errorf("Clients = %v, want attribution to cursor", rec.Clients)
	}

	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("imported record missing timestamps")
	}

	if reg.Has("beta") {
		t.Error("declined entry was imported")
	}
}

func TestRun_SkipAllStopsEverything(t *testing.T) {
	reg := emptyRegistry(t)
	cursor := writeClient(t, "cursor", "mcpServers", `{
		"mcpServers": {"alpha": {"command": "a"}, "beta": {"command": "b"}}
	}`)
	gemini := writeClient(t, "gemini", "mcpServers", `{
		"mcpServers": {"gamma": {"command": "g"}}
	}`)

	decider := &scriptedDecider{answers: []Decision{Yes, SkipAll}}

	imported, err := Run(reg, []clients.Descriptor{cursor, gemini}, decider)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !reflect.DeepEqual(imported, []string{"alpha"}) {
		t.Errorf("imported = %v, want [alpha]", imported)
	}

	// Candidates are visited in sorted order, so beta triggers the skip-all
	// and gamma is never offered.
	want := []string{"alpha@cursor", "beta@cursor"}
	if !reflect.DeepEqual(decider.asked, want) {
		t.Errorf("asked = %v, want %v", decider.asked, want)
	}
}

func TestRun_ExistingCentralNamesSkippedSilently(t *testing.T) {
	reg := emptyRegistry(t)
	if err := reg.Add("alpha", registry.ServerRecord{Command: "central"}); err != nil {
		t.Fatal(err)
	}

	cursor := writeClient(t, "cursor", "mcpServers", `{
		"mcpServers": {"alpha": {"command": "local"}}
	}`)

	decider := &scriptedDecider{}

	imported, err := Run(reg, []clients.Descriptor{cursor}, decider)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(imported) != 0 {
		t.Errorf("imported = %v, want none", imported)
	}

	if len(decider.asked) != 0 {
		t.Errorf("existing name was offered for import: %v", decider.asked)
	}

	rec, _ := reg.Get("alpha")
	if rec.Command != "central" {
		t.Error("central record was overwritten")
	}
}

func TestRun_PreservesUnknownEntryFields(t *testing.T) {
	reg := emptyRegistry(t)
	cursor := writeClient(t, "cursor", "mcpServers", `{
		"mcpServers": {
			"remote": {"type": "http", "url": "https://api.example.com/mcp"}
		}
	}`)

	decider := &scriptedDecider{answers: []Decision{Yes}}

	if _, err := Run(reg, []clients.Descriptor{cursor}, decider); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec, _ := reg.Get("remote")

	var url string
	if err := json.Unmarshal(rec.Extra["url"], &url); err != nil || url != "https://api.example.com/mcp" {
		t.Errorf("url field lost on import: %v (err %v)", rec.Extra, err)
	}
}

func TestRun_MissingClientFileIsEmpty(t *testing.T) {
	reg := emptyRegistry(t)
	ghost := clients.Descriptor{
		Name:    "ghost",
		Path:    filepath.Join(t.TempDir(), "absent.json"),
		Key:     "mcpServers",
		Enabled: true,
	}

	decider := &scriptedDecider{}

	imported, err := Run(reg, []clients.Descriptor{ghost}, decider)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(imported) != 0 || len(decider.asked) != 0 {
		t.Errorf("missing file produced candidates: %v / %v", imported, decider.asked)
	}
}

func TestRun_ClientFilesNeverModified(t *testing.T) {
	reg := emptyRegistry(t)

	content := `{"mcpServers": {"alpha": {"command": "a"}}}`
	cursor := writeClient(t, "cursor", "mcpServers", content)

	decider := &scriptedDecider{answers: []Decision{Yes}}

	if _, err := Run(reg, []clients.Descriptor{cursor}, decider); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(cursor.Path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != content {
		t.Errorf("import modified the client file: %q", data)
	}
}
