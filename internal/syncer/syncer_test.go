package syncer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/5LV10/damngood/internal/clients"
	clierrors "github.com/5LV10/damngood/internal/errors"
	"github.com/5LV10/damngood/internal/registry"
)

func newRegistry(t *testing.T, servers map[string]string) *registry.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "registry.json")

	entries := make(map[string]json.RawMessage, len(servers))
	for name, raw := range servers {
		entries[name] = json.RawMessage(raw)
	}

	doc, err := json.Marshal(map[string]any{"servers": entries})
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := registry.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	return reg
}

func clientFile(t *testing.T, name, content string) clients.Descriptor {
	t.Helper()

	path := filepath.Join(t.TempDir(), name+".json")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return clients.Descriptor{Name: name, Path: path, Key: "mcpServers", Enabled: true}
}

func readDoc(t *testing.T, path string) map[string]json.RawMessage {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}

	return doc
}

func section(t *testing.T, doc map[string]json.RawMessage, key string) map[string]map[string]any {
	t.Helper()

	out := make(map[string]map[string]any)
	if err := json.Unmarshal(doc[key], &out); err != nil {
		t.Fatalf("section %q: %v", key, err)
	}

	return out
}

func TestRun_ProjectsRecordIntoClientFile(t *testing.T) {
	reg := newRegistry(t, map[string]string{
		"filesystem": `{
			"type": "stdio",
			"command": "npx",
			"args": ["-y", "server-filesystem"],
			"clients": ["cursor"],
			"created_at": "2026-01-02T03:04:05Z",
			"updated_at": "2026-01-02T03:04:05Z"
		}`,
	})

	cursor := clientFile(t, "cursor", "")

	results, err := Run(reg, []clients.Descriptor{cursor}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 1 || results[0].Synced != 1 {
		t.Fatalf("results = %+v", results)
	}

	servers := section(t, readDoc(t, cursor.Path), "mcpServers")

	entry, ok := servers["filesystem"]
	if !ok {
		t.Fatal("filesystem not written")
	}

	if entry["command"] != "npx" {
		t.Errorf("command = %v", entry["command"])
	}

	if entry["enabled"] != true {
		t.Errorf("enabled = %v, want default true", entry["enabled"])
	}

	for _, internal := range []string{"clients", "created_at", "updated_at"} {
		if _, leaked := entry[internal]; leaked {
			t.Errorf("%q leaked into client file", internal)
		}
	}
}

func TestRun_PreservesUnmanagedEntriesAndSiblings(t *testing.T) {
	reg := newRegistry(t, map[string]string{
		"managed": `{"command": "npx", "clients": ["cursor"]}`,
	})

	cursor := clientFile(t, "cursor", `{
		"theme": "dark",
		"mcpServers": {
			"handwritten": {"command": "deno", "note": "added by hand"}
		}
	}`)

	if _, err := Run(reg, []clients.Descriptor{cursor}, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	doc := readDoc(t, cursor.Path)

	var theme string
	if err := json.Unmarshal(doc["theme"], &theme); err != nil || theme != "dark" {
		t.Errorf("sibling field theme = %s, err %v", doc["theme"], err)
	}

	servers := section(t, doc, "mcpServers")

	if _, ok := servers["handwritten"]; !ok {
		t.Error("unmanaged entry was deleted")
	}

	if servers["handwritten"]["note"] != "added by hand" {
		t.Errorf("unmanaged entry mutated: %+v", servers["handwritten"])
	}

	if _, ok := servers["managed"]; !ok {
		t.Error("managed entry not written")
	}
}

func TestRun_CentralDefinitionWins(t *testing.T) {
	reg := newRegistry(t, map[string]string{
		"fs": `{"command": "npx", "args": ["v2"], "clients": ["cursor"]}`,
	})

	cursor := clientFile(t, "cursor", `{
		"mcpServers": {"fs": {"command": "old-command", "args": ["v1"]}}
	}`)

	if _, err := Run(reg, []clients.Descriptor{cursor}, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	servers := section(t, readDoc(t, cursor.Path), "mcpServers")

	if servers["fs"]["command"] != "npx" {
		t.Errorf("command = %v, want central value", servers["fs"]["command"])
	}
}

func TestRun_SkipsClientsTheRecordDoesNotTarget(t *testing.T) {
	reg := newRegistry(t, map[string]string{
		"fs": `{"command": "npx", "clients": ["gemini"]}`,
	})

	cursor := clientFile(t, "cursor", "")

	results, err := Run(reg, []clients.Descriptor{cursor}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if results[0].Synced != 0 {
		t.Errorf("Synced = %d, want 0", results[0].Synced)
	}

	// The key section is still created, matching a fresh client file.
	servers := section(t, readDoc(t, cursor.Path), "mcpServers")
	if len(servers) != 0 {
		t.Errorf("section = %+v, want empty", servers)
	}
}

func TestRun_NoServersIsANoOp(t *testing.T) {
	reg := newRegistry(t, nil)
	cursor := clientFile(t, "cursor", "")

	results, err := Run(reg, []clients.Descriptor{cursor}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if results != nil {
		t.Errorf("results = %+v, want nil", results)
	}

	if _, err := os.Stat(cursor.Path); !os.IsNotExist(err) {
		t.Error("no-op run touched the client file")
	}
}

func TestRun_NoClientsIsANoOp(t *testing.T) {
	reg := newRegistry(t, map[string]string{
		"fs": `{"command": "npx", "clients": ["cursor"]}`,
	})

	results, err := Run(reg, nil, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if results != nil {
		t.Errorf("results = %+v, want nil", results)
	}
}

func TestRun_InvalidClientFileAborts(t *testing.T) {
	reg := newRegistry(t, map[string]string{
		"fs": `{"command": "npx", "clients": ["bad", "good"]}`,
	})

	bad := clientFile(t, "bad", "{broken")
	good := clientFile(t, "good", "")

	_, err := Run(reg, []clients.Descriptor{bad, good}, Options{})
	if err == nil {
		t.Fatal("Run should abort on an unparseable client file")
	}

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) || cliErr.Code != clierrors.ExitDocument {
		t.Errorf("err = %v, want invalid-document CLIError", err)
	}

	// The abort must happen before the later client is written.
	if _, statErr := os.Stat(good.Path); !os.IsNotExist(statErr) {
		t.Error("later client was written despite the abort")
	}
}

func TestRun_SkipInvalidContinues(t *testing.T) {
	reg := newRegistry(t, map[string]string{
		"fs": `{"command": "npx", "clients": ["bad", "good"]}`,
	})

	bad := clientFile(t, "bad", "{broken")
	good := clientFile(t, "good", "")

	results, err := Run(reg, []clients.Descriptor{bad, good}, Options{SkipInvalid: true})
	if err != nil {
		t.Fatalf("Run with SkipInvalid: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}

	if results[0].Err == nil {
		t.Error("bad client's failure not recorded")
	}

	if results[1].Err != nil || results[1].Synced != 1 {
		t.Errorf("good client = %+v", results[1])
	}

	servers := section(t, readDoc(t, good.Path), "mcpServers")
	if _, ok := servers["fs"]; !ok {
		t.Error("good client not synced")
	}

	// The broken file is left exactly as it was.
	data, err := os.ReadFile(bad.Path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "{broken" {
		t.Errorf("broken file was modified: %q", data)
	}
}

func TestRun_PreservesExtraRecordFields(t *testing.T) {
	reg := newRegistry(t, map[string]string{
		"remote": `{
			"type": "http",
			"url": "https://api.example.com/mcp",
			"headers": {"X-Key": "abc"},
			"clients": ["cursor"]
		}`,
	})

	cursor := clientFile(t, "cursor", "")

	if _, err := Run(reg, []clients.Descriptor{cursor}, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	servers := section(t, readDoc(t, cursor.Path), "mcpServers")

	if servers["remote"]["url"] != "https://api.example.com/mcp" {
		t.Errorf("url not carried through: %+v", servers["remote"])
	}
}

func TestRun_SkipInvalidRecordsErrorText(t *testing.T) {
	reg := newRegistry(t, map[string]string{
		"fs": `{"command": "npx", "clients": ["bad"]}`,
	})

	bad := clientFile(t, "bad", "{broken")

	results, err := Run(reg, []clients.Descriptor{bad}, Options{SkipInvalid: true})
	if err != nil {
		t.Fatalf("Run with SkipInvalid: %v", err)
	}

	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("results = %+v", results)
	}

	if results[0].Error != results[0].Err.Error() {
		t.Errorf("Error = %q, want %q", results[0].Error, results[0].Err.Error())
	}

	// The failure survives JSON encoding for --json consumers.
	data, err := json.Marshal(results)
	if err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if msg, _ := decoded[0]["error"].(string); msg == "" {
		t.Errorf("encoded result has no error field: %s", data)
	}
}

func TestRun_UntargetedServerKeepsPriorCopy(t *testing.T) {
	reg := newRegistry(t, map[string]string{
		"fs": `{"command": "npx", "clients": ["cursor"]}`,
	})

	cursor := clientFile(t, "cursor", "")

	if _, err := Run(reg, []clients.Descriptor{cursor}, Options{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	// The server no longer targets cursor; the copy already written must
	// survive the next sync.
	retargeted := newRegistry(t, map[string]string{
		"fs": `{"command": "npx", "clients": ["gemini"]}`,
	})

	results, err := Run(retargeted, []clients.Descriptor{cursor}, Options{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if len(results) != 1 || results[0].Synced != 0 {
		t.Fatalf("results = %+v", results)
	}

	servers := section(t, readDoc(t, cursor.Path), "mcpServers")
	if _, ok := servers["fs"]; !ok {
		t.Error("previously synced entry was deleted")
	}
}
