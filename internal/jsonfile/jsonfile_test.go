package jsonfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRead_MissingFile(t *testing.T) {
	err := Read(filepath.Join(t.TempDir(), "absent.json"), &payload{})
	if !os.IsNotExist(err) {
		t.Errorf("err = %v, want os.IsNotExist", err)
	}
}

func TestRead_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Read(path, &payload{})
	if err == nil {
		t.Fatal("Read should fail on invalid JSON")
	}

	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should name the file", err)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "doc.json")

	want := payload{Name: "fs", Count: 3}
	if err := Write(path, want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got payload
	if err := Read(path, &got); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestWrite_TrailingNewlineAndIndent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")

	if err := Write(path, payload{Name: "fs"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasSuffix(string(data), "\n") {
		t.Error("written file missing trailing newline")
	}

	if !strings.Contains(string(data), "  \"name\"") {
		t.Errorf("file not two-space indented:\n%s", data)
	}
}

func TestWrite_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")

	if err := Write(path, payload{Name: "old"}); err != nil {
		t.Fatal(err)
	}

	if err := Write(path, payload{Name: "new"}); err != nil {
		t.Fatal(err)
	}

	var got payload
	if err := Read(path, &got); err != nil {
		t.Fatal(err)
	}

	if got.Name != "new" {
		t.Errorf("Name = %q, want new", got.Name)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the document", len(entries))
	}
}
