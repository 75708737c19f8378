package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewManager_BuiltinsOnly(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	presets := m.List()
	if len(presets) != len(builtinPresets) {
		t.Fatalf("Expected %d built-in presets, got %d", len(builtinPresets), len(presets))
	}
	if presets[0].Name != "classic" {
		t.Errorf("Expected classic first, got %q", presets[0].Name)
	}
}

func TestNewManager_MissingDirIsNotAnError(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("NewManager failed for missing dir: %v", err)
	}
	if len(m.List()) != len(builtinPresets) {
		t.Errorf("Expected built-ins only, got %d presets", len(m.List()))
	}
}

func TestNewManager_LoadsAndOverridesFromDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("classic.json", `{"name":"classic","numRows":20,"numCols":20,"password":"pw"}`)
	write("tiny.json", `{"numRows":3,"numCols":3,"password":"pw","timeLimit":1}`)
	write("notes.txt", `ignored`)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	presets := m.List()
	if len(presets) != len(builtinPresets)+1 {
		t.Fatalf("Expected %d presets, got %d", len(builtinPresets)+1, len(presets))
	}

	byName := make(map[string]int)
	for _, p := range presets {
		byName[p.Name] = p.NumRows
	}
	if byName["classic"] != 20 {
		t.Errorf("File preset should override built-in classic, got %d rows", byName["classic"])
	}
	// Preset name defaults to the file name.
	if rows, ok := byName["tiny"]; !ok || rows != 3 {
		t.Errorf("Expected tiny preset with 3 rows, got %d (found=%v)", rows, ok)
	}
}

func TestNewManager_RejectsInvalidPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"numRows":0,"numCols":5}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewManager(dir); err == nil {
		t.Error("Expected error for preset with zero rows")
	}
}

func TestManager_Default(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	cfg := m.Default()
	if cfg.NumRows != 10 || cfg.NumCols != 10 {
		t.Errorf("Expected 10x10 default, got %dx%d", cfg.NumRows, cfg.NumCols)
	}
}
