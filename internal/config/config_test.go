package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := ParseBlocks(defaultBlocksYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultBlocksConfig()) {
		t.Errorf("embedded defaults differ from DefaultBlocksConfig:\n%+v\n%+v", cfg, DefaultBlocksConfig())
	}
}

func TestLoadBlocksCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocks.yaml")
	data := []byte("rules:\n  ruleset: SRS+\n  line_goal: 40\ntiming:\n  das_ms: 100\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBlocks(path)
	if err != nil {
		t.Fatalf("LoadBlocks: %v", err)
	}
	if cfg.Rules.Ruleset != "SRS+" {
		t.Errorf("Ruleset = %q, want SRS+", cfg.Rules.Ruleset)
	}
	if cfg.Rules.LineGoal != 40 {
		t.Errorf("LineGoal = %d, want 40", cfg.Rules.LineGoal)
	}
	if cfg.Timing.DASMS != 100 {
		t.Errorf("DASMS = %d, want 100", cfg.Timing.DASMS)
	}
	// Unset keys keep their defaults.
	if cfg.Board.Width != 10 || cfg.Timing.ARRMS != 33 {
		t.Errorf("defaults lost: width=%d arr=%d", cfg.Board.Width, cfg.Timing.ARRMS)
	}
}

func TestLoadBlocksErrors(t *testing.T) {
	if _, err := LoadBlocks(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("board: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadBlocks(path)
	if err == nil {
		t.Error("expected parse error")
	}
	if !reflect.DeepEqual(cfg, DefaultBlocksConfig()) {
		t.Error("failed load should return defaults")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultBlocksConfig()
	cfg.Rules.Ruleset = "ARS"
	cfg.Garbage.Enabled = true

	data, err := MarshalBlocks(cfg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseBlocks(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", got, cfg)
	}
}

func TestApplyBlocksPreset(t *testing.T) {
	tests := []struct {
		preset     DifficultyPreset
		startLevel int
		lockDelay  int
	}{
		{DifficultyEasy, 1, 1000},
		{DifficultyNormal, 1, 500},
		{DifficultyHard, 10, 300},
		{DifficultyFixed, 4, 700},
		{DifficultyPreset("bogus"), 4, 700},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultBlocksConfig()
			cfg.Rules.StartLevel = 4
			cfg.Timing.LockDelayMS = 700
			ApplyBlocksPreset(&cfg, tt.preset)
			if cfg.Rules.StartLevel != tt.startLevel {
				t.Errorf("StartLevel = %d, want %d", cfg.Rules.StartLevel, tt.startLevel)
			}
			if cfg.Timing.LockDelayMS != tt.lockDelay {
				t.Errorf("LockDelayMS = %d, want %d", cfg.Timing.LockDelayMS, tt.lockDelay)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	for _, name := range []string{"easy", "normal", "hard", "fixed"} {
		if _, ok := ParsePreset(name); !ok {
			t.Errorf("ParsePreset(%q) rejected", name)
		}
	}
	if _, ok := ParsePreset("nightmare"); ok {
		t.Error("unknown preset accepted")
	}
	if !IsFixedPreset(DifficultyFixed) || IsFixedPreset(DifficultyHard) {
		t.Error("IsFixedPreset wrong")
	}
}
