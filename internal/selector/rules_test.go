package selector

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRulesEmptyPathReturnsDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rules.GeneralSkills) == 0 || rules.GeneralSkills[0] != "program_y" {
		t.Fatalf("expected default general skills, got %v", rules.GeneralSkills)
	}
}

func TestLoadRulesOverridesOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := "general_skills:\n  - custom_skill\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rules.GeneralSkills) != 1 || rules.GeneralSkills[0] != "custom_skill" {
		t.Fatalf("expected the override, got %v", rules.GeneralSkills)
	}
	if len(rules.DangerousSkills) == 0 {
		t.Fatalf("untouched fields must keep their defaults")
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
