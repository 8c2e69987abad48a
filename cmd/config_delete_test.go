package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDeleteConfigFiles(t *testing.T) {
	t.Parallel()

	writeFile := func(t *testing.T, path string) {
		t.Helper()
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	t.Run("config only", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		configPath := filepath.Join(dir, ".comptesupport.yaml")
		journalPath := filepath.Join(dir, "comptesupport.db")
		writeFile(t, configPath)
		writeFile(t, journalPath)

		removed, err := deleteConfigFiles(configPath, "")
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
		if !reflect.DeepEqual(removed, []string{configPath}) {
			t.Fatalf("unexpected removed files %v", removed)
		}
		if _, err := os.Stat(journalPath); err != nil {
			t.Fatalf("journal should be kept: %v", err)
		}
	})

	t.Run("config and journal", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		configPath := filepath.Join(dir, ".comptesupport.yaml")
		journalPath := filepath.Join(dir, "comptesupport.db")
		writeFile(t, configPath)
		writeFile(t, journalPath)

		removed, err := deleteConfigFiles(configPath, journalPath)
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
		if !reflect.DeepEqual(removed, []string{configPath, journalPath}) {
			t.Fatalf("unexpected removed files %v", removed)
		}
	})

	t.Run("missing journal is ignored", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		configPath := filepath.Join(dir, ".comptesupport.yaml")
		writeFile(t, configPath)

		removed, err := deleteConfigFiles(configPath, filepath.Join(dir, "absent.db"))
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
		if !reflect.DeepEqual(removed, []string{configPath}) {
			t.Fatalf("unexpected removed files %v", removed)
		}
	})

	t.Run("missing config fails", func(t *testing.T) {
		t.Parallel()
		if _, err := deleteConfigFiles(filepath.Join(t.TempDir(), "absent.yaml"), ""); err == nil {
			t.Fatalf("expected error for missing config")
		}
	})
}
