package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestAssertNoDirectImportsPasses(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "clean.go", "package fixture\n\nimport \"strings\"\n\nvar _ = strings.TrimSpace\n")
	AssertNoDirectImports(t, dir, ForbiddenPrefix("hklgeo/internal/blob"), "fixture must not import blob")
}

func TestAssertNoDirectImportsIgnoresTestFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "fixture_test.go", "package fixture\n\nimport \"hklgeo/internal/blob\"\n\nvar _ = blob.New\n")
	AssertNoDirectImports(t, dir, ForbiddenPrefix("hklgeo/internal/blob"), "fixture must not import blob")
}

func TestForbiddenPrefixMatchesAnyGivenPrefix(t *testing.T) {
	forbidden := ForbiddenPrefix("hklgeo/internal/blob", "hklgeo/internal/persistence")
	for _, path := range []string{"hklgeo/internal/blob/fs", "hklgeo/internal/persistence/sqlite"} {
		if !forbidden(path) {
			t.Fatalf("expected %q to be forbidden", path)
		}
	}
	if forbidden("hklgeo/internal/engine") {
		t.Fatalf("internal/engine should not be forbidden")
	}
}
