// Package plugins holds no production code itself; this file only enforces
// the import boundary internal/validation.CheckPluginImports checks at
// runtime, as a standard `go test` guard that fails a build without needing
// the registry-check CLI to be invoked.
package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"hklgeo/testutil"
)

// TestPluginsDoNotImportInfrastructure mirrors
// internal/validation.CheckPluginImports: no plugins/... package may import
// the persistence, blob, or observability packages directly. A plugin
// assembles kinematics; it has no business reaching into how samples,
// blobs, or metrics are stored.
func TestPluginsDoNotImportInfrastructure(t *testing.T) {
	forbidden := testutil.ForbiddenPrefix(
		"hklgeo/internal/persistence",
		"hklgeo/internal/blob",
		"hklgeo/internal/observability",
	)

	entries, err := os.ReadDir(".")
	if err != nil {
		t.Fatalf("read plugins dir: %v", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(".", e.Name())
		testutil.AssertNoDirectImports(t, dir, forbidden, "plugins must not import persistence, blob, or observability")
	}
}
