package validation

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// forbiddenPluginImports lists module prefixes a per-diffractometer plugin
// package must never import directly: infrastructure backends are cmd/
// and internal/registry's concern, not a geometry/engine-list factory's.
var forbiddenPluginImports = []string{
	"hklgeo/internal/persistence",
	"hklgeo/internal/blob",
	"hklgeo/internal/observability",
}

// CheckPluginImports statically loads every package under dir (a Go import
// path pattern, typically "hklgeo/plugins/...") via go/packages and reports
// every import of a forbidden infrastructure package — the static
// counterpart to CheckModeContract's runtime check, grounded on the
// teacher's plugins/architecture_test.go import-boundary walk but driven by
// golang.org/x/tools/go/packages instead of a hand-rolled text scan.
func CheckPluginImports(dir string) ([]Error, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedDeps | packages.NeedFiles,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("validation: load plugin packages: %w", err)
	}

	var errs []Error
	for _, pkg := range pkgs {
		for _, perr := range pkg.Errors {
			errs = append(errs, Error{File: pkg.PkgPath, Message: perr.Error()})
		}
		var hits []string
		for imp := range pkg.Imports {
			for _, forbidden := range forbiddenPluginImports {
				if imp == forbidden || strings.HasPrefix(imp, forbidden+"/") {
					hits = append(hits, imp)
				}
			}
		}
		sort.Strings(hits)
		for _, imp := range hits {
			errs = append(errs, Error{
				File:    pkg.PkgPath,
				Message: fmt.Sprintf("plugin package imports infrastructure package %q directly", imp),
			})
		}
	}
	return errs, nil
}
