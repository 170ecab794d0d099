// Command hklctl is a thin command-line surface over the diffractometer
// registry and engine list: list the catalog, run a forward get or an
// inverse set against a named diffractometer, or validate the catalog's
// mode contracts and plugin import boundaries. Grounded on the teacher's
// cmd/registry-check's cli(args, stdout, stderr) int shape, which keeps
// the command testable without touching os.Exit directly.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"hklgeo/internal/cliutil"
	"hklgeo/internal/registry"
	"hklgeo/internal/validation"
	"hklgeo/pkg/domain"

	_ "hklgeo/plugins/e4cv"
	_ "hklgeo/plugins/e6c"
	_ "hklgeo/plugins/k4cv"
	_ "hklgeo/plugins/k6c"
	_ "hklgeo/plugins/med"
	_ "hklgeo/plugins/zaxis"
)

var exitFunc = os.Exit

func main() {
	registry.Finalize()
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: hklctl <list|get|set|registry-check> [flags]")
		return 2
	}
	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "list":
		err = runList(rest, stdout)
	case "get":
		err = runGet(rest, stdout)
	case "set":
		err = runSet(rest, stdout)
	case "registry-check":
		err = runRegistryCheck(rest, stdout)
	default:
		fmt.Fprintf(stderr, "unknown subcommand %q\n", cmd)
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runList(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, name := range registry.Names() {
		entry, err := registry.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%-10s %s\n", name, entry.Descriptor.Description)
	}
	return nil
}

func runGet(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	wavelength := fs.Float64("wavelength", 0.154, "beam wavelength, nanometres")
	axisFlag := fs.String("axis", "", "comma-separated axis=value assignments (degrees)")
	engineName := fs.String("engine", "hkl", "engine to read pseudo-axes from")
	modeName := fs.String("mode", "", "mode to select before reading (default: engine's current mode)")
	// The diffractometer name may come before the flags.
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		args = append(append([]string{}, args[1:]...), args[0])
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("get requires exactly one diffractometer name")
	}
	name := fs.Arg(0)

	g, _, list, err := cliutil.Build(name, *wavelength)
	if err != nil {
		return err
	}
	order, values, err := cliutil.ParseAxisAssignments(*axisFlag)
	if err != nil {
		return err
	}
	if err := cliutil.ApplyAxisAssignments(g, order, values); err != nil {
		return err
	}

	e, ok := list.EngineByName(*engineName)
	if !ok {
		return domain.NewError(domain.BadInput, *engineName, "diffractometer %q has no engine %q", name, *engineName)
	}
	if *modeName != "" {
		if err := e.CurrentModeSet(*modeName); err != nil {
			return err
		}
	}
	pseudoValues, err := e.PseudoAxesValuesGet()
	if err != nil {
		return err
	}
	for i, p := range e.PseudoAxes {
		fmt.Fprintf(stdout, "%s = %g\n", p.Name, pseudoValues[i])
	}
	return nil
}

func runSet(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	wavelength := fs.Float64("wavelength", 0.154, "beam wavelength, nanometres")
	axisFlag := fs.String("axis", "", "comma-separated axis=value assignments (degrees), the starting point")
	engineName := fs.String("engine", "hkl", "engine to invert")
	modeName := fs.String("mode", "", "mode to invert (required)")
	targetFlag := fs.String("target", "", "comma-separated pseudo-axis target values (required)")
	// The diffractometer name may come before the flags.
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		args = append(append([]string{}, args[1:]...), args[0])
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("set requires exactly one diffractometer name")
	}
	if *modeName == "" {
		return fmt.Errorf("set requires -mode")
	}
	name := fs.Arg(0)

	g, _, list, err := cliutil.Build(name, *wavelength)
	if err != nil {
		return err
	}
	order, values, err := cliutil.ParseAxisAssignments(*axisFlag)
	if err != nil {
		return err
	}
	if err := cliutil.ApplyAxisAssignments(g, order, values); err != nil {
		return err
	}
	targets, err := cliutil.ParseTargets(*targetFlag)
	if err != nil {
		return err
	}

	e, ok := list.EngineByName(*engineName)
	if !ok {
		return domain.NewError(domain.BadInput, *engineName, "diffractometer %q has no engine %q", name, *engineName)
	}
	if err := e.CurrentModeSet(*modeName); err != nil {
		return err
	}
	solutions, err := e.PseudoAxisValuesSet(targets)
	if err != nil {
		return err
	}
	if len(solutions) == 0 {
		fmt.Fprintln(stdout, "no solution")
		return nil
	}
	for i, sol := range solutions {
		fmt.Fprintf(stdout, "solution %d:\n", i)
		for _, axisName := range e.Current.WriteAxes {
			v, _ := sol.AxisGet(axisName)
			fmt.Fprintf(stdout, "  %s = %g\n", axisName, v*180/math.Pi)
		}
	}
	return nil
}

func runRegistryCheck(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("registry-check", flag.ContinueOnError)
	pluginsDir := fs.String("plugins-dir", ".", "directory containing the hklgeo/plugins/... packages")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var findings []string

	for _, name := range registry.Names() {
		entry, err := registry.Lookup(name)
		if err != nil {
			findings = append(findings, err.Error())
			continue
		}
		g := entry.Geometry(0.154)
		sample, err := cliutil.DefaultSample(name)
		if err != nil {
			findings = append(findings, err.Error())
			continue
		}
		detector := domain.NewDetector0D()
		list := entry.EngineList(g, detector, sample)
		for _, e := range list.Engines() {
			for _, verr := range validation.CheckEngineContract(e) {
				findings = append(findings, verr.String())
			}
		}
	}

	importErrs, err := validation.CheckPluginImports(*pluginsDir)
	if err != nil {
		return fmt.Errorf("registry-check: %w", err)
	}
	for _, verr := range importErrs {
		findings = append(findings, verr.String())
	}

	if len(findings) > 0 {
		sort.Strings(findings)
		for _, f := range findings {
			fmt.Fprintln(stdout, f)
		}
		return fmt.Errorf("registry-check: %d violation(s)", len(findings))
	}
	fmt.Fprintln(stdout, "registry-check passed")
	return nil
}
