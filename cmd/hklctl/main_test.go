package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestCLIListIncludesRegisteredDiffractometers(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"list"}, &stdout, &stderr); code != 0 {
		t.Fatalf("list exited %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "E4CV") {
		t.Fatalf("expected E4CV in list output, got: %s", stdout.String())
	}
}

func TestCLIGetBissector(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"get", "E4CV", "-axis", "omega=30,chi=0,phi=90,tth=60", "-mode", "bissector"}
	if code := cli(args, &stdout, &stderr); code != 0 {
		t.Fatalf("get exited %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"h = ", "k = ", "l = "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestCLIGetUnknownDiffractometer(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"get", "NOPE", "-mode", "bissector"}, &stdout, &stderr); code == 0 {
		t.Fatalf("expected non-zero exit for unknown diffractometer")
	}
}

func TestCLISetRequiresMode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"set", "E4CV", "-target", "1,0,0"}, &stdout, &stderr); code == 0 {
		t.Fatalf("expected non-zero exit when -mode is missing")
	}
}

func TestCLIRegistryCheckPasses(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"registry-check", "-plugins-dir", "../../plugins"}, &stdout, &stderr); code != 0 {
		t.Fatalf("registry-check exited %d, stdout: %s, stderr: %s", code, stdout.String(), stderr.String())
	}
}
