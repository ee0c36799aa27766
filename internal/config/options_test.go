package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptionsMissingFileReturnsDefaults(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts != DefaultOptions() {
		t.Fatalf("opts = %+v, want defaults", opts)
	}
}

func TestLoadOptionsParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyrite.yaml")
	contents := "output_path: out.ssa\nemit_ir_only: true\ncost_warning: true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.OutputPath != "out.ssa" || !opts.EmitIROnly || !opts.CostWarning {
		t.Fatalf("opts = %+v, want output_path/emit_ir_only/cost_warning set", opts)
	}
	if opts.DeterministicBuild || opts.OwnershipTimeline || opts.Incremental {
		t.Fatalf("opts = %+v, want unset fields to stay false", opts)
	}
}

func TestFindProjectFileWalksUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "pyrite.yaml"), []byte("incremental: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectFile(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(root, "pyrite.yaml")
	if found != want {
		t.Fatalf("found = %q, want %q", found, want)
	}
}

func TestFindProjectFileNoneFound(t *testing.T) {
	found, err := FindProjectFile(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Fatalf("found = %q, want empty", found)
	}
}
