// Command pyritec is the thin CLI driver for the Pyrite compiler core
//, playing the role funxy/cmd/funxy's main.go plays for its
// own language: read flags, load a project file, run the pipeline, print
// diagnostics or write the generated module.
//
// Pyrite's lexer and parser are excluded collaborators of this core
// — parseSource below is the seam a real front end plugs
// into; until one exists, `build` reports that seam explicitly rather
// than silently producing nothing.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/config"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/modules"
	"github.com/funvibe/pyrite/internal/pipeline"
	"github.com/funvibe/pyrite/pkg/diagprint"
	"github.com/funvibe/pyrite/pkg/rpc"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "build":
		runBuild(os.Args[2:])
	case "explain":
		runExplain(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pyritec build <main.pyr> [--out path] [--emit-ir-only] [--deterministic] [--ownership-timeline] [--cost-warning]")
	fmt.Fprintln(os.Stderr, " pyritec explain <code>")
	fmt.Fprintln(os.Stderr, " pyritec serve <host:port>")
}

// runServe exposes Compile over gRPC (pkg/rpc.CompileService) instead of
// the one-shot CLI path, for a remote driver that already has source text
// in hand rather than a file on this machine's disk.
func runServe(args []string) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}
	lis, err := net.Listen("tcp", args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "pyritec: %v\n", err)
		os.Exit(1)
	}
	server, err := rpc.NewServer(compileFromSources)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pyritec: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "pyritec: serving CompileService on %s\n", args[0])
	if err := server.GRPCServer().Serve(lis); err != nil {
		fmt.Fprintf(os.Stderr, "pyritec: %v\n", err)
		os.Exit(1)
	}
}

// compileFromSources is the rpc.CompileFunc backing `serve`: it resolves
// mainFile against the request's in-memory sources map instead of the
// local filesystem, the remote-friendly counterpart of runBuild's
// disk-backed loader.
func compileFromSources(mainFile string, sources map[string]string, opts config.Options) *pipeline.PipelineContext {
	parseFromMap := func(path string) (*ast.Program, error) {
		if _, ok := sources[path]; !ok {
			return nil, fmt.Errorf("no source provided for %q", path)
		}
		return nil, fmt.Errorf("pyritec: %s: no Pyrite front end is wired in this build "+
			"(lexer/parser are excluded collaborators of the core)", path)
	}
	loader := modules.NewLoader(nil, config.SourceFileExt, parseFromMap)
	mods, err := loader.Load(mainFile)
	if err != nil {
		return &pipeline.PipelineContext{FilePath: mainFile, Diagnostics: nil, Stopped: true}
	}
	return pipeline.Compile(mainFile, mods, opts)
}

func runExplain(args []string) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}
	p := diagprint.NewPrinter(os.Stdout)
	p.Explain(diagnostics.ErrorCode(args[0]))
}

func runBuild(args []string) {
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	mainFile := args[0]
	opts := parseOptions(args[1:])

	loader := modules.NewLoader([]string{"."}, config.SourceFileExt, parseSource)
	mods, err := loader.Load(mainFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pyritec: %v\n", err)
		os.Exit(1)
	}

	ctx := pipeline.Compile(mainFile, mods, opts)

	printer := diagprint.NewPrinter(os.Stderr)
	for _, mod := range mods {
		if data, err := os.ReadFile(mod.Path); err == nil {
			printer.AddSource(mod.Path, string(data))
		}
	}

	if !ctx.Ok() {
		printer.PrintAll(ctx.Diagnostics)
		os.Exit(1)
	}

	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, []byte(ctx.IRText), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "pyritec: writing %s: %v\n", opts.OutputPath, err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(ctx.IRText)
}

func parseOptions(rest []string) config.Options {
	projectPath, _ := config.FindProjectFile(".")
	opts := config.DefaultOptions()
	if projectPath != "" {
		if loaded, err := config.LoadOptions(projectPath); err == nil {
			opts = loaded
		}
	}
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--out":
			if i+1 < len(rest) {
				i++
				opts.OutputPath = rest[i]
			}
		case "--emit-ir-only":
			opts.EmitIROnly = true
		case "--deterministic":
			opts.DeterministicBuild = true
		case "--ownership-timeline":
			opts.OwnershipTimeline = true
		case "--cost-warning":
			opts.CostWarning = true
		}
	}
	return opts
}

// parseSource is the ParseFile callback internal/modules.Loader needs.
// There is no lexer/parser in this core : turning Pyrite
// source text into an ast.Program is a front-end concern this repo
// deliberately does not implement, so this reports that boundary plainly
// instead of returning an empty, silently-wrong Program.
func parseSource(path string) (*ast.Program, error) {
	return nil, fmt.Errorf("pyritec: %s: no Pyrite front end is wired in this build "+
		"(lexer/parser are excluded collaborators of the core) — "+
		"supply an *ast.Program through internal/modules.ParseFile to enable `build`", path)
}
