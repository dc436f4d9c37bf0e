// Command nagac drives the SPIR-V generator over a compiled-in fixture
// module and writes the resulting binary.
//
// nagac has no shading-language front end of its own: the generator's input
// is a validated AST, and producing that AST from source text is an
// explicitly excluded external concern (see SPEC_FULL.md §1). Instead nagac
// selects one of a small set of named fixture modules (see fixtures.go) and
// compiles it, which is enough to exercise and demonstrate the generator
// end to end.
//
// Usage:
//
//	nagac [options] <fixture>
//
// Examples:
//
//	nagac empty-main                    # Compile to stdout
//	nagac -o out.spv passthrough        # Compile to file
//	nagac -debug -list                  # List available fixtures
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goforj/godump"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"
	"github.com/nikandfor/errors"
	"github.com/nikandfor/tlog"

	"github.com/gogpu/spirvgen/codegen"
	"github.com/gogpu/spirvgen/spirv"
)

var (
	output               = flag.String("o", "", "output file (default: stdout)")
	debug                = flag.Bool("debug", false, "include OpName debug info")
	targetVersion        = flag.String("target-version", "1.3", "SPIR-V target version, e.g. 1.3")
	invariantAll         = flag.Bool("invariant-all", false, "set Options.InvariantAll (not read by the generator)")
	selectViewportIndex  = flag.Bool("select-viewport-index", false, "set Options.SelectViewportIndex (not read by the generator)")
	nocontractionOnExact = flag.Bool("nocontraction-on-exact", false, "set Options.EmitNoContractionOnExact (not read by the generator)")
	hoistPrecision       = flag.Bool("hoist-precision", false, "set Options.HoistPrecisionQualifiers (not read by the generator)")
	dumpModule           = flag.Bool("dump-module", false, "dump the fixture's ast.Module before compiling")
	list                 = flag.Bool("list", false, "list available fixtures and exit")
	version              = flag.Bool("version", false, "print version")
)

const nagacVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("nagac version %s\n", nagacVersion)
		return
	}

	if *list {
		printFixtures()
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no fixture name specified")
		usage()
		os.Exit(1)
	}

	if err := run(args[0]); err != nil {
		tlog.Printw("compile failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func run(name string) error {
	build, ok := fixtures[name]
	if !ok {
		return errors.New("unknown fixture %q (see -list)", name)
	}
	module := build()

	if *dumpModule {
		godump.Dump(module)
	}

	opts, err := buildOptions()
	if err != nil {
		return errors.Wrap(err, "options")
	}

	start := time.Now()
	backend := codegen.NewBackend(opts)
	spirvBytes, err := backend.Compile(module)
	if err != nil {
		return errors.Wrap(err, "compile fixture %q", name)
	}
	elapsed := time.Since(start)

	if verboseTerminal() {
		ts := strftime.Format("%Y-%m-%d %H:%M:%S", time.Now())
		tlog.Printw("compiled", "fixture", name, "at", ts, "bytes", humanize.Bytes(uint64(len(spirvBytes))), "took", elapsed)
	}

	return writeOutput(name, spirvBytes)
}

func buildOptions() (spirv.Options, error) {
	opts := spirv.DefaultOptions()

	var major, minor uint8
	if _, err := fmt.Sscanf(*targetVersion, "%d.%d", &major, &minor); err != nil {
		return opts, errors.Wrap(err, "parsing -target-version %q", *targetVersion)
	}
	opts.Version = spirv.Version{Major: major, Minor: minor}

	opts.DebugInfo = *debug
	opts.InvariantAll = *invariantAll
	opts.SelectViewportIndex = *selectViewportIndex
	opts.EmitNoContractionOnExact = *nocontractionOnExact
	opts.HoistPrecisionQualifiers = *hoistPrecision
	return opts, nil
}

func writeOutput(fixtureName string, spirvBytes []byte) error {
	if *output == "" {
		if _, err := os.Stdout.Write(spirvBytes); err != nil {
			return errors.Wrap(err, "writing to stdout")
		}
		return nil
	}
	if err := os.WriteFile(*output, spirvBytes, 0644); err != nil {
		return errors.Wrap(err, "writing %s", *output)
	}
	fmt.Printf("compiled %s to %s (%s)\n", fixtureName, *output, humanize.Bytes(uint64(len(spirvBytes))))
	return nil
}

func verboseTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func printFixtures() {
	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: nagac [options] <fixture>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  nagac empty-main                Compile to stdout\n")
	fmt.Fprintf(os.Stderr, "  nagac -o out.spv passthrough    Compile to file\n")
	fmt.Fprintf(os.Stderr, "  nagac -list                     List available fixtures\n")
}
