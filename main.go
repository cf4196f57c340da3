/*
File    : rmc/main.go

Package main is the entry point of the rmc compiler. It provides two
modes of operation:
1. File mode: compile one or more .rm source files (globs accepted)
2. REPL mode (no arguments): interactively check and emit rm code

The compiler runs a strictly staged pipeline: lex, parse, build
context, check soundness, check types, and finally lower to a C
header / implementation pair.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/rm-lang/rmc/context"
	"github.com/rm-lang/rmc/diag"
	"github.com/rm-lang/rmc/lowering"
	"github.com/rm-lang/rmc/parser"
	"github.com/rm-lang/rmc/repl"
	"github.com/rm-lang/rmc/soundness"
	"github.com/rm-lang/rmc/typecheck"
)

// VERSION is the current version of the rmc compiler.
const VERSION = "v0.3.0"

// PROMPT is the command prompt displayed in REPL mode.
const PROMPT = "rm > "

// LINE is a separator line used for visual formatting in the REPL.
const LINE = "------------------------------------------------"

// BANNER is the logo displayed when starting the REPL.
const BANNER = `
  _ __ _ __ ___   ___
 | '__| '_ ' _ \ / __|
 | |  | | | | | | (__
 |_|  |_| |_| |_|\___|
`

// DefaultTargetDir receives the generated C when neither the --target
// flag nor RMC_TARGET_DIR overrides it.
const DefaultTargetDir = "target"

// Color definitions for compiler output:
// - redColor: diagnostics and fatal failures
// - cyanColor: informational messages
var (
	redColor  = color.New(color.FgRed)
	cyanColor = color.New(color.FgCyan)
)

func main() {
	targetFlag := pflag.String("target", "", "output directory for the generated C (overrides RMC_TARGET_DIR)")
	checkFlag := pflag.Bool("check", false, "run the pipeline but do not write output files")
	versionFlag := pflag.Bool("version", false, "print version information and exit")
	pflag.Usage = showUsage
	pflag.Parse()

	if *versionFlag {
		fmt.Printf("rmc %s\n", VERSION)
		return
	}

	// An optional .env can carry RMC_TARGET_DIR; a missing file is not
	// an error.
	_ = godotenv.Load()
	targetDir := DefaultTargetDir
	if env := os.Getenv("RMC_TARGET_DIR"); env != "" {
		targetDir = env
	}
	if *targetFlag != "" {
		targetDir = *targetFlag
	}

	args := pflag.Args()
	if len(args) == 0 {
		repler := repl.NewRepl(BANNER, VERSION, LINE, PROMPT)
		if err := repler.Start(os.Stdout); err != nil {
			redColor.Fprintf(os.Stderr, "repl: %v\n", err)
			os.Exit(1)
		}
		return
	}

	inputs, err := expandInputs(args)
	if err != nil {
		redColor.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	failed := false
	for _, input := range inputs {
		if !compileFile(input, targetDir, *checkFlag) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// showUsage prints the help text.
func showUsage() {
	cyanColor.Fprintln(os.Stderr, "rmc - a compiler from rm to C")
	cyanColor.Fprintln(os.Stderr, "")
	cyanColor.Fprintln(os.Stderr, "USAGE:")
	cyanColor.Fprintln(os.Stderr, "  rmc [flags] <file.rm | glob ...>   Compile source files")
	cyanColor.Fprintln(os.Stderr, "  rmc                                Start the REPL")
	cyanColor.Fprintln(os.Stderr, "")
	cyanColor.Fprintln(os.Stderr, "FLAGS:")
	pflag.PrintDefaults()
}

// expandInputs resolves the argument list, expanding `**`-style glob
// patterns into matching paths. A pattern with no matches is an error;
// a plain path passes through untouched.
func expandInputs(args []string) ([]string, error) {
	inputs := make([]string, 0, len(args))
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			inputs = append(inputs, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		inputs = append(inputs, matches...)
	}
	return inputs, nil
}

// reportDiagnostics renders a diagnostic chain to stderr in red.
func reportDiagnostics(checkErr *diag.Error) {
	var rendered strings.Builder
	checkErr.Write(&rendered)
	redColor.Fprint(os.Stderr, rendered.String())
}

// compileFile runs the whole pipeline over one source file. It
// returns false when any stage fails; diagnostics land on stderr.
func compileFile(fileName string, targetDir string, checkOnly bool) bool {
	source, err := os.ReadFile(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "could not read '%s': %v\n", fileName, err)
		return false
	}

	par := parser.NewParser(string(source), fileName)
	file := par.Parse()
	if par.HasError() {
		reportDiagnostics(par.Error)
		return false
	}

	ctx, ctxErr := context.Contextualise(file)
	if ctxErr.Errored {
		reportDiagnostics(ctxErr)
		return false
	}

	if soundErr := soundness.Check(file, ctx); soundErr.Errored {
		reportDiagnostics(soundErr)
		return false
	}

	if checkErr := typecheck.Check(file, ctx); checkErr.Errored {
		reportDiagnostics(checkErr)
		return false
	}

	if checkOnly {
		cyanColor.Printf("%s: ok\n", fileName)
		return true
	}

	if err := lowering.Generate(file, ctx, targetDir); err != nil {
		redColor.Fprintf(os.Stderr, "%s: %v\n", fileName, err)
		return false
	}

	return true
}
