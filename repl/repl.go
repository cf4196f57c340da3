/*
File    : rmc/repl/repl.go
*/

/*
Package repl implements the interactive loop of the rmc compiler.
Each entered line is appended to the program built up so far and the
whole pipeline (parse, context, soundness, type check) runs over it;
a line that fails any stage is reported and discarded, so the buffer
always holds a program that checks.

The REPL uses the readline library for line editing and history, and
colored output for feedback.
*/
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/rm-lang/rmc/context"
	"github.com/rm-lang/rmc/diag"
	"github.com/rm-lang/rmc/lowering"
	"github.com/rm-lang/rmc/parser"
	"github.com/rm-lang/rmc/soundness"
	"github.com/rm-lang/rmc/typecheck"
)

// Color definitions for REPL output:
// - blueColor: decorative separators
// - greenColor: banner and acceptance feedback
// - redColor: diagnostics
// - cyanColor: informational messages and instructions
// - yellowColor: emitted C
var (
	blueColor   = color.New(color.FgBlue)
	greenColor  = color.New(color.FgGreen)
	redColor    = color.New(color.FgRed)
	cyanColor   = color.New(color.FgCyan)
	yellowColor = color.New(color.FgYellow)
)

// Repl holds the configuration and the accumulated program of one
// interactive session.
type Repl struct {
	Banner  string // ASCII banner displayed at startup
	Version string // Version string of the compiler
	Line    string // Separator line for visual formatting
	Prompt  string // Command prompt shown to the user

	declarations []string // Accepted top-level declarations, in order
}

// NewRepl creates a REPL instance ready to Start.
func NewRepl(banner string, version string, line string, prompt string) *Repl {
	return &Repl{
		Banner:  banner,
		Version: version,
		Line:    line,
		Prompt:  prompt,
	}
}

// PrintBannerInfo displays the welcome banner and usage instructions.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Enter top-level declarations; each line is checked as you go")
	cyanColor.Fprintf(writer, "%s\n", "Type '.emit' to print the generated C")
	cyanColor.Fprintf(writer, "%s\n", "Type '.reset' to drop the program built so far")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// checkProgram runs the pipeline over a candidate program. The
// returned diagnostic is empty on success.
func checkProgram(source string) (*parser.ParsedFile, *context.Context, *diag.Error) {
	par := parser.NewParser(source, "repl")
	file := par.Parse()
	if par.HasError() {
		return nil, nil, par.Error
	}

	ctx, ctxErr := context.Contextualise(file)
	if ctxErr.Errored {
		return nil, nil, ctxErr
	}
	if soundErr := soundness.Check(file, ctx); soundErr.Errored {
		return nil, nil, soundErr
	}
	if checkErr := typecheck.Check(file, ctx); checkErr.Errored {
		return nil, nil, checkErr
	}

	return file, ctx, &diag.Error{}
}

// Start begins the REPL main loop, reading lines until '.exit' or EOF.
func (r *Repl) Start(writer io.Writer) error {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case "":
			continue
		case ".exit":
			return nil
		case ".reset":
			r.declarations = nil
			cyanColor.Fprintln(writer, "program cleared")
			continue
		case ".emit":
			r.emit(writer)
			continue
		}

		r.accept(writer, trimmed)
	}
}

// accept checks the program extended with one more line and keeps the
// line only when every stage passes.
func (r *Repl) accept(writer io.Writer, line string) {
	candidate := strings.Join(append(append([]string{}, r.declarations...), line), "\n")
	_, _, checkErr := checkProgram(candidate)
	if checkErr.Errored {
		var rendered strings.Builder
		checkErr.Write(&rendered)
		redColor.Fprint(writer, rendered.String())
		return
	}

	r.declarations = append(r.declarations, line)
	greenColor.Fprintln(writer, "ok")
}

// emit prints the C the current program lowers to.
func (r *Repl) emit(writer io.Writer) {
	if len(r.declarations) == 0 {
		cyanColor.Fprintln(writer, "nothing to emit")
		return
	}

	source := strings.Join(r.declarations, "\n")
	file, ctx, checkErr := checkProgram(source)
	if checkErr.Errored {
		var rendered strings.Builder
		checkErr.Write(&rendered)
		redColor.Fprint(writer, rendered.String())
		return
	}

	var header strings.Builder
	lowering.GenerateHeader(&header, ctx)
	var impl strings.Builder
	lowering.GenerateImplementation(&impl, file, ctx)

	cyanColor.Fprintln(writer, "// "+lowering.HeaderFileName)
	yellowColor.Fprint(writer, header.String())
	cyanColor.Fprintln(writer, "// "+lowering.ImplFileName)
	yellowColor.Fprint(writer, impl.String())
	fmt.Fprintln(writer)
}
