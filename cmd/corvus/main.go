package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/funvibe/corvus/internal/config"
	"github.com/funvibe/corvus/internal/object"
	corvus "github.com/funvibe/corvus/pkg/embed"
)

const usage = `Usage: corvus <command> [flags] script.corvus

Commands:
  run      compile and run a script, print its value
  check    print inferred input types and return type
  fmt      print the script in canonical form
  disasm   print the bytecode of a script

Run 'corvus <command> -h' for the flags of a command.
`

func main() {
	log.SetFlags(0)          // Disable timestamp in logs
	log.SetOutput(os.Stderr) // stdout is for results

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a command and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	switch args[0] {
	case "run":
		return handleRun(ctx, args[1:], stdout, stderr)
	case "check":
		return handleCheck(args[1:], stdout, stderr)
	case "fmt":
		return handleFmt(args[1:], stdout, stderr)
	case "disasm":
		return handleDisasm(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	}
	fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
	return 2
}

// options are the flags shared by the commands that compile.
type options struct {
	typesFile   string
	configFile  string
	inputFile   string
	interpreted bool
	compare     bool
	watch       bool
	functions   bool
	verbose     bool
}

func newFlagSet(name string, stderr io.Writer, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.typesFile, "types", "", "type declaration file (default: <script>"+config.TypesFileExt+" when present)")
	fs.StringVar(&opts.configFile, "config", "", "config file (default: nearest "+config.ConfigFileName+")")
	fs.BoolVar(&opts.verbose, "verbose", false, "log progress to stderr")
	return fs
}

// parseScriptArgs parses flags and returns the single script path.
func parseScriptArgs(fs *flag.FlagSet, args []string) (string, bool) {
	if err := fs.Parse(args); err != nil {
		return "", false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(fs.Output(), "%s: expected one script, got %d\n", fs.Name(), fs.NArg())
		return "", false
	}
	return fs.Arg(0), true
}

func newLogger(stderr io.Writer, verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(stderr, "corvus: ", 0)
}

// newCompiler builds a compiler from the config and types files of opts,
// falling back to files found next to the script.
func newCompiler(script string, opts *options, logger *log.Logger) (*corvus.Compiler, error) {
	configPath := opts.configFile
	if configPath == "" {
		found, err := config.FindConfig(filepath.Dir(script))
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	c := corvus.New()
	if configPath != "" {
		logger.Printf("using config %s", configPath)
		var err error
		if c, err = corvus.NewFromConfig(configPath); err != nil {
			return nil, err
		}
	}

	typesPath := opts.typesFile
	if typesPath == "" {
		candidate := strings.TrimSuffix(script, filepath.Ext(script)) + config.TypesFileExt
		if _, err := os.Stat(candidate); err == nil {
			typesPath = candidate
		}
	}
	if typesPath != "" {
		logger.Printf("loading types from %s", typesPath)
		if err := c.LoadTypesFile(typesPath); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func compileScript(path string, opts *options, logger *log.Logger) (*corvus.Script, *corvus.Compiler, error) {
	if !isSourceFile(path) {
		logger.Printf("warning: %s does not have a %s extension", path, strings.Join(config.SourceFileExtensions, "/"))
	}
	c, err := newCompiler(path, opts, logger)
	if err != nil {
		return nil, nil, err
	}
	s, err := c.CompileFile(path)
	if err != nil {
		return nil, c, err
	}
	logger.Printf("compiled %s as script %s", path, s.ID())
	return s, c, nil
}

func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func handleRun(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet("run", stderr, &opts)
	fs.StringVar(&opts.inputFile, "input", "", "JSON file with input bindings")
	fs.BoolVar(&opts.interpreted, "interpreted", false, "use the interpreted path")
	fs.BoolVar(&opts.compare, "compare", false, "run both paths and fail if they differ")
	fs.BoolVar(&opts.watch, "watch", false, "run again whenever the script changes")
	script, ok := parseScriptArgs(fs, args)
	if !ok {
		return 2
	}
	logger := newLogger(stderr, opts.verbose)
	report := newReporter(stderr)

	once := func() int {
		if err := runOnce(ctx, script, &opts, stdout, logger); err != nil {
			report.print(err)
			return 1
		}
		return 0
	}
	if !opts.watch {
		return once()
	}
	if err := watch(ctx, script, watchedFiles(script, &opts), logger, func() { once() }); err != nil {
		report.print(err)
		return 1
	}
	return 0
}

func runOnce(ctx context.Context, script string, opts *options, stdout io.Writer, logger *log.Logger) error {
	s, _, err := compileScript(script, opts, logger)
	if err != nil {
		return err
	}
	bindings, err := readBindings(opts.inputFile, s)
	if err != nil {
		return err
	}

	mode := corvus.Compiled
	if opts.interpreted {
		mode = corvus.Interpreted
	}
	result, err := s.Run(ctx, bindings, mode)
	if err != nil {
		return err
	}

	if opts.compare {
		other := corvus.Interpreted
		if mode == corvus.Interpreted {
			other = corvus.Compiled
		}
		check, err := s.Run(ctx, bindings, other)
		if err != nil {
			return fmt.Errorf("%s path failed where %s succeeded: %w", other, mode, err)
		}
		if !object.Equal(result, check) {
			return fmt.Errorf("paths disagree: %s gave %s, %s gave %s", mode, result.Inspect(), other, check.Inspect())
		}
		logger.Printf("both paths agree")
	}

	fmt.Fprintln(stdout, result.Inspect())
	return nil
}

// readBindings converts the -input JSON file to script values.
func readBindings(path string, s *corvus.Script) (map[string]object.Object, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values, err := corvus.BindingsFromJSON(string(data), s.InputTypes())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m := corvus.NewMarshaller()
	out := make(map[string]object.Object, len(values))
	for name, v := range values {
		obj, err := m.ToValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: input '%s': %w", path, name, err)
		}
		out[name] = obj
	}
	return out, nil
}

func watchedFiles(script string, opts *options) []string {
	files := []string{script}
	for _, f := range []string{opts.typesFile, opts.configFile, opts.inputFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

func handleCheck(args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet("check", stderr, &opts)
	fs.BoolVar(&opts.functions, "functions", false, "also list every function the script can call")
	script, ok := parseScriptArgs(fs, args)
	if !ok {
		return 2
	}
	s, c, err := compileScript(script, &opts, newLogger(stderr, opts.verbose))
	if err != nil {
		newReporter(stderr).print(err)
		return 1
	}

	types := s.InputTypes()
	for _, name := range s.Inputs() {
		fmt.Fprintf(stdout, "input %s: %s\n", name, types[name])
	}
	fmt.Fprintf(stdout, "returns %s\n", s.ReturnType())
	if opts.functions {
		fmt.Fprintf(stdout, "functions:\n%s", c.Namespace().Describe())
	}
	return 0
}

func handleFmt(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	write := fs.Bool("w", false, "write the result back to the file")
	script, ok := parseScriptArgs(fs, args)
	if !ok {
		return 2
	}

	src, err := os.ReadFile(script)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading file: %s\n", err)
		return 1
	}
	out, err := corvus.Format(string(src))
	if err != nil {
		newReporter(stderr).print(withFile(err, script))
		return 1
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if *write {
		if err := os.WriteFile(script, []byte(out), 0o644); err != nil {
			fmt.Fprintf(stderr, "Error writing file: %s\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprint(stdout, out)
	return 0
}

func handleDisasm(args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet("disasm", stderr, &opts)
	script, ok := parseScriptArgs(fs, args)
	if !ok {
		return 2
	}
	s, _, err := compileScript(script, &opts, newLogger(stderr, opts.verbose))
	if err != nil {
		newReporter(stderr).print(err)
		return 1
	}
	fmt.Fprint(stdout, s.Disassemble())
	return 0
}

func withFile(err error, file string) error {
	var diag *corvus.Diagnostic
	if errors.As(err, &diag) && diag.File == "" {
		c := *diag
		c.File = file
		return &c
	}
	return err
}
