package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Adder - a Python-subset to C++ transpiler

Usage:
    adder <command> [arguments]

Commands:
    transpile <file>   Translate a .py file to C++
    build <file>       Transpile and compile against the C++ runtime
    run <file>         Build and execute
    check <file>       Parse a .py file and report diagnostics
    ast <file>         Print the parsed AST as an s-expression
    watch <file>       Re-transpile whenever the file changes
    help               Show this help message

Examples:
    adder transpile examples/fib.py
    adder build -o fib -runtime ./runtime examples/fib.py
    adder run examples/fib.py
    adder ast examples/fib.py

Use "adder <command> -h" for more information about a command.
`)
}

func readSource(filename string) []byte {
	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}
	// Add null terminator as required by lexer
	return append(sourceBytes, '\x00')
}

func outputName(filename, suffix string) string {
	return strings.TrimSuffix(filename, ".py") + suffix
}

func transpileCommand(args []string) {
	fs := flag.NewFlagSet("transpile", flag.ExitOnError)
	output := fs.String("o", "", "Output file path (default: <filename>.cpp)")
	verbose := fs.Bool("v", false, "Show verbose transpilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: adder transpile [-o output] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Translate a .py file to C++\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	outputFile := *output
	if outputFile == "" {
		outputFile = outputName(filename, ".cpp")
	}
	if *verbose {
		fmt.Printf("Transpiling %s to %s...\n", filename, outputFile)
	}

	code, err := transpileFile(filename, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Transpilation failed: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputFile, []byte(code), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing C++ file %s: %v\n", outputFile, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d bytes)\n", outputFile, len(code))
}

func buildCommand(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "Output binary path (default: <filename> without .py)")
	runtimeDir := fs.String("runtime", "./runtime", "Directory with builtins.hpp and the runtime sources")
	verbose := fs.Bool("v", false, "Show verbose build details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: adder build [-o output] [-runtime dir] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Transpile a .py file and compile it against the C++ runtime\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	binary := *output
	if binary == "" {
		binary = outputName(filename, "")
	}
	if _, err := buildBinary(filename, binary, *runtimeDir, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Built %s\n", binary)
}

func runCommand(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	runtimeDir := fs.String("runtime", "./runtime", "Directory with builtins.hpp and the runtime sources")
	verbose := fs.Bool("v", false, "Show verbose build details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: adder run [-runtime dir] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Transpile, compile and execute a .py file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	binary := "temp_" + strings.TrimSuffix(filepath.Base(filename), ".py")
	tempCpp, err := buildBinary(filename, binary, *runtimeDir, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}
	defer os.Remove(binary)
	defer os.Remove(tempCpp)

	cmd := exec.Command("./" + binary)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Execution failed: %v\n", err)
		os.Exit(1)
	}
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: adder check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse a .py file and report diagnostics\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	input := readSource(filename)
	l := NewLexer(input)
	l.NextToken()
	ast := ParseProgram(l)

	if l.Errors.HasErrors() {
		fmt.Printf("Errors in %s:\n%s\n", filename, l.Errors.String())
		os.Exit(1)
	}
	fmt.Printf("%s: no errors found\n", filename)

	if *verbose {
		fmt.Printf("AST: %s\n", ToSExpr(ast))
	}
}

func astCommand(args []string) {
	fs := flag.NewFlagSet("ast", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: adder ast <file>\n")
		fmt.Fprintf(os.Stderr, "Print the parsed AST as an s-expression\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	input := readSource(filename)
	l := NewLexer(input)
	l.NextToken()
	ast := ParseProgram(l)
	if l.Errors.HasErrors() {
		fmt.Fprintf(os.Stderr, "Errors in %s:\n%s\n", filename, l.Errors.String())
		os.Exit(1)
	}
	fmt.Println(ToSExpr(ast))
}

func watchCommand(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	output := fs.String("o", "", "Output file path (default: <filename>.cpp)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: adder watch [-o output] <file>\n")
		fmt.Fprintf(os.Stderr, "Re-transpile a .py file whenever it changes\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	outputFile := *output
	if outputFile == "" {
		outputFile = outputName(filename, ".cpp")
	}

	retranspile := func() {
		code, err := transpileFile(filename, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Transpilation failed: %v\n", err)
			return
		}
		if err := os.WriteFile(outputFile, []byte(code), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing C++ file %s: %v\n", outputFile, err)
			return
		}
		fmt.Printf("Regenerated %s\n", outputFile)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors often replace the file,
	// which would drop a file-level watch.
	dir := filepath.Dir(filename)
	if err := watcher.Add(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", dir, err)
		os.Exit(1)
	}

	retranspile()
	fmt.Printf("Watching %s (Ctrl-C to stop)\n", filename)
	target := filepath.Clean(filename)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				retranspile()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		}
	}
}

// transpileFile runs the full pipeline over one file.
func transpileFile(filename string, verbose bool) (string, error) {
	input := readSource(filename)
	l := NewLexer(input)
	l.NextToken()
	ast := ParseProgram(l)
	if l.Errors.HasErrors() {
		return "", fmt.Errorf("errors in %s:\n%s", filename, l.Errors.String())
	}
	if verbose {
		fmt.Printf("AST: %s\n", ToSExpr(ast))
	}
	return NewCodeGenerator().Generate(ast)
}

// buildBinary transpiles a file and compiles the result together with the
// C++ runtime sources. It returns the path of the generated .cpp file.
func buildBinary(filename, binary, runtimeDir string, verbose bool) (string, error) {
	code, err := transpileFile(filename, verbose)
	if err != nil {
		return "", err
	}

	tempCpp := "temp_" + strings.TrimSuffix(filepath.Base(filename), ".py") + ".cpp"
	if err := os.WriteFile(tempCpp, []byte(code), 0644); err != nil {
		return "", fmt.Errorf("error writing C++ file: %v", err)
	}

	runtimeSources, err := filepath.Glob(filepath.Join(runtimeDir, "*.cpp"))
	if err != nil {
		return tempCpp, fmt.Errorf("error locating runtime sources: %v", err)
	}

	cmdArgs := []string{"-std=c++17", "-O2", "-I", runtimeDir, "-o", binary, tempCpp}
	cmdArgs = append(cmdArgs, runtimeSources...)
	if verbose {
		fmt.Printf("c++ %s\n", strings.Join(cmdArgs, " "))
	}
	cmd := exec.Command("c++", cmdArgs...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return tempCpp, fmt.Errorf("c++ failed: %v\nOutput: %s", err, out)
	}
	return tempCpp, nil
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "transpile":
		transpileCommand(args)
	case "build":
		buildCommand(args)
	case "run":
		runCommand(args)
	case "check":
		checkCommand(args)
	case "ast":
		astCommand(args)
	case "watch":
		watchCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
