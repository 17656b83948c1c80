package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/tstyper/internal/config"
	"github.com/mcncl/tstyper/internal/convert"
	"github.com/mcncl/tstyper/internal/errors"
	"github.com/mcncl/tstyper/internal/examples"
	"github.com/mcncl/tstyper/internal/formatter"
	"github.com/mcncl/tstyper/internal/logging"
	"github.com/mcncl/tstyper/internal/parser"
)

// CLI defines the command-line interface. String flags left empty and
// boolean flags left false defer to the config file.
var CLI struct {
	Input        string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output       string `help:"Path to output TypeScript file. If not specified, writes to stdout." short:"o" type:"path"`
	RootName     string `help:"Name for the root declaration (default Root)." short:"r"`
	ItemName     string `help:"Name for the element type when the root value is an array (default Item)."`
	Style        string `help:"Declaration style: 'interface' or 'type' (default interface)." short:"s"`
	OptionalNull bool   `help:"Mark properties whose sample value is null as optional." name:"optional-null"`
	NoEnums      bool   `help:"Do not turn string arrays into unions of string literals." name:"no-enums"`
	Export       bool   `help:"Prefix every top-level declaration with 'export'." short:"e"`
	Config       string `help:"Path to config file. Searches for .tstyper.yml upwards from the working directory if not given." short:"c" type:"path"`
	Path         string `help:"Convert only the value at this path, e.g. 'data.items'." short:"p"`
	Repair       bool   `help:"Try to repair malformed JSON (trailing commas, comments, single quotes) before converting."`
	FormatJSON   bool   `help:"Pretty-print the input JSON instead of generating types." name:"format-json"`
	Example      string `help:"Use a built-in sample document as input: 'object' or 'array'."`
	Debug        bool   `help:"Enable debug logging." short:"d"`
	LogFile      string `help:"Write logs to this file (rotated) instead of stderr." type:"path"`
	Version      bool   `help:"Show version information." short:"v"`
	Interactive  bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("tstyper"),
		kong.Description("A tool to infer TypeScript type declarations from JSON"),
		kong.UsageOnError(),
	)

	// No arguments on a terminal means interactive mode
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("tstyper version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	logCfg := logging.DefaultConfig()
	if cfg.Dev.Debug {
		logCfg.Level = "debug"
	}
	logCfg.FilePath = cfg.Dev.LogFile
	closeLog, err := logging.Setup(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	err = run(&Context{Debug: cfg.Dev.Debug, Config: cfg})
	_ = closeLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errorMessage(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: tstyper --help\n")
		os.Exit(1)
	}
}

// loadConfig merges defaults, the config file and CLI flags
func loadConfig() (*config.Config, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	return config.LoadConfigWithCLI(configPath, config.Overrides{
		RootName:       CLI.RootName,
		ItemName:       CLI.ItemName,
		Style:          CLI.Style,
		OptionalOnNull: CLI.OptionalNull,
		NoEnums:        CLI.NoEnums,
		Export:         CLI.Export,
		Repair:         CLI.Repair,
		Path:           CLI.Path,
		Debug:          CLI.Debug,
		LogFile:        CLI.LogFile,
	})
}

// errorMessage hides parser detail behind the fixed invalid-input message;
// the detail is still logged at debug level.
func errorMessage(err error) string {
	if errors.IsParseError(err) {
		slog.Debug("input rejected", "error", err)
		return errors.InvalidJSONMessage
	}
	return errors.UserFriendlyError(err)
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	// 1. Read raw input
	raw, err := readInput()
	if err != nil {
		return err
	}
	slog.Debug("read input", "bytes", len(raw))

	fmtInst := formatter.NewFormatter()

	// 2a. Pretty-print only
	if CLI.FormatJSON {
		formatted, err := fmtInst.FormatJSON(raw, cfg.ParserOptions())
		if err != nil {
			return err
		}
		return writeOutput(formatted + "\n")
	}

	// 2b. Infer declarations
	code, err := convert.Convert(raw, cfg.ToOptions(), cfg.ParserOptions())
	if err != nil {
		return err
	}
	slog.Debug("generated declarations", "root", cfg.RootName, "style", cfg.Declarations.Style)

	// 3. Output the result
	return writeOutput(fmtInst.Tidy(code, cfg.Output.FileHeader))
}

// readInput returns the raw JSON text from an example, a file or stdin
func readInput() (string, error) {
	if CLI.Example != "" {
		if CLI.Input != "" {
			return "", errors.NewInputError("--example and --input cannot be used together", errors.ErrInvalidFilePath)
		}
		return examples.Get(CLI.Example)
	}

	if CLI.Input != "" {
		data, err := parser.ReadFile(CLI.Input)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput(os.Stdin, os.Stderr)
		}
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(jsonData), nil
}

// writeOutput writes code to file or stdout
func writeOutput(code string) error {
	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, []byte(code), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "TypeScript declarations written to %s\n", CLI.Output)
		return nil
	}

	if _, err := io.WriteString(os.Stdout, code); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste JSON and signal completion with
// Ctrl+D (EOF)
func readInteractiveInput(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprintln(prompt, "tstyper interactive mode")
	fmt.Fprintln(prompt, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(in)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if strings.TrimSpace(jsonData) == "" {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(prompt, "\nProcessing JSON...")
	return jsonData, nil
}
