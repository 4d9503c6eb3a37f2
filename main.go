package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonrewrite/internal/config"
	"github.com/mcncl/jsonrewrite/internal/errors"
	"github.com/mcncl/jsonrewrite/internal/models"
	"github.com/mcncl/jsonrewrite/internal/parser"
	"github.com/mcncl/jsonrewrite/internal/rewriter"
	"go.uber.org/zap"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string   `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string   `help:"Path to output JSON file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string   `help:"Path to config file. If not specified, searches for .jsonrewrite.yml upward from the working directory." short:"c" type:"path"`
	Mapping     []string `help:"Mapping as selector=value. May be repeated; applied after configured mappings." short:"m" sep:"none"`
	MappingFile string   `help:"Properties file of selector=value mappings." type:"path"`
	Var         []string `help:"Variable as name=value, referenced in values as $${name}. May be repeated." sep:"none"`
	Strategy    string   `help:"Path matching strategy: EXACT_MATCH, STARTS_WITH or ENDS_WITH." short:"s"`
	JSONPath    bool     `help:"Treat selectors as JSONPath expressions." name:"jsonpath"`
	Pretty      bool     `help:"Indent the output." short:"p"`
	Debug       bool     `help:"Enable debug logging." short:"d"`
	Version     bool     `help:"Show version information." short:"v"`
	Interactive bool     `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Config  *config.Config
	Logger  *zap.Logger
	Environ []string
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsonrewrite"),
		kong.Description("Rewrite values in a JSON document by path or JSONPath"),
		kong.UsageOnError(),
	)

	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage has already been shown by kong.UsageOnError()
		os.Exit(1)
	}

	// With no arguments at all, fall back to interactive mode
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if CLI.Version {
		fmt.Printf("jsonrewrite version %s\n", Version)
		return
	}

	ctx, err := newContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
	defer func() { _ = ctx.Logger.Sync() }()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonrewrite --help\n")
		os.Exit(1)
	}
}

// newContext loads the config file, applies the command line on top of it
// and builds the logger.
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	overrides := config.Overrides{
		Strategy:    CLI.Strategy,
		Mappings:    CLI.Mapping,
		MappingFile: CLI.MappingFile,
		Variables:   CLI.Var,
		Pretty:      CLI.Pretty,
		Debug:       CLI.Debug,
	}
	if CLI.JSONPath {
		overrides.Mode = rewriter.ModeJSONPath.String()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Dev.Debug)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		logger.Debug("loaded config", zap.String("path", configPath))
	}
	return &Context{Config: cfg, Logger: logger, Environ: os.Environ()}, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, errors.NewConfigError("failed to create logger", err)
	}
	return logger, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Build the rewriter before reading input so bad mappings fail fast
	mappings, err := ctx.Config.BuildMappings()
	if err != nil {
		return err
	}
	opts, err := ctx.Config.RewriterOptions()
	if err != nil {
		return err
	}
	if ctx.Logger != nil {
		opts = append(opts, rewriter.WithLogger(ctx.Logger))
	}
	rw, err := rewriter.New(mappings, opts...)
	if err != nil {
		return err
	}

	// 2. Parse JSON input
	doc, err := parseInput()
	if err != nil {
		return err
	}

	// 3. Apply mappings
	if err := rw.Apply(doc, ctx.Config.VariableContext(ctx.Environ)); err != nil {
		return err
	}

	// 4. Output the result
	return writeOutput(rw, doc)
}

// parseInput reads JSON from file or stdin
func parseInput() (*models.Document, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput(os.Stdin)
		}
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes the document to file or stdout using the rewriter's
// output settings
func writeOutput(out *rewriter.Rewriter, doc *models.Document) error {
	if CLI.Output != "" {
		f, err := os.Create(CLI.Output)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		if err := out.Write(f, doc); err != nil {
			_ = f.Close()
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		if err := f.Close(); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Rewritten JSON written to %s\n", CLI.Output)
		return nil
	}

	if _, err := fmt.Println(out.Serialize(doc)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput(in io.Reader) (*models.Document, error) {
	fmt.Fprintln(os.Stderr, "jsonrewrite Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(in)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if strings.TrimSpace(jsonData) == "" {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
