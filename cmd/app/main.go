package main

import (
	"caml/internal/evaluator"
	"caml/internal/host"
	"caml/internal/journal"
	"caml/internal/log"
	"caml/internal/repl"
	"caml/internal/runner"
	"caml/internal/util"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const historyFile = ".caml_history"

var (
	// Version is the current version of the caml binary, set at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// config file
	configPath string
	// logging
	logLevel  string
	logFile   string
	logFormat string
	logColor  bool
	// run config
	rootPath       string
	strict         bool
	debugAST       string
	journalDSN     string
	maxPhraseWords int
	maxCallDepth   int
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configPath, "config", "", "Load settings from a TOML file")
	// evaluator config
	flag.StringVar(&rootPath, "root", util.DefaultRootPath, "Directory that relative file paths resolve against")
	flag.IntVar(&maxCallDepth, "max-call-depth", util.DefaultMaxCallDepth, "Maximum nesting of user function calls")
	flag.StringVar(&journalDSN, "journal", "", "Record objects, properties and file effects to sqlite3://, mysql:// or postgres:// DSN")
	// lexer and parser config
	flag.BoolVar(&strict, "strict", false, "Fail on the first malformed line instead of skipping it")
	flag.StringVar(&debugAST, "debug-ast", "", "Render the AST next to the script: json, yaml or text")
	flag.IntVar(&maxPhraseWords, "max-phrase-words", util.DefaultMaxPhraseWords, "Longest keyword phrase the lexer tries to match")
	// log config
	flag.StringVar(&logLevel, "log-level", "none", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	flag.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	flag.BoolVar(&logColor, "log-color", false, "Colorize log levels when writing to a terminal")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if version {
		printVersion()
		return 0
	}

	if help {
		printHelp()
		return 0
	}

	config, err := loadConfiguration()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}

	logger, logCloser, err := log.Setup(log.Options{
		Level:  config.LogLevel,
		File:   config.LogFile,
		Format: config.LogFormat,
		Color:  config.LogColor,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	var files evaluator.FileSystem = host.OSFileSystem{Root: config.RootPath}
	var bindings evaluator.Bindings = host.LogBindings{}

	if config.JournalDSN != "" {
		j, err := journal.Open(context.Background(), config.JournalDSN)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 2
		}
		defer j.Close()
		files = j.Files(files)
		bindings = j
	}

	evalOpts := evaluator.Options{
		MaxCallDepth: config.MaxCallDepth,
		BoldMarker:   config.BoldMarker,
	}
	runOpts := runner.Options{
		Strict:         config.Strict,
		MaxPhraseWords: config.MaxPhraseWords,
		DebugAST:       config.DebugAST,
	}

	if fileName := flag.Arg(0); fileName != "" {
		r := runner.New(evaluator.New(host.Stdio(), files, bindings, evalOpts), runOpts)
		if err := r.RunFile(fileName); err != nil {
			fmt.Fprint(os.Stderr, runner.Render(err))
			fmt.Fprintln(os.Stderr)
			return 1
		}
		return 0
	}

	ln, closeLiner := repl.NewLiner(historyPath(config))
	defer closeLiner()

	console := &host.LinerConsole{State: ln, Out: os.Stdout}
	r := runner.New(evaluator.New(console, files, bindings, evalOpts), runOpts)
	repl.Start(r, ln, os.Stdout)
	return 0
}

// loadConfiguration layers defaults, the config file and explicitly set flags.
func loadConfiguration() (util.Configuration, error) {
	config := util.DefaultConfiguration()
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	config.CamlHome = os.Getenv("CAML_HOME")

	path := configPath
	if path == "" && config.CamlHome != "" {
		candidate := filepath.Join(config.CamlHome, "caml.toml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		if err := util.LoadConfigFile(path, &config); err != nil {
			return config, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			config.RootPath = rootPath
		case "strict":
			config.Strict = strict
		case "debug-ast":
			config.DebugAST = debugAST
		case "journal":
			config.JournalDSN = journalDSN
		case "max-phrase-words":
			config.MaxPhraseWords = maxPhraseWords
		case "max-call-depth":
			config.MaxCallDepth = maxCallDepth
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "log-format":
			config.LogFormat = logFormat
		case "log-color":
			config.LogColor = logColor
		}
	})

	return config, config.Validate()
}

func historyPath(config util.Configuration) string {
	if config.CamlHome != "" {
		return filepath.Join(config.CamlHome, historyFile)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func printVersion() {
	fmt.Printf("caml version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: caml [options] [filename]

Options:
  -config <path>           Load settings from a TOML file. Default is $CAML_HOME/caml.toml if present.
  -root <path>             Directory that relative file paths resolve against. Default is '.'
  -strict                  Fail on the first malformed line instead of skipping it.
  -debug-ast <format>      Render the AST next to the script as json, yaml or text.
  -max-phrase-words <n>    Longest keyword phrase the lexer tries to match. Default is 4.
  -max-call-depth <n>      Maximum nesting of user function calls. Default is 512.
  -journal <dsn>           Record objects, properties and file effects to a database.
  -help                    Display this help information and exit.
  -version                 Display version information and exit.
  -log-level <level>       Set the log level: trace, debug, info, warn, error, none. Default is 'none'.
  -log-file <path>         Specify a log file to write logs. Default is stderr.
  -log-format <format>     Log line format: text or json. Default is 'text'.
  -log-color               Colorize log levels on a terminal.

Details:
This is the Caml scripting language. Statements read like English sentences,
blocks are opened with a trailing ':' and nested by indentation.

Examples:
  caml                                   Start an interactive session
  caml hello.caml                        Execute the provided Caml file
  caml -strict -debug-ast=yaml app.caml  Stop on malformed lines and dump the AST
  caml -journal sqlite3://run.db app.caml  Record the run in a SQLite file

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
