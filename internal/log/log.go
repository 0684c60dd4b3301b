// Package log provides structured logging for the Orchard wallet.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the process-wide root logger.
var Logger zerolog.Logger

// Per-component loggers, rebuilt whenever the root changes.
var (
	PoolWallet zerolog.Logger
	Wallet     zerolog.Logger
	Ledger     zerolog.Logger
	Puzzle     zerolog.Logger
	Keystore   zerolog.Logger
	Config     zerolog.Logger
	Storage    zerolog.Logger
	Chain      zerolog.Logger
)

func init() {
	install(newLogger(os.Stdout, "info", false))
}

// Init reconfigures the root logger. With a non-empty file, output goes to
// both the console and the file; the file side is always JSON so it stays
// machine-parseable regardless of the console format.
func Init(level string, jsonOutput bool, file string) error {
	if file == "" {
		install(newLogger(os.Stdout, level, jsonOutput))
		return nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	console := consoleWriter(os.Stdout, jsonOutput)
	root := zerolog.New(zerolog.MultiLevelWriter(console, f)).
		Level(parseLevel(level)).
		With().Timestamp().Logger()
	install(root)
	return nil
}

// NewConsoleLogger builds a standalone logger writing human-readable output.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	return newLogger(w, level, false)
}

// NewJSONLogger builds a standalone logger writing one JSON object per line.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return newLogger(w, level, true)
}

func newLogger(w io.Writer, level string, jsonOutput bool) zerolog.Logger {
	return zerolog.New(consoleWriter(w, jsonOutput)).
		Level(parseLevel(level)).
		With().Timestamp().Logger()
}

func consoleWriter(w io.Writer, jsonOutput bool) io.Writer {
	if jsonOutput {
		return w
	}
	return zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
}

// parseLevel maps a config string to a zerolog level, defaulting to info.
func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func install(root zerolog.Logger) {
	Logger = root
	PoolWallet = WithComponent("poolwallet")
	Wallet = WithComponent("wallet")
	Ledger = WithComponent("ledger")
	Puzzle = WithComponent("puzzle")
	Keystore = WithComponent("keystore")
	Config = WithComponent("config")
	Storage = WithComponent("storage")
	Chain = WithComponent("chain")
}

// WithComponent tags a child logger with a component field.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// WithLauncherID tags a child logger with the singleton launcher it serves.
func WithLauncherID(launcherID string) zerolog.Logger {
	return Logger.With().Str("launcher_id", launcherID).Logger()
}

func Debug() *zerolog.Event { return Logger.Debug() }
func Info() *zerolog.Event  { return Logger.Info() }
func Warn() *zerolog.Event  { return Logger.Warn() }
func Error() *zerolog.Event { return Logger.Error() }
