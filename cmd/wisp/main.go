// Package main is the entry point for the Wisp editor.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/wisp-editor/wisp/internal/config"
	"github.com/wisp-editor/wisp/internal/shell"
	"github.com/wisp-editor/wisp/internal/termio"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	showVersion := flag.Bool("version", false, "print version and exit")
	configDir := flag.String("config-dir", "", "override the config directory")
	flag.Parse()

	if *showVersion {
		fmt.Printf("wisp %s (%s)\n", version, commit)
		return 0
	}
	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "usage: wisp [file]")
		return 1
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "wisp: standard input is not a terminal")
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ed := shell.New(shell.WithLogger(logger))

	if dir := resolveConfigDir(*configDir); dir != "" {
		if _, err := config.ApplyUserConfig(dir, ed); err != nil {
			// A broken config must not keep the editor from starting.
			logger.Warn("config load failed", "dir", dir, "error", err)
		}
	}

	if flag.NArg() == 1 {
		if err := ed.OpenFile(flag.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "wisp: %v\n", err)
			return 1
		}
	}

	terminal, err := termio.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wisp: %v\n", err)
		return 1
	}
	defer terminal.Close()

	if err := terminal.Run(ed); err != nil {
		fmt.Fprintf(os.Stderr, "wisp: %v\n", err)
		return 1
	}
	return 0
}

func resolveConfigDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("WISP_CONFIG_DIR"); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return base + "/wisp"
}
