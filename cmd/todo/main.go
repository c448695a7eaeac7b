package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/idilsaglam/todo-tui/internal/api"
	"github.com/idilsaglam/todo-tui/internal/auth"
	"github.com/idilsaglam/todo-tui/internal/cli"
	"github.com/idilsaglam/todo-tui/internal/config"
	"github.com/idilsaglam/todo-tui/internal/logging"
	"github.com/idilsaglam/todo-tui/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group output by pending/done")
	plain := flag.Bool("plain", false, "print the list instead of opening the TUI")
	apiURL := flag.String("api", "", "task collection URL (overrides config and TODO_API_URL)")
	timeoutSec := flag.Int("timeout", 0, "request timeout in seconds (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "write logs to this file")
	theme := flag.String("theme", "", "color theme: default, mono")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		ui.Fail("config: " + err.Error())
		os.Exit(1)
	}
	// Flags override everything.
	cfg.ApplyFlags(config.FlagOverrides{
		APIURL:         *apiURL,
		TimeoutSeconds: *timeoutSec,
		LogLevel:       *logLevel,
		LogFile:        *logFile,
		Theme:          *theme,
	})
	if err := cfg.Validate(); err != nil {
		ui.Fail("config: " + err.Error())
		os.Exit(1)
	}
	ui.SetTheme(cfg.Theme)

	tuiMode := args[0] == "ls" && !*plain
	logger, closer, err := logging.Open(cfg, tuiMode)
	if err != nil {
		ui.Fail("logging: " + err.Error())
		os.Exit(1)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	opts := []api.Option{
		api.WithLogger(logger),
		api.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if ti, err := auth.GetToken(); err == nil && ti != nil {
		opts = append(opts, api.WithToken(ti.Token))
	}

	code := cli.Run(args, cli.Options{
		Group:   *groupPending,
		Plain:   *plain,
		API:     api.New(cfg.APIURL, opts...),
		Timeout: timeout,
		Logger:  logger,
	})
	closer.Close()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
