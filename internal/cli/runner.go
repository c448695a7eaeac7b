package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo-tui/internal/api"
	"github.com/idilsaglam/todo-tui/internal/auth"
	"github.com/idilsaglam/todo-tui/internal/model"
	"github.com/idilsaglam/todo-tui/internal/sync"
	"github.com/idilsaglam/todo-tui/internal/tui"
	"github.com/idilsaglam/todo-tui/internal/ui"
)

// Options tune output behavior from root flags and carry the wired client.
type Options struct {
	Group bool // group plain output by pending/done
	Plain bool // print the list instead of opening the TUI

	API     *api.Client
	Timeout time.Duration
	Logger  *log.Logger
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: todo add <title...>")
			return 2
		}
		return doAdd(opt, strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			ui.Fail("usage: todo done <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("done: not a number: " + a[0])
			return 2
		}
		return doToggle(opt, n)

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: todo rm <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("rm: not a number: " + a[0])
			return 2
		}
		return doRemove(opt, n)

	case "auth":
		if len(a) == 0 {
			ui.Fail("usage: todo auth <login|logout|status|whoami>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin()
		case "logout":
			return doAuthLogout()
		case "status":
			return doAuthStatus()
		case "whoami":
			return doAuthWhoAmI()
		default:
			ui.Fail("usage: todo auth <login|logout|status|whoami>")
			return 2
		}
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`todo - a task list client for a remote collection

Usage:
  todo <subcommand> [args]

Subcommands:
  add <title...>     Add a new task (title can be multiple words)
  ls                 List tasks (interactive TUI; -plain for print-only)
  done <index>       Toggle completed for task at 1-based index
  rm <index>         Remove task at 1-based index
  auth <login|logout|status|whoami>   Token authentication

Examples:
  todo add "Buy milk"
  todo ls
  todo done 2
  todo rm 3
`)
}

func opCtx(opt Options) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opt.Timeout)
}

// ---------------------------------------------------
// Core subcommands (remote CRUD)
// ---------------------------------------------------

func doList(opt Options) int {
	client := sync.New(opt.API, opt.Logger)
	if opt.Plain {
		return doPlainList(opt, client)
	}
	if err := tui.Run(client, opt.Timeout); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doPlainList(opt Options, client *sync.Client) int {
	ctx, cancel := opCtx(opt)
	defer cancel()
	client.Refresh(ctx)

	snap := client.Snapshot()
	if snap.Err != "" {
		ui.Fail(snap.Err)
		return 1
	}

	tasks := snap.Tasks
	if opt.Group {
		tasks = groupPendingFirst(tasks)
	}
	lines := make([]string, 0, len(tasks)+2)
	done := 0
	for i, task := range tasks {
		box := ui.MutedStyle.Render(ui.BoxUnchecked)
		text := task.Text
		if task.Completed {
			box = ui.SuccessStyle.Render(ui.BoxChecked)
			text = ui.DoneStyle.Render(text)
			done++
		}
		lines = append(lines, fmt.Sprintf("%2d. %s %s", i+1, box, text))
	}
	lines = append(lines, "", ui.MutedStyle.Render(ui.ProgressBar(done, len(tasks), 28)))
	ui.Panel(lines)
	return 0
}

// groupPendingFirst keeps server order within each group.
func groupPendingFirst(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.Completed {
			out = append(out, task)
		}
	}
	for _, task := range tasks {
		if task.Completed {
			out = append(out, task)
		}
	}
	return out
}

func doAdd(opt Options, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail("add: empty title")
		return 2
	}
	ctx, cancel := opCtx(opt)
	defer cancel()
	if err := opt.API.Create(ctx, title); err != nil {
		ui.Fail("add: " + err.Error())
		return 1
	}
	ui.Ok("added")
	return 0
}

func doToggle(opt Options, userIndex int) int {
	ctx, cancel := opCtx(opt)
	defer cancel()
	task, code := taskAtIndex(ctx, opt, userIndex)
	if code != 0 {
		return code
	}
	if err := opt.API.Update(ctx, task.Toggled()); err != nil {
		ui.Fail("done: " + err.Error())
		return 1
	}
	ui.Ok("toggled")
	return 0
}

func doRemove(opt Options, userIndex int) int {
	ctx, cancel := opCtx(opt)
	defer cancel()
	task, code := taskAtIndex(ctx, opt, userIndex)
	if code != 0 {
		return code
	}
	if err := opt.API.Delete(ctx, task.ID); err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	ui.Ok("removed")
	return 0
}

// taskAtIndex resolves a 1-based index against a fresh fetch, since the
// server may have moved under us since the last listing.
func taskAtIndex(ctx context.Context, opt Options, userIndex int) (model.Task, int) {
	tasks, err := opt.API.List(ctx)
	if err != nil {
		ui.Fail("fetch: " + err.Error())
		return model.Task{}, 1
	}
	if userIndex < 1 || userIndex > len(tasks) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(tasks), userIndex))
		fmt.Fprintln(os.Stderr, ui.MutedStyle.Render("Hint: run `todo ls` to see valid indexes"))
		return model.Task{}, 2
	}
	return tasks[userIndex-1], 0
}

// ---------------------------------------------------
// Auth subcommands (use functions from the auth package)
// ---------------------------------------------------

func doAuthLogin() int {
	fmt.Print("Paste your token: ")
	var token string
	if _, err := fmt.Scanln(&token); err != nil {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if err := auth.SetToken(token, nil); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.Ok("logged in")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.GetToken()
	if ti != nil && ti.Source == "env" {
		ui.Ok("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := auth.DeleteToken(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.Ok("logged out")
	return 0
}

func doAuthStatus() int {
	ti, _ := auth.GetToken()
	if ti == nil {
		fmt.Println(ui.MutedStyle.Render("not logged in"))
		fmt.Println("Run: todo auth login")
		return 0
	}
	fmt.Printf("source: %s\n", ti.Source)
	if ti.ExpiresAt != nil {
		fmt.Printf("expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		fmt.Println("expires: (unknown)")
	}
	fmt.Println("env override: " + auth.EnvToken)
	return 0
}

// whoami tries to decode JWT locally (unsigned); opaque tokens print basic info.
func doAuthWhoAmI() int {
	ti, _ := auth.GetToken()
	if ti == nil {
		ui.Fail("not logged in. Run: todo auth login")
		return 2
	}
	parts := strings.Split(ti.Token, ".")
	if len(parts) == 3 {
		payloadB64 := parts[1]
		// add padding if needed
		switch len(payloadB64) % 4 {
		case 2:
			payloadB64 += "=="
		case 3:
			payloadB64 += "="
		}
		if p, err := decodeB64URL(payloadB64); err == nil {
			fmt.Println("JWT payload:")
			fmt.Println(p)
			return 0
		}
	}
	fmt.Println("Opaque token (cannot introspect locally).")
	fmt.Println("source:", ti.Source)
	return 0
}

func decodeB64URL(s string) (string, error) {
	dec, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		dec2, err2 := base64.URLEncoding.DecodeString(s)
		if err2 != nil {
			return "", err
		}
		return string(dec2), nil
	}
	return string(dec), nil
}
