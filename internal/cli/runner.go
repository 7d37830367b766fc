// Package cli dispatches subcommands and wires the store, directory,
// session and ledger together.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/idilsaglam/tudu/internal/config"
	"github.com/idilsaglam/tudu/internal/directory"
	"github.com/idilsaglam/tudu/internal/ledger"
	"github.com/idilsaglam/tudu/internal/model"
	"github.com/idilsaglam/tudu/internal/session"
	"github.com/idilsaglam/tudu/internal/store/boltstore"
	"github.com/idilsaglam/tudu/internal/tui"
	"github.com/idilsaglam/tudu/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	Group   bool // list grouped by pending/done
	Verbose bool // debug logging
}

// app bundles everything a subcommand needs. The session is explicit
// state threaded from here, not a hidden global.
type app struct {
	log *log.Logger
	st  *boltstore.Store
	dir *directory.Directory
	ses *session.Holder
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp()
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 1
	}

	logger := newLogger(cfg, opt)

	if err := cfg.EnsureDataDir(); err != nil {
		ui.Fail("data dir: " + err.Error())
		return 1
	}

	logger.Debug("opening store", "path", cfg.DBPath())
	st, err := boltstore.Open(cfg.DBPath())
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	defer st.Close()

	ap := &app{
		log: logger,
		st:  st,
		dir: directory.New(st),
		ses: session.New(st),
	}

	logger.Debug("dispatch", "cmd", cmd)

	switch cmd {
	case "signup":
		if len(a) != 2 {
			ui.Fail("usage: tudu signup <name> <email>")
			return 2
		}
		return ap.doSignup(a[0], a[1])

	case "login":
		if len(a) != 1 {
			ui.Fail("usage: tudu login <email>")
			return 2
		}
		return ap.doLogin(a[0])

	case "logout":
		return ap.doLogout()

	case "whoami":
		return ap.doWhoAmI()

	case "ls":
		return ap.doInteractive()

	case "list":
		return ap.doList(opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: tudu add <text...>")
			return 2
		}
		return ap.doAdd(strings.Join(a, " "))

	case "edit":
		if len(a) < 2 {
			ui.Fail("usage: tudu edit <index> <text...>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("edit: not a number: " + a[0])
			return 2
		}
		return ap.doEdit(n, strings.Join(a[1:], " "))

	case "done":
		if len(a) != 1 {
			ui.Fail("usage: tudu done <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("done: not a number: " + a[0])
			return 2
		}
		return ap.doToggle(n)

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: tudu rm <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("rm: not a number: " + a[0])
			return 2
		}
		return ap.doRemove(n)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`tudu - todos with accounts

Usage:
  tudu <subcommand> [args]

Subcommands:
  signup <name> <email>   Create an account and log in (prompts for password)
  login <email>           Log in (prompts for password)
  logout                  Log out
  whoami                  Show the logged-in user
  ls                      Interactive list (add/edit/toggle/delete)
  list                    Print the list
  add <text...>           Add a task
  edit <index> <text...>  Replace the text of the task at 1-based index
  done <index>            Toggle done for the task at 1-based index
  rm <index>              Remove the task at 1-based index

Examples:
  tudu signup Ann a@x.com
  tudu add "Buy milk"
  tudu ls
  tudu done 2
`)
}

func newLogger(cfg *config.Config, opt Options) *log.Logger {
	level := parseLogLevel(cfg.LogLevel)
	if opt.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  level,
		Prefix: "tudu",
	})
}

func parseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func (ap *app) doSignup(name, email string) int {
	password, err := readPassword("Password: ")
	if err != nil {
		ui.Fail("read password: " + err.Error())
		return 1
	}
	if password == "" {
		ui.Fail("signup: empty password")
		return 2
	}

	u, err := ap.dir.Register(name, email, password)
	if errors.Is(err, directory.ErrDuplicateEmail) {
		ui.Fail("signup: " + err.Error())
		return 2
	}
	if err != nil {
		ui.Fail("signup: " + err.Error())
		return 1
	}

	if err := ap.ses.SetCurrent(u); err != nil {
		ui.Fail("signup: " + err.Error())
		return 1
	}
	ui.OK("welcome, " + u.Name)
	return 0
}

func (ap *app) doLogin(email string) int {
	password, err := readPassword("Password: ")
	if err != nil {
		ui.Fail("read password: " + err.Error())
		return 1
	}

	u, err := ap.dir.Authenticate(email, password)
	if errors.Is(err, directory.ErrInvalidCredentials) {
		// one generic message for unknown email and wrong password
		ui.Fail("login: " + err.Error())
		return 2
	}
	if err != nil {
		ui.Fail("login: " + err.Error())
		return 1
	}

	if err := ap.ses.SetCurrent(u); err != nil {
		ui.Fail("login: " + err.Error())
		return 1
	}
	ui.OK("logged in as " + u.Name)
	return 0
}

func (ap *app) doLogout() int {
	if err := ap.ses.Clear(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func (ap *app) doWhoAmI() int {
	u, err := ap.ses.Current()
	if err != nil {
		ui.Fail("whoami: " + err.Error())
		return 1
	}
	if u == nil {
		fmt.Println(ui.MutedStyle.Render("not logged in"))
		fmt.Println("Run: tudu login <email>")
		return 0
	}
	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	return 0
}

// ensureUser requires a session for list and mutation commands.
func (ap *app) ensureUser() (model.User, int) {
	u, err := ap.ses.Current()
	if err != nil {
		ui.Fail(err.Error())
		return model.User{}, 1
	}
	if u == nil {
		ui.Fail("not logged in. Run `tudu login <email>` or `tudu signup <name> <email>`")
		return model.User{}, 2
	}
	return *u, 0
}

// readPassword reads without echo on a TTY, falling back to a plain
// line read when stdin is a pipe.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	r := bufio.NewReader(os.Stdin)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ---------------------------------------------------
// Todo subcommands
// ---------------------------------------------------

func (ap *app) openLedger() (*ledger.Ledger, model.User, int) {
	u, code := ap.ensureUser()
	if code != 0 {
		return nil, model.User{}, code
	}
	led, err := ledger.Open(ap.st, u.ID)
	if err != nil {
		ui.Fail(err.Error())
		return nil, model.User{}, 1
	}
	ap.log.Debug("ledger loaded", "user", u.ID, "items", led.Len())
	return led, u, 0
}

func (ap *app) doInteractive() int {
	led, u, code := ap.openLedger()
	if code != 0 {
		return code
	}
	if err := tui.Run(led, u); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (ap *app) doList(opt Options) int {
	led, u, code := ap.openLedger()
	if code != 0 {
		return code
	}
	items := led.Items()

	d, p := stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.TitleStyle.Render(u.Name+"'s todos"),
		ui.SuccessStyle.Render("✔"), d,
		ui.PendingStyle.Render("•"), p,
		ui.AccentStyle.Render("Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.MutedStyle.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.MutedStyle.Render("Tip: add with `tudu add \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

func (ap *app) doAdd(text string) int {
	led, _, code := ap.openLedger()
	if code != 0 {
		return code
	}

	if _, err := led.Add(text); err != nil {
		if errors.Is(err, ledger.ErrEmptyText) {
			ui.Fail("add: " + err.Error())
			return 2
		}
		ui.Fail("add: " + err.Error())
		return 1
	}
	ui.OK("added")
	return 0
}

func (ap *app) doEdit(userIndex int, text string) int {
	led, _, code := ap.openLedger()
	if code != 0 {
		return code
	}

	id, ok := resolveIndex(led, userIndex)
	if !ok {
		return 2
	}
	if err := led.Edit(id, text); err != nil {
		if errors.Is(err, ledger.ErrEmptyText) {
			ui.Fail("edit: " + err.Error())
			return 2
		}
		ui.Fail("edit: " + err.Error())
		return 1
	}
	ui.OK("updated")
	return 0
}

func (ap *app) doToggle(userIndex int) int {
	led, _, code := ap.openLedger()
	if code != 0 {
		return code
	}

	id, ok := resolveIndex(led, userIndex)
	if !ok {
		return 2
	}
	it, err := led.Toggle(id)
	if err != nil {
		ui.Fail("done: " + err.Error())
		return 1
	}
	if it.Completed {
		ui.OK("done")
	} else {
		ui.OK("reopened")
	}
	return 0
}

func (ap *app) doRemove(userIndex int) int {
	led, _, code := ap.openLedger()
	if code != 0 {
		return code
	}

	id, ok := resolveIndex(led, userIndex)
	if !ok {
		return 2
	}
	if err := led.Delete(id); err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}

// resolveIndex maps a 1-based user index onto an item id so the
// mutation names the logical item, not a position.
func resolveIndex(led *ledger.Ledger, userIndex int) (int64, bool) {
	id, ok := led.IDAt(userIndex - 1)
	if !ok {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", led.Len(), userIndex))
		ui.Hint("Hint: run `tudu list` to see valid indexes")
		return 0, false
	}
	return id, true
}

// -------------- rendering helpers --------------

func stats(items []model.Item) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.MutedStyle.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", i+1)
		box := ui.BoxUnchecked
		style := ui.MutedStyle
		if it.Completed {
			box, style = ui.BoxChecked, ui.SuccessStyle
		}
		text := it.Text
		if len(text) > 80 {
			text = text[:77] + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.MutedStyle.Render(idx), style.Render(box), text))
	}
	return out
}

func groupLines(items []model.Item) []string {
	var pend, done []model.Item
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, ui.AccentStyle.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.MutedStyle.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.AccentStyle.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, ui.MutedStyle.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
