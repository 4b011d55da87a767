// Package console runs an interactive terminal front end over a command
// dispatcher. Lines whose first token is a registered command root are
// executed; every other line is handed to a watch hub as user input, so the
// console doubles as a plain input feed for whatever sits behind it.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/commandry/commandry/command"
	"github.com/commandry/commandry/env"
	"github.com/commandry/commandry/message"
	"github.com/commandry/commandry/watch"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
)

var (
	// QuitCommands are the bare lines that end [Console.Run].
	QuitCommands = []string{"quit", "exit"}
	// HelpCommand is the bare line that prints the registered help entries.
	HelpCommand = "help"
)

// Options configures a Console. The zero value reads stdin, writes stdout,
// and replies at guest permission; start from [DefaultOptions] for the
// usual interactive defaults.
type Options struct {
	// Prompt is printed before each read when the input is a terminal.
	Prompt string
	// Permission is the permission level of the console source.
	Permission int
	// LogLevel names the slog level used by [Options.ParseLevel].
	LogLevel string

	// In, Out default to stdin and stdout. Prompts go to Err, defaulting
	// to stderr, so piped output stays clean.
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Log *slog.Logger
}

// DefaultOptions returns the interactive defaults: a "> " prompt, owner
// permission, and info-level logging. The COMMANDRY_PROMPT,
// COMMANDRY_PERMISSION, and COMMANDRY_LOG_LEVEL environment variables
// override them.
func DefaultOptions() Options {
	return Options{
		Prompt:     env.Val("COMMANDRY_PROMPT", "> "),
		Permission: env.Int("COMMANDRY_PERMISSION", command.Owner),
		LogLevel:   env.Val("COMMANDRY_LOG_LEVEL", "info"),
	}
}

// BindFlags registers the console's flags on fs.
func (o *Options) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.Prompt, "prompt", o.Prompt, "interactive prompt")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level (debug, info, warn, or error)")
}

// ParseLevel resolves the LogLevel field to a slog level.
func (o *Options) ParseLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return 0, fmt.Errorf("bad log level %q: %w", o.LogLevel, err)
	}
	return lvl, nil
}

// Console wires a dispatcher and a hub to a line-based terminal.
type Console struct {
	dispatcher *command.Dispatcher
	hub        *watch.Hub
	opts       Options
	src        *consoleSource
	inTTY      bool
}

// New builds a console over d and hub. hub may be nil, in which case
// non-command lines are dropped with a debug log.
func New(d *command.Dispatcher, hub *watch.Hub, opts Options) *Console {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	c := &Console{
		dispatcher: d,
		hub:        hub,
		opts:       opts,
		inTTY:      isTerminal(opts.In),
	}
	c.src = &consoleSource{
		level: opts.Permission,
		out:   opts.Out,
		// NO_COLOR disables styling even on a terminal.
		ansi: isTerminal(opts.Out) && env.Val("NO_COLOR", "") == "",
	}
	return c
}

// Source returns the command source console input runs as.
func (c *Console) Source() command.Source {
	return c.src
}

// Run reads lines until a quit command, end of input, or context
// cancellation. It returns the context's error when ctx ends the loop.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(c.opts.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		c.prompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			return err
		case line := <-lines:
			if c.handle(strings.TrimSpace(line)) {
				return nil
			}
		}
	}
}

// handle processes one line, reporting whether the loop should stop.
func (c *Console) handle(line string) bool {
	switch {
	case line == "":
		return false
	case slices.Contains(QuitCommands, strings.ToLower(line)):
		return true
	case strings.ToLower(line) == HelpCommand:
		c.printHelp()
		return false
	}
	err := c.dispatcher.Execute(c.src, line)
	switch {
	case err == nil:
	case errors.Is(err, command.ErrUnknownCommand):
		c.forward(line)
	default:
		c.src.Reply(message.Styled(err.Error(), message.Red))
	}
	return false
}

func (c *Console) forward(line string) {
	if c.hub == nil {
		c.opts.Log.Debug("dropping non-command input", "line", line)
		return
	}
	c.hub.Dispatch(watch.Info{Content: line, IsUser: true})
}

func (c *Console) prompt() {
	if c.inTTY && c.opts.Prompt != "" {
		fmt.Fprint(c.opts.Err, c.opts.Prompt)
	}
}

func (c *Console) printHelp() {
	entries := c.dispatcher.HelpEntries()
	if len(entries) == 0 {
		fmt.Fprintln(c.opts.Out, "no commands registered")
		return
	}
	width := 0
	if f, ok := c.opts.Out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
		}
	}
	tw := tabwriter.NewWriter(c.opts.Out, 0, 1, 4, ' ', 0)
	for _, e := range entries {
		help := e.Text.Plain()
		// Keep each row on one terminal line so the table stays readable.
		if room := width - len(e.Prefix) - 8; width > 0 && room > 3 && len(help) > room {
			help = help[:room-3] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\n", e.Prefix, help)
	}
	_ = tw.Flush()
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type consoleSource struct {
	level int
	out   io.Writer
	ansi  bool
}

func (s *consoleSource) IsPlayer() bool {
	return false
}

func (s *consoleSource) IsConsole() bool {
	return true
}

func (s *consoleSource) PermissionLevel() int {
	return s.level
}

func (s *consoleSource) Reply(msg *message.Text) {
	if msg == nil {
		return
	}
	if s.ansi {
		fmt.Fprintln(s.out, msg.ANSI())
		return
	}
	fmt.Fprintln(s.out, msg.Plain())
}
