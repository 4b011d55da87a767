// Command commandry runs a small interactive shell wired through the whole
// module: a declared command set with guarded literals, bounded and union
// arguments, trailing defaults, a job-serialized operation, a file-backed
// permission table, and a watch hub receiving every non-command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/commandry/commandry/cmdset"
	"github.com/commandry/commandry/command"
	"github.com/commandry/commandry/console"
	"github.com/commandry/commandry/env"
	"github.com/commandry/commandry/jobs"
	"github.com/commandry/commandry/message"
	"github.com/commandry/commandry/signalx"
	"github.com/commandry/commandry/slogx"
	"github.com/commandry/commandry/storage"
	"github.com/commandry/commandry/watch"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
)

type demoConfig struct {
	Motd        string              `json:"motd" yaml:"motd" toml:"motd" mapstructure:"motd"`
	MaxBackups  int                 `json:"max_backups" yaml:"max_backups" toml:"max_backups" mapstructure:"max_backups"`
	Permissions storage.Permissions `json:"permissions" yaml:"permissions" toml:"permissions" mapstructure:"permissions"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "commandry:", err)
		os.Exit(1)
	}
}

func run() error {
	opts := console.DefaultOptions()
	fs := flag.NewFlagSet("commandry", flag.ExitOnError)
	configPath := fs.String("config", env.Val("COMMANDRY_CONFIG", "commandry.json"), "config file path")
	logFile := fs.String("log-file", env.Val("COMMANDRY_LOG_FILE", ""), "also write JSON logs to this file")
	opts.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	lvl, err := opts.ParseLevel()
	if err != nil {
		return err
	}
	handler := slog.Handler(slogx.NewConsoleHandler(os.Stderr, &slogx.ConsoleOptions{
		Level: lvl,
		ANSI:  term.IsTerminal(int(os.Stderr.Fd())) && env.Val("NO_COLOR", "") == "",
	}))
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		defer f.Close()
		handler = slogx.Tee(handler, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl}))
	}
	log := slog.New(handler)
	slog.SetDefault(log)
	opts.Log = log

	cfg := storage.NewFile(*configPath, demoConfig{
		Motd:       "welcome to commandry",
		MaxBackups: 3,
		Permissions: storage.Permissions{
			Levels:   map[string]int{"backup": command.Helper, "motd": command.Admin},
			Fallback: command.User,
		},
	}, storage.WithSyncSave())
	if err := cfg.Load(); err != nil {
		return err
	}

	manager := jobs.NewManager(jobs.WithLogger(log))
	decl := declareDemo(cfg, manager)
	set := decl.New(cmdset.WithLiteralGuard(func(word string) *cmdset.Requirement {
		pred := func(src command.Source) bool {
			c := cfg.Get()
			return c.Permissions.Check(src, word)
		}
		conf := cfg.Get()
		_, failure := conf.Permissions.Requirement(word)
		return cmdset.Requires(pred, failure).AtBase()
	}))
	defer set.Teardown()

	host := command.NewDispatcher(command.WithLogger(log))
	if err := set.RegisterTo(host); err != nil {
		return err
	}

	hub := watch.NewHub(watch.WithLogger(log))
	hub.Watch(func(info watch.Info) {
		log.Info("observed input", "line", info.Content)
	}, watch.MatchFunc(func(info watch.Info) bool { return info.IsUser }))

	ctx, stop := signalx.Shutdown(context.Background())
	defer stop()

	err = console.New(host, hub, opts).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func declareDemo(cfg *storage.File[demoConfig], manager *jobs.Manager) *cmdset.Decl {
	backup := cmdset.NewLiteral("backup", "bak")
	backup.Runs(manager.Func("backup", func(owner *cmdset.Set, src command.Source, args cmdset.Args) error {
		name, keep := args.Str(0), args.Int(1)
		if limit := cfg.Get().MaxBackups; keep > limit {
			keep = limit
		}
		time.Sleep(200 * time.Millisecond)
		src.Reply(message.Join(message.New(" "),
			message.Newf("backed up %q keeping %d copies;", name, keep),
			message.Command("run again", "!!demo backup "+name),
		))
		return nil
	}), cmdset.Text("name"), cmdset.Integer("keep", 1, 10).Default(3))

	warp := cmdset.NewLiteral("warp")
	warp.Runs(func(owner *cmdset.Set, src command.Source, args cmdset.Args) error {
		switch v := args.At(0).(type) {
		case int:
			src.Reply(message.Newf("warping to anchor %d", v))
		case string:
			src.Reply(message.Newf("warping to %q", v))
		}
		return nil
	}, cmdset.Integer("where").Or(cmdset.Text("where")).Default("spawn"))

	motd := cmdset.NewLiteral("motd")
	motd.Runs(func(owner *cmdset.Set, src command.Source, args cmdset.Args) error {
		if err := cfg.Update(func(c *demoConfig) { c.Motd = args.Str(0) }); err != nil {
			return err
		}
		src.Reply(message.Copyable("motd updated", args.Str(0)))
		return nil
	}, cmdset.GreedyText("text"))

	help := func(owner *cmdset.Set, src command.Source, args cmdset.Args) error {
		var names []string
		for _, n := range command.Children(owner.Node()) {
			if words := command.LiteralWords(n); len(words) > 0 {
				names = append(names, words[0])
			}
		}
		src.Reply(message.Newf("subcommands: %s", strings.Join(names, ", ")))
		return nil
	}

	return cmdset.Declare(cmdset.Spec{
		Name:     "demo",
		Prefix:   "!!demo",
		Members:  []any{backup, warp, motd},
		Help:     help,
		HelpText: message.New("demonstration command set"),
	})
}
