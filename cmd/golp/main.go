package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	golp "github.com/lprolog/golp"
	"github.com/lprolog/golp/engine"
)

type config struct {
	Prompt  string `toml:"prompt"`
	History string `toml:"history"`
	Steps   int64  `toml:"steps"`
}

var defaults = config{
	Prompt:  "?- ",
	History: ".golp_history",
}

func main() {
	verbose := pflag.BoolP("verbose", "v", false, "enable debug logging")
	trace := pflag.Bool("trace", false, "trace the resolution loop")
	goals := pflag.StringArrayP("exec", "e", nil, "goal to run (repeatable)")
	steps := pflag.Int64("steps", 0, "step bound per query, 0 for unbounded")
	pflag.Parse()

	logrus.SetOutput(os.Stderr)
	if *verbose || *trace {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := loadConfig()
	if *steps == 0 {
		*steps = cfg.Steps
	}

	i := golp.New()
	i.Trace = *trace
	i.StepLimit = *steps

	if err := i.ParseFiles(pflag.Args()...); err != nil {
		logrus.Fatal(err)
	}

	switch {
	case len(*goals) > 0:
		for _, g := range *goals {
			if !run(i, g) {
				os.Exit(1)
			}
		}
	case isatty.IsTerminal(os.Stdin.Fd()):
		repl(i, cfg)
	default:
		batch(i)
	}
}

func loadConfig() config {
	cfg := defaults
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".golprc.toml")
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		logrus.WithField("file", path).Warn(err)
	}
	return cfg
}

// run proves one goal and reports the outcome on stdout.
func run(i *golp.Interpreter, goal string) bool {
	b, err := i.Solve(goal)
	switch {
	case errors.Is(err, engine.ErrNoClause):
		fmt.Println("no")
		return false
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	if len(b) == 0 {
		fmt.Println("yes")
		return true
	}
	for n, v := range b {
		fmt.Printf("%s = %s\n", n, v)
	}
	return true
}

func repl(i *golp.Interpreter, cfg config) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	history := cfg.History
	if home, err := os.UserHomeDir(); err == nil && !filepath.IsAbs(history) {
		history = filepath.Join(home, history)
	}
	if f, err := os.Open(history); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		src, err := line.Prompt(cfg.Prompt)
		if err != nil {
			return
		}
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		line.AppendHistory(src)
		run(i, src)
	}
}

func batch(i *golp.Interpreter) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		src := strings.TrimSpace(sc.Text())
		if src == "" || strings.HasPrefix(src, "%") {
			continue
		}
		if !run(i, src) {
			os.Exit(1)
		}
	}
	if err := sc.Err(); err != nil {
		logrus.Fatal(err)
	}
}
