// Command loom-demo is a small todo list built with loom.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kungfusheep/loom"
	"github.com/kungfusheep/loom/key"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	logFile      string
	logLevel     string
	colorProfile string
)

var rootCmd = &cobra.Command{
	Use:   "loom-demo",
	Short: "A todo list running on loom",
	Long: `loom-demo shows a todo list.

  tab / shift-tab   move between the input and the items
  enter             add the typed item, or toggle the focused one
  space             toggle the focused item
  x                 delete the focused item
  pgup / pgdown     scroll the list
  ctrl-d            quit (exit_key in the config)`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (.toml, .yaml)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.Flags().StringVar(&colorProfile, "color-profile", "", "auto, truecolor, 256, 16 or none")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := loom.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = loom.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logLevel != "" {
		lvl, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = lvl
	}
	if colorProfile != "" {
		p, err := loom.ParseProfile(colorProfile)
		if err != nil {
			return err
		}
		cfg.ColorProfile = p
	}

	logger, closer, err := loom.OpenLog(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	todos := loom.NewObservable(
		todo{id: 1, title: "water the plants"},
		todo{id: 2, title: "write the release notes", done: true},
		todo{id: 3, title: "call the bank"},
	)
	app := loom.NewApp(todoList{todos: todos, accent: cfg.AccentColor},
		loom.WithConfig(cfg),
		loom.WithLogger(logger),
	)
	return app.Run(cmd.Context())
}

type todo struct {
	id    int
	title string
	done  bool
}

// doneCount sums the rows that report themselves done.
var doneCount = loom.NewPreferenceKey("done", 0, func(v *int, next int) { *v += next })

type todoList struct {
	todos  *loom.Observable[todo]
	accent loom.Color
}

func (l todoList) Body(ctx *loom.Context) loom.View {
	items := l.todos.Items(ctx)
	done := loom.UseState(ctx, "done", 0)
	nextID := loom.UseState(ctx, "nextID", len(items)+1)
	draft := loom.UseState(ctx, "draft", "")

	add := func(title string) {
		title = strings.TrimSpace(title)
		if title == "" {
			return
		}
		id := nextID.Get()
		nextID.Set(id + 1)
		l.todos.Add(todo{id: id, title: title})
	}

	return loom.GeometryReader(func(size loom.Size) loom.View {
		list := loom.VStack(
			loom.Text("todo").Bold().Foreground(l.accent),
			loom.TextField(draft.Binding(), add).Placeholder("new item"),
			loom.ScrollView(loom.ForEach(items, func(t todo) int { return t.id }, func(t todo) loom.View {
				return row{todo: t, todos: l.todos}
			})),
			loom.HStack(
				loom.Textf("%d of %d done", done.Get(), len(items)).Dim(),
				loom.Spacer(),
				loom.Textf("%dx%d", size.Width.Int(), size.Height.Int()).Dim(),
				clock{},
			),
		)
		return loom.OnPreferenceChange(list, doneCount, done.Set)
	})
}

type row struct {
	todo  todo
	todos *loom.Observable[todo]
}

func (r row) Body(*loom.Context) loom.View {
	mark := "[ ]"
	reported := 0
	if r.todo.done {
		mark = "[x]"
		reported = 1
	}
	id := r.todo.id
	toggle := func() { r.update(id, func(t *todo) { t.done = !t.done }) }
	remove := func() {
		if i := r.index(id); i >= 0 {
			r.todos.RemoveAt(i)
		}
	}
	return loom.Preference(
		loom.OnKeyPress(loom.Button(toggle, loom.Text(mark), loom.Text(r.todo.title)), key.Char('x'), remove),
		doneCount, reported,
	)
}

func (r row) index(id int) int {
	for i := range r.todos.Len() {
		if r.todos.At(i).id == id {
			return i
		}
	}
	return -1
}

func (r row) update(id int, fn func(*todo)) {
	if i := r.index(id); i >= 0 {
		r.todos.Update(i, fn)
	}
}

// clock shows the time, updated by a background task.
type clock struct{}

func (clock) Body(ctx *loom.Context) loom.View {
	now := loom.UseState(ctx, "now", time.Now())
	return loom.Task(loom.Text(now.Get().Format(time.TimeOnly)), func(tc loom.TaskContext) error {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-tc.Done():
				return tc.Err()
			case t := <-tick.C:
				tc.Post(func() { now.Set(t) })
			}
		}
	})
}
