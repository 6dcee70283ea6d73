package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/bindkit-dev/bindkit/internal/config"
	"github.com/bindkit-dev/bindkit/pkg/bind"
	"github.com/bindkit-dev/bindkit/pkg/dom"
	"github.com/bindkit-dev/bindkit/pkg/live"
	"github.com/bindkit-dev/bindkit/pkg/stream"
	"github.com/bindkit-dev/bindkit/pkg/ui"
	"github.com/bindkit-dev/bindkit/pkg/wire"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		host       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo list application",
		Long: `Serve a small todo application that exercises the full stack:
a keyed sequence binding over a todo store, patch scripts pushed over
WebSocket, and Prometheus metrics on /metrics.

Examples:
  bindkit serve
  bindkit serve --port=9000
  bindkit serve --config=./bindkit.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, host, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to bindkit.json (default: ./bindkit.json if present)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (overrides config)")

	return cmd
}

// todo is the demo application's list item.
type todo struct {
	ID   int
	Text string
	Done bool
}

func todoKey(t todo) string {
	return strconv.Itoa(t.ID)
}

// demoApp holds the todo page, its stores, and the mutex that serializes
// node mutation against page renders. The mount goroutine and the per-item
// sub-stream goroutines write nodes while every GET reads the tree, so all
// writes go through mu and Page hands out a copy taken under it.
type demoApp struct {
	mu     sync.Mutex
	page   *dom.Node
	region dom.Region

	todos  *stream.Store[[]todo]
	draft  *stream.Store[string]
	nextID int
}

func newDemoApp(name string) *demoApp {
	app := &demoApp{
		todos: stream.NewStore([]todo{
			{ID: 1, Text: "try the demo", Done: true},
			{ID: 2, Text: "toggle a todo"},
			{ID: 3, Text: "watch the patch scripts flow"},
		}),
		draft:  stream.NewStore(""),
		nextID: 4,
	}

	list := dom.Ul(dom.ID("todos"))
	app.region = &lockedRegion{mu: &app.mu, inner: dom.NewRegion(list)}
	app.page = dom.Div(
		dom.ID("app"),
		dom.El("h1", name),
		ui.FormControl("New todo",
			ui.Textarea(app.draft, ui.TextareaRows(1), ui.TextareaPlaceholder("What needs doing?")),
			ui.ControlID("new-todo"),
		),
		list,
	)
	return app
}

// Page returns a copy of the current tree taken under the app mutex, so
// a render never observes a node mid-rewrite.
func (a *demoApp) Page() *dom.Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page.Clone()
}

func (a *demoApp) Close() {
	a.todos.Close()
	a.draft.Close()
}

// render produces one list row. The row's checkbox and text track the
// item's sub-stream, so edits to a retained todo update the node without
// a structural patch.
func (a *demoApp) render(item todo, updates *stream.Source[todo]) (*dom.Node, error) {
	key := todoKey(item)
	text := dom.Span(item.Text)
	checkbox := dom.Input(
		dom.Type("checkbox"),
		dom.Checked(item.Done),
		dom.On("change", func(value string) {
			a.setDone(item.ID, value == "true")
		}),
	)
	row := dom.Li(
		dom.AttrOf("data-key", key),
		checkbox,
		text,
		dom.Button("remove", dom.On("click", func(string) {
			a.removeTodo(item.ID)
		})),
	)

	ch, _ := updates.Subscribe(nil)
	go func() {
		for t := range ch {
			a.mu.Lock()
			text.Children = []*dom.Node{dom.Text(t.Text)}
			if t.Done {
				checkbox.SetAttr("checked", "checked")
			} else {
				delete(checkbox.Attrs, "checked")
			}
			a.mu.Unlock()
		}
	}()

	return row, nil
}

// handleEvent applies one client event to the stores. Events arrive on
// per-client read goroutines, so anything shared goes through the stores
// or the app mutex.
func (a *demoApp) handleEvent(ev *wire.Event) {
	switch {
	case ev.Region == "todos" && ev.Name == "change":
		id, err := strconv.Atoi(ev.Key)
		if err != nil {
			return
		}
		a.setDone(id, ev.Value == "true")

	case ev.Region == "todos" && ev.Name == "click":
		id, err := strconv.Atoi(ev.Key)
		if err != nil {
			return
		}
		a.removeTodo(id)

	case ev.Region == "todos" && ev.Name == "add":
		if ev.Value == "" {
			return
		}
		a.mu.Lock()
		id := a.nextID
		a.nextID++
		a.mu.Unlock()
		a.todos.Handle(func(current []todo) []todo {
			return append(append([]todo(nil), current...), todo{ID: id, Text: ev.Value})
		})
		a.draft.Update("")
	}
}

func (a *demoApp) setDone(id int, done bool) {
	a.todos.Handle(func(current []todo) []todo {
		out := append([]todo(nil), current...)
		for i := range out {
			if out[i].ID == id {
				out[i].Done = done
			}
		}
		return out
	})
}

func (a *demoApp) removeTodo(id int) {
	a.todos.Handle(func(current []todo) []todo {
		out := current[:0:0]
		for _, t := range current {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
}

// lockedRegion serializes structural edits with page snapshots: the mount
// goroutine rewrites the list's children through it while GETs copy the
// tree under the same mutex.
type lockedRegion struct {
	mu    *sync.Mutex
	inner dom.Region
}

func (r *lockedRegion) InsertAfter(ref, n *dom.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inner.InsertAfter(ref, n)
}

func (r *lockedRegion) Remove(n *dom.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inner.Remove(n)
}

func (r *lockedRegion) MoveBefore(n, ref *dom.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inner.MoveBefore(n, ref)
}

func (r *lockedRegion) Nodes() []*dom.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inner.Nodes()
}

func runServe(configPath, host string, port int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogging(cfg.Log.Level)
	logger := slog.Default().With("component", "serve")

	app := newDemoApp(cfg.Name)
	defer app.Close()

	registry := prometheus.NewRegistry()
	metrics := bind.NewMetrics(
		bind.WithNamespace(cfg.Metrics.Namespace),
		bind.WithRegistry(registry),
	)

	liveOpts := []live.Option{
		live.WithPage(app.Page),
		live.WithEventHandler(app.handleEvent),
	}
	if cfg.Metrics.Enabled {
		liveOpts = append(liveOpts, live.WithMetrics(registry))
	}

	srv := live.NewServer(&live.Config{
		Address:           cfg.Address(),
		ReadTimeout:       cfg.ReadTimeout(60 * time.Second),
		WriteTimeout:      cfg.WriteTimeout(10 * time.Second),
		HeartbeatInterval: cfg.HeartbeatInterval(30 * time.Second),
	}, liveOpts...)

	handle, err := bind.EachOf(app.todos.Data(), todoKey).Bind(app.region, app.render,
		bind.WithMetrics[todo](metrics),
		bind.WithObserver[todo](srv.Publisher("todos")),
	)
	if err != nil {
		return err
	}
	defer handle.Dispose()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	fmt.Printf("Serving on http://%s\n", cfg.Address())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return srv.Shutdown(context.Background())
}

// loadConfig reads the configuration, falling back to defaults when no
// file is present and none was requested explicitly.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if config.Exists(".") {
		return config.Load(".")
	}
	cfg := config.New()
	cfg.Name = "bindkit demo"
	cfg.Metrics.Enabled = true
	return cfg, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
