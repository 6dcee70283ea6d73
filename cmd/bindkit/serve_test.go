package main

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bindkit-dev/bindkit/pkg/bind"
	"github.com/bindkit-dev/bindkit/pkg/dom"
	"github.com/bindkit-dev/bindkit/pkg/wire"
)

// mountApp binds the demo list and returns a wait func synchronized with
// the mount goroutine.
func mountApp(t *testing.T, app *demoApp) (*bind.MountHandle, func() bind.Applied) {
	t.Helper()

	applied := make(chan bind.Applied, 16)
	handle, err := bind.EachOf(app.todos.Data(), todoKey).Bind(app.region, app.render,
		bind.WithObserver[todo](func(a bind.Applied) { applied <- a }),
	)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	t.Cleanup(handle.Dispose)

	wait := func() bind.Applied {
		select {
		case a := <-applied:
			return a
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for snapshot to apply")
			return bind.Applied{}
		}
	}
	return handle, wait
}

func TestDemoAppPage(t *testing.T) {
	app := newDemoApp("bindkit demo")
	defer app.Close()

	_, wait := mountApp(t, app)
	if a := wait(); a.Err != nil {
		t.Fatalf("initial snapshot failed: %v", a.Err)
	}

	html := dom.RenderHTML(app.Page())
	for _, want := range []string{
		`id="todos"`,
		"bindkit demo",
		"try the demo",
		"toggle a todo",
		"<textarea",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
}

func TestDemoAppHandleEvent(t *testing.T) {
	app := newDemoApp("demo")
	defer app.Close()

	_, wait := mountApp(t, app)
	wait()

	app.handleEvent(&wire.Event{Region: "todos", Name: "add", Value: "ship it"})
	wait()
	todos := app.todos.Get()
	if len(todos) != 4 || todos[3].Text != "ship it" || todos[3].ID != 4 {
		t.Fatalf("after add: %+v", todos)
	}
	if app.draft.Get() != "" {
		t.Errorf("draft = %q after add, want empty", app.draft.Get())
	}

	app.handleEvent(&wire.Event{Region: "todos", Name: "change", Key: "1", Value: "false"})
	wait()
	if got := app.todos.Get()[0]; got.Done {
		t.Errorf("todo 1 still done after change: %+v", got)
	}

	app.handleEvent(&wire.Event{Region: "todos", Name: "click", Key: "2"})
	wait()
	for _, item := range app.todos.Get() {
		if item.ID == 2 {
			t.Errorf("todo 2 still present after click: %+v", app.todos.Get())
		}
	}

	// Malformed keys and empty adds are dropped.
	app.handleEvent(&wire.Event{Region: "todos", Name: "click", Key: "nope"})
	app.handleEvent(&wire.Event{Region: "todos", Name: "add", Value: ""})
	if got := len(app.todos.Get()); got != 3 {
		t.Errorf("todo count = %d after dropped events, want 3", got)
	}
}

func TestPageRendersDuringItemUpdates(t *testing.T) {
	app := newDemoApp("demo")
	defer app.Close()

	_, wait := mountApp(t, app)
	wait()

	// Renders race structural patches and sub-stream node edits unless
	// everything shares the app mutex.
	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = dom.RenderHTML(app.Page())
			}
		}
	}()

	for i := 0; i < 50; i++ {
		app.setDone(2, i%2 == 0)
		app.handleEvent(&wire.Event{Region: "todos", Name: "add", Value: "extra"})
		wait() // setDone's snapshot
		wait() // add's snapshot
	}
	close(stop)
	wg.Wait()

	if got := len(app.todos.Get()); got != 53 {
		t.Errorf("todo count = %d, want 53", got)
	}
	html := dom.RenderHTML(app.Page())
	if !strings.Contains(html, "extra") {
		t.Errorf("page missing added todo:\n%s", html)
	}
}
