package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"MarkupBoard/internal/state"
)

const script = `{"action":"setSize","width":120,"height":80}
{"action":"addPath","id":1,"color":"#ff0000","strokeWidth":4,"points":[{"x":10,"y":10},{"x":100,"y":60}]}
{"action":"addShape","shapeType":"Square"}
`

func TestReplay(t *testing.T) {
	b := state.NewBoard(state.DefaultOptions())
	n, err := replay(strings.NewReader(script), b, true)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("applied %d commands, want 3", n)
	}
	if len(b.Paths()) != 1 || len(b.Entities()) != 1 {
		t.Errorf("paths=%d entities=%d", len(b.Paths()), len(b.Entities()))
	}
}

func TestReplaySkipsFailures(t *testing.T) {
	bad := script + `{"action":"frobnicate"}` + "\n" + `{"action":"undo"}` + "\n"

	b := state.NewBoard(state.DefaultOptions())
	n, err := replay(strings.NewReader(bad), b, false)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("applied %d commands, want 4", n)
	}

	b = state.NewBoard(state.DefaultOptions())
	_, err = replay(strings.NewReader(bad), b, true)
	if !errors.Is(err, state.ErrUnknownCommand) {
		t.Errorf("strict replay error = %v", err)
	}
}

func TestReplayRejectsMalformedJSON(t *testing.T) {
	b := state.NewBoard(state.DefaultOptions())
	if _, err := replay(strings.NewReader("{nope"), b, false); err == nil {
		t.Error("expected decode error")
	}
}

func TestWrite(t *testing.T) {
	b := state.NewBoard(state.DefaultOptions())
	if _, err := replay(strings.NewReader(script), b, true); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	for _, name := range []string{"out.png", "out.jpeg", "nested/out.pdf"} {
		path, err := write(b, filepath.Join(dir, name), state.FlattenOptions{IncludeText: true})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	if _, err := write(b, filepath.Join(dir, "out.gif"), state.FlattenOptions{}); err == nil {
		t.Error("expected unsupported format error")
	}
}
