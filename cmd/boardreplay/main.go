// Command boardreplay applies a script of board commands without a window
// and writes the flattened result.
//
// The script holds one JSON command per line, in the format the websocket
// bridge accepts:
//
//	{"action":"setSize","width":800,"height":600}
//	{"action":"addPath","id":1,"color":"#ff0000","strokeWidth":4,"points":[{"x":10,"y":10},{"x":200,"y":120}]}
//	{"action":"addShape","shapeType":"Circle"}
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"MarkupBoard/internal/config"
	"MarkupBoard/internal/export"
	"MarkupBoard/internal/state"
)

func main() {
	configPath := flag.String("config", "", "path to "+config.FileName)
	in := flag.String("in", "", "command script (default stdin)")
	out := flag.String("out", "board.png", "output image, format taken from the extension")
	events := flag.Bool("events", false, "print board events as JSON lines")
	strict := flag.Bool("strict", false, "stop at the first failing command")
	transparent := flag.Bool("transparent", false, "keep the background transparent (png only)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[BOARD] %v", err)
	}
	opts, err := cfg.BoardOptions()
	if err != nil {
		log.Fatalf("[BOARD] %v", err)
	}

	var r io.Reader = os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			log.Fatalf("Failed to open script: %v", err)
		}
		defer f.Close()
		r = f
	}

	board := state.NewBoard(opts)
	if *events {
		enc := json.NewEncoder(os.Stdout)
		board.OnEvent = func(ev state.Event) {
			if err := enc.Encode(ev); err != nil {
				log.Printf("Failed to print event: %v", err)
			}
		}
	}

	n, err := replay(r, board, *strict)
	if err != nil {
		log.Fatalf("Replay stopped after %d commands: %v", n, err)
	}
	log.Printf("Replayed %d commands", n)

	path, err := write(board, *out, state.FlattenOptions{
		Transparent:  *transparent,
		IncludeImage: true,
		IncludeText:  true,
	})
	if err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	fmt.Println(path)
}

// replay applies every command in r and returns how many were applied.
// Failing commands are logged and skipped unless strict is set.
func replay(r io.Reader, b *state.Board, strict bool) (int, error) {
	dec := json.NewDecoder(r)
	n := 0
	for {
		var c state.Command
		err := dec.Decode(&c)
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("bad command %d: %w", n+1, err)
		}

		if err := b.Apply(c); err != nil {
			if strict {
				return n, fmt.Errorf("command %d (%s): %w", n+1, c.Action, err)
			}
			log.Printf("Skipping command %d (%s): %v", n+1, c.Action, err)
			continue
		}
		n++
	}
}

// write flattens b into out, choosing the format from its extension.
func write(b *state.Board, out string, opts state.FlattenOptions) (string, error) {
	ext := filepath.Ext(out)
	f, err := export.ParseFormat(ext)
	if err != nil {
		return "", err
	}
	opts.Transparent = opts.Transparent && f.SupportsAlpha()

	img, err := b.Flatten(opts)
	if err != nil {
		return "", err
	}
	return export.Save(filepath.Dir(out), strings.TrimSuffix(filepath.Base(out), ext), img, f)
}
