// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"evaldb/cli/internal/logging"
	"evaldb/cli/pkg/evaldb"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startSpinner shows text with a rotating frame in a pterm area until the
// returned function is called. Nothing is drawn when stdout is not a
// terminal, so piped output stays clean.
func startSpinner(text string) func() {
	if !logging.IsTerminal() {
		return func() {}
	}
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return func() {}
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		i := 0
		for {
			select {
			case <-t.C:
				area.Update(fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text))
				i++
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			_ = area.Stop()
			cursor.Show()
		})
	}
}

// printValue writes v as indented JSON followed by a newline. Key order and
// number text are kept as the server sent them.
func printValue(w io.Writer, v evaldb.Value) error {
	raw, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

// printMeta renders the execution metadata of res as a table.
func printMeta(w io.Writer, res *evaldb.Result) error {
	warm := "no"
	if res.Warm {
		warm = "yes"
	}
	return pterm.DefaultTable.
		WithHasHeader().
		WithWriter(w).
		WithData(pterm.TableData{
			{"gen", "parent", "warm", "walltime"},
			{fmt.Sprint(res.Gen), fmt.Sprint(res.Parent), warm, res.WallTime.String()},
		}).
		Render()
}
