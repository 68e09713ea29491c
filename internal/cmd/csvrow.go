package cmd

import (
	"bufio"
	"bytes"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"sandboxbench/internal/tui"
)

// csvRowWriter implements io.Writer over a benchmark's CSV output stream,
// parsing each complete line into a tui.RowMsg and forwarding it to msgs so
// the dashboard can render rows as they're produced instead of waiting for
// the run to finish.
type csvRowWriter struct {
	msgs chan<- tea.Msg
	buf  bytes.Buffer
}

func newCSVRowWriter(msgs chan<- tea.Msg) *csvRowWriter {
	return &csvRowWriter{msgs: msgs}
}

func (w *csvRowWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	scanner := bufio.NewScanner(bytes.NewReader(w.buf.Bytes()))
	var consumed int
	for scanner.Scan() {
		line := scanner.Text()
		consumed += len(line) + 1
		w.emit(line)
	}
	remaining := w.buf.Bytes()[consumed:]
	w.buf.Reset()
	w.buf.Write(remaining)
	return len(p), nil
}

func (w *csvRowWriter) emit(line string) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 || fields[0] == "SYSTEM" {
		return
	}
	row := tui.Row{System: fields[0], OpType: fields[1]}
	if len(fields) > 2 {
		row.Value = strings.Join(fields[2:], ",")
	}
	w.msgs <- tui.RowMsg(row)
}
