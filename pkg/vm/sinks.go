package vm

import (
	"bufio"
	"io"
)

// Console receives one line per console.log call.
type Console interface {
	Log(line string)
}

// Page receives every write to document.body.textContent.
type Page interface {
	SetText(text string)
}

// Recorder keeps console lines and the latest page text in memory.
type Recorder struct {
	Lines   []string
	Text    string
	TextSet bool
}

func (r *Recorder) Log(line string) {
	r.Lines = append(r.Lines, line)
}

func (r *Recorder) SetText(text string) {
	r.Text = text
	r.TextSet = true
}

type writerConsole struct {
	w *bufio.Writer
}

// NewWriterConsole writes each console line to w followed by a newline.
func NewWriterConsole(w io.Writer) Console {
	return &writerConsole{w: bufio.NewWriter(w)}
}

func (c *writerConsole) Log(line string) {
	c.w.WriteString(line)
	c.w.WriteByte('\n')
	c.w.Flush()
}

type discardPage struct{}

func (discardPage) SetText(string) {}
