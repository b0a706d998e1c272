package cmdutil

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWarnfInfofQuiet(t *testing.T) {
	var buf bytes.Buffer
	Warnf(&buf, false, "x=%d", 1)
	Infof(&buf, false, "hello %s", "there")
	Warnf(&buf, true, "hidden")
	Infof(&buf, true, "hidden")
	Errorf(&buf, "boom")
	if got := buf.String(); got != "WARN: x=1\nhello there\nERROR: boom\n" {
		t.Fatalf("got %q", got)
	}
}

func TestProgressCountsErrors(t *testing.T) {
	var buf bytes.Buffer
	p := &Progress{Out: &buf}
	p.Observe(1, 4, "q1", false)
	p.Observe(2, 4, "q2", true)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: %q", lines)
	}
	if lines[1] != "2 of 4 queries complete (50.00% done, 1 errors) q2" {
		t.Fatalf("line %q", lines[1])
	}
	q := &Progress{Out: &buf, Quiet: true}
	q.Observe(1, 1, "q", true)
	if q.Errors() != 1 {
		t.Fatalf("quiet progress must still count errors")
	}
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestFinish(t *testing.T) {
	var stderr bytes.Buffer
	ok := bufio.NewWriter(io.Discard)
	if code := Finish(ok, &stderr, 0); code != 0 {
		t.Fatalf("code %d", code)
	}
	pipe := bufio.NewWriter(failWriter{io.ErrClosedPipe})
	_, _ = pipe.WriteString("x")
	if code := Finish(pipe, &stderr, 0); code != 0 || stderr.Len() != 0 {
		t.Fatalf("broken pipe: code=%d stderr=%q", code, stderr.String())
	}
	bad := bufio.NewWriter(failWriter{errors.New("disk full")})
	_, _ = bad.WriteString("x")
	if code := Finish(bad, &stderr, 0); code != 1 || !strings.Contains(stderr.String(), "disk full") {
		t.Fatalf("flush error: code=%d stderr=%q", code, stderr.String())
	}
}
