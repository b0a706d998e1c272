package cmdutil

import (
	"bufio"
	"fmt"
	"io"

	"af2tools/internal/writers"
)

// Finish flushes outw and returns code. A consumer that closed the pipe
// early is not an error; any other flush failure is reported and exits 1.
func Finish(outw *bufio.Writer, stderr io.Writer, code int) int {
	err := outw.Flush()
	if err == nil || writers.IsBrokenPipe(err) {
		return code
	}
	fmt.Fprintln(stderr, err)
	return 1
}
