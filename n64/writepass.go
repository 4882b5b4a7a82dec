package n64

import (
	"errors"
	"io"
)

// A writer which keeps the first error it sees and skips all writes after that.
// Lets a sequence of writes be checked once at the end
type writeErrorPass struct {
	w       io.Writer
	err     error
	written int
}

// Write until the entire buffer is out or something fails (blocking)
func (wep *writeErrorPass) Write(b []byte) (int, error) {
	if wep.err != nil {
		return 0, wep.err
	}
	total := 0
	for total < len(b) {
		count, err := wep.w.Write(b[total:])
		total += count
		wep.written += count
		if err != nil {
			wep.err = err
			return total, err
		}
		if count == 0 {
			wep.err = io.ErrShortWrite
			return total, wep.err
		}
	}
	return total, nil
}

func (wep *writeErrorPass) WritePass(b []byte) int {
	val, _ := wep.Write(b)
	return val
}

// Fail the pass from outside (for steps that aren't writes, like sync or close)
func (wep *writeErrorPass) Pass(err error) {
	if wep.err == nil && err != nil {
		wep.err = err
	}
}

func (wep *writeErrorPass) IsPass() error {
	return wep.err
}

var errNilWriter = errors.New("PROGRAM ERROR: writeErrorPass has no writer!")

func newWriteErrorPass(w io.Writer) *writeErrorPass {
	wep := &writeErrorPass{w: w}
	if w == nil {
		wep.err = errNilWriter
	}
	return wep
}
