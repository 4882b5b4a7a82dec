package n64

import (
	"errors"
	"fmt"
	"io"
)

const (
	ReaderDumpSize = 0x20000 // Every dump from the reader is 128KB, no matter the save type
	SramSize       = 0x8000  // 256 kilobit SRAM, the only save type the reader can see
	PaddingSize    = ReaderDumpSize - SramSize
	DefaultFill    = 0xFF
)

var (
	ErrEmptyInput      = errors.New("input is empty")
	ErrUnexpectedSize  = errors.New("unexpected size")
	ErrInputNotFound   = errors.New("input not found")
	ErrInputUnreadable = errors.New("input unreadable")
	ErrOutputWrite     = errors.New("output write failed")
	ErrSameFile        = errors.New("output would overwrite input")
)

// Reports a buffer or file that isn't the size we need. Matches ErrUnexpectedSize
// always, and ErrEmptyInput too when there was nothing at all
type SizeError struct {
	Size     int64
	Expected int64
}

func (e *SizeError) Error() string {
	if e.Size == 0 {
		return fmt.Sprintf("Input is empty, expected %d bytes", e.Expected)
	}
	return fmt.Sprintf("Expected %d bytes (%.1f KB), got %d bytes", e.Expected,
		float64(e.Expected)/1024, e.Size)
}

func (e *SizeError) Is(target error) bool {
	if target == ErrUnexpectedSize {
		return true
	}
	return target == ErrEmptyInput && e.Size == 0
}

// Pull the SRAM save out of a raw reader dump. The save is always in the first
// 32KB and is copied as-is (no byte swapping); the rest of the dump is ignored.
// The returned slice never aliases the input.
func ConvertDump(input []byte) ([]byte, error) {
	if len(input) != ReaderDumpSize {
		return nil, &SizeError{Size: int64(len(input)), Expected: ReaderDumpSize}
	}
	save := make([]byte, SramSize)
	copy(save, input[:SramSize])
	return save, nil
}

// Lay a 32KB save back out the way the reader dumps it: save first, then
// padding up to the full 128KB
func BuildDump(payload []byte, fill byte) ([]byte, error) {
	if len(payload) != SramSize {
		return nil, &SizeError{Size: int64(len(payload)), Expected: SramSize}
	}
	dump := make([]byte, ReaderDumpSize)
	copy(dump, payload)
	for i := SramSize; i < ReaderDumpSize; i++ {
		dump[i] = fill
	}
	return dump, nil
}

// Read a dump out of the given reader and convert it. At most one byte more than
// a dump is ever buffered, which is enough to know the input is too big.
func ReadDump(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, ReaderDumpSize+1))
	if err != nil {
		return nil, err
	}
	return ConvertDump(data)
}

// Write exactly one SRAM save to the writer. Anything other than a full save
// is refused before a single byte goes out
func WriteSave(w io.Writer, payload []byte) error {
	if len(payload) != SramSize {
		return &SizeError{Size: int64(len(payload)), Expected: SramSize}
	}
	wep := newWriteErrorPass(w)
	wep.WritePass(payload)
	return wep.IsPass()
}
