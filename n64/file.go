package n64

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultSaveExtension = ".sav"
	DefaultDumpExtension = ".ram"
)

type ConvertResult struct {
	Infile   string
	Outfile  string
	Analysis SaveAnalysis
}

// Where the output goes when the user doesn't say: same name as the input,
// new extension. A dotfile like ".ram" has no extension, it just gets one added
func DefaultOutputPath(input string, ext string) string {
	if ext == "" {
		ext = DefaultSaveExtension
	}
	oldext := filepath.Ext(input)
	if oldext == filepath.Base(input) {
		oldext = ""
	}
	return strings.TrimSuffix(input, oldext) + ext
}

// Read a file that is supposed to be exactly 'expected' bytes. Never reads more
// than one byte past that. The file is always closed before returning
func readSizedFile(input string, expected int64) ([]byte, error) {
	file, err := os.Open(input)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, input)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInputUnreadable, input)
	}
	// Pipes and such don't report a size, so those only get checked after reading
	if stat.Mode().IsRegular() && stat.Size() != expected {
		return nil, &SizeError{Size: stat.Size(), Expected: expected}
	}
	data, err := io.ReadAll(io.LimitReader(file, expected+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}
	if int64(len(data)) != expected {
		return nil, &SizeError{Size: int64(len(data)), Expected: expected}
	}
	return data, nil
}

// Open and fully validate a reader dump file, returning the extracted save
func ReadDumpFile(input string) ([]byte, error) {
	dump, err := readSizedFile(input, ReaderDumpSize)
	if err != nil {
		return nil, err
	}
	return ConvertDump(dump)
}

// Same as ReadDumpFile, but for an already extracted 32KB save
func ReadSaveFile(input string) ([]byte, error) {
	return readSizedFile(input, SramSize)
}

// Output must never point back at the input
func checkNotSameFile(input string, output string) error {
	inabs, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	outabs, err := filepath.Abs(output)
	if err != nil {
		return err
	}
	if inabs == outabs {
		return fmt.Errorf("%w: %s", ErrSameFile, output)
	}
	instat, err := os.Stat(input)
	if err != nil {
		return nil // Not our problem here, reading already succeeded
	}
	outstat, err := os.Stat(output)
	if err == nil && os.SameFile(instat, outstat) {
		return fmt.Errorf("%w: %s", ErrSameFile, output)
	}
	return nil
}

// Figure out what actually gets replaced at output. Symlinks are followed so the
// link itself survives, and an existing file keeps its permissions
func resolveOutput(output string) (string, fs.FileMode) {
	mode := fs.FileMode(0644)
	if target, err := filepath.EvalSymlinks(output); err == nil {
		output = target
	}
	if stat, err := os.Stat(output); err == nil && stat.Mode().IsRegular() {
		mode = stat.Mode().Perm()
	}
	return output, mode
}

// Write data to the output path through a temporary file in the same folder, so
// the destination either ends up complete or untouched. The temp file is removed
// on any failure
func WriteFileAtomic(output string, data []byte) error {
	output, mode := resolveOutput(output)
	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	wep := newWriteErrorPass(tmp)
	wep.WritePass(data)
	wep.Pass(tmp.Sync())
	wep.Pass(tmp.Close())
	wep.Pass(os.Chmod(tmp.Name(), mode))
	if wep.IsPass() == nil {
		wep.Pass(os.Rename(tmp.Name(), output))
	}
	if err := wep.IsPass(); err != nil {
		if rerr := os.Remove(tmp.Name()); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			log.Printf("WARNING: couldn't remove temporary file %s: %s\n", tmp.Name(), rerr)
		}
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}

// Convert the reader dump at input into a flashcart save at output. Nothing is
// created at output unless the input fully validates. The detector is only used
// for the analysis and may be nil
func ConvertFile(input string, output string, detector *Detector) (*ConvertResult, error) {
	save, err := ReadDumpFile(input)
	if err != nil {
		return nil, err
	}
	log.Printf("Extracted %d bytes of SRAM from %s\n", len(save), input)
	if err := checkNotSameFile(input, output); err != nil {
		return nil, err
	}
	if err := WriteFileAtomic(output, save); err != nil {
		return nil, err
	}
	log.Printf("Wrote save to %s\n", output)
	return &ConvertResult{
		Infile:   input,
		Outfile:  output,
		Analysis: AnalyzeSave(save, detector),
	}, nil
}

// The reverse of ConvertFile: lay a 32KB save back out as a 128KB reader dump
func PadFile(input string, output string, fill byte) (*ConvertResult, error) {
	save, err := ReadSaveFile(input)
	if err != nil {
		return nil, err
	}
	dump, err := BuildDump(save, fill)
	if err != nil {
		return nil, err
	}
	if err := checkNotSameFile(input, output); err != nil {
		return nil, err
	}
	if err := WriteFileAtomic(output, dump); err != nil {
		return nil, err
	}
	log.Printf("Padded %s to %d bytes, wrote to %s\n", input, len(dump), output)
	return &ConvertResult{
		Infile:   input,
		Outfile:  output,
		Analysis: AnalyzeSave(save, nil),
	}, nil
}
