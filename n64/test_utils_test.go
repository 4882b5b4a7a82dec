package n64

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
)

// The 0,1,2...255 repeating pattern lineardata writes
func sequentialSave() []byte {
	save := make([]byte, SramSize)
	for i := range save {
		save[i] = byte(i & 0xFF)
	}
	return save
}

func randomBytes(length int, t *testing.T) []byte {
	data := make([]byte, length)
	_, err := rand.Read(data)
	if err != nil {
		t.Fatalf("Error generating random bytes! %s", err)
	}
	return data
}

func makeDump(save []byte, padding []byte) []byte {
	dump := make([]byte, 0, len(save)+len(padding))
	dump = append(dump, save...)
	return append(dump, padding...)
}

func fillBytes(length int, value byte) []byte {
	data := make([]byte, length)
	for i := range data {
		data[i] = value
	}
	return data
}

func writeTestFile(dir string, name string, data []byte, t *testing.T) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Couldn't write test file %s: %s", path, err)
	}
	return path
}
