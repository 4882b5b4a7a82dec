package n64

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfig_Empty(t *testing.T) {
	config, err := ParseConfig([]byte(""))
	require.NoError(t, err)
	require.Equal(t, DefaultSaveExtension, config.OutputExtension)
	require.Equal(t, DefaultScanLength, config.ScanLength)
	require.Empty(t, config.Signatures)

	detector, err := config.Detector()
	require.NoError(t, err)
	require.Equal(t, DefaultDetector(), detector)
}

func TestParseConfig_Signatures(t *testing.T) {
	data := `
output_extension = ".srm"
scan_length = 64

[[signature]]
title = "Text Game"
marker = "HELLO"

[[signature]]
title = "Hex Game"
hex = "de ad be ef"
`
	config, err := ParseConfig([]byte(data))
	require.NoError(t, err)
	require.Equal(t, ".srm", config.OutputExtension)
	require.Equal(t, 64, config.ScanLength)
	require.Len(t, config.Signatures, 2)

	detector, err := config.Detector()
	require.NoError(t, err)
	require.Len(t, detector.Signatures, 2+len(DefaultSignatures))
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, detector.Signatures[1].Marker)

	save := make([]byte, SramSize)
	copy(save[10:], []byte{0xde, 0xad, 0xbe, 0xef})
	require.Equal(t, "Hex Game", detector.Detect(save))
	copy(save[20:], "HELLO")
	require.Equal(t, "Text Game", detector.Detect(save))

	// Built in ones still work, but only within the new scan length
	zelda := make([]byte, SramSize)
	copy(zelda[100:], "ZELDAZ")
	require.Equal(t, "", detector.Detect(zelda))
	copy(zelda[10:], "ZELDAZ")
	require.Equal(t, "The Legend of Zelda: Ocarina of Time", detector.Detect(zelda))
}

func TestParseConfig_ReplaceSignatures(t *testing.T) {
	data := `
replace_signatures = true
[[signature]]
title = "Only"
marker = "ONLY"
`
	config, err := ParseConfig([]byte(data))
	require.NoError(t, err)
	detector, err := config.Detector()
	require.NoError(t, err)
	require.Len(t, detector.Signatures, 1)
	zelda := make([]byte, SramSize)
	copy(zelda, "ZELDAZ")
	require.Equal(t, "", detector.Detect(zelda))
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", `output_extension = `},
		{"no dot", `output_extension = "sav"`},
		{"negative scan", `scan_length = -5`},
		{"no title", "[[signature]]\nmarker = \"X\""},
		{"no marker", "[[signature]]\ntitle = \"X\""},
		{"both markers", "[[signature]]\ntitle = \"X\"\nmarker = \"A\"\nhex = \"41\""},
		{"bad hex", "[[signature]]\ntitle = \"X\"\nhex = \"zz\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(dir, "config.toml", []byte(`output_extension = ".eep"`), t)
	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ".eep", config.OutputExtension)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}
