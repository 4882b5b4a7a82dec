package n64

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml"
)

type SignatureConfig struct {
	Title  string `toml:"title"`
	Marker string `toml:"marker"` // Literal bytes to look for
	Hex    string `toml:"hex"`    // OR the same thing but hex encoded
}

// Everything the user can change from a config file. Unset fields keep the defaults
type Config struct {
	OutputExtension   string            `toml:"output_extension"`
	ScanLength        int               `toml:"scan_length"`
	ReplaceSignatures bool              `toml:"replace_signatures"`
	Signatures        []SignatureConfig `toml:"signature"`
}

func DefaultConfig() *Config {
	return &Config{
		OutputExtension: DefaultSaveExtension,
		ScanLength:      DefaultScanLength,
	}
}

func (s *SignatureConfig) ToSignature() (Signature, error) {
	var result Signature
	if s.Title == "" {
		return result, fmt.Errorf("Signature must have a title")
	}
	if (s.Marker == "") == (s.Hex == "") {
		return result, fmt.Errorf("Signature '%s' needs exactly one of marker or hex", s.Title)
	}
	result.Title = s.Title
	if s.Marker != "" {
		result.Marker = []byte(s.Marker)
	} else {
		marker, err := hex.DecodeString(strings.ReplaceAll(s.Hex, " ", ""))
		if err != nil {
			return result, fmt.Errorf("Signature '%s' has bad hex: %w", s.Title, err)
		}
		result.Marker = marker
	}
	return result, nil
}

func (c *Config) Validate() error {
	if c.ScanLength < 0 {
		return fmt.Errorf("scan_length can't be negative: %d", c.ScanLength)
	}
	if c.OutputExtension != "" && !strings.HasPrefix(c.OutputExtension, ".") {
		return fmt.Errorf("output_extension must start with '.': %s", c.OutputExtension)
	}
	for i := range c.Signatures {
		if _, err := c.Signatures[i].ToSignature(); err != nil {
			return err
		}
	}
	return nil
}

// Parse a toml config, filling in anything missing with defaults
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if config.OutputExtension == "" {
		config.OutputExtension = DefaultSaveExtension
	}
	if config.ScanLength == 0 {
		config.ScanLength = DefaultScanLength
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// Build the game detector for this config. User signatures go first so they can
// shadow the built in ones
func (c *Config) Detector() (*Detector, error) {
	sigs := make([]Signature, 0, len(c.Signatures)+len(DefaultSignatures))
	for i := range c.Signatures {
		sig, err := c.Signatures[i].ToSignature()
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	if !c.ReplaceSignatures {
		sigs = append(sigs, DefaultSignatures...)
	}
	return &Detector{Signatures: sigs, ScanLength: c.ScanLength}, nil
}
