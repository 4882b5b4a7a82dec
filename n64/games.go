package n64

import (
	"bytes"
)

const (
	DefaultScanLength = 1024 // Markers are only looked for in the first 1KB
)

// A run of bytes that, when found near the start of a save, identifies the game.
// This is a guess and nothing more: it never changes what gets written
type Signature struct {
	Title  string
	Marker []byte
}

// Only markers that have been confirmed on a real cartridge belong here
var DefaultSignatures = []Signature{
	{Title: "The Legend of Zelda: Ocarina of Time", Marker: []byte("ZELDAZ")},
	{Title: "Mario Golf 64", Marker: []byte{0x12, 0x34, 0x56, 0x78}},
}

type Detector struct {
	Signatures []Signature
	ScanLength int // 0 means DefaultScanLength
}

func DefaultDetector() *Detector {
	sigs := make([]Signature, len(DefaultSignatures))
	copy(sigs, DefaultSignatures)
	return &Detector{Signatures: sigs, ScanLength: DefaultScanLength}
}

// Return the title of the first signature found in the save, or "" for none.
// A nil detector never finds anything
func (d *Detector) Detect(payload []byte) string {
	if d == nil {
		return ""
	}
	scan := d.ScanLength
	if scan <= 0 {
		scan = DefaultScanLength
	}
	if scan > len(payload) {
		scan = len(payload)
	}
	region := payload[:scan]
	for _, sig := range d.Signatures {
		if len(sig.Marker) > 0 && bytes.Contains(region, sig.Marker) {
			return sig.Title
		}
	}
	return ""
}

type KnownGame struct {
	Title  string
	Tested bool // Actually confirmed with the reader, the rest should work in theory
}

// SRAM (32KB) games. EEPROM and FlashRAM games don't show up on the reader at all
var KnownGames = []KnownGame{
	{Title: "1080 Snowboarding"},
	{Title: "F-Zero X"},
	{Title: "Harvest Moon 64"},
	{Title: "Legend of Zelda: Ocarina of Time, The", Tested: true},
	{Title: "Major League Baseball featuring Ken Griffey Jr."},
	{Title: "Mario Golf", Tested: true},
	{Title: "New Tetris, The"},
	{Title: "Ogre Battle 64: Person of Lordly Caliber"},
	{Title: "Pocket Monsters Stadium (JPN)"},
	{Title: "Resident Evil 2"},
	{Title: "Super Smash Bros."},
	{Title: "WCW/NWO Revenge"},
	{Title: "WWF: Wrestlemania 2000"},
}
