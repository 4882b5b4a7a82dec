package n64

import (
	"crypto/md5"
	"encoding/hex"
)

// Facts about a save that are nice to show the user. None of this is needed
// for the conversion itself
type SaveAnalysis struct {
	Length         int
	MD5            string
	NonZero        int
	NonZeroPercent float64
	Empty          bool // All zeros, probably a blank or brand new save
	Game           string
}

func AnalyzeSave(payload []byte, detector *Detector) SaveAnalysis {
	result := SaveAnalysis{
		Length: len(payload),
		MD5:    Md5String(payload),
	}
	for _, b := range payload {
		if b != 0 {
			result.NonZero++
		}
	}
	result.Empty = result.NonZero == 0
	if len(payload) > 0 {
		result.NonZeroPercent = float64(result.NonZero) / float64(len(payload)) * 100
	}
	result.Game = detector.Detect(payload)
	return result
}

// Produce an md5 string from given data (a simple shortcut)
func Md5String(data []byte) string {
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:])
}
