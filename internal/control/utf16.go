package control

import "unicode/utf16"

func stringToUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}
