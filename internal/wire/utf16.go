package wire

import "unicode/utf16"

func utf16ToString(units []uint16) string {
	return string(utf16.Decode(units))
}

func stringToUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}
