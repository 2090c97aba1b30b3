package wlinput

// keycodeMapping translates a subset of Android's AKEYCODE_* constants to
// Linux evdev KEY_* codes, mirroring internal/vinput/uinputdev's table.
// Kept as a separate copy here rather than a shared import: the two
// backends' zero dependency on each other is what lets either be built
// without the other's platform requirements.
var keycodeMapping = map[int32]uint16{
	3:   172, // AKEYCODE_HOME -> KEY_HOMEPAGE
	4:   158, // AKEYCODE_BACK -> KEY_BACK
	7:   11,  // AKEYCODE_0 -> KEY_0
	8:   2,   // AKEYCODE_1 -> KEY_1
	9:   3,   // AKEYCODE_2 -> KEY_2
	10:  4,   // AKEYCODE_3 -> KEY_3
	11:  5,   // AKEYCODE_4 -> KEY_4
	12:  6,   // AKEYCODE_5 -> KEY_5
	13:  7,   // AKEYCODE_6 -> KEY_6
	14:  8,   // AKEYCODE_7 -> KEY_7
	15:  9,   // AKEYCODE_8 -> KEY_8
	16:  10,  // AKEYCODE_9 -> KEY_9
	19:  103, // AKEYCODE_DPAD_UP -> KEY_UP
	20:  108, // AKEYCODE_DPAD_DOWN -> KEY_DOWN
	21:  105, // AKEYCODE_DPAD_LEFT -> KEY_LEFT
	22:  106, // AKEYCODE_DPAD_RIGHT -> KEY_RIGHT
	23:  353, // AKEYCODE_DPAD_CENTER -> KEY_SELECT
	24:  115, // AKEYCODE_VOLUME_UP -> KEY_VOLUMEUP
	25:  114, // AKEYCODE_VOLUME_DOWN -> KEY_VOLUMEDOWN
	26:  116, // AKEYCODE_POWER -> KEY_POWER
	29:  30,  // AKEYCODE_A -> KEY_A
	30:  48,  // AKEYCODE_B -> KEY_B
	31:  46,  // AKEYCODE_C -> KEY_C
	32:  32,  // AKEYCODE_D -> KEY_D
	33:  18,  // AKEYCODE_E -> KEY_E
	34:  33,  // AKEYCODE_F -> KEY_F
	35:  34,  // AKEYCODE_G -> KEY_G
	36:  35,  // AKEYCODE_H -> KEY_H
	37:  23,  // AKEYCODE_I -> KEY_I
	38:  36,  // AKEYCODE_J -> KEY_J
	39:  37,  // AKEYCODE_K -> KEY_K
	40:  38,  // AKEYCODE_L -> KEY_L
	41:  50,  // AKEYCODE_M -> KEY_M
	42:  49,  // AKEYCODE_N -> KEY_N
	43:  24,  // AKEYCODE_O -> KEY_O
	44:  25,  // AKEYCODE_P -> KEY_P
	45:  16,  // AKEYCODE_Q -> KEY_Q
	46:  19,  // AKEYCODE_R -> KEY_R
	47:  31,  // AKEYCODE_S -> KEY_S
	48:  20,  // AKEYCODE_T -> KEY_T
	49:  22,  // AKEYCODE_U -> KEY_U
	50:  47,  // AKEYCODE_V -> KEY_V
	51:  17,  // AKEYCODE_W -> KEY_W
	52:  45,  // AKEYCODE_X -> KEY_X
	53:  21,  // AKEYCODE_Y -> KEY_Y
	54:  44,  // AKEYCODE_Z -> KEY_Z
	55:  51,  // AKEYCODE_COMMA -> KEY_COMMA
	56:  52,  // AKEYCODE_PERIOD -> KEY_DOT
	57:  56,  // AKEYCODE_ALT_LEFT -> KEY_LEFTALT
	58:  100, // AKEYCODE_ALT_RIGHT -> KEY_RIGHTALT
	59:  42,  // AKEYCODE_SHIFT_LEFT -> KEY_LEFTSHIFT
	60:  54,  // AKEYCODE_SHIFT_RIGHT -> KEY_RIGHTSHIFT
	61:  15,  // AKEYCODE_TAB -> KEY_TAB
	62:  57,  // AKEYCODE_SPACE -> KEY_SPACE
	66:  28,  // AKEYCODE_ENTER -> KEY_ENTER
	67:  14,  // AKEYCODE_DEL -> KEY_BACKSPACE
	111: 1,   // AKEYCODE_ESCAPE -> KEY_ESC
	112: 111, // AKEYCODE_FORWARD_DEL -> KEY_DELETE
	113: 29,  // AKEYCODE_CTRL_LEFT -> KEY_LEFTCTRL
	114: 97,  // AKEYCODE_CTRL_RIGHT -> KEY_RIGHTCTRL
	115: 58,  // AKEYCODE_CAPS_LOCK -> KEY_CAPSLOCK
	117: 125, // AKEYCODE_META_LEFT -> KEY_LEFTMETA
	118: 126, // AKEYCODE_META_RIGHT -> KEY_RIGHTMETA
	224: 116, // AKEYCODE_WAKEUP -> KEY_POWER
}
