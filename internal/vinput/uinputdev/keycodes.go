//go:build linux

package uinputdev

// keycodeMapping translates a subset of Android's AKEYCODE_* constants to
// Linux evdev KEY_* codes. Keys outside this table are not injectable
// through the uinput fast path: WriteKeyEvent logs a warning and drops
// them, without forwarding them to accessor.InputManager.
var keycodeMapping = map[int32]uint16{
	3:  172, // AKEYCODE_HOME -> KEY_HOMEPAGE (closest single analogue)
	4:  158, // AKEYCODE_BACK -> KEY_BACK
	5:  169, // AKEYCODE_CALL -> KEY_PHONE
	7:  11,  // AKEYCODE_0 -> KEY_0
	8:  2,   // AKEYCODE_1 -> KEY_1
	9:  3,   // AKEYCODE_2 -> KEY_2
	10: 4,   // AKEYCODE_3 -> KEY_3
	11: 5,   // AKEYCODE_4 -> KEY_4
	12: 6,   // AKEYCODE_5 -> KEY_5
	13: 7,   // AKEYCODE_6 -> KEY_6
	14: 8,   // AKEYCODE_7 -> KEY_7
	15: 9,   // AKEYCODE_8 -> KEY_8
	16: 10,  // AKEYCODE_9 -> KEY_9
	17: 522, // AKEYCODE_STAR -> KEY_NUMERIC_STAR
	18: 523, // AKEYCODE_POUND -> KEY_NUMERIC_POUND
	19: 103, // AKEYCODE_DPAD_UP -> KEY_UP
	20: 108, // AKEYCODE_DPAD_DOWN -> KEY_DOWN
	21: 105, // AKEYCODE_DPAD_LEFT -> KEY_LEFT
	22: 106, // AKEYCODE_DPAD_RIGHT -> KEY_RIGHT
	23: 353, // AKEYCODE_DPAD_CENTER -> KEY_SELECT
	24: 115, // AKEYCODE_VOLUME_UP -> KEY_VOLUMEUP
	25: 114, // AKEYCODE_VOLUME_DOWN -> KEY_VOLUMEDOWN
	26: 116, // AKEYCODE_POWER -> KEY_POWER
	27: 212, // AKEYCODE_CAMERA -> KEY_CAMERA
	29: 30,  // AKEYCODE_A -> KEY_A
	30: 48,  // AKEYCODE_B -> KEY_B
	31: 46,  // AKEYCODE_C -> KEY_C
	32: 32,  // AKEYCODE_D -> KEY_D
	33: 18,  // AKEYCODE_E -> KEY_E
	34: 33,  // AKEYCODE_F -> KEY_F
	35: 34,  // AKEYCODE_G -> KEY_G
	36: 35,  // AKEYCODE_H -> KEY_H
	37: 23,  // AKEYCODE_I -> KEY_I
	38: 36,  // AKEYCODE_J -> KEY_J
	39: 37,  // AKEYCODE_K -> KEY_K
	40: 38,  // AKEYCODE_L -> KEY_L
	41: 50,  // AKEYCODE_M -> KEY_M
	42: 49,  // AKEYCODE_N -> KEY_N
	43: 24,  // AKEYCODE_O -> KEY_O
	44: 25,  // AKEYCODE_P -> KEY_P
	45: 16,  // AKEYCODE_Q -> KEY_Q
	46: 19,  // AKEYCODE_R -> KEY_R
	47: 31,  // AKEYCODE_S -> KEY_S
	48: 20,  // AKEYCODE_T -> KEY_T
	49: 22,  // AKEYCODE_U -> KEY_U
	50: 47,  // AKEYCODE_V -> KEY_V
	51: 17,  // AKEYCODE_W -> KEY_W
	52: 45,  // AKEYCODE_X -> KEY_X
	53: 21,  // AKEYCODE_Y -> KEY_Y
	54: 44,  // AKEYCODE_Z -> KEY_Z
	55: 51,  // AKEYCODE_COMMA -> KEY_COMMA
	56: 52,  // AKEYCODE_PERIOD -> KEY_DOT
	57: 56,  // AKEYCODE_ALT_LEFT -> KEY_LEFTALT
	58: 100, // AKEYCODE_ALT_RIGHT -> KEY_RIGHTALT
	59: 42,  // AKEYCODE_SHIFT_LEFT -> KEY_LEFTSHIFT
	60: 54,  // AKEYCODE_SHIFT_RIGHT -> KEY_RIGHTSHIFT
	61: 15,  // AKEYCODE_TAB -> KEY_TAB
	62: 57,  // AKEYCODE_SPACE -> KEY_SPACE
	66: 28,  // AKEYCODE_ENTER -> KEY_ENTER
	67: 14,  // AKEYCODE_DEL -> KEY_BACKSPACE
	68: 41,  // AKEYCODE_GRAVE -> KEY_GRAVE
	69: 12,  // AKEYCODE_MINUS -> KEY_MINUS
	70: 13,  // AKEYCODE_EQUALS -> KEY_EQUAL
	71: 26,  // AKEYCODE_LEFT_BRACKET -> KEY_LEFTBRACE
	72: 27,  // AKEYCODE_RIGHT_BRACKET -> KEY_RIGHTBRACE
	73: 43,  // AKEYCODE_BACKSLASH -> KEY_BACKSLASH
	74: 39,  // AKEYCODE_SEMICOLON -> KEY_SEMICOLON
	75: 40,  // AKEYCODE_APOSTROPHE -> KEY_APOSTROPHE
	76: 53,  // AKEYCODE_SLASH -> KEY_SLASH
	82: 139, // AKEYCODE_MENU -> KEY_MENU
	84: 217, // AKEYCODE_SEARCH -> KEY_SEARCH
	85: 164, // AKEYCODE_MEDIA_PLAY_PAUSE -> KEY_PLAYPAUSE
	86: 128, // AKEYCODE_MEDIA_STOP -> KEY_STOP
	87: 163, // AKEYCODE_MEDIA_NEXT -> KEY_NEXTSONG
	88: 165, // AKEYCODE_MEDIA_PREVIOUS -> KEY_PREVIOUSSONG
	89: 168, // AKEYCODE_MEDIA_REWIND -> KEY_REWIND
	90: 208, // AKEYCODE_MEDIA_FAST_FORWARD -> KEY_FASTFORWARD
	91: 248, // AKEYCODE_MUTE -> KEY_MICMUTE
	92: 104, // AKEYCODE_PAGE_UP -> KEY_PAGEUP
	93: 109, // AKEYCODE_PAGE_DOWN -> KEY_PAGEDOWN
	111: 1,   // AKEYCODE_ESCAPE -> KEY_ESC
	112: 111, // AKEYCODE_FORWARD_DEL -> KEY_DELETE
	113: 29,  // AKEYCODE_CTRL_LEFT -> KEY_LEFTCTRL
	114: 97,  // AKEYCODE_CTRL_RIGHT -> KEY_RIGHTCTRL
	115: 58,  // AKEYCODE_CAPS_LOCK -> KEY_CAPSLOCK
	116: 70,  // AKEYCODE_SCROLL_LOCK -> KEY_SCROLLLOCK
	117: 125, // AKEYCODE_META_LEFT -> KEY_LEFTMETA
	118: 126, // AKEYCODE_META_RIGHT -> KEY_RIGHTMETA
	119: 464, // AKEYCODE_FUNCTION -> KEY_FN
	120: 99,  // AKEYCODE_SYSRQ -> KEY_SYSRQ
	121: 119, // AKEYCODE_BREAK -> KEY_PAUSE
	122: 102, // AKEYCODE_MOVE_HOME -> KEY_HOME
	123: 107, // AKEYCODE_MOVE_END -> KEY_END
	124: 110, // AKEYCODE_INSERT -> KEY_INSERT
	125: 159, // AKEYCODE_FORWARD -> KEY_FORWARD
	126: 207, // AKEYCODE_MEDIA_PLAY -> KEY_PLAY
	127: 201, // AKEYCODE_MEDIA_PAUSE -> KEY_PAUSECD
	128: 206, // AKEYCODE_MEDIA_CLOSE -> KEY_CLOSECD
	129: 161, // AKEYCODE_MEDIA_EJECT -> KEY_EJECTCD
	130: 167, // AKEYCODE_MEDIA_RECORD -> KEY_RECORD
	131: 59,  // AKEYCODE_F1 -> KEY_F1
	132: 60,  // AKEYCODE_F2 -> KEY_F2
	133: 61,  // AKEYCODE_F3 -> KEY_F3
	134: 62,  // AKEYCODE_F4 -> KEY_F4
	135: 63,  // AKEYCODE_F5 -> KEY_F5
	136: 64,  // AKEYCODE_F6 -> KEY_F6
	137: 65,  // AKEYCODE_F7 -> KEY_F7
	138: 66,  // AKEYCODE_F8 -> KEY_F8
	139: 67,  // AKEYCODE_F9 -> KEY_F9
	140: 68,  // AKEYCODE_F10 -> KEY_F10
	141: 87,  // AKEYCODE_F11 -> KEY_F11
	142: 88,  // AKEYCODE_F12 -> KEY_F12
	224: 116, // AKEYCODE_WAKEUP -> KEY_POWER
}
