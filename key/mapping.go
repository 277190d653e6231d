package key

// sequences maps escape sequences to the key they encode. Several terminal
// families are covered: xterm/lxterm, vt100, urxvt, the linux console and
// the Windows console.
var sequences = map[string]Key{
	// arrows
	"\x1b[A":    Named(Up, 0),
	"\x1b[B":    Named(Down, 0),
	"\x1b[C":    Named(Right, 0),
	"\x1b[D":    Named(Left, 0),
	"\x1bOA":    Named(Up, 0),
	"\x1bOB":    Named(Down, 0),
	"\x1bOC":    Named(Right, 0),
	"\x1bOD":    Named(Left, 0),
	"\x1b[1;2A": Named(Up, Shift),
	"\x1b[1;2B": Named(Down, Shift),
	"\x1b[1;2C": Named(Right, Shift),
	"\x1b[1;2D": Named(Left, Shift),
	"\x1b[OA":   Named(Up, Shift), // DECCKM
	"\x1b[OB":   Named(Down, Shift),
	"\x1b[OC":   Named(Right, Shift),
	"\x1b[OD":   Named(Left, Shift),
	"\x1b[a":    Named(Up, Shift), // urxvt
	"\x1b[b":    Named(Down, Shift),
	"\x1b[c":    Named(Right, Shift),
	"\x1b[d":    Named(Left, Shift),
	"\x1b[1;3A": Named(Up, Alt),
	"\x1b[1;3B": Named(Down, Alt),
	"\x1b[1;3C": Named(Right, Alt),
	"\x1b[1;3D": Named(Left, Alt),
	"\x1b[1;4A": Named(Up, Shift|Alt),
	"\x1b[1;4B": Named(Down, Shift|Alt),
	"\x1b[1;4C": Named(Right, Shift|Alt),
	"\x1b[1;4D": Named(Left, Shift|Alt),
	"\x1b[1;5A": Named(Up, Ctrl),
	"\x1b[1;5B": Named(Down, Ctrl),
	"\x1b[1;5C": Named(Right, Ctrl),
	"\x1b[1;5D": Named(Left, Ctrl),
	"\x1b[Oa":   Named(Up, Ctrl|Alt), // urxvt
	"\x1b[Ob":   Named(Down, Ctrl|Alt),
	"\x1b[Oc":   Named(Right, Ctrl|Alt),
	"\x1b[Od":   Named(Left, Ctrl|Alt),
	"\x1b[1;6A": Named(Up, Ctrl|Shift),
	"\x1b[1;6B": Named(Down, Ctrl|Shift),
	"\x1b[1;6C": Named(Right, Ctrl|Shift),
	"\x1b[1;6D": Named(Left, Ctrl|Shift),
	"\x1b[1;7A": Named(Up, Ctrl|Alt),
	"\x1b[1;7B": Named(Down, Ctrl|Alt),
	"\x1b[1;7C": Named(Right, Ctrl|Alt),
	"\x1b[1;7D": Named(Left, Ctrl|Alt),
	"\x1b[1;8A": Named(Up, Ctrl|Shift|Alt),
	"\x1b[1;8B": Named(Down, Ctrl|Shift|Alt),
	"\x1b[1;8C": Named(Right, Ctrl|Shift|Alt),
	"\x1b[1;8D": Named(Left, Ctrl|Shift|Alt),

	"\x1b[Z": Named(Tab, Shift),

	// editing block
	"\x1b[2~":   Named(Insert, 0),
	"\x1b[2;3~": Named(Insert, Alt),
	"\x1b[3~":   Named(Delete, 0),
	"\x1b[3;3~": Named(Delete, Alt),
	"\x1b[5~":   Named(PageUp, 0),
	"\x1b[5;3~": Named(PageUp, Alt),
	"\x1b[5;5~": Named(PageUp, Ctrl),
	"\x1b[5^":   Named(PageUp, Ctrl), // urxvt
	"\x1b[5;7~": Named(PageUp, Ctrl|Alt),
	"\x1b[6~":   Named(PageDown, 0),
	"\x1b[6;3~": Named(PageDown, Alt),
	"\x1b[6;5~": Named(PageDown, Ctrl),
	"\x1b[6^":   Named(PageDown, Ctrl), // urxvt
	"\x1b[6;7~": Named(PageDown, Ctrl|Alt),

	"\x1b[1~":   Named(Home, 0),
	"\x1b[H":    Named(Home, 0),
	"\x1b[1;2H": Named(Home, Shift),
	"\x1b[1;3H": Named(Home, Alt),
	"\x1b[1;4H": Named(Home, Shift|Alt),
	"\x1b[1;5H": Named(Home, Ctrl),
	"\x1b[1;6H": Named(Home, Ctrl|Shift),
	"\x1b[1;7H": Named(Home, Ctrl|Alt),
	"\x1b[1;8H": Named(Home, Ctrl|Shift|Alt),
	"\x1b[7~":   Named(Home, 0), // urxvt
	"\x1b[7^":   Named(Home, Ctrl),
	"\x1b[7$":   Named(Home, Shift),
	"\x1b[7@":   Named(Home, Ctrl|Shift),

	"\x1b[4~":   Named(End, 0),
	"\x1b[F":    Named(End, 0),
	"\x1b[1;2F": Named(End, Shift),
	"\x1b[1;3F": Named(End, Alt),
	"\x1b[1;4F": Named(End, Shift|Alt),
	"\x1b[1;5F": Named(End, Ctrl),
	"\x1b[1;6F": Named(End, Ctrl|Shift),
	"\x1b[1;7F": Named(End, Ctrl|Alt),
	"\x1b[1;8F": Named(End, Ctrl|Shift|Alt),
	"\x1b[8~":   Named(End, 0), // urxvt
	"\x1b[8^":   Named(End, Ctrl),
	"\x1b[8$":   Named(End, Shift),
	"\x1b[8@":   Named(End, Ctrl|Shift),

	// function keys, linux console
	"\x1b[[A": Named(F1, 0),
	"\x1b[[B": Named(F2, 0),
	"\x1b[[C": Named(F3, 0),
	"\x1b[[D": Named(F4, 0),
	"\x1b[[E": Named(F5, 0),

	// function keys, vt100/xterm
	"\x1bOP":    Named(F1, 0),
	"\x1bOQ":    Named(F2, 0),
	"\x1bOR":    Named(F3, 0),
	"\x1bOS":    Named(F4, 0),
	"\x1b[1;3P": Named(F1, Alt),
	"\x1b[1;3Q": Named(F2, Alt),
	"\x1b[1;3R": Named(F3, Alt),
	"\x1b[1;3S": Named(F4, Alt),
	"\x1b[1;2P": Named(F13, 0),
	"\x1b[1;2Q": Named(F14, 0),
	"\x1b[1;2R": Named(F15, 0),
	"\x1b[1;2S": Named(F16, 0),

	"\x1b[11~": Named(F1, 0), // urxvt
	"\x1b[12~": Named(F2, 0),
	"\x1b[13~": Named(F3, 0),
	"\x1b[14~": Named(F4, 0),
	"\x1b[15~": Named(F5, 0),
	"\x1b[17~": Named(F6, 0),
	"\x1b[18~": Named(F7, 0),
	"\x1b[19~": Named(F8, 0),
	"\x1b[20~": Named(F9, 0),
	"\x1b[21~": Named(F10, 0),
	"\x1b[23~": Named(F11, 0),
	"\x1b[24~": Named(F12, 0),
	"\x1b[25~": Named(F13, 0),
	"\x1b[26~": Named(F14, 0),
	"\x1b[28~": Named(F15, 0),
	"\x1b[29~": Named(F16, 0),
	"\x1b[31~": Named(F17, 0),
	"\x1b[32~": Named(F18, 0),
	"\x1b[33~": Named(F19, 0),
	"\x1b[34~": Named(F20, 0),

	"\x1b[15;2~": Named(F17, 0),
	"\x1b[17;2~": Named(F18, 0),
	"\x1b[18;2~": Named(F19, 0),
	"\x1b[19;2~": Named(F20, 0),

	"\x1b[15;3~": Named(F5, Alt),
	"\x1b[17;3~": Named(F6, Alt),
	"\x1b[18;3~": Named(F7, Alt),
	"\x1b[19;3~": Named(F8, Alt),
	"\x1b[20;3~": Named(F9, Alt),
	"\x1b[21;3~": Named(F10, Alt),
	"\x1b[23;3~": Named(F11, Alt),
	"\x1b[24;3~": Named(F12, Alt),
	"\x1b[25;3~": Named(F13, Alt),
	"\x1b[26;3~": Named(F14, Alt),
	"\x1b[28;3~": Named(F15, Alt),
	"\x1b[29;3~": Named(F16, Alt),
}

// prefixes holds every proper prefix of every mapped sequence. A pending
// escape keeps accumulating while it is still one of these.
var prefixes = buildPrefixes(sequences)

func buildPrefixes(m map[string]Key) map[string]struct{} {
	out := make(map[string]struct{}, len(m)*2)
	for seq := range m {
		r := []rune(seq)
		for i := 1; i < len(r); i++ {
			out[string(r[:i])] = struct{}{}
		}
	}
	return out
}

// Lookup returns the key mapped to an escape sequence.
func Lookup(seq string) (Key, bool) {
	k, ok := sequences[seq]
	return k, ok
}

// IsPrefix reports whether seq is a proper prefix of a mapped sequence.
func IsPrefix(seq string) bool {
	_, ok := prefixes[seq]
	return ok
}
