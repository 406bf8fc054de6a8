package menu

// Button is one inline keyboard entry: a label plus the encoded token its
// press round-trips.
type Button struct {
	Label string
	Token string
}

// Option is one selectable entry of a rendered menu before encoding.
type Option struct {
	Label string
	Next  State
}

// Arrange lays out the options plus an optional trailing back button as rows
// of at most two buttons. Options fill rows of two in caller order. When a
// back button follows an odd option count, the last option and the back
// button each get a single-button row, so back is never paired with a
// content option; an even option count leaves back alone on the final row.
// Zero entries yield a nil grid; the caller must then skip the inline
// keyboard.
func Arrange(options []Button, back *Button) [][]Button {
	if back != nil && len(options)%2 == 1 {
		rows := make([][]Button, 0, len(options)/2+2)
		for i := 0; i+1 < len(options); i += 2 {
			rows = append(rows, options[i:i+2:i+2])
		}
		rows = append(rows, []Button{options[len(options)-1]})
		rows = append(rows, []Button{*back})
		return rows
	}

	entries := options
	if back != nil {
		entries = make([]Button, 0, len(options)+1)
		entries = append(entries, options...)
		entries = append(entries, *back)
	}
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]Button, 0, (len(entries)+1)/2)
	for i := 0; i < len(entries); i += 2 {
		end := i + 2
		if end > len(entries) {
			end = len(entries)
		}
		rows = append(rows, entries[i:end:end])
	}
	return rows
}

// PairRTL re-pairs options produced in left-to-right reading order for
// display in a right-to-left script: each adjacent pair (a, b) becomes
// (b, a); a trailing unpaired element stays in place. The transform is
// applied before Arrange and is independent of it.
func PairRTL(options []Button) []Button {
	out := make([]Button, len(options))
	copy(out, options)
	for i := 0; i+1 < len(out); i += 2 {
		out[i], out[i+1] = out[i+1], out[i]
	}
	return out
}
