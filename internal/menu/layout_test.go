package menu

import (
	"strconv"
	"testing"
)

func buttons(n int) []Button {
	out := make([]Button, n)
	for i := range out {
		out[i] = Button{Label: strconv.Itoa(i + 1), Token: "main"}
	}
	return out
}

func rowWidths(rows [][]Button) []int {
	widths := make([]int, len(rows))
	for i, row := range rows {
		widths[i] = len(row)
	}
	return widths
}

func TestArrangeRowWidths(t *testing.T) {
	back := &Button{Label: "Back", Token: "main"}
	cases := []struct {
		name    string
		options int
		back    *Button
		widths  []int
	}{
		{"no entries", 0, nil, nil},
		{"back only", 0, back, []int{1}},
		{"one option with back", 1, back, []int{1, 1}},
		{"two options with back", 2, back, []int{2, 1}},
		{"five options with back", 5, back, []int{2, 2, 1, 1}},
		{"seven options with back", 7, back, []int{2, 2, 2, 1, 1}},
		{"eight options with back", 8, back, []int{2, 2, 2, 2, 1}},
		{"three options no back", 3, nil, []int{2, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := Arrange(buttons(tc.options), tc.back)
			got := rowWidths(rows)
			if len(got) != len(tc.widths) {
				t.Fatalf("rows = %v, want widths %v", got, tc.widths)
			}
			for i := range got {
				if got[i] != tc.widths[i] {
					t.Fatalf("rows = %v, want widths %v", got, tc.widths)
				}
			}
		})
	}
}

func TestArrangePreservesOrderAndBackLast(t *testing.T) {
	opts := buttons(5)
	back := &Button{Label: "Back", Token: "main"}
	rows := Arrange(opts, back)

	flat := make([]Button, 0, len(opts)+1)
	for _, row := range rows {
		flat = append(flat, row...)
	}
	if len(flat) != len(opts)+1 {
		t.Fatalf("flattened %d entries, want %d", len(flat), len(opts)+1)
	}
	for i, opt := range opts {
		if flat[i] != opt {
			t.Fatalf("entry %d = %+v, want %+v", i, flat[i], opt)
		}
	}
	last := flat[len(flat)-1]
	if last.Label != "Back" {
		t.Fatalf("last entry = %+v, want the back button", last)
	}
	lastRow := rows[len(rows)-1]
	if len(lastRow) != 1 {
		t.Fatalf("back must sit alone after five options, got row width %d", len(lastRow))
	}
	prevRow := rows[len(rows)-2]
	if len(prevRow) != 1 || prevRow[0] != opts[4] {
		t.Fatalf("fifth option must sit alone before back, got %+v", prevRow)
	}
}

func TestArrangeDoesNotMutateInput(t *testing.T) {
	opts := buttons(3)
	orig := make([]Button, len(opts))
	copy(orig, opts)
	Arrange(opts, &Button{Label: "Back", Token: "main"})
	for i := range opts {
		if opts[i] != orig[i] {
			t.Fatalf("input mutated at %d: %+v", i, opts[i])
		}
	}
}

func TestPairRTL(t *testing.T) {
	cases := []struct {
		name   string
		labels []string
		want   []string
	}{
		{"empty", nil, nil},
		{"single", []string{"1"}, []string{"1"}},
		{"even", []string{"1", "2", "3", "4"}, []string{"2", "1", "4", "3"}},
		{"odd keeps trailing", []string{"1", "2", "3"}, []string{"2", "1", "3"}},
		{"eight semesters", []string{"1", "2", "3", "4", "5", "6", "7", "8"}, []string{"2", "1", "4", "3", "6", "5", "8", "7"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := make([]Button, len(tc.labels))
			for i, l := range tc.labels {
				in[i] = Button{Label: l}
			}
			out := PairRTL(in)
			if len(out) != len(tc.want) {
				t.Fatalf("len = %d, want %d", len(out), len(tc.want))
			}
			for i, l := range tc.want {
				if out[i].Label != l {
					t.Fatalf("out[%d] = %q, want %q", i, out[i].Label, l)
				}
			}
			// input stays untouched
			for i, l := range tc.labels {
				if in[i].Label != l {
					t.Fatalf("input mutated at %d", i)
				}
			}
		})
	}
}
