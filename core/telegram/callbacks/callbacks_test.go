package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestSplitJoinToken(t *testing.T) {
	cases := []struct {
		token   string
		unique  string
		payload string
	}{
		{"main", "main", ""},
		{"freshman:register", "freshman", "register"},
		{"course:sem:3", "course", "sem:3"},
		{"place:loc:35.7:51.4", "place", "loc:35.7:51.4"},
	}
	for _, tc := range cases {
		unique, payload := SplitToken(tc.token)
		if unique != tc.unique || payload != tc.payload {
			t.Fatalf("split %q = (%q, %q), want (%q, %q)", tc.token, unique, payload, tc.unique, tc.payload)
		}
		if got := JoinToken(unique, payload); got != tc.token {
			t.Fatalf("join = %q, want %q", got, tc.token)
		}
	}
}

func TestParseCallbackData(t *testing.T) {
	cb := &tele.Callback{Data: "\\fcourse|sem:3"}
	unique, payload := ParseCallbackData(cb)
	if unique != "course" || payload != "sem:3" {
		t.Fatalf("got (%q, %q)", unique, payload)
	}

	cb = &tele.Callback{Data: "\\fmain"}
	unique, payload = ParseCallbackData(cb)
	if unique != "main" || payload != "" {
		t.Fatalf("got (%q, %q)", unique, payload)
	}

	if u, p := ParseCallbackData(nil); u != "" || p != "" {
		t.Fatalf("nil callback parsed to (%q, %q)", u, p)
	}
}
