package menu

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		state State
		token string
	}{
		{"main", State{Menu: MenuMain}, "main"},
		{"freshman menu", State{Menu: MenuFreshman}, "freshman:menu"},
		{"freshman register", State{Menu: MenuFreshmanRegister}, "freshman:register"},
		{"course root", State{Menu: MenuCourseRoot}, "course"},
		{"semester list", State{Menu: MenuCourseBySemester}, "course:sem"},
		{"semester filtered", State{Menu: MenuCourseBySemester, Filter: FilterBySemester, Value: 3}, "course:sem:3"},
		{"type list", State{Menu: MenuCourseByType}, "course:type"},
		{"type filtered", State{Menu: MenuCourseByType, Filter: FilterByType, Value: 2}, "course:type:2"},
		{"course detail", State{Menu: MenuCourseDetail, TargetID: 17}, "course:id:17"},
		{"place groups", State{Menu: MenuPlaceGroup}, "place"},
		{"place group filtered", State{Menu: MenuPlaceLocation, Filter: FilterByGroup, Value: 3}, "place:group:3"},
		{"place coordinates", State{Menu: MenuPlaceLocation, Filter: FilterByCoordinates, Lat: 35.7, Lon: 51.4}, "place:loc:35.7:51.4"},
		{"phones", State{Menu: MenuPhoneList}, "phone"},
		{"links", State{Menu: MenuLinkList}, "link"},
		{"about", State{Menu: MenuAbout}, "about"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := Encode(tc.state)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if token != tc.token {
				t.Fatalf("encode = %q, want %q", token, tc.token)
			}
			if len(token) > 64 {
				t.Fatalf("token %q exceeds 64 bytes", token)
			}
			got, err := Decode(token)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.state {
				t.Fatalf("round trip = %+v, want %+v", got, tc.state)
			}
		})
	}
}

func TestEncodeRejectsIllegalStates(t *testing.T) {
	cases := []struct {
		name  string
		state State
	}{
		{"main with filter", State{Menu: MenuMain, Filter: FilterBySemester, Value: 1}},
		{"semester out of range", State{Menu: MenuCourseBySemester, Filter: FilterBySemester, Value: 9}},
		{"semester zero", State{Menu: MenuCourseBySemester, Filter: FilterBySemester, Value: 0}},
		{"detail without target", State{Menu: MenuCourseDetail}},
		{"detail with filter", State{Menu: MenuCourseDetail, Filter: FilterByType, Value: 1, TargetID: 5}},
		{"location without filter", State{Menu: MenuPlaceLocation}},
		{"unknown menu", State{Menu: ID("settings")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Encode(tc.state); err == nil {
				t.Fatalf("expected error for %+v", tc.state)
			}
		})
	}
}

func TestDecodeRejectsForeignTokens(t *testing.T) {
	cases := []struct {
		name  string
		token string
		kind  DecodeErrorKind
	}{
		{"empty", "", UnknownNamespace},
		{"unknown namespace", "settings:1", UnknownNamespace},
		{"stale prefix", "quiz:start", UnknownNamespace},
		{"freshman missing mode", "freshman", MissingRequiredField},
		{"freshman bad mode", "freshman:signup", MalformedField},
		{"freshman extra field", "freshman:menu:1", MalformedField},
		{"semester not a number", "course:sem:x", MalformedField},
		{"semester out of range", "course:sem:12", MalformedField},
		{"course id missing", "course:id", MissingRequiredField},
		{"course id negative", "course:id:-4", MalformedField},
		{"course bad selector", "course:name:calc", MalformedField},
		{"main with payload", "main:1", MalformedField},
		{"group missing value", "place:group", MissingRequiredField},
		{"loc one coordinate", "place:loc:35.7", MissingRequiredField},
		{"loc extra coordinate", "place:loc:35.7:51.4:9", MalformedField},
		{"loc bad latitude", "place:loc:north:51.4", MalformedField},
		{"phone with payload", "phone:1", MalformedField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.token)
			if err == nil {
				t.Fatalf("expected error for %q", tc.token)
			}
			var dec *DecodeError
			if !errors.As(err, &dec) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
			if dec.Kind != tc.kind {
				t.Fatalf("kind = %s, want %s", dec.Kind, tc.kind)
			}
			if dec.Code() == "" {
				t.Fatal("expected non-empty error code")
			}
		})
	}
}

func TestDecodeCoordinatePrecision(t *testing.T) {
	state := State{
		Menu:   MenuPlaceLocation,
		Filter: FilterByCoordinates,
		Lat:    35.70194382,
		Lon:    51.39871265,
	}
	token := MustEncode(state)
	got, err := Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Lat != state.Lat || got.Lon != state.Lon {
		t.Fatalf("coordinates drifted: %+v vs %+v", got, state)
	}
}

func TestTokenLengthBound(t *testing.T) {
	// Worst cases per namespace: maximum course id and full-precision
	// negative coordinates, which produce the longest decimal renderings.
	states := []State{
		{Menu: MenuCourseDetail, TargetID: 1<<63 - 1},
		{Menu: MenuCourseBySemester, Filter: FilterBySemester, Value: 8},
		{Menu: MenuCourseByType, Filter: FilterByType, Value: 4},
		{Menu: MenuPlaceLocation, Filter: FilterByGroup, Value: 5},
		{Menu: MenuPlaceLocation, Filter: FilterByCoordinates, Lat: -89.99999999999999, Lon: -179.99999999999997},
		{Menu: MenuPlaceLocation, Filter: FilterByCoordinates, Lat: 35.70194382716049, Lon: 51.39871265432098},
		{Menu: MenuPlaceLocation, Filter: FilterByCoordinates, Lat: 0.00000000000000001, Lon: -0.00000000000000001},
	}
	for _, s := range states {
		token, err := Encode(s)
		if err != nil {
			t.Fatalf("encode %+v: %v", s, err)
		}
		if len(token) > 64 {
			t.Fatalf("token %q is %d bytes, exceeds 64", token, len(token))
		}
		got, err := Decode(token)
		if err != nil {
			t.Fatalf("decode %q: %v", token, err)
		}
		if got != s {
			t.Fatalf("round trip %q = %+v, want %+v", token, got, s)
		}
	}
}

func TestMustEncodePanicsOnIllegalState(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustEncode(State{Menu: MenuCourseDetail})
}
