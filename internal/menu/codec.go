package menu

import (
	"fmt"
	"strconv"
	"strings"
)

// Token wire format: a namespace prefix naming the menu family, followed by
// colon-separated fields. Examples:
//
//	main
//	freshman:register
//	course:sem:3
//	course:id:17
//	place:group:3
//	place:loc:35.7:51.4
//
// The format is a compatibility contract: buttons embedded in messages the
// bot already sent must keep decoding after a redeploy. Namespaces and field
// encodings may be extended but never repurposed.
const tokenSep = ":"

// Family namespaces. Each menu family owns one prefix so a token meant for
// one handler can never be accepted by another.
const (
	nsMain     = "main"
	nsFreshman = "freshman"
	nsCourse   = "course"
	nsPlace    = "place"
	nsPhone    = "phone"
	nsLink     = "link"
	nsAbout    = "about"
)

// DecodeErrorKind classifies why a token failed to decode.
type DecodeErrorKind int

const (
	// UnknownNamespace means the prefix is not recognized, e.g. a stale
	// button from a previous deployment.
	UnknownNamespace DecodeErrorKind = iota
	// MalformedField means a field is present but fails to parse as its
	// declared scalar type.
	MalformedField
	// MissingRequiredField means the token is shorter than its namespace
	// requires.
	MissingRequiredField
)

func (k DecodeErrorKind) String() string {
	switch k {
	case UnknownNamespace:
		return "unknown_namespace"
	case MalformedField:
		return "malformed_field"
	case MissingRequiredField:
		return "missing_required_field"
	}
	return "unknown"
}

// DecodeError reports a token that this system did not produce.
type DecodeError struct {
	Kind  DecodeErrorKind
	Token string
	Field string
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decode %q: %s (%s)", e.Token, e.Kind, e.Field)
	}
	return fmt.Sprintf("decode %q: %s", e.Token, e.Kind)
}

// Code implements the error-code hook used by the log summaries.
func (e *DecodeError) Code() string { return strings.ToUpper(e.Kind.String()) }

// Encode serializes a state into its callback token. It fails only when the
// state violates its menu's field legality, which indicates a catalog wiring
// bug rather than anything user-triggerable.
func Encode(s State) (string, error) {
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	switch s.Menu {
	case MenuMain:
		return nsMain, nil
	case MenuFreshman:
		return nsFreshman + ":menu", nil
	case MenuFreshmanRegister:
		return nsFreshman + ":register", nil
	case MenuCourseRoot:
		return nsCourse, nil
	case MenuCourseBySemester:
		if s.Filter == FilterNone {
			return nsCourse + ":sem", nil
		}
		return nsCourse + ":sem:" + strconv.Itoa(s.Value), nil
	case MenuCourseByType:
		if s.Filter == FilterNone {
			return nsCourse + ":type", nil
		}
		return nsCourse + ":type:" + strconv.Itoa(s.Value), nil
	case MenuCourseDetail:
		return nsCourse + ":id:" + strconv.FormatInt(s.TargetID, 10), nil
	case MenuPlaceGroup:
		return nsPlace, nil
	case MenuPlaceLocation:
		if s.Filter == FilterByGroup {
			return nsPlace + ":group:" + strconv.Itoa(s.Value), nil
		}
		return nsPlace + ":loc:" + formatCoord(s.Lat) + tokenSep + formatCoord(s.Lon), nil
	case MenuPhoneList:
		return nsPhone, nil
	case MenuLinkList:
		return nsLink, nil
	case MenuAbout:
		return nsAbout, nil
	}
	return "", fmt.Errorf("encode: unknown menu id %q", s.Menu)
}

// MustEncode encodes a state the catalog itself produced; a failure there is
// a fatal configuration bug, so it panics.
func MustEncode(s State) string {
	tok, err := Encode(s)
	if err != nil {
		panic(err)
	}
	return tok
}

// Decode parses a callback token back into a state. Every token produced by
// Encode decodes to an equal state; anything else returns a *DecodeError.
func Decode(token string) (State, error) {
	parts := strings.Split(token, tokenSep)
	switch parts[0] {
	case nsMain:
		if len(parts) != 1 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token}
		}
		return State{Menu: MenuMain}, nil
	case nsFreshman:
		return decodeFreshman(token, parts)
	case nsCourse:
		return decodeCourse(token, parts)
	case nsPlace:
		return decodePlace(token, parts)
	case nsPhone:
		if len(parts) != 1 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token}
		}
		return State{Menu: MenuPhoneList}, nil
	case nsLink:
		if len(parts) != 1 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token}
		}
		return State{Menu: MenuLinkList}, nil
	case nsAbout:
		if len(parts) != 1 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token}
		}
		return State{Menu: MenuAbout}, nil
	}
	return State{}, &DecodeError{Kind: UnknownNamespace, Token: token}
}

func decodeFreshman(token string, parts []string) (State, error) {
	if len(parts) < 2 {
		return State{}, &DecodeError{Kind: MissingRequiredField, Token: token, Field: "mode"}
	}
	if len(parts) > 2 {
		return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "mode"}
	}
	switch parts[1] {
	case "menu":
		return State{Menu: MenuFreshman}, nil
	case "register":
		return State{Menu: MenuFreshmanRegister}, nil
	}
	return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "mode"}
}

func decodeCourse(token string, parts []string) (State, error) {
	if len(parts) == 1 {
		return State{Menu: MenuCourseRoot}, nil
	}
	switch parts[1] {
	case "sem":
		if len(parts) == 2 {
			return State{Menu: MenuCourseBySemester}, nil
		}
		if len(parts) != 3 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "semester"}
		}
		sem, err := strconv.Atoi(parts[2])
		if err != nil || sem < 1 || sem > 8 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "semester"}
		}
		return State{Menu: MenuCourseBySemester, Filter: FilterBySemester, Value: sem}, nil
	case "type":
		if len(parts) == 2 {
			return State{Menu: MenuCourseByType}, nil
		}
		if len(parts) != 3 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "course_type"}
		}
		code, err := strconv.Atoi(parts[2])
		if err != nil {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "course_type"}
		}
		return State{Menu: MenuCourseByType, Filter: FilterByType, Value: code}, nil
	case "id":
		if len(parts) < 3 {
			return State{}, &DecodeError{Kind: MissingRequiredField, Token: token, Field: "course_id"}
		}
		if len(parts) != 3 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "course_id"}
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil || id <= 0 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "course_id"}
		}
		return State{Menu: MenuCourseDetail, TargetID: id}, nil
	}
	return State{}, &DecodeError{Kind: MalformedField, Token: token}
}

func decodePlace(token string, parts []string) (State, error) {
	if len(parts) == 1 {
		return State{Menu: MenuPlaceGroup}, nil
	}
	switch parts[1] {
	case "group":
		if len(parts) < 3 {
			return State{}, &DecodeError{Kind: MissingRequiredField, Token: token, Field: "group"}
		}
		if len(parts) != 3 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "group"}
		}
		group, err := strconv.Atoi(parts[2])
		if err != nil {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "group"}
		}
		return State{Menu: MenuPlaceLocation, Filter: FilterByGroup, Value: group}, nil
	case "loc":
		if len(parts) < 4 {
			return State{}, &DecodeError{Kind: MissingRequiredField, Token: token, Field: "coordinates"}
		}
		if len(parts) != 4 {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "coordinates"}
		}
		lat, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "latitude"}
		}
		lon, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return State{}, &DecodeError{Kind: MalformedField, Token: token, Field: "longitude"}
		}
		return State{Menu: MenuPlaceLocation, Filter: FilterByCoordinates, Lat: lat, Lon: lon}, nil
	}
	return State{}, &DecodeError{Kind: MalformedField, Token: token}
}

// formatCoord renders a coordinate as the shortest decimal that round-trips
// exactly. Coordinates are two independent fields to avoid locale and
// precision ambiguity.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
