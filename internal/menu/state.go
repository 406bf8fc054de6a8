// Package menu implements the stateless navigation core: the menu state
// model, the callback token codec, the keyboard layout engine, and the
// declarative menu catalog. Nothing here touches the transport; all
// carry-over state rides inside callback tokens.
package menu

import "fmt"

// ID names one menu of the navigation tree.
type ID string

const (
	MenuMain             ID = "main"
	MenuFreshman         ID = "freshman"
	MenuFreshmanRegister ID = "freshman_register"
	MenuCourseRoot       ID = "course_root"
	MenuCourseBySemester ID = "course_by_semester"
	MenuCourseByType     ID = "course_by_type"
	MenuCourseDetail     ID = "course_detail"
	MenuPlaceGroup       ID = "place_group"
	MenuPlaceLocation    ID = "place_location"
	MenuPhoneList        ID = "phone_list"
	MenuLinkList         ID = "link_list"
	MenuAbout            ID = "about"
)

// AllMenus enumerates every menu id; the catalog must cover each of them.
func AllMenus() []ID {
	return []ID{
		MenuMain,
		MenuFreshman,
		MenuFreshmanRegister,
		MenuCourseRoot,
		MenuCourseBySemester,
		MenuCourseByType,
		MenuCourseDetail,
		MenuPlaceGroup,
		MenuPlaceLocation,
		MenuPhoneList,
		MenuLinkList,
		MenuAbout,
	}
}

// FilterKind discriminates the scalar shape of a state's filter value.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterBySemester
	FilterByType
	FilterByGroup
	FilterByCoordinates
)

func (k FilterKind) String() string {
	switch k {
	case FilterNone:
		return "none"
	case FilterBySemester:
		return "by_semester"
	case FilterByType:
		return "by_type"
	case FilterByGroup:
		return "by_group"
	case FilterByCoordinates:
		return "by_coordinates"
	}
	return "unknown"
}

// State is the decoded meaning of one user interaction. It is constructed
// fresh per interaction and discarded once a render is produced; the only
// persistence is its encoded form inside previously sent inline buttons.
type State struct {
	Menu   ID
	Filter FilterKind
	// Value holds the integer filter scalar (semester 1-8, course type
	// code, or place group code) depending on Filter.
	Value int
	// Lat/Lon hold the coordinate pair when Filter is FilterByCoordinates.
	Lat float64
	Lon float64
	// TargetID names one concrete catalog record (course id) when the
	// state points at a detail view rather than a filtered list.
	TargetID int64
}

// Validate checks the field-legality invariant for the state's menu.
// A violation is a programming error in catalog wiring, not user input.
func (s State) Validate() error {
	switch s.Menu {
	case MenuMain, MenuFreshman, MenuFreshmanRegister, MenuCourseRoot,
		MenuPlaceGroup, MenuPhoneList, MenuLinkList, MenuAbout:
		if s.Filter != FilterNone || s.TargetID != 0 {
			return fmt.Errorf("menu %s carries no filter or target", s.Menu)
		}
	case MenuCourseBySemester:
		if s.TargetID != 0 {
			return fmt.Errorf("menu %s carries no target", s.Menu)
		}
		if s.Filter != FilterNone && s.Filter != FilterBySemester {
			return fmt.Errorf("menu %s accepts only a semester filter, got %s", s.Menu, s.Filter)
		}
		if s.Filter == FilterBySemester && (s.Value < 1 || s.Value > 8) {
			return fmt.Errorf("semester out of range: %d", s.Value)
		}
	case MenuCourseByType:
		if s.TargetID != 0 {
			return fmt.Errorf("menu %s carries no target", s.Menu)
		}
		if s.Filter != FilterNone && s.Filter != FilterByType {
			return fmt.Errorf("menu %s accepts only a course type filter, got %s", s.Menu, s.Filter)
		}
	case MenuCourseDetail:
		if s.Filter != FilterNone {
			return fmt.Errorf("menu %s carries no filter", s.Menu)
		}
		if s.TargetID == 0 {
			return fmt.Errorf("menu %s requires a target id", s.Menu)
		}
	case MenuPlaceLocation:
		if s.TargetID != 0 {
			return fmt.Errorf("menu %s carries no target", s.Menu)
		}
		if s.Filter != FilterByGroup && s.Filter != FilterByCoordinates {
			return fmt.Errorf("menu %s requires a group or coordinate filter, got %s", s.Menu, s.Filter)
		}
	default:
		return fmt.Errorf("unknown menu id %q", s.Menu)
	}
	return nil
}
