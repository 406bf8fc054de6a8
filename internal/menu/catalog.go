package menu

import (
	"context"
	"fmt"
	"strconv"

	"campusbot/internal/models"
)

// DeliveryMode tells the transport how to apply a render instruction to the
// chat.
type DeliveryMode int

const (
	// SendNew delivers the menu as a fresh message.
	SendNew DeliveryMode = iota
	// EditText replaces the text and keyboard of the pressed message.
	EditText
	// EditMarkupOnly replaces only the keyboard, keeping the body text.
	EditMarkupOnly
	// DeleteAndSend removes the pressed message and sends a fresh one;
	// required when the reply cannot be expressed as a text edit, e.g.
	// after a location pin.
	DeleteAndSend
)

func (m DeliveryMode) String() string {
	switch m {
	case SendNew:
		return "send_new"
	case EditText:
		return "edit_text"
	case EditMarkupOnly:
		return "edit_markup_only"
	case DeleteAndSend:
		return "delete_and_send"
	}
	return "unknown"
}

// Template names resolved through the text store. The names are part of the
// deployed data contract and match the seeded rows.
const (
	TplStartNewUser      = "START_NEW_USER"
	TplStartExistedUser  = "START_EXISTED_USER"
	TplBackMainMenu      = "BACK_MAIN_MENU"
	TplFreshmanMenu      = "FRESHMAN_MENU"
	TplFreshmanRegister  = "FRESHMAN_REGISTER"
	TplCourseMenu        = "COURSE_MENU"
	TplCoursesBySemester = "COURSES_BY_SEMESTER_MENU"
	TplSemesterCourses   = "SEMESTER_COURSES_MENU"
	TplCoursesByType     = "COURSES_BY_TYPE_MENU"
	TplTypeCourses       = "TYPE_COURSES_MENU"
	TplCourseDetails     = "COURSE_DETAILS"
	TplGroups            = "GROUPS"
	TplGroupPlaces       = "GROUP_PLACES"
	TplPhones            = "PHONES"
	TplPhoneEntry        = "PHONE_TEMPLATE"
	TplLinks             = "LINKS"
	TplLinkEntry         = "LINK_TEMPLATE"
	TplAbout             = "ABOUT"
	TplBackButton        = "BACK_BUTTON"
	TplNoItems           = "NO_ITEMS"
	TplErrorNotice       = "ERROR_NOTICE"
)

// Fixed button labels for menus whose entries are not data-driven.
const (
	LabelFreshman         = "Freshman"
	LabelFreshmanRegister = "Freshman Register"
	LabelPlace            = "Place"
	LabelCourses          = "Courses"
	LabelBySemester       = "By Semester"
	LabelByType           = "By Type"
	LabelPhones           = "Phones"
	LabelLinks            = "Links"
	LabelAbout            = "About"
	LabelBack             = "Back"
)

// Store is the read-only backing-catalog capability the option resolvers
// consume. Implementations must keep result order stable.
type Store interface {
	CoursesBySemester(ctx context.Context, semester int) ([]models.Course, error)
	CoursesByType(ctx context.Context, code int) ([]models.Course, error)
	PlacesByGroup(ctx context.Context, group int) ([]models.Place, error)
}

// OptionsFunc resolves the selectable options of a menu for a given state.
type OptionsFunc func(ctx context.Context, s State, store Store) ([]Option, error)

// Definition is the immutable per-menu configuration.
type Definition struct {
	Menu ID
	// Template names the body-text template; FilteredTemplate, when set,
	// replaces it once the state carries a filter value.
	Template         string
	FilteredTemplate string
	// Mode is the delivery mode applied when this menu is entered from a
	// callback.
	Mode DeliveryMode
	// Back, when non-nil, is the one-level back transition appended after
	// the option list.
	Back *State
	// PairRTL re-pairs the options for right-to-left visual order before
	// arranging.
	PairRTL bool
	// Options resolves the selectable entries; nil means the menu renders
	// text only (plus the back button, if any).
	Options OptionsFunc
}

// TemplateFor picks the body template matching the state's filter presence.
func (d Definition) TemplateFor(s State) string {
	if s.Filter != FilterNone && d.FilteredTemplate != "" {
		return d.FilteredTemplate
	}
	return d.Template
}

// Catalog is the closed table of menu definitions loaded once at startup.
type Catalog struct {
	defs map[ID]Definition
}

// NewCatalog builds the standard menu tree.
func NewCatalog() *Catalog {
	back := func(s State) *State { return &s }

	defs := map[ID]Definition{
		MenuMain: {
			Menu:     MenuMain,
			Template: TplBackMainMenu,
			Mode:     EditText,
			Options:  mainOptions,
		},
		MenuFreshman: {
			Menu:     MenuFreshman,
			Template: TplFreshmanMenu,
			Mode:     EditText,
			Back:     back(State{Menu: MenuMain}),
			Options:  freshmanOptions,
		},
		MenuFreshmanRegister: {
			Menu:     MenuFreshmanRegister,
			Template: TplFreshmanRegister,
			Mode:     EditText,
			Back:     back(State{Menu: MenuFreshman}),
		},
		MenuCourseRoot: {
			Menu:     MenuCourseRoot,
			Template: TplCourseMenu,
			Mode:     EditText,
			Back:     back(State{Menu: MenuMain}),
			Options:  courseRootOptions,
		},
		MenuCourseBySemester: {
			Menu:             MenuCourseBySemester,
			Template:         TplCoursesBySemester,
			FilteredTemplate: TplSemesterCourses,
			Mode:             EditText,
			Back:             back(State{Menu: MenuCourseRoot}),
			PairRTL:          true,
			Options:          semesterOptions,
		},
		MenuCourseByType: {
			Menu:             MenuCourseByType,
			Template:         TplCoursesByType,
			FilteredTemplate: TplTypeCourses,
			Mode:             EditText,
			Back:             back(State{Menu: MenuCourseRoot}),
			Options:          typeOptions,
		},
		MenuCourseDetail: {
			Menu:     MenuCourseDetail,
			Template: TplCourseDetails,
			Mode:     EditText,
			Back:     back(State{Menu: MenuCourseRoot}),
		},
		MenuPlaceGroup: {
			Menu:     MenuPlaceGroup,
			Template: TplGroups,
			Mode:     EditText,
			Back:     back(State{Menu: MenuMain}),
			Options:  placeGroupOptions,
		},
		MenuPlaceLocation: {
			Menu:     MenuPlaceLocation,
			Template: TplGroupPlaces,
			Mode:     EditText,
			Back:     back(State{Menu: MenuPlaceGroup}),
			Options:  placeOptions,
		},
		MenuPhoneList: {
			Menu:     MenuPhoneList,
			Template: TplPhones,
			Mode:     EditText,
			Back:     back(State{Menu: MenuMain}),
		},
		MenuLinkList: {
			Menu:     MenuLinkList,
			Template: TplLinks,
			Mode:     EditText,
			Back:     back(State{Menu: MenuMain}),
		},
		MenuAbout: {
			Menu:     MenuAbout,
			Template: TplAbout,
			Mode:     EditText,
			Back:     back(State{Menu: MenuMain}),
		},
	}
	return &Catalog{defs: defs}
}

// Definition returns the configuration for a menu id.
func (c *Catalog) Definition(id ID) (Definition, error) {
	def, ok := c.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("menu catalog: no definition for %q", id)
	}
	return def, nil
}

// Validate checks the catalog covers every menu id and every definition
// encodes cleanly. It must run at startup so configuration gaps surface
// before the first interaction.
func (c *Catalog) Validate() error {
	for _, id := range AllMenus() {
		def, ok := c.defs[id]
		if !ok {
			return fmt.Errorf("menu catalog: no definition for %q", id)
		}
		if def.Template == "" {
			return fmt.Errorf("menu catalog: %q has no body template", id)
		}
		if def.Back != nil {
			if _, err := Encode(*def.Back); err != nil {
				return fmt.Errorf("menu catalog: %q back transition: %w", id, err)
			}
		}
	}
	return nil
}

// OptionsFor resolves the option list for a state using the menu's declared
// query. An empty list is a valid outcome; store failures surface unchanged.
func (c *Catalog) OptionsFor(ctx context.Context, s State, store Store) ([]Option, error) {
	def, err := c.Definition(s.Menu)
	if err != nil {
		return nil, err
	}
	if def.Options == nil {
		return nil, nil
	}
	return def.Options(ctx, s, store)
}

func mainOptions(_ context.Context, _ State, _ Store) ([]Option, error) {
	return []Option{
		{Label: LabelFreshman, Next: State{Menu: MenuFreshman}},
		{Label: LabelCourses, Next: State{Menu: MenuCourseRoot}},
		{Label: LabelPlace, Next: State{Menu: MenuPlaceGroup}},
		{Label: LabelPhones, Next: State{Menu: MenuPhoneList}},
		{Label: LabelLinks, Next: State{Menu: MenuLinkList}},
		{Label: LabelAbout, Next: State{Menu: MenuAbout}},
	}, nil
}

func freshmanOptions(_ context.Context, _ State, _ Store) ([]Option, error) {
	return []Option{
		{Label: LabelFreshmanRegister, Next: State{Menu: MenuFreshmanRegister}},
	}, nil
}

func courseRootOptions(_ context.Context, _ State, _ Store) ([]Option, error) {
	return []Option{
		{Label: LabelBySemester, Next: State{Menu: MenuCourseBySemester}},
		{Label: LabelByType, Next: State{Menu: MenuCourseByType}},
	}, nil
}

func semesterOptions(ctx context.Context, s State, store Store) ([]Option, error) {
	if s.Filter == FilterNone {
		opts := make([]Option, 0, 8)
		for sem := 1; sem <= 8; sem++ {
			opts = append(opts, Option{
				Label: strconv.Itoa(sem),
				Next:  State{Menu: MenuCourseBySemester, Filter: FilterBySemester, Value: sem},
			})
		}
		return opts, nil
	}
	courses, err := store.CoursesBySemester(ctx, s.Value)
	if err != nil {
		return nil, err
	}
	return courseOptions(courses), nil
}

func typeOptions(ctx context.Context, s State, store Store) ([]Option, error) {
	if s.Filter == FilterNone {
		types := models.CourseTypes()
		opts := make([]Option, 0, len(types))
		for _, t := range types {
			opts = append(opts, Option{
				Label: t.String(),
				Next:  State{Menu: MenuCourseByType, Filter: FilterByType, Value: int(t)},
			})
		}
		return opts, nil
	}
	courses, err := store.CoursesByType(ctx, s.Value)
	if err != nil {
		return nil, err
	}
	return courseOptions(courses), nil
}

func courseOptions(courses []models.Course) []Option {
	opts := make([]Option, 0, len(courses))
	for _, c := range courses {
		opts = append(opts, Option{
			Label: c.Title(),
			Next:  State{Menu: MenuCourseDetail, TargetID: c.ID},
		})
	}
	return opts
}

func placeGroupOptions(_ context.Context, _ State, _ Store) ([]Option, error) {
	groups := models.PlaceGroups()
	opts := make([]Option, 0, len(groups))
	for _, g := range groups {
		opts = append(opts, Option{
			Label: g.String(),
			Next:  State{Menu: MenuPlaceLocation, Filter: FilterByGroup, Value: int(g)},
		})
	}
	return opts, nil
}

func placeOptions(ctx context.Context, s State, store Store) ([]Option, error) {
	if s.Filter != FilterByGroup {
		return nil, nil
	}
	places, err := store.PlacesByGroup(ctx, s.Value)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(places))
	for _, p := range places {
		opts = append(opts, Option{
			Label: p.Name,
			Next: State{
				Menu:   MenuPlaceLocation,
				Filter: FilterByCoordinates,
				Lat:    p.Latitude,
				Lon:    p.Longitude,
			},
		})
	}
	return opts, nil
}
