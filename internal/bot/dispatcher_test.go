package bot

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"campusbot/internal/menu"
	"campusbot/internal/models"
	"campusbot/internal/storage"
	"campusbot/internal/texts"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	store.SetText(menu.TplStartNewUser, false, "welcome to {bot_name}, {full_name}")
	store.SetText(menu.TplStartExistedUser, false, "back again, {full_name}")
	store.SetText(menu.TplBackMainMenu, false, "main menu")
	store.SetText(menu.TplFreshmanMenu, false, "freshman menu")
	store.SetText(menu.TplFreshmanRegister, false, "you are registered")
	store.SetText(menu.TplCourseMenu, false, "course menu")
	store.SetText(menu.TplCoursesBySemester, false, "pick a semester")
	store.SetText(menu.TplSemesterCourses, false, "courses of semester {offering_semester}")
	store.SetText(menu.TplCoursesByType, false, "pick a type")
	store.SetText(menu.TplTypeCourses, false, "courses of type {course_type}")
	store.SetText(menu.TplCourseDetails, false,
		"{fa_title} / {en_title} / sem {offering_semester} / prereq {prerequisite_course} / {course_type}")
	store.SetText(menu.TplGroups, false, "pick a group")
	store.SetText(menu.TplGroupPlaces, false, "places of {group}")
	store.SetText(menu.TplPhones, false, "phones:\n{phones}")
	store.SetText(menu.TplPhoneEntry, false, "{name}: {phone_number}")
	store.SetText(menu.TplLinks, false, "links:\n{links}")
	store.SetText(menu.TplLinkEntry, false, `<a href="{address}">{name}</a>`)
	store.SetText(menu.TplAbout, false, "about this bot")
	store.SetText(menu.TplBackButton, true, "Back")

	d, err := New(menu.NewCatalog(), store, texts.NewService(store), "campusbot")
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d, store
}

func flatten(grid [][]menu.Button) []menu.Button {
	var out []menu.Button
	for _, row := range grid {
		out = append(out, row...)
	}
	return out
}

func TestStartRegistersAndGreets(t *testing.T) {
	d, store := newTestDispatcher(t)
	ctx := context.Background()
	user := models.TGUser{ID: 7, FullName: "Ada Lovelace"}

	ins, err := d.Start(ctx, user)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if ins.Mode != menu.SendNew || !ins.MainKeyboard {
		t.Fatalf("greeting delivery = %+v", ins)
	}
	if ins.Text != "welcome to campusbot, Ada Lovelace" {
		t.Fatalf("greeting = %q", ins.Text)
	}

	ins, err = d.Start(ctx, user)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if ins.Text != "back again, Ada Lovelace" {
		t.Fatalf("repeat greeting = %q", ins.Text)
	}
	if store.UserCount() != 1 {
		t.Fatalf("user count = %d", store.UserCount())
	}
}

func TestStartStoreFailure(t *testing.T) {
	d, store := newTestDispatcher(t)
	store.Fail = errors.New("db down")

	ins, err := d.Start(context.Background(), models.TGUser{ID: 7, FullName: "Ada"})
	var bse *BackingStoreError
	if !errors.As(err, &bse) {
		t.Fatalf("expected BackingStoreError, got %v", err)
	}
	if ins.Notice == "" {
		t.Fatal("expected a user notice")
	}
	if ins.Text != "" {
		t.Fatalf("degraded render must not carry a body, got %q", ins.Text)
	}
}

func TestMainMenuLayout(t *testing.T) {
	d, _ := newTestDispatcher(t)

	ins, err := d.Render(context.Background(), menu.State{Menu: menu.MenuMain})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if ins.Mode != menu.EditText {
		t.Fatalf("mode = %s", ins.Mode)
	}
	if len(ins.Keyboard) != 3 {
		t.Fatalf("rows = %d, want 3", len(ins.Keyboard))
	}
	for _, row := range ins.Keyboard {
		if len(row) != 2 {
			t.Fatalf("row width = %d", len(row))
		}
	}
	if ins.Keyboard[0][0].Token != "freshman:menu" {
		t.Fatalf("first button token = %q", ins.Keyboard[0][0].Token)
	}
}

func TestSemesterMenuPairsRightToLeft(t *testing.T) {
	d, _ := newTestDispatcher(t)

	ins, err := d.Render(context.Background(), menu.State{Menu: menu.MenuCourseBySemester})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// 8 semesters plus back: 4 paired rows and a lone back row.
	if len(ins.Keyboard) != 5 {
		t.Fatalf("rows = %d", len(ins.Keyboard))
	}
	first := ins.Keyboard[0]
	if first[0].Label != "2" || first[1].Label != "1" {
		t.Fatalf("first row = %q %q, want display-order swap", first[0].Label, first[1].Label)
	}
	last := flatten(ins.Keyboard)
	if last[len(last)-1].Token != "course" {
		t.Fatalf("back targets %q", last[len(last)-1].Token)
	}
}

func TestPlaceGroupSelection(t *testing.T) {
	d, store := newTestDispatcher(t)
	store.AddPlace(models.Place{ID: 1, Name: "Dorm A", Group: models.GroupDormitory, Latitude: 35.7, Longitude: 51.4})
	store.AddPlace(models.Place{ID: 2, Name: "Dorm B", Group: models.GroupDormitory, Latitude: 35.8, Longitude: 51.5})

	ins, err := d.HandleToken(context.Background(), "place:group:3")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if ins.Text != "places of dormitory" {
		t.Fatalf("body = %q", ins.Text)
	}
	buttons := flatten(ins.Keyboard)
	if len(buttons) != 3 {
		t.Fatalf("buttons = %d, want 2 places + back", len(buttons))
	}
	if buttons[0].Label != "Dorm A" || buttons[0].Token != "place:loc:35.7:51.4" {
		t.Fatalf("place button = %+v", buttons[0])
	}
	if buttons[2].Label != "Back" || buttons[2].Token != "place" {
		t.Fatalf("back button = %+v", buttons[2])
	}
}

func TestPlaceCoordinatesEmitPinAndReturnToGroups(t *testing.T) {
	d, _ := newTestDispatcher(t)

	ins, err := d.HandleToken(context.Background(), "place:loc:35.7:51.4")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if ins.Location == nil || ins.Location.Lat != 35.7 || ins.Location.Lon != 51.4 {
		t.Fatalf("location = %+v", ins.Location)
	}
	if ins.Mode != menu.DeleteAndSend {
		t.Fatalf("mode = %s", ins.Mode)
	}
	if ins.Text != "pick a group" {
		t.Fatalf("body = %q, want the group menu", ins.Text)
	}
}

func TestGroupMenuKeepsBackAlone(t *testing.T) {
	d, _ := newTestDispatcher(t)

	// 5 groups + back: the odd option count splits the last group and the
	// back button onto their own rows.
	ins, err := d.Render(context.Background(), menu.State{Menu: menu.MenuPlaceGroup})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	widths := make([]int, len(ins.Keyboard))
	for i, row := range ins.Keyboard {
		widths[i] = len(row)
	}
	want := []int{2, 2, 1, 1}
	if len(widths) != len(want) {
		t.Fatalf("row widths = %v, want %v", widths, want)
	}
	for i := range want {
		if widths[i] != want[i] {
			t.Fatalf("row widths = %v, want %v", widths, want)
		}
	}
	lastOption := ins.Keyboard[2][0]
	if lastOption.Label != "other" {
		t.Fatalf("lone option row = %+v, want the fifth group", lastOption)
	}
	backRow := ins.Keyboard[3][0]
	if backRow.Label != "Back" || backRow.Token != "main" {
		t.Fatalf("back row = %+v", backRow)
	}
}

func TestStaleTokenFallsBackToMain(t *testing.T) {
	d, store := newTestDispatcher(t)

	ins, err := d.HandleToken(context.Background(), "quiz:start:4")
	if err != nil {
		t.Fatalf("stale token must not error, got %v", err)
	}
	if ins.Text != "main menu" {
		t.Fatalf("body = %q, want main menu", ins.Text)
	}
	if store.UserCount() != 0 {
		t.Fatal("stale token must not mutate state")
	}
}

func TestBackingStoreFailureKeepsPriorMenu(t *testing.T) {
	d, store := newTestDispatcher(t)
	store.Fail = errors.New("db down")

	ins, err := d.HandleToken(context.Background(), "course:sem:3")
	var bse *BackingStoreError
	if !errors.As(err, &bse) {
		t.Fatalf("expected BackingStoreError, got %v", err)
	}
	if ins.Text != "" || ins.Keyboard != nil {
		t.Fatalf("degraded instruction must not re-render, got %+v", ins)
	}
	if ins.Notice == "" {
		t.Fatal("expected a user notice")
	}
}

func TestCourseDetailSubstitution(t *testing.T) {
	d, store := newTestDispatcher(t)
	store.AddCourse(models.Course{ID: 1, FaTitle: "Discrete Math"})
	store.AddCourse(models.Course{
		ID:               17,
		FaTitle:          "Algorithms",
		EnTitle:          sql.NullString{String: "Algorithms", Valid: true},
		OfferingSemester: sql.NullInt64{Int64: 4, Valid: true},
		PrerequisiteID:   sql.NullInt64{Int64: 1, Valid: true},
		CourseType:       models.CourseSpecialized,
	})

	ins, err := d.HandleToken(context.Background(), "course:id:17")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	want := "Algorithms / Algorithms / sem 4 / prereq Discrete Math / specialized"
	if ins.Text != want {
		t.Fatalf("body = %q, want %q", ins.Text, want)
	}
	buttons := flatten(ins.Keyboard)
	if len(buttons) != 1 || buttons[0].Token != "course" {
		t.Fatalf("detail keyboard = %+v, want back only", buttons)
	}
}

func TestCourseDetailMissingFallsBackToCourseMenu(t *testing.T) {
	d, _ := newTestDispatcher(t)

	ins, err := d.HandleToken(context.Background(), "course:id:99")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if ins.Text != "course menu" {
		t.Fatalf("body = %q", ins.Text)
	}
	if ins.Notice == "" {
		t.Fatal("expected a notice about the vanished course")
	}
}

func TestPhoneAndLinkLists(t *testing.T) {
	d, store := newTestDispatcher(t)
	store.AddPhone(models.PhoneNumber{ID: 1, Name: "Registrar", PhoneNumber: "021-1234"})
	store.AddPhone(models.PhoneNumber{ID: 2, Name: "Security", PhoneNumber: "021-5678"})
	store.AddLink(models.Link{ID: 1, Name: "Portal", Address: "https://portal.example"})

	ins, err := d.HandleToken(context.Background(), "phone")
	if err != nil {
		t.Fatalf("phones: %v", err)
	}
	want := "phones:\nRegistrar: 021-1234\nSecurity: 021-5678"
	if ins.Text != want {
		t.Fatalf("phones body = %q", ins.Text)
	}

	ins, err = d.HandleToken(context.Background(), "link")
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	if !strings.Contains(ins.Text, `<a href="https://portal.example">Portal</a>`) {
		t.Fatalf("links body = %q", ins.Text)
	}
}

func TestEmptyFilteredListRendersBody(t *testing.T) {
	d, store := newTestDispatcher(t)
	store.SetText(menu.TplNoItems, false, "nothing here yet")

	ins, err := d.HandleToken(context.Background(), "course:sem:5")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(ins.Text, "courses of semester 5") || !strings.Contains(ins.Text, "nothing here yet") {
		t.Fatalf("body = %q", ins.Text)
	}
	buttons := flatten(ins.Keyboard)
	if len(buttons) != 1 || buttons[0].Token != "course" {
		t.Fatalf("keyboard = %+v, want back only", buttons)
	}
}

func TestMainKeyboardRows(t *testing.T) {
	d, _ := newTestDispatcher(t)
	rows := d.MainKeyboardRows(context.Background())
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][0] != menu.LabelFreshman || rows[0][1] != menu.LabelCourses {
		t.Fatalf("first row = %v", rows[0])
	}
}
