// Package bot implements the navigation dispatcher: it turns a decoded
// interaction into a pure RenderInstruction, leaving all transport work to
// the adapter. Nothing here holds per-user state; the menu position of every
// chat lives entirely inside the callback tokens of already-sent keyboards.
package bot

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"

	"campusbot/core/logger"
	"campusbot/internal/menu"
	"campusbot/internal/models"
	"campusbot/internal/texts"
)

// Store aggregates every persistence capability one interaction may need.
type Store interface {
	menu.Store
	UpsertUser(ctx context.Context, user models.TGUser) (bool, error)
	CountUsers(ctx context.Context) (int64, error)
	CourseByID(ctx context.Context, id int64) (models.Course, bool, error)
	Phones(ctx context.Context) ([]models.PhoneNumber, error)
	Links(ctx context.Context) ([]models.Link, error)
}

// Location is a coordinate pair emitted as a fire-and-forget pin.
type Location struct {
	Lat float64
	Lon float64
}

// RenderInstruction is the dispatcher's complete answer to one interaction.
type RenderInstruction struct {
	Mode menu.DeliveryMode
	Text string
	// Keyboard is the arranged inline grid; nil means no inline keyboard.
	Keyboard [][]menu.Button
	// MainKeyboard requests the persistent reply keyboard alongside the
	// message (greeting flow only).
	MainKeyboard bool
	// Location, when set, is sent before the render is applied.
	Location *Location
	// Notice is a best-effort callback toast; it accompanies degraded
	// renders and never blocks them.
	Notice string
}

const fallbackNotice = "Temporary error, please try again."

// Dispatcher owns the interaction loop's decision making.
type Dispatcher struct {
	catalog *menu.Catalog
	store   Store
	texts   *texts.Service
	botName string
	log     *slog.Logger
}

// New validates the catalog and builds a dispatcher. A validation failure is
// fatal wiring breakage and must abort startup.
func New(catalog *menu.Catalog, store Store, txt *texts.Service, botName string) (*Dispatcher, error) {
	if err := catalog.Validate(); err != nil {
		return nil, &ConfigurationError{Detail: "menu catalog", Err: err}
	}
	return &Dispatcher{
		catalog: catalog,
		store:   store,
		texts:   txt,
		botName: botName,
		log:     logger.TG,
	}, nil
}

// Start handles the typed start command: it registers the user and produces
// the greeting with the persistent main keyboard.
func (d *Dispatcher) Start(ctx context.Context, user models.TGUser) (RenderInstruction, error) {
	created, err := d.store.UpsertUser(ctx, user)
	if err != nil {
		wrapped := &BackingStoreError{Op: "register user", Err: err}
		return RenderInstruction{Notice: d.notice(ctx)}, wrapped
	}
	logger.LogEvent(ctx, logger.SVCUsers, slog.LevelInfo, "user.registered",
		slog.String("status", "ok"),
		slog.Int64("user_id", user.ID),
		slog.Bool("created", created),
	)

	tpl := menu.TplStartExistedUser
	if created {
		tpl = menu.TplStartNewUser
	}
	text := d.texts.Render(ctx, tpl, map[string]string{
		"bot_name":  d.botName,
		"full_name": user.FullName,
	})
	return RenderInstruction{
		Mode:         menu.SendNew,
		Text:         text,
		MainKeyboard: true,
	}, nil
}

// HandleToken decodes an inbound callback token and renders its target. A
// token this system did not produce degrades to a render of the main menu;
// the press never errors out to the user.
func (d *Dispatcher) HandleToken(ctx context.Context, token string) (RenderInstruction, error) {
	state, err := menu.Decode(token)
	if err != nil {
		logger.LogEvent(ctx, d.log, slog.LevelWarn, "callback.decode_failed",
			slog.String("status", "skip"),
			slog.String("payload", logger.SanitizeLimit(token, 64)),
			slog.String("err", err.Error()),
		)
		return d.Render(ctx, menu.State{Menu: menu.MenuMain})
	}
	return d.Render(ctx, state)
}

// Render produces the instruction for one target state.
func (d *Dispatcher) Render(ctx context.Context, s menu.State) (RenderInstruction, error) {
	// A place press emits its pin and lands back on the group list. The
	// pin cannot be expressed as a text edit, hence delete-and-resend.
	if s.Menu == menu.MenuPlaceLocation && s.Filter == menu.FilterByCoordinates {
		ins, err := d.Render(ctx, menu.State{Menu: menu.MenuPlaceGroup})
		if err != nil {
			return ins, err
		}
		ins.Mode = menu.DeleteAndSend
		ins.Location = &Location{Lat: s.Lat, Lon: s.Lon}
		return ins, nil
	}
	if s.Menu == menu.MenuCourseDetail {
		return d.renderCourseDetail(ctx, s)
	}

	def, err := d.catalog.Definition(s.Menu)
	if err != nil {
		return RenderInstruction{Notice: d.notice(ctx)}, &ConfigurationError{Detail: "definition lookup", Err: err}
	}

	vars, err := d.bodyVars(ctx, s)
	if err != nil {
		return RenderInstruction{Notice: d.notice(ctx)}, err
	}

	options, err := d.catalog.OptionsFor(ctx, s, d.store)
	if err != nil {
		return RenderInstruction{Notice: d.notice(ctx)}, &BackingStoreError{Op: "resolve options", Err: err}
	}

	grid, err := d.arrange(ctx, def, options)
	if err != nil {
		return RenderInstruction{Notice: d.notice(ctx)}, err
	}

	text := d.texts.Render(ctx, def.TemplateFor(s), vars)
	if len(options) == 0 && s.Filter != menu.FilterNone {
		if empty := d.texts.Render(ctx, menu.TplNoItems, nil); empty != "" {
			text = strings.TrimSpace(text + "\n\n" + empty)
		}
	}

	return RenderInstruction{Mode: def.Mode, Text: text, Keyboard: grid}, nil
}

func (d *Dispatcher) renderCourseDetail(ctx context.Context, s menu.State) (RenderInstruction, error) {
	course, found, err := d.store.CourseByID(ctx, s.TargetID)
	if err != nil {
		return RenderInstruction{Notice: d.notice(ctx)}, &BackingStoreError{Op: "course lookup", Err: err}
	}
	if !found {
		// The button outlived a catalog edit. Fall back to the course
		// menu instead of showing a broken detail view.
		logger.LogEvent(ctx, logger.SVCCourses, slog.LevelWarn, "course.not_found",
			slog.String("status", "skip"),
			slog.Int64("course_id", s.TargetID),
		)
		ins, rerr := d.Render(ctx, menu.State{Menu: menu.MenuCourseRoot})
		ins.Notice = d.notice(ctx)
		return ins, rerr
	}

	prereq := "-"
	if course.PrerequisiteID.Valid {
		if pre, ok, perr := d.store.CourseByID(ctx, course.PrerequisiteID.Int64); perr == nil && ok {
			prereq = pre.Title()
		}
	}

	def, err := d.catalog.Definition(s.Menu)
	if err != nil {
		return RenderInstruction{Notice: d.notice(ctx)}, &ConfigurationError{Detail: "definition lookup", Err: err}
	}
	grid, err := d.arrange(ctx, def, nil)
	if err != nil {
		return RenderInstruction{Notice: d.notice(ctx)}, err
	}

	text := d.texts.Render(ctx, def.Template, map[string]string{
		"fa_title":            course.FaTitle,
		"en_title":            nullString(course.EnTitle),
		"offering_semester":   nullInt(course.OfferingSemester),
		"credit":              strconv.Itoa(course.Credit),
		"quiz_credit":         strconv.Itoa(course.QuizCredit),
		"prerequisite_course": prereq,
		"unit_type":           course.UnitType.String(),
		"course_type":         course.CourseType.String(),
		"has_exam":            strconv.FormatBool(course.HasExam),
		"has_project":         strconv.FormatBool(course.HasProject),
	})
	return RenderInstruction{Mode: def.Mode, Text: text, Keyboard: grid}, nil
}

// bodyVars computes the template substitutions a state's body needs.
func (d *Dispatcher) bodyVars(ctx context.Context, s menu.State) (map[string]string, error) {
	switch s.Menu {
	case menu.MenuCourseBySemester:
		if s.Filter == menu.FilterBySemester {
			return map[string]string{"offering_semester": strconv.Itoa(s.Value)}, nil
		}
	case menu.MenuCourseByType:
		if s.Filter == menu.FilterByType {
			return map[string]string{"course_type": models.CourseType(s.Value).String()}, nil
		}
	case menu.MenuPlaceLocation:
		if s.Filter == menu.FilterByGroup {
			return map[string]string{"group": models.PlaceGroup(s.Value).String()}, nil
		}
	case menu.MenuPhoneList:
		phones, err := d.store.Phones(ctx)
		if err != nil {
			return nil, &BackingStoreError{Op: "phone directory", Err: err}
		}
		entries := make([]string, 0, len(phones))
		for _, p := range phones {
			entries = append(entries, d.texts.Render(ctx, menu.TplPhoneEntry, map[string]string{
				"name":         p.Name,
				"phone_number": p.PhoneNumber,
			}))
		}
		return map[string]string{"phones": strings.Join(entries, "\n")}, nil
	case menu.MenuLinkList:
		links, err := d.store.Links(ctx)
		if err != nil {
			return nil, &BackingStoreError{Op: "link list", Err: err}
		}
		entries := make([]string, 0, len(links))
		for _, l := range links {
			entries = append(entries, d.texts.Render(ctx, menu.TplLinkEntry, map[string]string{
				"name":    l.Name,
				"address": l.Address,
			}))
		}
		return map[string]string{"links": strings.Join(entries, "\n")}, nil
	}
	return nil, nil
}

// arrange encodes the options and lays them out together with the menu's
// back button.
func (d *Dispatcher) arrange(ctx context.Context, def menu.Definition, options []menu.Option) ([][]menu.Button, error) {
	buttons := make([]menu.Button, 0, len(options))
	for _, opt := range options {
		token, err := menu.Encode(opt.Next)
		if err != nil {
			return nil, &ConfigurationError{Detail: "option encoding", Err: err}
		}
		buttons = append(buttons, menu.Button{Label: opt.Label, Token: token})
	}
	if def.PairRTL {
		buttons = menu.PairRTL(buttons)
	}

	var back *menu.Button
	if def.Back != nil {
		token, err := menu.Encode(*def.Back)
		if err != nil {
			return nil, &ConfigurationError{Detail: "back encoding", Err: err}
		}
		back = &menu.Button{Label: d.backLabel(ctx), Token: token}
	}
	return menu.Arrange(buttons, back), nil
}

func (d *Dispatcher) backLabel(ctx context.Context) string {
	if label := d.texts.RenderButton(ctx, menu.TplBackButton, nil); label != "" {
		return label
	}
	return menu.LabelBack
}

func (d *Dispatcher) notice(ctx context.Context) string {
	if n := d.texts.Render(ctx, menu.TplErrorNotice, nil); n != "" {
		return n
	}
	return fallbackNotice
}

// MainKeyboardRows lists the reply-keyboard labels mirroring the main menu,
// two per row.
func (d *Dispatcher) MainKeyboardRows(ctx context.Context) [][]string {
	options, err := d.catalog.OptionsFor(ctx, menu.State{Menu: menu.MenuMain}, d.store)
	if err != nil || len(options) == 0 {
		return nil
	}
	var rows [][]string
	for i := 0; i < len(options); i += 2 {
		end := i + 2
		if end > len(options) {
			end = len(options)
		}
		row := make([]string, 0, 2)
		for _, opt := range options[i:end] {
			row = append(row, opt.Label)
		}
		rows = append(rows, row)
	}
	return rows
}

func nullString(ns sql.NullString) string {
	if ns.Valid && ns.String != "" {
		return ns.String
	}
	return "-"
}

func nullInt(ni sql.NullInt64) string {
	if ni.Valid {
		return strconv.FormatInt(ni.Int64, 10)
	}
	return "-"
}
