package bot

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	tele "gopkg.in/telebot.v4"

	coreconfig "campusbot/core/config"
	"campusbot/core/logger"
	coretelegram "campusbot/core/telegram"
	"campusbot/core/telegram/callbacks"
	"campusbot/core/telegram/commands"
	tghelpers "campusbot/core/telegram/helpers"
	"campusbot/core/telegram/keyboard"
	"campusbot/core/telegram/router"
	"campusbot/internal/menu"
	"campusbot/internal/models"
	"campusbot/internal/storage"
	"campusbot/internal/texts"
)

// tokenNamespaces are the callback families the adapter subscribes to. Each
// maps to the leading field of the tokens the codec produces.
var tokenNamespaces = []string{"main", "freshman", "course", "place", "phone", "link", "about"}

// App wires the dispatcher to the Telegram transport.
type App struct {
	cfg        *coreconfig.Config
	dispatcher *Dispatcher
	registry   *coretelegram.Registry
	store      Store
	rdb        *redis.Client
}

// NewApp assembles storage, templates, dispatcher and registry.
func NewApp(cfg *coreconfig.Config, db *sqlx.DB) (*App, error) {
	store := storage.NewPostgres(db)

	var textStore texts.Store = store
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
		textStore = texts.NewCachedStore(store, rdb, ttl)
	}

	dispatcher, err := New(menu.NewCatalog(), store, texts.NewService(textStore), cfg.Bot.Name)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:        cfg,
		dispatcher: dispatcher,
		registry:   coretelegram.NewRegistry(),
		store:      store,
		rdb:        rdb,
	}
	app.wire()
	return app, nil
}

func (a *App) wire() {
	a.registry.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Register and open the main menu",
	})
	a.registry.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Registered user count",
		AdminOnly:   true,
		Hidden:      true,
	})

	for _, ns := range tokenNamespaces {
		if err := a.registry.RegisterCallback(ns, a.handleCallback); err != nil {
			logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.callback.failed",
				slog.String("key", ns),
				slog.String("err", err.Error()),
			)
		}
	}

	entries := map[string]menu.State{
		menu.LabelFreshman: {Menu: menu.MenuFreshman},
		menu.LabelCourses:  {Menu: menu.MenuCourseRoot},
		menu.LabelPlace:    {Menu: menu.MenuPlaceGroup},
		menu.LabelPhones:   {Menu: menu.MenuPhoneList},
		menu.LabelLinks:    {Menu: menu.MenuLinkList},
		menu.LabelAbout:    {Menu: menu.MenuAbout},
	}
	for label, state := range entries {
		if err := a.registry.RegisterTextButton(label, a.textButtonHandler(state)); err != nil {
			logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.text_button.failed",
				slog.String("label", label),
				slog.String("err", err.Error()),
			)
		}
	}
}

// TelegramRunOptions builds the runtime wiring consumed by the shared runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.registry, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStop: func(context.Context, coretelegram.Runtime) error {
			if a.rdb != nil {
				return a.rdb.Close()
			}
			return nil
		},
	}, nil
}

func (a *App) handleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	ins, err := a.dispatcher.Start(ctx, senderToUser(sender))
	if aerr := a.apply(c, ins); aerr != nil {
		return aerr
	}
	return err
}

func (a *App) handleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	n, err := a.store.CountUsers(ctx)
	if err != nil {
		return &BackingStoreError{Op: "count users", Err: err}
	}
	return tghelpers.SendText(c, fmt.Sprintf("registered users: %d", n))
}

func (a *App) handleCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	ins, err := a.dispatcher.HandleToken(ctx, callbacks.Token(c))
	if aerr := a.apply(c, ins); aerr != nil {
		return aerr
	}
	return err
}

func (a *App) textButtonHandler(state menu.State) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		ins, err := a.dispatcher.Render(ctx, state)
		// Entry from a typed button has no message to edit.
		ins.Mode = menu.SendNew
		if aerr := a.apply(c, ins); aerr != nil {
			return aerr
		}
		return err
	}
}

// apply performs the transport side of a RenderInstruction. Send and edit
// failures are suppressed after logging: the message the instruction targets
// may have been deleted by the user, and one lost render must not take down
// the interaction loop.
func (a *App) apply(c tele.Context, ins RenderInstruction) error {
	ctx := tghelpers.BuildContext(c)

	if ins.Notice != "" {
		if c.Callback() != nil {
			_ = c.Respond(&tele.CallbackResponse{Text: ins.Notice})
		} else if nerr := tghelpers.SendText(c, ins.Notice); nerr != nil {
			a.logTransport(ctx, "send notice", nerr)
		}
	}
	if ins.Location != nil {
		if err := tghelpers.SendLocation(c, ins.Location.Lat, ins.Location.Lon); err != nil {
			a.logTransport(ctx, "send location", err)
		}
	}
	if ins.Text == "" && ins.Keyboard == nil {
		return nil
	}

	markup := a.markupFor(ctx, ins)

	var err error
	switch ins.Mode {
	case menu.SendNew:
		err = tghelpers.SendHTML(c, ins.Text, markup)
	case menu.EditText:
		if c.Callback() == nil {
			err = tghelpers.SendHTML(c, ins.Text, markup)
		} else {
			err = tghelpers.EditHTML(c, ins.Text, markup)
		}
	case menu.EditMarkupOnly:
		err = tghelpers.EditMarkup(c, markup)
	case menu.DeleteAndSend:
		if c.Callback() != nil {
			if derr := tghelpers.DeleteMessage(c); derr != nil {
				a.logTransport(ctx, "delete message", derr)
			}
		}
		err = tghelpers.SendHTML(c, ins.Text, markup)
	}
	if err != nil {
		a.logTransport(ctx, ins.Mode.String(), err)
	}
	return nil
}

func (a *App) markupFor(ctx context.Context, ins RenderInstruction) *tele.ReplyMarkup {
	if len(ins.Keyboard) > 0 {
		rows := make([][]keyboard.InlineBtn, len(ins.Keyboard))
		for i, row := range ins.Keyboard {
			btns := make([]keyboard.InlineBtn, len(row))
			for j, b := range row {
				unique, payload := callbacks.SplitToken(b.Token)
				btns[j] = keyboard.InlineBtn{Text: b.Label, Unique: unique, Data: payload}
			}
			rows[i] = btns
		}
		return keyboard.InlineButtonsRows(rows...)
	}
	if ins.MainKeyboard {
		if rows := a.dispatcher.MainKeyboardRows(ctx); len(rows) > 0 {
			return keyboard.ReplyButtons(rows...)
		}
	}
	return nil
}

func (a *App) logTransport(ctx context.Context, op string, err error) {
	logger.LogEvent(ctx, logger.TG, slog.LevelWarn, "transport.send_failed",
		slog.String("status", "fail"),
		slog.String("cause", op),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
}

func senderToUser(u *tele.User) models.TGUser {
	fullName := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	user := models.TGUser{ID: u.ID, FullName: fullName}
	if u.Username != "" {
		user.Username = sql.NullString{String: u.Username, Valid: true}
	}
	return user
}
