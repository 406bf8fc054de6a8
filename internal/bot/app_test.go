package bot

import (
	"context"
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"

	"campusbot/internal/models"
)

type recordingContext struct {
	tele.Context
	callback  *tele.Callback
	kv        map[string]any
	sent      []any
	responded []*tele.CallbackResponse
}

func newRecordingContext(cb *tele.Callback) *recordingContext {
	return &recordingContext{callback: cb, kv: map[string]any{}}
}

func (r *recordingContext) Update() tele.Update        { return tele.Update{} }
func (r *recordingContext) Sender() *tele.User         { return &tele.User{ID: 7} }
func (r *recordingContext) Chat() *tele.Chat           { return nil }
func (r *recordingContext) Callback() *tele.Callback   { return r.callback }
func (r *recordingContext) Get(key string) any         { return r.kv[key] }
func (r *recordingContext) Set(key string, val any)    { r.kv[key] = val }
func (r *recordingContext) Send(what any, opts ...any) error {
	r.sent = append(r.sent, what)
	return nil
}
func (r *recordingContext) Respond(resp ...*tele.CallbackResponse) error {
	r.responded = append(r.responded, resp...)
	return nil
}

func TestApplyDeliversNoticeWithoutCallback(t *testing.T) {
	d, store := newTestDispatcher(t)
	store.Fail = errors.New("db down")
	app := &App{dispatcher: d}

	ins, _ := d.Start(context.Background(), models.TGUser{ID: 7, FullName: "Ada"})
	if ins.Notice == "" {
		t.Fatal("degraded start must carry a notice")
	}

	c := newRecordingContext(nil)
	if err := app.apply(c, ins); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(c.responded) != 0 {
		t.Fatalf("no callback to answer, got %d responds", len(c.responded))
	}
	if len(c.sent) != 1 {
		t.Fatalf("sent %d messages, want the notice", len(c.sent))
	}
	if text, ok := c.sent[0].(string); !ok || text != fallbackNotice {
		t.Fatalf("sent = %v, want %q", c.sent[0], fallbackNotice)
	}
}

func TestApplyToastsNoticeOnCallback(t *testing.T) {
	d, store := newTestDispatcher(t)
	store.Fail = errors.New("db down")
	app := &App{dispatcher: d}

	ins, _ := d.HandleToken(context.Background(), "course:sem:3")
	if ins.Notice == "" {
		t.Fatal("degraded render must carry a notice")
	}

	c := newRecordingContext(&tele.Callback{})
	if err := app.apply(c, ins); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(c.sent) != 0 {
		t.Fatalf("toast path must not send a message, sent %d", len(c.sent))
	}
	if len(c.responded) != 1 || c.responded[0].Text != fallbackNotice {
		t.Fatalf("responded = %+v, want one toast with the notice", c.responded)
	}
}
