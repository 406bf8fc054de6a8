package texts

import (
	"context"
	"errors"
	"testing"
)

type mapStore struct {
	bodies  map[string]string
	buttons map[string]string
	err     error
}

func (m *mapStore) TextByName(_ context.Context, name string, isButton bool) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	src := m.bodies
	if isButton {
		src = m.buttons
	}
	text, ok := src[name]
	return text, ok, nil
}

func TestSubstitute(t *testing.T) {
	cases := []struct {
		name string
		text string
		vars map[string]string
		want string
	}{
		{"no vars", "plain", nil, "plain"},
		{"single", "hi {full_name}", map[string]string{"full_name": "Ada"}, "hi Ada"},
		{
			"multiple",
			"{bot_name}: {full_name}",
			map[string]string{"bot_name": "campusbot", "full_name": "Ada"},
			"campusbot: Ada",
		},
		{"unknown marker stays", "semester {offering_semester}", map[string]string{"group": "1"}, "semester {offering_semester}"},
		{"value is not re-scanned", "{a}{b}", map[string]string{"a": "{b}", "b": "x"}, "{b}x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Substitute(tc.text, tc.vars); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderFallsBackToEmpty(t *testing.T) {
	svc := NewService(&mapStore{bodies: map[string]string{"GROUPS": "pick a group"}})
	ctx := context.Background()

	if got := svc.Render(ctx, "GROUPS", nil); got != "pick a group" {
		t.Fatalf("got %q", got)
	}
	if got := svc.Render(ctx, "MISSING", nil); got != "" {
		t.Fatalf("missing template rendered %q", got)
	}

	svc = NewService(&mapStore{err: errors.New("db down")})
	if got := svc.Render(ctx, "GROUPS", nil); got != "" {
		t.Fatalf("store failure rendered %q", got)
	}
}

func TestRenderButtonUsesButtonRows(t *testing.T) {
	svc := NewService(&mapStore{
		bodies:  map[string]string{"BACK_BUTTON": "body variant"},
		buttons: map[string]string{"BACK_BUTTON": "Back"},
	})
	if got := svc.RenderButton(context.Background(), "BACK_BUTTON", nil); got != "Back" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderEmptyTemplateIsMissing(t *testing.T) {
	svc := NewService(&mapStore{bodies: map[string]string{"ABOUT": ""}})
	if got := svc.Render(context.Background(), "ABOUT", nil); got != "" {
		t.Fatalf("got %q", got)
	}
}
