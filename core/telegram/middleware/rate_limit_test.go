package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	sender *tele.User
	update tele.Update
}

func (f *fakeContext) Sender() *tele.User  { return f.sender }
func (f *fakeContext) Update() tele.Update { return f.update }
func (f *fakeContext) Chat() *tele.Chat    { return nil }

func callbackContext(userID int64) *fakeContext {
	u := &tele.User{ID: userID}
	return &fakeContext{
		sender: u,
		update: tele.Update{Callback: &tele.Callback{Sender: u}},
	}
}

func TestRateLimitDropsBeyondBurst(t *testing.T) {
	var handled int
	mw := RateLimitMiddleware(RateLimitOptions{PerSecond: 0.001, Burst: 2})
	h := mw(func(tele.Context) error {
		handled++
		return nil
	})

	c := callbackContext(1)
	for i := 0; i < 5; i++ {
		if err := h(c); err != nil {
			t.Fatalf("press %d: %v", i, err)
		}
	}
	if handled != 2 {
		t.Fatalf("handled = %d, want burst of 2", handled)
	}
}

func TestRateLimitTracksUsersIndependently(t *testing.T) {
	var handled int
	mw := RateLimitMiddleware(RateLimitOptions{PerSecond: 0.001, Burst: 1})
	h := mw(func(tele.Context) error {
		handled++
		return nil
	})

	for id := int64(1); id <= 3; id++ {
		if err := h(callbackContext(id)); err != nil {
			t.Fatalf("user %d: %v", id, err)
		}
	}
	if handled != 3 {
		t.Fatalf("handled = %d, want one per user", handled)
	}
}

func TestRateLimitExcludesConfiguredKinds(t *testing.T) {
	var handled int
	mw := RateLimitMiddleware(RateLimitOptions{
		PerSecond: 0.001,
		Burst:     1,
		Exclude:   map[string]struct{}{"callback": {}},
	})
	h := mw(func(tele.Context) error {
		handled++
		return nil
	})

	c := callbackContext(1)
	for i := 0; i < 4; i++ {
		if err := h(c); err != nil {
			t.Fatalf("press %d: %v", i, err)
		}
	}
	if handled != 4 {
		t.Fatalf("handled = %d, excluded kind must bypass the limiter", handled)
	}
}

func TestRateLimitCallsOnLimited(t *testing.T) {
	var limited int
	mw := RateLimitMiddleware(RateLimitOptions{
		PerSecond: 0.001,
		Burst:     1,
		OnLimited: func(tele.Context) error {
			limited++
			return nil
		},
	})
	h := mw(func(tele.Context) error { return nil })

	c := callbackContext(1)
	for i := 0; i < 3; i++ {
		if err := h(c); err != nil {
			t.Fatalf("press %d: %v", i, err)
		}
	}
	if limited != 2 {
		t.Fatalf("limited = %d, want 2", limited)
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	var handled int
	mw := RateLimitMiddleware(RateLimitOptions{PerSecond: 0})
	h := mw(func(tele.Context) error {
		handled++
		return nil
	})

	c := callbackContext(1)
	for i := 0; i < 3; i++ {
		if err := h(c); err != nil {
			t.Fatalf("press %d: %v", i, err)
		}
	}
	if handled != 3 {
		t.Fatalf("handled = %d", handled)
	}
}
