// Package texts renders the operator-editable message templates. Templates
// live in the database so wording changes never need a redeploy; rendering
// replaces {key} markers with caller-supplied values.
package texts

import (
	"context"
	"log/slog"
	"strings"

	"campusbot/core/logger"
)

// Store fetches one template body by name. found=false means the row does
// not exist, as opposed to an infrastructure failure.
type Store interface {
	TextByName(ctx context.Context, name string, isButton bool) (text string, found bool, err error)
}

// Service resolves and renders templates with a shared fallback policy: a
// missing, empty or unfetchable template renders as "" and the caller is
// expected to skip the send. The gap is logged so operators notice unseeded
// rows without users seeing raw template names.
type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		log:   logger.SVCTexts,
	}
}

// Render produces the body text for a template. vars values replace their
// {key} markers; markers without a supplied value stay verbatim, which shows
// up in chat and flags a seed/template mismatch.
func (s *Service) Render(ctx context.Context, name string, vars map[string]string) string {
	return s.render(ctx, name, false, vars)
}

// RenderButton produces a button label template.
func (s *Service) RenderButton(ctx context.Context, name string, vars map[string]string) string {
	return s.render(ctx, name, true, vars)
}

func (s *Service) render(ctx context.Context, name string, isButton bool, vars map[string]string) string {
	text, found, err := s.store.TextByName(ctx, name, isButton)
	if err != nil {
		logger.LogEvent(ctx, s.log, slog.LevelWarn, "texts.fetch.failed",
			slog.String("status", "fail"),
			slog.String("template", name),
			slog.String("err", err.Error()),
		)
		return ""
	}
	if !found || text == "" {
		logger.LogEvent(ctx, s.log, slog.LevelWarn, "texts.missing",
			slog.String("status", "skip"),
			slog.String("template", name),
		)
		return ""
	}
	return Substitute(text, vars)
}

// Substitute replaces each {key} marker with its value. Replacement is a
// plain string substitution, not a template language: values are inserted
// as-is and unknown markers are left alone.
func Substitute(text string, vars map[string]string) string {
	if len(vars) == 0 {
		return text
	}
	pairs := make([]string, 0, len(vars)*2)
	for key, val := range vars {
		pairs = append(pairs, "{"+key+"}", val)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
