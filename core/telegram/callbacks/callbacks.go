// Package callbacks bridges colon-separated navigation tokens and Telebot's
// \f<unique>|<payload> callback encoding. The token's leading namespace maps
// to the telebot unique, the remaining fields travel as the payload.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// TokenSep separates token fields on the wire.
const TokenSep = ":"

// SplitToken splits a navigation token into the telebot unique (the token's
// namespace) and the payload (the remaining fields, possibly empty).
func SplitToken(token string) (unique, payload string) {
	parts := strings.SplitN(token, TokenSep, 2)
	unique = parts[0]
	if len(parts) == 2 {
		payload = parts[1]
	}
	return unique, payload
}

// JoinToken rebuilds the full navigation token from unique and payload.
func JoinToken(unique, payload string) string {
	if payload == "" {
		return unique
	}
	return unique + TokenSep + payload
}

// ParseCallbackData parses Telebot's \f<unique>|<payload> encoding.
// Returns unique and payload (may be empty).
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	raw := cb.Data
	raw = strings.TrimPrefix(raw, "\\f")
	parts := strings.SplitN(raw, "|", 2)
	unique := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return unique, payload
}

// CallbackKey returns cb.Unique if present; otherwise parses from Data.
func CallbackKey(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}
	k, _ := ParseCallbackData(cb)
	return k
}

// CallbackPayload returns payload (after '|') parsed from Data.
func CallbackPayload(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	// prefer cb.Data since cb.Unique may be empty in generic OnCallback
	_, payload := ParseCallbackData(cb)
	return payload
}

// Token reconstructs the full navigation token carried by a callback.
func Token(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	unique, payload := ParseCallbackData(cb)
	return JoinToken(unique, payload)
}
