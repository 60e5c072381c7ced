// Package redact реализует обёртку над slog.Handler, маскирующую значения
// чувствительных полей (email, телефон, токены, адреса) перед записью в лог.
// Используется во всех окружениях, кроме development.
package redact

import (
	"context"
	"log/slog"
	"strings"
)

// Masked — значение, подставляемое вместо чувствительных данных.
const Masked = "[redacted]"

// DefaultSensitiveKeys — имена полей, значения которых не должны попадать в лог.
func DefaultSensitiveKeys() []string {
	return []string{
		"email", "phone", "token", "authorization",
		"address", "password", "password_hash", "secret",
	}
}

// Handler оборачивает slog.Handler и маскирует значения атрибутов,
// ключ которых входит в список чувствительных.
type Handler struct {
	inner     slog.Handler
	sensitive map[string]struct{}
}

// New создаёт Handler поверх inner с заданным списком чувствительных ключей.
// Ключи сравниваются без учёта регистра.
func New(inner slog.Handler, keys []string) *Handler {
	sensitive := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		sensitive[strings.ToLower(k)] = struct{}{}
	}
	return &Handler{inner: inner, sensitive: sensitive}
}

// Enabled сообщает, пишет ли обработчик записи данного уровня.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle маскирует чувствительные атрибуты записи и передаёт её дальше.
func (h *Handler) Handle(ctx context.Context, rec slog.Record) error {
	masked := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.inner.Handle(ctx, masked)
}

// WithAttrs возвращает обработчик с дополнительными атрибутами,
// также прошедшими маскирование.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		maskedAttrs = append(maskedAttrs, h.maskAttr(a))
	}
	return &Handler{inner: h.inner.WithAttrs(maskedAttrs), sensitive: h.sensitive}
}

// WithGroup возвращает обработчик с открытой группой.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), sensitive: h.sensitive}
}

func (h *Handler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		maskedGroup := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			maskedGroup = append(maskedGroup, h.maskAttr(ga))
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedGroup...)}
	}
	if _, ok := h.sensitive[strings.ToLower(a.Key)]; ok {
		return slog.Attr{Key: a.Key, Value: slog.StringValue(Masked)}
	}
	return a
}
