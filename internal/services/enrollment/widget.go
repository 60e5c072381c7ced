package enrollment

import (
	"encoding/json"
	"strings"
	"sync"
)

// CheckoutCompleteType — тип cross-origin сообщения об успешном завершении
// checkout-сессии во встроенном виджете оплаты.
const CheckoutCompleteType = "stripe_checkout_session_complete"

// DefaultCheckoutOrigin — origin платёжного виджета по умолчанию.
const DefaultCheckoutOrigin = "https://js.stripe.com"

// CheckoutMessage — сообщение, приходящее от платёжного виджета.
type CheckoutMessage struct {
	Type              string `json:"type"`
	CheckoutSessionID string `json:"checkout_session_id,omitempty"`
}

// OriginAllowList — предикат допустимых origin для сообщений виджета.
// Сравнение точное, без нормализации: origin уже канонизирован браузером.
type OriginAllowList map[string]struct{}

// NewOriginAllowList собирает allow-list из списка origin.
// Пустой список означает только DefaultCheckoutOrigin.
func NewOriginAllowList(origins ...string) OriginAllowList {
	list := make(OriginAllowList, len(origins)+1)
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			list[o] = struct{}{}
		}
	}
	if len(list) == 0 {
		list[DefaultCheckoutOrigin] = struct{}{}
	}
	return list
}

// Allowed сообщает, разрешён ли origin.
func (l OriginAllowList) Allowed(origin string) bool {
	_, ok := l[origin]
	return ok
}

// ParseCheckoutMessage разбирает сообщение виджета. Возвращает ok=false
// для невалидного JSON и сообщений другого типа.
func ParseCheckoutMessage(payload []byte) (CheckoutMessage, bool) {
	var msg CheckoutMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return CheckoutMessage{}, false
	}
	if msg.Type != CheckoutCompleteType {
		return CheckoutMessage{}, false
	}
	return msg, true
}

// CheckoutListener принимает сообщения виджета и вызывает callback
// успеха не более одного раза. Сообщения с чужого origin или другого
// типа игнорируются молча.
type CheckoutListener struct {
	allowed    OriginAllowList
	onComplete func(CheckoutMessage)

	mu    sync.Mutex
	fired bool
}

// NewCheckoutListener создает слушателя сообщений виджета.
func NewCheckoutListener(allowed OriginAllowList, onComplete func(CheckoutMessage)) *CheckoutListener {
	return &CheckoutListener{
		allowed:    allowed,
		onComplete: onComplete,
	}
}

// HandleMessage обрабатывает одно сообщение. Возвращает true, если
// callback успеха был вызван именно этим сообщением.
func (l *CheckoutListener) HandleMessage(origin string, payload []byte) bool {
	if !l.allowed.Allowed(origin) {
		return false
	}

	msg, ok := ParseCheckoutMessage(payload)
	if !ok {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fired {
		return false
	}
	l.fired = true
	if l.onComplete != nil {
		l.onComplete(msg)
	}
	return true
}
