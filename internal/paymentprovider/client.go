// Package paymentprovider оборачивает API платёжного провайдера (Stripe):
// клиенты, checkout-сессии и управление регулярными подписками.
// Каждый метод — один вызов провайдера без повторных попыток.
package paymentprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/subscription"
)

// Client — клиент платёжного провайдера, настроенный секретным ключом.
type Client struct{}

// NewClient устанавливает глобальный ключ Stripe и возвращает клиента.
func NewClient(secretKey string) *Client {
	stripe.Key = secretKey
	return &Client{}
}

// SubscriptionState — снимок состояния подписки после управляющего вызова.
type SubscriptionState struct {
	ID                string
	Status            string
	CancelAtPeriodEnd bool
	CurrentPeriodEnd  *time.Time
	CancelledAt       *time.Time
}

// CreateCustomer создаёт клиента у провайдера и возвращает его ID.
func (c *Client) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	const op = "paymentprovider.CreateCustomer"
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	params.Context = ctx
	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return cust.ID, nil
}

// DeleteCustomer удаляет клиента у провайдера вместе с его подписками.
func (c *Client) DeleteCustomer(ctx context.Context, customerID string) error {
	const op = "paymentprovider.DeleteCustomer"
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if _, err := customer.Del(customerID, params); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateCheckoutSession создаёт checkout-сессию подписки для клиента
// и возвращает URL для редиректа.
func (c *Client) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (string, error) {
	const op = "paymentprovider.CreateCheckoutSession"
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx
	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return sess.URL, nil
}

// SetCancelAtPeriodEnd планирует отмену подписки в конце периода
// или снимает запланированную отмену. Вызов идемпотентен.
func (c *Client) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*SubscriptionState, error) {
	const op = "paymentprovider.SetCancelAtPeriodEnd"
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}
	params.Context = ctx
	sub, err := subscription.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newSubscriptionState(sub), nil
}

// CancelSubscription немедленно отменяет подписку с пропорциональным перерасчётом.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (*SubscriptionState, error) {
	const op = "paymentprovider.CancelSubscription"
	params := &stripe.SubscriptionCancelParams{
		Prorate: stripe.Bool(true),
	}
	params.Context = ctx
	sub, err := subscription.Cancel(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newSubscriptionState(sub), nil
}

func newSubscriptionState(sub *stripe.Subscription) *SubscriptionState {
	state := &SubscriptionState{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.CurrentPeriodEnd > 0 {
		t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		state.CurrentPeriodEnd = &t
	}
	if sub.CanceledAt > 0 {
		t := time.Unix(sub.CanceledAt, 0).UTC()
		state.CancelledAt = &t
	}
	return state
}
