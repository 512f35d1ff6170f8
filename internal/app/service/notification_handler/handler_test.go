package notification_handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	notificationlog "github.com/fatflowers/styler/internal/app/service/notification_log"
	"github.com/fatflowers/styler/internal/app/service/subscription"
	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/internal/platform/cache"
	"github.com/fatflowers/styler/internal/platform/db/dbtest"
	"github.com/fatflowers/styler/internal/platform/gateway"
	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/types"
)

const webhookSecret = "whsec_test"

type stubGateway struct{ n int }

func (g *stubGateway) CreateOrder(_ context.Context, req *gateway.CreateOrderRequest) (*gateway.Order, error) {
	g.n++
	return &gateway.Order{ID: fmt.Sprintf("order_%d", g.n), Amount: req.Amount, Currency: req.Currency}, nil
}

func (g *stubGateway) KeyID() string { return "rzp_test_key" }

type env struct {
	db      *gorm.DB
	sub     *subscription.Service
	handler *NotificationHandler
	notif   *notificationlog.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)
	log := zap.NewNop().Sugar()
	cfg := &config.Config{Gateway: config.GatewayConfig{KeyID: "rzp_test_key", KeySecret: "ks", WebhookSecret: webhookSecret}}
	store := cache.NewMemory()
	sub := subscription.NewService(db, cfg, store, &stubGateway{}, nil, log)
	sub.SetClock(func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) })
	notif := notificationlog.New(db, log)
	return &env{db: db, sub: sub, notif: notif, handler: NewNotificationHandler(cfg, notif, sub, store, nil, log)}
}

func signed(body, eventID string) *Notification {
	h := http.Header{}
	h.Set(gateway.HeaderSignature, gateway.WebhookSignature(webhookSecret, []byte(body)))
	if eventID != "" {
		h.Set(gateway.HeaderEventID, eventID)
	}
	return &Notification{Header: h, Body: []byte(body)}
}

func paymentCaptured(orderID, paymentID string) string {
	return fmt.Sprintf(`{"entity":"event","event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":4900,"currency":"INR","status":"captured"}}}}`, paymentID, orderID)
}

func (e *env) statuses(t *testing.T, orderID string) []models.PaymentNotificationLogStatus {
	t.Helper()
	logs, err := e.notif.ListByOrder(context.Background(), orderID)
	require.NoError(t, err)
	out := make([]models.PaymentNotificationLogStatus, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Status)
	}
	return out
}

func TestHandleNotification_ActivatesPendingOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	co, err := e.sub.CreateCheckout(ctx, &subscription.CheckoutRequest{UserID: "u1", PlanID: "styler_plus"})
	require.NoError(t, err)

	res, err := e.handler.HandleNotification(ctx, types.PaymentProviderRazorpay, signed(paymentCaptured(co.OrderID, "pay_1"), "evt_1"))
	require.NoError(t, err)
	require.True(t, res.Activated)
	require.Equal(t, models.PaymentNotificationLogStatusHandled, res.Status)

	status, err := e.sub.CheckSubscription(ctx, "u1")
	require.NoError(t, err)
	require.True(t, status.Subscribed)
	require.Equal(t, []models.PaymentNotificationLogStatus{
		models.PaymentNotificationLogStatusReceived,
		models.PaymentNotificationLogStatusHandled,
	}, e.statuses(t, co.OrderID))
}

func TestHandleNotification_DuplicateEventNotReapplied(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	co, err := e.sub.CreateCheckout(ctx, &subscription.CheckoutRequest{UserID: "u1", PlanID: "styler_plus"})
	require.NoError(t, err)
	body := paymentCaptured(co.OrderID, "pay_1")

	_, err = e.handler.HandleNotification(ctx, types.PaymentProviderRazorpay, signed(body, "evt_1"))
	require.NoError(t, err)

	res, err := e.handler.HandleNotification(ctx, types.PaymentProviderRazorpay, signed(body, "evt_1"))
	require.NoError(t, err)
	require.Equal(t, models.PaymentNotificationLogStatusDuplicate, res.Status)
	require.False(t, res.Activated)

	var logs int64
	require.NoError(t, e.db.Model(&models.SubscriptionLog{}).Where("order_id = ?", co.OrderID).Count(&logs).Error)
	require.Equal(t, int64(2), logs, "checkout + one activation")
	require.Equal(t, models.PaymentNotificationLogStatusDuplicate, e.statuses(t, co.OrderID)[2])
}

func TestHandleNotification_OrderPaidWithoutPaymentLeavesPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	co, err := e.sub.CreateCheckout(ctx, &subscription.CheckoutRequest{UserID: "u1", PlanID: "styler_plus"})
	require.NoError(t, err)
	body := fmt.Sprintf(`{"event":"order.paid","payload":{"order":{"entity":{"id":%q}}}}`, co.OrderID)

	res, err := e.handler.HandleNotification(ctx, types.PaymentProviderRazorpay, signed(body, "evt_2"))
	require.NoError(t, err)
	require.False(t, res.Activated)
	require.Equal(t, models.PaymentNotificationLogStatusHandled, res.Status)

	var sub models.Subscription
	require.NoError(t, e.db.Where("order_id = ?", co.OrderID).First(&sub).Error)
	require.Equal(t, types.SubscriptionStatusPending, sub.Status)

	// the client's own verify still goes through
	require.NoError(t, e.sub.VerifyPayment(ctx, &subscription.VerifyRequest{
		UserID:    "u1",
		OrderID:   co.OrderID,
		PaymentID: "pay_1",
		Signature: gateway.PaymentSignature("ks", co.OrderID, "pay_1"),
	}))
	status, err := e.sub.CheckSubscription(ctx, "u1")
	require.NoError(t, err)
	require.True(t, status.Subscribed)
}

func TestHandleNotification_LateCaptureRevivesAbandonedOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	co, err := e.sub.CreateCheckout(ctx, &subscription.CheckoutRequest{UserID: "u1", PlanID: "styler_plus"})
	require.NoError(t, err)

	e.sub.SetClock(func() time.Time { return time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC) })
	n, err := e.sub.AbandonStalePending(ctx, 24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	res, err := e.handler.HandleNotification(ctx, types.PaymentProviderRazorpay, signed(paymentCaptured(co.OrderID, "pay_late"), "evt_3"))
	require.NoError(t, err)
	require.True(t, res.Activated)
	require.Equal(t, models.PaymentNotificationLogStatusHandled, res.Status)

	status, err := e.sub.CheckSubscription(ctx, "u1")
	require.NoError(t, err)
	require.True(t, status.Subscribed)
}

func TestHandleNotification_DedupesByBodyWithoutEventID(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	body := `{"event":"refund.created","payload":{}}`

	res, err := e.handler.HandleNotification(ctx, types.PaymentProviderRazorpay, signed(body, ""))
	require.NoError(t, err)
	require.Equal(t, models.PaymentNotificationLogStatusHandled, res.Status)

	res, err = e.handler.HandleNotification(ctx, types.PaymentProviderRazorpay, signed(body, ""))
	require.NoError(t, err)
	require.Equal(t, models.PaymentNotificationLogStatusDuplicate, res.Status)
}

func TestHandleNotification_BadSignatureRejected(t *testing.T) {
	e := newEnv(t)
	n := signed(paymentCaptured("order_1", "pay_1"), "evt_1")
	n.Header.Set(gateway.HeaderSignature, gateway.WebhookSignature("wrong", n.Body))

	_, err := e.handler.HandleNotification(context.Background(), types.PaymentProviderRazorpay, n)
	require.True(t, errors.Is(err, subscription.ErrInvalidSignature))

	var count int64
	require.NoError(t, e.db.Model(&models.PaymentNotificationLog{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestHandleNotification_NotConfigured(t *testing.T) {
	e := newEnv(t)
	e.handler.cfg.Gateway.WebhookSecret = ""
	_, err := e.handler.HandleNotification(context.Background(), types.PaymentProviderRazorpay, signed(`{}`, "evt"))
	require.True(t, errors.Is(err, subscription.ErrWebhookNotConfigured))
}

func TestHandleNotification_UnknownOrderAcknowledged(t *testing.T) {
	e := newEnv(t)
	res, err := e.handler.HandleNotification(context.Background(), types.PaymentProviderRazorpay, signed(paymentCaptured("order_x", "pay_x"), "evt_9"))
	require.NoError(t, err)
	require.Equal(t, models.PaymentNotificationLogStatusHandleFailed, res.Status)
	require.Equal(t, []models.PaymentNotificationLogStatus{
		models.PaymentNotificationLogStatusReceived,
		models.PaymentNotificationLogStatusHandleFailed,
	}, e.statuses(t, "order_x"))
}

func TestHandleNotification_InvalidPayload(t *testing.T) {
	e := newEnv(t)
	_, err := e.handler.HandleNotification(context.Background(), types.PaymentProviderRazorpay, signed(`not json`, "evt"))
	require.True(t, errors.Is(err, ErrInvalidPayload))
}
