package notification_handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	notificationlog "github.com/fatflowers/styler/internal/app/service/notification_log"
	"github.com/fatflowers/styler/internal/app/service/subscription"
	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/internal/platform/cache"
	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/logctx"
	"github.com/fatflowers/styler/pkg/metrics"
	"github.com/fatflowers/styler/pkg/types"
)

const dedupeTTL = 24 * time.Hour

type Notification struct {
	Header http.Header
	Body   []byte
}

type Result struct {
	EventID   string                              `json:"event_id"`
	Status    models.PaymentNotificationLogStatus `json:"status"`
	Activated bool                                `json:"activated"`
}

type NotificationHandler struct {
	cfg      *config.Config
	notifSvc *notificationlog.Service
	subSvc   *subscription.Service
	store    cache.Store
	metrics  *metrics.Business
	Logger   *zap.SugaredLogger
}

func NewNotificationHandler(cfg *config.Config, notif *notificationlog.Service, sub *subscription.Service, store cache.Store, m *metrics.Business, log *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{cfg: cfg, notifSvc: notif, subSvc: sub, store: store, metrics: m, Logger: log}
}

// HandleNotification authenticates, deduplicates and applies one gateway
// notification. A returned error means the gateway should deliver again;
// events that can never apply are acknowledged and logged as handle_failed.
func (h *NotificationHandler) HandleNotification(ctx context.Context, provider types.PaymentProvider, n *Notification) (res *Result, resErr error) {
	log := logctx.FromCtx(ctx, h.Logger)

	var parser NotificationParser
	var err error
	switch provider {
	case types.PaymentProviderRazorpay:
		parser, err = GetRazorpayNotificationParser(h.cfg, n.Header, n.Body)
		if err != nil {
			if errors.Is(err, subscription.ErrInvalidSignature) {
				log.Warnw("webhook_signature_invalid", "provider", provider)
				h.metrics.WebhookEvent("unknown", "invalid_signature")
			}
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	eventID := parser.GetEventID(ctx)
	eventType := parser.GetEventType(ctx)
	orderID := parser.GetOrderID(ctx)
	log = log.With("event_id", eventID, "event", eventType, "order_id", orderID)
	dataBytes, _ := json.Marshal(parser.GetData(ctx))

	newLog := func(status models.PaymentNotificationLogStatus, result map[string]any) *models.PaymentNotificationLog {
		entry := &models.PaymentNotificationLog{
			ProviderID: string(provider),
			EventID:    eventID,
			EventType:  eventType,
			OrderID:    orderID,
			TraceID:    logctx.TraceID(ctx),
			Data:       datatypes.JSON(dataBytes),
			Status:     status,
		}
		if result != nil {
			b, _ := json.Marshal(result)
			j := datatypes.JSON(b)
			entry.Result = &j
		}
		return entry
	}

	dedupeKey := "webhook:" + string(provider) + ":" + eventID
	first, err := cache.FirstSeen(ctx, h.store, dedupeKey, dedupeTTL)
	if err != nil {
		log.Warnw("webhook_dedupe_unavailable", "error", err)
		first = true
	}
	if !first {
		log.Infow("webhook_duplicate")
		h.notifSvc.Save(ctx, newLog(models.PaymentNotificationLogStatusDuplicate, nil))
		h.metrics.WebhookEvent(eventType, "duplicate")
		return &Result{EventID: eventID, Status: models.PaymentNotificationLogStatusDuplicate}, nil
	}

	h.notifSvc.Save(ctx, newLog(models.PaymentNotificationLogStatusReceived, nil))

	res = &Result{EventID: eventID, Status: models.PaymentNotificationLogStatusHandled}
	var handleErr error
	var outcome string
	defer func() {
		result := map[string]any{"activated": res.Activated}
		status := models.PaymentNotificationLogStatusHandled
		if handleErr != nil {
			result["error"] = handleErr.Error()
			status = models.PaymentNotificationLogStatusHandleFailed
		}
		res.Status = status
		h.notifSvc.Save(ctx, newLog(status, result))
		if outcome == "" {
			outcome = string(status)
		}
		h.metrics.WebhookEvent(eventType, outcome)
	}()

	if !parser.Activates(ctx) {
		log.Infow("webhook_ignored")
		return res, nil
	}
	if orderID == "" {
		handleErr = fmt.Errorf("%w: event has no order id", ErrInvalidPayload)
		log.Warnw("webhook_handle_failed", "error", handleErr)
		return res, nil
	}

	res.Activated, handleErr = h.subSvc.ActivateByOrder(ctx, orderID, parser.GetPaymentID(ctx))
	switch {
	case handleErr == nil:
		log.Infow("webhook_handled", "activated", res.Activated)
		return res, nil
	case errors.Is(handleErr, subscription.ErrSubscriptionNotFound):
		// a captured payment with no order to apply it to needs reconciling
		log.Errorw("webhook_payment_unmatched", "payment_id", parser.GetPaymentID(ctx), "error", handleErr)
		outcome = "unmatched"
		return res, nil
	default:
		// let the redelivery through the dedupe window
		if err := h.store.Del(ctx, dedupeKey); err != nil {
			log.Warnw("webhook_dedupe_release_failed", "error", err)
		}
		log.Errorw("webhook_handle_failed", "error", handleErr)
		return res, handleErr
	}
}
