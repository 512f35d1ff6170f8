package handlers

import (
	"github.com/fatflowers/styler/internal/app/service/statistics"
	subsvc "github.com/fatflowers/styler/internal/app/service/subscription"
	"github.com/fatflowers/styler/pkg/response"
)

// RespListSubscriptions wraps subscription.ListResult in the standard envelope.
type RespListSubscriptions struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    subsvc.ListResult        `json:"data"`
}

// RespSubscriptionStatistic wraps SubscriptionStatisticResponse in the standard envelope.
type RespSubscriptionStatistic struct {
	Code    response.APIResponseCode                 `json:"code"`
	Message string                                   `json:"message"`
	Data    statistics.SubscriptionStatisticResponse `json:"data"`
}

type RespSweep struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    subsvc.SweepResult       `json:"data"`
}
