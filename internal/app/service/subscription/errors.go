package subscription

import "errors"

var (
	ErrInvalidSignature       = errors.New("invalid payment signature")
	ErrSubscriptionNotFound   = errors.New("subscription not found")
	ErrVerificationInProgress = errors.New("payment verification already in progress")
	ErrWebhookNotConfigured   = errors.New("webhook secret is not configured")
	// ErrInvalidListRequest wraps admin list validation failures.
	ErrInvalidListRequest = errors.New("invalid list request")
)
