package services

import (
	"testing"
	"time"
)

func TestNewRabbitNotifierDisabled(t *testing.T) {
	notifier, err := NewRabbitNotifier("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifier != nil {
		t.Fatalf("expected nil notifier when no URL is configured")
	}

	// The hook must be safe to call even when disabled.
	notifier.NotifyOrderPlaced(OrderNotification{
		OrderID:   "o1",
		UserID:    "u1",
		Total:     100,
		OrderDate: time.Now(),
	})
}
