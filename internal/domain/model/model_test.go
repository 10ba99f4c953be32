package model

import (
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
)

func TestParseOrderStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want OrderStatus
	}{
		{"pendiente", OrderStatusPending},
		{"Pendiente", OrderStatusPending},
		{"  PENDING ", OrderStatusPending},
		{"in-process", OrderStatusProcessing},
		{"Procesando", OrderStatusProcessing},
		{"Listo para enviar", OrderStatusReadyToShip},
		{"ready_to_ship", OrderStatusReadyToShip},
		{"listo  para   enviar", OrderStatusReadyToShip},
		{"Enviado", OrderStatusShipped},
		{"shipped", OrderStatusShipped},
		{"Cancelado", OrderStatusCancelled},
		{"canceled", OrderStatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseOrderStatus(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	for _, raw := range []string{"", "done", "enviados"} {
		if _, err := ParseOrderStatus(raw); !errors.Is(err, domainErrors.ErrInvalidStatus) {
			t.Fatalf("expected invalid status for %q, got %v", raw, err)
		}
	}
}

func TestOrderStatusLabel(t *testing.T) {
	cases := map[OrderStatus]string{
		OrderStatusPending:     "Pendiente",
		OrderStatusProcessing:  "Procesando",
		OrderStatusReadyToShip: "Listo para enviar",
		OrderStatusShipped:     "Enviado",
		OrderStatusCancelled:   "Cancelado",
		"":                     "",
	}
	for status, want := range cases {
		if got := status.Label(); got != want {
			t.Fatalf("expected label %q for %q, got %q", want, status, got)
		}
	}
}

func TestOrderStatusTerminalAndValid(t *testing.T) {
	for _, status := range OrderStatuses {
		if !status.Valid() {
			t.Fatalf("expected %q to be valid", status)
		}
		parsed, err := ParseOrderStatus(status.Label())
		if err != nil || parsed != status {
			t.Fatalf("label %q does not parse back: %v", status.Label(), err)
		}
	}
	if OrderStatus("Enviado").Valid() {
		t.Fatal("non canonical value must not be valid")
	}
	if !OrderStatusShipped.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Fatal("shipped and cancelled must be terminal")
	}
	if OrderStatusReadyToShip.IsTerminal() {
		t.Fatal("ready to ship must not be terminal")
	}
}

func TestParseBlacklistIntent(t *testing.T) {
	if intent, err := ParseBlacklistIntent(" ADD "); err != nil || intent != BlacklistAdd {
		t.Fatalf("unexpected result: %q %v", intent, err)
	}
	if intent, err := ParseBlacklistIntent("remove"); err != nil || intent != BlacklistRemove {
		t.Fatalf("unexpected result: %q %v", intent, err)
	}
	if _, err := ParseBlacklistIntent("toggle"); !errors.Is(err, domainErrors.ErrInvalidIntent) {
		t.Fatalf("expected invalid intent, got %v", err)
	}
}
