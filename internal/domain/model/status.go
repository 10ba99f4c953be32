package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
)

// OrderStatus is the canonical, lower-case status persisted for an order.
type OrderStatus string

const (
	OrderStatusPending     OrderStatus = "pendiente"
	OrderStatusProcessing  OrderStatus = "procesando"
	OrderStatusReadyToShip OrderStatus = "listo para enviar"
	OrderStatusShipped     OrderStatus = "enviado"
	OrderStatusCancelled   OrderStatus = "cancelado"
)

// NoStatusLabel groups records without a status in rollups.
const NoStatusLabel = "sin estado"

// OrderStatuses lists every status in workflow order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusReadyToShip,
	OrderStatusShipped,
	OrderStatusCancelled,
}

var (
	folder = cases.Fold()

	statusAliases = map[string]OrderStatus{
		"pendiente":         OrderStatusPending,
		"pending":           OrderStatusPending,
		"procesando":        OrderStatusProcessing,
		"in process":        OrderStatusProcessing,
		"processing":        OrderStatusProcessing,
		"listo para enviar": OrderStatusReadyToShip,
		"ready to ship":     OrderStatusReadyToShip,
		"enviado":           OrderStatusShipped,
		"shipped":           OrderStatusShipped,
		"cancelado":         OrderStatusCancelled,
		"cancelled":         OrderStatusCancelled,
		"canceled":          OrderStatusCancelled,
	}
)

// ParseOrderStatus maps any accepted spelling to its canonical value.
// Case, surrounding blanks, dashes and underscores are ignored.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	key := strings.NewReplacer("-", " ", "_", " ").Replace(raw)
	key = strings.Join(strings.Fields(folder.String(key)), " ")
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", domainErrors.ErrInvalidStatus
}

// Valid reports whether s is one of the canonical statuses.
func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether reaching s archives the order.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusShipped || s == OrderStatusCancelled
}

// Label returns the display form, e.g. "Listo para enviar".
func (s OrderStatus) Label() string {
	if s == "" {
		return ""
	}
	first, rest := string(s), ""
	if i := strings.IndexByte(first, ' '); i >= 0 {
		first, rest = first[:i], first[i:]
	}
	return cases.Title(language.Spanish).String(first) + rest
}

func (s OrderStatus) String() string {
	return string(s)
}
