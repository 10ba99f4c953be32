package dto

import (
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Order is the wire form of an order record shared by the dashboard and the
// feed client.
type Order struct {
	Number       string     `json:"numeroOrden"`
	CreatedAt    time.Time  `json:"fecha"`
	TimeOfDay    string     `json:"hora"`
	Item         string     `json:"pedido"`
	Combo        string     `json:"combo"`
	Extras       string     `json:"algoMasExtra"`
	CustomerName string     `json:"nombre"`
	Phone        string     `json:"telefono"`
	Address      string     `json:"direccionEnvio"`
	Reference    string     `json:"referenciaOcomentario"`
	Payment      string     `json:"efectivoTarjeta"`
	Status       string     `json:"estado"`
	StatusLabel  string     `json:"nuevoEstado,omitempty"`
	RemovedAt    *time.Time `json:"fechaEliminacion,omitempty"`
}

// CreateOrderRequest describes POST /orders payload.
type CreateOrderRequest struct {
	Number       string     `json:"numeroOrden" binding:"required"`
	CreatedAt    *time.Time `json:"fecha"`
	TimeOfDay    string     `json:"hora"`
	Item         string     `json:"pedido" binding:"required"`
	Combo        string     `json:"combo"`
	Extras       string     `json:"algoMasExtra"`
	CustomerName string     `json:"nombre"`
	Phone        string     `json:"telefono"`
	Address      string     `json:"direccionEnvio"`
	Reference    string     `json:"referenciaOcomentario"`
	Payment      string     `json:"efectivoTarjeta"`
	Status       string     `json:"estado" binding:"omitempty,orderstatus"`
}

// TransitionRequest describes PATCH /orders/{orderNumber} payload.
type TransitionRequest struct {
	Status string `json:"nuevoEstado" binding:"required,orderstatus"`
}

// TransitionResponse reports the outcome of a commit.
type TransitionResponse struct {
	Number   string `json:"numeroOrden"`
	Status   string `json:"estado"`
	Label    string `json:"nuevoEstado"`
	Notified bool   `json:"notified"`
	Archived bool   `json:"archived"`
	Error    string `json:"error,omitempty"`
}

// Transition is one entry of an order's transition log.
type Transition struct {
	ID     string    `json:"id"`
	Number string    `json:"numeroOrden"`
	From   string    `json:"desde"`
	To     string    `json:"estado"`
	Label  string    `json:"nuevoEstado"`
	At     time.Time `json:"fecha"`
}

// FromOrder converts a domain order to its wire form.
func FromOrder(o model.Order) Order {
	return Order{
		Number:       o.Number,
		CreatedAt:    o.CreatedAt,
		TimeOfDay:    o.TimeOfDay,
		Item:         o.Item,
		Combo:        o.Combo,
		Extras:       o.Extras,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		Reference:    o.Reference,
		Payment:      o.Payment,
		Status:       string(o.Status),
		StatusLabel:  o.StatusLabel,
		RemovedAt:    o.RemovedAt,
	}
}

// FromOrders converts a listing, never returning nil.
func FromOrders(orders []model.Order) []Order {
	resp := make([]Order, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, FromOrder(o))
	}
	return resp
}

// ToModel converts a wire order back to the domain form. Unknown status
// spellings are kept verbatim.
func (o Order) ToModel() model.Order {
	status := model.OrderStatus(o.Status)
	if parsed, err := model.ParseOrderStatus(o.Status); err == nil {
		status = parsed
	}
	return model.Order{
		Number:       o.Number,
		CreatedAt:    o.CreatedAt,
		TimeOfDay:    o.TimeOfDay,
		Item:         o.Item,
		Combo:        o.Combo,
		Extras:       o.Extras,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		Reference:    o.Reference,
		Payment:      o.Payment,
		Status:       status,
		StatusLabel:  o.StatusLabel,
		RemovedAt:    o.RemovedAt,
	}
}

// ToModel converts the create payload. Status is parsed by the use case.
func (r CreateOrderRequest) ToModel() model.Order {
	o := model.Order{
		Number:       r.Number,
		TimeOfDay:    r.TimeOfDay,
		Item:         r.Item,
		Combo:        r.Combo,
		Extras:       r.Extras,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Address:      r.Address,
		Reference:    r.Reference,
		Payment:      r.Payment,
		Status:       model.OrderStatus(r.Status),
	}
	if r.CreatedAt != nil {
		o.CreatedAt = *r.CreatedAt
	}
	return o
}

// FromTransitions converts the transition log.
func FromTransitions(items []model.Transition) []Transition {
	resp := make([]Transition, 0, len(items))
	for _, t := range items {
		resp = append(resp, Transition{
			ID:     t.ID,
			Number: t.OrderNumber,
			From:   string(t.From),
			To:     string(t.To),
			Label:  t.Label,
			At:     t.At,
		})
	}
	return resp
}
