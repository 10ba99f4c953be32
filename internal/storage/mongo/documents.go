package mongo

import (
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

type orderDocument struct {
	Number       string     `bson:"numeroOrden"`
	CreatedAt    time.Time  `bson:"fecha"`
	TimeOfDay    string     `bson:"hora"`
	Item         string     `bson:"pedido"`
	Combo        string     `bson:"combo"`
	Extras       string     `bson:"algoMasExtra"`
	CustomerName string     `bson:"nombre"`
	Phone        string     `bson:"telefono"`
	Address      string     `bson:"direccionEnvio"`
	Reference    string     `bson:"referenciaOcomentario"`
	Payment      string     `bson:"efectivoTarjeta"`
	Status       string     `bson:"estado"`
	StatusLabel  string     `bson:"nuevoEstado"`
	RemovedAt    *time.Time `bson:"fechaEliminacion,omitempty"`
}

func toOrderDocument(o model.Order) orderDocument {
	return orderDocument{
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

func (d orderDocument) toModel() model.Order {
	return model.Order{
		Number:       d.Number,
		CreatedAt:    d.CreatedAt,
		TimeOfDay:    d.TimeOfDay,
		Item:         d.Item,
		Combo:        d.Combo,
		Extras:       d.Extras,
		CustomerName: d.CustomerName,
		Phone:        d.Phone,
		Address:      d.Address,
		Reference:    d.Reference,
		Payment:      d.Payment,
		Status:       model.OrderStatus(d.Status),
		StatusLabel:  d.StatusLabel,
		RemovedAt:    d.RemovedAt,
	}
}

type transitionDocument struct {
	ID          string    `bson:"_id"`
	OrderNumber string    `bson:"numeroOrden"`
	From        string    `bson:"from"`
	To          string    `bson:"to"`
	Label       string    `bson:"label"`
	At          time.Time `bson:"at"`
}

type blacklistDocument struct {
	Number    string    `bson:"number"`
	CreatedAt time.Time `bson:"createdAt"`
}

type subscriptionDocument struct {
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"createdAt"`
}

type userDocument struct {
	ID             int64      `bson:"id"`
	Email          string     `bson:"email"`
	PasswordHash   string     `bson:"password"`
	SecondaryCode  int        `bson:"codigo"`
	FirstName      string     `bson:"nombre"`
	LastName       string     `bson:"apellido"`
	Username       string     `bson:"username"`
	Phone          string     `bson:"telefono"`
	CreatedAt      time.Time  `bson:"createdAt"`
	ResetToken     string     `bson:"resetToken,omitempty"`
	ResetExpiresAt *time.Time `bson:"resetTokenExpiry,omitempty"`
}

func (d userDocument) toModel() *model.User {
	u := &model.User{
		ID:            d.ID,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		SecondaryCode: d.SecondaryCode,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Username:      d.Username,
		Phone:         d.Phone,
		CreatedAt:     d.CreatedAt,
		ResetToken:    d.ResetToken,
	}
	if d.ResetExpiresAt != nil {
		u.ResetExpiresAt = *d.ResetExpiresAt
	}
	return u
}
