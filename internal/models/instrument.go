package models

import (
	"time"

	"github.com/google/uuid"
)

type InstrumentType string

const (
	InstrumentTypeCash   InstrumentType = "cash"
	InstrumentTypeBank   InstrumentType = "bank"
	InstrumentTypeCard   InstrumentType = "card"
	InstrumentTypeWallet InstrumentType = "wallet"
)

// PaymentInstrument средство оплаты (кошелек, банковский счет, карта),
// к которому привязываются транзакции и стартовые балансы периода
type PaymentInstrument struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    uuid.UUID      `json:"user_id" db:"user_id"`
	Name      string         `json:"name" db:"name"`
	Type      InstrumentType `json:"type" db:"type"`
	Icon      string         `json:"icon" db:"icon"`
	Color     string         `json:"color" db:"color"`
	IsActive  bool           `json:"is_active" db:"is_active"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time     `json:"-" db:"deleted_at"`
}

type InstrumentCreate struct {
	Name  string         `json:"name" binding:"required"`
	Type  InstrumentType `json:"type" binding:"required"`
	Icon  string         `json:"icon"`
	Color string         `json:"color"`
}

type InstrumentUpdate struct {
	Name     *string `json:"name"`
	Icon     *string `json:"icon"`
	Color    *string `json:"color"`
	IsActive *bool   `json:"is_active"`
}
