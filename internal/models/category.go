package models

import (
	"time"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// TransferCategoryName имя зарезервированной системной категории,
// в которую попадают обе ноги перевода между инструментами
const TransferCategoryName = "Transferencia"

type Category struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	UserID    *uuid.UUID   `json:"user_id" db:"user_id"` // nil если это системная категория
	Name      string       `json:"name" db:"name"`
	Type      CategoryType `json:"type" db:"type"`
	Icon      string       `json:"icon" db:"icon"`
	Color     string       `json:"color" db:"color"`
	IsSystem  bool         `json:"is_system" db:"is_system"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

type CategoryCreate struct {
	Name  string       `json:"name" binding:"required"`
	Type  CategoryType `json:"type" binding:"required"`
	Icon  string       `json:"icon"`
	Color string       `json:"color"`
}

type CategoryUpdate struct {
	Name  *string `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

// дефолтные системные категории
var DefaultCategories = []Category{
	{Name: "Sueldo", Type: CategoryTypeIncome, Icon: "💵", Color: "#4CAF50", IsSystem: true},
	{Name: "Freelance", Type: CategoryTypeIncome, Icon: "💻", Color: "#8BC34A", IsSystem: true},
	{Name: "Otros ingresos", Type: CategoryTypeIncome, Icon: "💰", Color: "#2196F3", IsSystem: true},
	{Name: "Supermercado", Type: CategoryTypeExpense, Icon: "🛒", Color: "#FF5722", IsSystem: true},
	{Name: "Transporte", Type: CategoryTypeExpense, Icon: "🚗", Color: "#FFC107", IsSystem: true},
	{Name: "Vivienda", Type: CategoryTypeExpense, Icon: "🏠", Color: "#795548", IsSystem: true},
	{Name: "Servicios", Type: CategoryTypeExpense, Icon: "💡", Color: "#607D8B", IsSystem: true},
	{Name: "Salud", Type: CategoryTypeExpense, Icon: "🏥", Color: "#E91E63", IsSystem: true},
	{Name: "Ocio", Type: CategoryTypeExpense, Icon: "🎬", Color: "#9C27B0", IsSystem: true},
	{Name: "Otros gastos", Type: CategoryTypeExpense, Icon: "📋", Color: "#9E9E9E", IsSystem: true},
	{Name: TransferCategoryName, Type: CategoryTypeExpense, Icon: "💳", Color: "#607D8B", IsSystem: true},
}
