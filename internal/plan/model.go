package plan

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AddOn is an optional extra a customer can attach to a booking,
// e.g. "Extra edited photos" or "Second location".
type AddOn struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// AddOnList stores add-ons as a JSONB column.
type AddOnList []AddOn

func (l AddOnList) Value() (driver.Value, error) {
	if l == nil {
		l = AddOnList{}
	}
	return json.Marshal(l)
}

func (l *AddOnList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = AddOnList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for AddOnList")
	}
}

// StringList stores plain string arrays (plan features) as JSONB.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

type Plan struct {
	ID          int        `db:"id" json:"id"`
	UserID      int        `db:"user_id" json:"user_id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Duration    string     `db:"duration" json:"duration"`
	PriceCents  int64      `db:"price_cents" json:"price_cents"`
	Features    StringList `db:"features" json:"features"`
	AddOns      AddOnList  `db:"add_ons" json:"add_ons"`
	Discount    float64    `db:"discount" json:"discount"`
	HasDiscount bool       `db:"has_discount" json:"has_discount"`
	IsFeatured  bool       `db:"is_featured" json:"is_featured"`
	Published   bool       `db:"published" json:"published"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type CreatePlanRequest struct {
	Name        string   `json:"name" binding:"required,min=2"`
	Description string   `json:"description" binding:"required"`
	Duration    string   `json:"duration" binding:"required"`
	PriceCents  int64    `json:"price_cents" binding:"required,gt=0"`
	Features    []string `json:"features"`
	AddOns      []AddOn  `json:"add_ons"`
	Discount    float64  `json:"discount" binding:"gte=0,lte=1"`
	IsFeatured  bool     `json:"is_featured"`
	Published   bool     `json:"published"`
}

type UpdatePlanRequest struct {
	Name        string   `json:"name" binding:"required,min=2"`
	Description string   `json:"description" binding:"required"`
	Duration    string   `json:"duration" binding:"required"`
	PriceCents  int64    `json:"price_cents" binding:"required,gt=0"`
	Features    []string `json:"features"`
	AddOns      []AddOn  `json:"add_ons"`
	Discount    float64  `json:"discount" binding:"gte=0,lte=1"`
	IsFeatured  bool     `json:"is_featured"`
	Published   bool     `json:"published"`
}
