package plan

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPlanNotFound = errors.New("plan not found")

const planColumns = `id, user_id, name, description, duration, price_cents, features, add_ons, discount, has_discount, is_featured, published, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID int, req CreatePlanRequest) (*Plan, error) {
	query := `
		INSERT INTO plans (user_id, name, description, duration, price_cents, features, add_ons, discount, has_discount, is_featured, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + planColumns

	var p Plan
	err := r.db.GetContext(ctx, &p, query,
		userID,
		req.Name,
		req.Description,
		req.Duration,
		req.PriceCents,
		StringList(req.Features),
		AddOnList(req.AddOns),
		req.Discount,
		req.Discount > 0,
		req.IsFeatured,
		req.Published,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`

	var p Plan
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListPublished(ctx context.Context) ([]Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE published = TRUE ORDER BY is_featured DESC, created_at DESC`

	var plans []Plan
	err := r.db.SelectContext(ctx, &plans, query)
	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY created_at DESC`

	var plans []Plan
	err := r.db.SelectContext(ctx, &plans, query)
	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdatePlanRequest) (*Plan, error) {
	query := `
		UPDATE plans
		SET name = $2, description = $3, duration = $4, price_cents = $5, features = $6, add_ons = $7,
		    discount = $8, has_discount = $9, is_featured = $10, published = $11
		WHERE id = $1
		RETURNING ` + planColumns

	var p Plan
	err := r.db.GetContext(ctx, &p, query,
		id,
		req.Name,
		req.Description,
		req.Duration,
		req.PriceCents,
		StringList(req.Features),
		AddOnList(req.AddOns),
		req.Discount,
		req.Discount > 0,
		req.IsFeatured,
		req.Published,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM plans WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPlanNotFound
	}

	return nil
}
