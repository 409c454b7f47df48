package plan

import "context"

type Repository interface {
	Create(ctx context.Context, userID int, req CreatePlanRequest) (*Plan, error)
	GetByID(ctx context.Context, id int) (*Plan, error)
	ListPublished(ctx context.Context) ([]Plan, error)
	ListAll(ctx context.Context) ([]Plan, error)
	Update(ctx context.Context, id int, req UpdatePlanRequest) (*Plan, error)
	Delete(ctx context.Context, id int) error
}
