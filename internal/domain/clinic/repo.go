package clinic

import "context"

type Repository interface {
	Create(ctx context.Context, c *Clinic) error
	GetByID(ctx context.Context, id int64) (*Clinic, error)
	GetDetail(ctx context.Context, id int64) (*ClinicDetail, error)
	Update(ctx context.Context, c *Clinic) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*ClinicDetail, int, error)
}
