package sqlite

import (
	"context"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
)

type businessesRepo struct {
	db dbtx
}

func (r *businessesRepo) CreateBusiness(ctx context.Context, b domain.Business) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO businesses (id, name) VALUES (?, ?)`,
		b.ID, b.Name,
	)
	return mapConstraint(err)
}

func (r *businessesRepo) GetBusinessByID(ctx context.Context, id string) (domain.Business, error) {
	var b domain.Business
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM businesses WHERE id = ?`, id,
	).Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.Business{}, mapNotFound(err)
	}
	return b, nil
}

func (r *businessesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM businesses`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
