package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// OwnerRepo provides access to property owners.
type OwnerRepo struct {
	db *sql.DB
}

func NewOwnerRepo(db *sql.DB) *OwnerRepo { return &OwnerRepo{db: db} }

const ownerColumns = "id, name, email, phone, commission_rate, created_at"

func scanOwner(s rowScanner) (model.Owner, error) {
	var (
		o    model.Owner
		rate decimal.NullDecimal
	)
	err := s.Scan(&o.ID, &o.Name, &o.Email, &o.Phone, &rate, &o.CreatedAt)
	if rate.Valid {
		v := rate.Decimal
		o.CommissionRate = &v
	}
	return o, err
}

// GetByID returns an owner or ErrOwnerNotFound.
func (r *OwnerRepo) GetByID(ctx context.Context, id uint64) (model.Owner, error) {
	o, err := scanOwner(r.db.QueryRowContext(ctx, "SELECT "+ownerColumns+" FROM owners WHERE id = ?", id))
	if err != nil {
		return model.Owner{}, notFound(err, ErrOwnerNotFound)
	}
	return o, nil
}

// List returns all owners ordered by name.
func (r *OwnerRepo) List(ctx context.Context) ([]model.Owner, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+ownerColumns+" FROM owners ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()
	out := make([]model.Owner, 0)
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Create inserts o and fills in its id.
func (r *OwnerRepo) Create(ctx context.Context, o *model.Owner) error {
	var rate decimal.NullDecimal
	if o.CommissionRate != nil {
		rate = decimal.NullDecimal{Decimal: *o.CommissionRate, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO owners (name, email, phone, commission_rate) VALUES (?, ?, ?, ?)",
		o.Name, o.Email, o.Phone, rate)
	if err != nil {
		return fmt.Errorf("insert owner: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	saved, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*o = saved
	return nil
}
