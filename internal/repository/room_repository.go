package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// RoomRepo provides access to rooms and the properties they belong to.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `r.id, r.property_id, p.name, r.number, r.type, r.status, r.base_rate,
    r.max_occupancy, r.owner_id, r.created_at, r.updated_at`

const roomFrom = ` FROM rooms r JOIN properties p ON p.id = r.property_id`

func scanRoom(s rowScanner) (model.Room, error) {
	var (
		rm    model.Room
		owner sql.NullInt64
	)
	err := s.Scan(&rm.ID, &rm.PropertyID, &rm.PropertyName, &rm.Number, &rm.Type, &rm.Status, &rm.BaseRate,
		&rm.MaxOccupancy, &owner, &rm.CreatedAt, &rm.UpdatedAt)
	if owner.Valid {
		id := uint64(owner.Int64)
		rm.OwnerID = &id
	}
	return rm, err
}

// GetByID returns a room or ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, "SELECT "+roomColumns+roomFrom+" WHERE r.id = ?", id))
	if err != nil {
		return model.Room{}, notFound(err, ErrRoomNotFound)
	}
	return rm, nil
}

// ListByProperty returns the rooms of a property ordered by room number.
func (r *RoomRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+roomColumns+roomFrom+" WHERE r.property_id = ? ORDER BY r.number", propertyID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// CountByProperty returns the number of rooms in a property, or in all
// properties when propertyID is 0.
func (r *RoomRepo) CountByProperty(ctx context.Context, propertyID uint64) (int, error) {
	var n int
	var err error
	if propertyID == 0 {
		err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&n)
	} else {
		err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms WHERE property_id = ?", propertyID).Scan(&n)
	}
	return n, err
}

// Create inserts rm and fills in its id and timestamps.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	if rm.Status == "" {
		rm.Status = model.RoomAvailable
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (property_id, number, type, status, base_rate, max_occupancy, owner_id)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rm.PropertyID, rm.Number, rm.Type, string(rm.Status), rm.BaseRate, rm.MaxOccupancy, rm.OwnerID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert room: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	saved, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rm = saved
	return nil
}

// UpdateStatus sets the housekeeping status of a room.
func (r *RoomRepo) UpdateStatus(ctx context.Context, id uint64, status model.RoomStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE rooms SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("update room status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// PropertyRepo provides access to the `properties` table.
type PropertyRepo struct {
	db *sql.DB
}

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

// GetByID returns a property or ErrPropertyNotFound.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (model.Property, error) {
	var p model.Property
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, timezone, created_at FROM properties WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Timezone, &p.CreatedAt)
	if err != nil {
		return model.Property{}, notFound(err, ErrPropertyNotFound)
	}
	return p, nil
}

// List returns every property ordered by name.
func (r *PropertyRepo) List(ctx context.Context) ([]model.Property, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, timezone, created_at FROM properties ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()
	out := make([]model.Property, 0)
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Timezone, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts p and fills in its id.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	if p.Timezone == "" {
		p.Timezone = "UTC"
	}
	res, err := r.db.ExecContext(ctx, "INSERT INTO properties (name, timezone) VALUES (?, ?)", p.Name, p.Timezone)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert property: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	saved, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = saved
	return nil
}
