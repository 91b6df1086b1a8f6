package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/hotel-backoffice/internal/database"
	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// BookingRepo stores bookings in the `bookings` table.  Writes that must
// not double-book a room go through CreateChecked and UpdateChecked, which
// lock the room row for the length of the transaction.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// OverlapCheck inspects the room's active bookings that intersect the new
// stay and returns an error to abort the write.
type OverlapCheck func(existing []model.Booking) error

const bookingColumns = `b.id, b.reference, b.property_id, p.name, b.room_id, r.number,
    b.guest_name, b.guest_email, b.guest_phone, b.check_in, b.check_out, b.adults, b.children,
    b.base_rate, b.total_amount, b.amount_paid, b.remaining_amount, b.security_deposit,
    b.commission, b.tourism_fee, b.vat, b.net_to_owner, b.status, b.payment_status, b.notes,
    b.created_at, b.updated_at`

const bookingFrom = ` FROM bookings b
    JOIN rooms r ON r.id = b.room_id
    JOIN properties p ON p.id = b.property_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (model.Booking, error) {
	var (
		b     model.Booking
		notes sql.NullString
	)
	err := s.Scan(&b.ID, &b.Reference, &b.PropertyID, &b.PropertyName, &b.RoomID, &b.RoomNumber,
		&b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.CheckIn, &b.CheckOut, &b.Adults, &b.Children,
		&b.BaseRate, &b.TotalAmount, &b.AmountPaid, &b.RemainingAmount, &b.SecurityDeposit,
		&b.Commission, &b.TourismFee, &b.VAT, &b.NetToOwner, &b.Status, &b.PaymentStatus, &notes,
		&b.CreatedAt, &b.UpdatedAt)
	b.Notes = notes.String
	return b, err
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByID returns a booking or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	return getBooking(ctx, r.db, id)
}

func getBooking(ctx context.Context, q queryer, id uint64) (model.Booking, error) {
	row := q.QueryRowContext(ctx, "SELECT "+bookingColumns+bookingFrom+" WHERE b.id = ?", id)
	b, err := scanBooking(row)
	if err != nil {
		return model.Booking{}, notFound(err, ErrBookingNotFound)
	}
	return b, nil
}

// List returns the bookings matching f ordered by check-in.
func (r *BookingRepo) List(ctx context.Context, f model.BookingFilter) ([]model.Booking, error) {
	query, args := bookingListQuery(f)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return collectBookings(rows)
}

// bookingListQuery builds the listing SQL for f.  Ranges are compared
// half-open: a stay ending on the range start is excluded.
func bookingListQuery(f model.BookingFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.PropertyID != 0 {
		where = append(where, "b.property_id = ?")
		args = append(args, f.PropertyID)
	}
	if f.RoomID != 0 {
		where = append(where, "b.room_id = ?")
		args = append(args, f.RoomID)
	}
	if !f.Range.CheckIn.IsZero() {
		where = append(where, "b.check_out > ?")
		args = append(args, model.Day(f.Range.CheckIn))
	}
	if !f.Range.CheckOut.IsZero() {
		where = append(where, "b.check_in < ?")
		args = append(args, model.Day(f.Range.CheckOut))
	}
	if len(f.Statuses) > 0 {
		marks := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			marks[i] = "?"
			args = append(args, string(s))
		}
		where = append(where, "b.status IN ("+strings.Join(marks, ",")+")")
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + bookingColumns + bookingFrom)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY b.check_in, b.id")
	if f.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}
	return sb.String(), args
}

// lockRoom takes a row lock on the room so concurrent writers for the same
// room serialize.  It returns the room's property id.
func lockRoom(ctx context.Context, tx *sql.Tx, roomID uint64) (uint64, error) {
	var propertyID uint64
	err := tx.QueryRowContext(ctx, "SELECT property_id FROM rooms WHERE id = ? FOR UPDATE", roomID).Scan(&propertyID)
	if err != nil {
		return 0, notFound(err, ErrRoomNotFound)
	}
	return propertyID, nil
}

// activeOverlapping loads the room's non-cancelled bookings intersecting stay.
func activeOverlapping(ctx context.Context, tx *sql.Tx, roomID uint64, stay model.DateRange) ([]model.Booking, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+bookingColumns+bookingFrom+
			" WHERE b.room_id = ? AND b.status <> 'cancelled' AND b.check_in < ? AND b.check_out > ?"+
			" ORDER BY b.check_in, b.id",
		roomID, model.Day(stay.CheckOut), model.Day(stay.CheckIn))
	if err != nil {
		return nil, fmt.Errorf("load overlapping bookings: %w", err)
	}
	return collectBookings(rows)
}

// CreateChecked inserts b after check accepts the room's overlapping
// bookings.  The room row stays locked until commit.  On success b carries
// its id and timestamps.
func (r *BookingRepo) CreateChecked(ctx context.Context, b *model.Booking, check OverlapCheck) error {
	return database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		propertyID, err := lockRoom(ctx, tx, b.RoomID)
		if err != nil {
			return err
		}
		b.PropertyID = propertyID
		existing, err := activeOverlapping(ctx, tx, b.RoomID, b.Stay())
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}

		const q = `INSERT INTO bookings (reference, property_id, room_id, guest_name, guest_email, guest_phone,
            check_in, check_out, adults, children, base_rate, total_amount, amount_paid, remaining_amount,
            security_deposit, commission, tourism_fee, vat, net_to_owner, status, payment_status, notes)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, b.Reference, b.PropertyID, b.RoomID, b.GuestName, b.GuestEmail, b.GuestPhone,
			model.Day(b.CheckIn), model.Day(b.CheckOut), b.Adults, b.Children, b.BaseRate, b.TotalAmount, b.AmountPaid,
			b.RemainingAmount, b.SecurityDeposit, b.Commission, b.TourismFee, b.VAT, b.NetToOwner,
			string(b.Status), string(b.PaymentStatus), nullString(b.Notes))
		if err != nil {
			if isDuplicate(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("insert booking: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		saved, err := getBooking(ctx, tx, uint64(id))
		if err != nil {
			return err
		}
		*b = saved
		return nil
	})
}

// UpdateChecked rewrites the editable fields of b (guest, stay, room and
// money) after check accepts the target room's overlapping bookings.  The
// booking itself is part of the slice passed to check when it still
// overlaps; callers exclude it by id.
func (r *BookingRepo) UpdateChecked(ctx context.Context, b *model.Booking, check OverlapCheck) error {
	return database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		propertyID, err := lockRoom(ctx, tx, b.RoomID)
		if err != nil {
			return err
		}
		b.PropertyID = propertyID
		existing, err := activeOverlapping(ctx, tx, b.RoomID, b.Stay())
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}

		const q = `UPDATE bookings SET property_id = ?, room_id = ?, guest_name = ?, guest_email = ?, guest_phone = ?,
            check_in = ?, check_out = ?, adults = ?, children = ?, base_rate = ?, total_amount = ?, amount_paid = ?,
            remaining_amount = ?, security_deposit = ?, commission = ?, tourism_fee = ?, vat = ?, net_to_owner = ?,
            payment_status = ?, notes = ?
            WHERE id = ?`
		res, err := tx.ExecContext(ctx, q, b.PropertyID, b.RoomID, b.GuestName, b.GuestEmail, b.GuestPhone,
			model.Day(b.CheckIn), model.Day(b.CheckOut), b.Adults, b.Children, b.BaseRate, b.TotalAmount, b.AmountPaid,
			b.RemainingAmount, b.SecurityDeposit, b.Commission, b.TourismFee, b.VAT, b.NetToOwner,
			string(b.PaymentStatus), nullString(b.Notes), b.ID)
		if err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// MySQL reports 0 for unchanged rows too; confirm the row exists.
			if _, err := getBooking(ctx, tx, b.ID); err != nil {
				return err
			}
		}
		saved, err := getBooking(ctx, tx, b.ID)
		if err != nil {
			return err
		}
		*b = saved
		return nil
	})
}

// UpdateStatus sets the lifecycle and payment status of a booking.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus, payment model.PaymentStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status = ?, payment_status = ? WHERE id = ?",
		string(status), string(payment), id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
