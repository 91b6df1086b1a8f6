package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/finance"
	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/queue"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeBookings struct {
	rows       map[uint64]model.Booking
	nextID     uint64
	duplicates int // CreateChecked fails with ErrDuplicate this many times
	listErr    error
}

func newFakeBookings(existing ...model.Booking) *fakeBookings {
	f := &fakeBookings{rows: map[uint64]model.Booking{}, nextID: 100}
	for _, b := range existing {
		f.rows[b.ID] = b
	}
	return f
}

func (f *fakeBookings) GetByID(_ context.Context, id uint64) (model.Booking, error) {
	b, ok := f.rows[id]
	if !ok {
		return model.Booking{}, repository.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookings) List(_ context.Context, flt model.BookingFilter) ([]model.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Booking, 0)
	for _, b := range f.rows {
		if flt.PropertyID != 0 && b.PropertyID != flt.PropertyID {
			continue
		}
		if flt.RoomID != 0 && b.RoomID != flt.RoomID {
			continue
		}
		if !flt.Range.IsZero() && !b.Stay().Intersects(flt.Range) {
			continue
		}
		if len(flt.Statuses) > 0 && !hasStatus(flt.Statuses, b.Status) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func hasStatus(list []model.BookingStatus, s model.BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (f *fakeBookings) overlapping(b *model.Booking) []model.Booking {
	var out []model.Booking
	for _, e := range f.rows {
		if e.RoomID == b.RoomID && e.Status != model.BookingCancelled && e.Stay().Intersects(b.Stay()) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeBookings) CreateChecked(_ context.Context, b *model.Booking, check repository.OverlapCheck) error {
	if err := check(f.overlapping(b)); err != nil {
		return err
	}
	if f.duplicates > 0 {
		f.duplicates--
		return repository.ErrDuplicate
	}
	f.nextID++
	b.ID = f.nextID
	f.rows[b.ID] = *b
	return nil
}

func (f *fakeBookings) UpdateChecked(_ context.Context, b *model.Booking, check repository.OverlapCheck) error {
	if _, ok := f.rows[b.ID]; !ok {
		return repository.ErrBookingNotFound
	}
	if err := check(f.overlapping(b)); err != nil {
		return err
	}
	f.rows[b.ID] = *b
	return nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id uint64, st model.BookingStatus, pay model.PaymentStatus) error {
	b, ok := f.rows[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	b.Status, b.PaymentStatus = st, pay
	f.rows[id] = b
	return nil
}

type fakeRooms struct {
	rows     map[uint64]model.Room
	countErr error
}

func newFakeRooms(rooms ...model.Room) *fakeRooms {
	f := &fakeRooms{rows: map[uint64]model.Room{}}
	for _, r := range rooms {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeRooms) GetByID(_ context.Context, id uint64) (model.Room, error) {
	r, ok := f.rows[id]
	if !ok {
		return model.Room{}, repository.ErrRoomNotFound
	}
	return r, nil
}

func (f *fakeRooms) ListByProperty(_ context.Context, propertyID uint64) ([]model.Room, error) {
	out := make([]model.Room, 0)
	for _, r := range f.rows {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeRooms) CountByProperty(_ context.Context, propertyID uint64) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, r := range f.rows {
		if propertyID == 0 || r.PropertyID == propertyID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRooms) Create(_ context.Context, r *model.Room) error {
	r.ID = uint64(len(f.rows) + 1)
	f.rows[r.ID] = *r
	return nil
}

func (f *fakeRooms) UpdateStatus(_ context.Context, id uint64, st model.RoomStatus) error {
	r, ok := f.rows[id]
	if !ok {
		return repository.ErrRoomNotFound
	}
	r.Status = st
	f.rows[id] = r
	return nil
}

type fakeOwners struct {
	rows map[uint64]model.Owner
}

func (f *fakeOwners) GetByID(_ context.Context, id uint64) (model.Owner, error) {
	o, ok := f.rows[id]
	if !ok {
		return model.Owner{}, repository.ErrOwnerNotFound
	}
	return o, nil
}

func (f *fakeOwners) List(context.Context) ([]model.Owner, error) {
	out := make([]model.Owner, 0, len(f.rows))
	for _, o := range f.rows {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOwners) Create(_ context.Context, o *model.Owner) error {
	if f.rows == nil {
		f.rows = map[uint64]model.Owner{}
	}
	o.ID = uint64(len(f.rows) + 1)
	f.rows[o.ID] = *o
	return nil
}

type fakeProperties struct {
	rows map[uint64]model.Property
}

func (f *fakeProperties) GetByID(_ context.Context, id uint64) (model.Property, error) {
	p, ok := f.rows[id]
	if !ok {
		return model.Property{}, repository.ErrPropertyNotFound
	}
	return p, nil
}

func (f *fakeProperties) List(context.Context) ([]model.Property, error) {
	out := make([]model.Property, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProperties) Create(_ context.Context, p *model.Property) error {
	if f.rows == nil {
		f.rows = map[uint64]model.Property{}
	}
	p.ID = uint64(len(f.rows) + 1)
	f.rows[p.ID] = *p
	return nil
}

type staticRates finance.Rates

func (r staticRates) For(uint64) finance.Rates { return finance.Rates(r) }

type recordingPublisher struct {
	events []queue.BookingConfirmedEvent
	err    error
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

var errStoreDown = errors.New("store unavailable")
