package availability

import (
	"time"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// ReconcileRoomStatus returns the status a room should show on day given its
// bookings.  A checked-in stay covering day makes the room occupied; an
// occupied room with no such stay goes back to available.  Maintenance and
// cleaning are set by staff and are left alone.
func ReconcileRoomStatus(room model.Room, bookings []model.Booking, day time.Time) model.RoomStatus {
	if room.Status == model.RoomMaintenance || room.Status == model.RoomCleaning {
		return room.Status
	}
	key := room.Key()
	for i := range bookings {
		b := &bookings[i]
		if b.Key() != key || b.Status != model.BookingCheckedIn {
			continue
		}
		if b.Stay().Contains(day) {
			return model.RoomOccupied
		}
	}
	if room.Status == model.RoomOccupied {
		return model.RoomAvailable
	}
	if room.Status == "" {
		return model.RoomAvailable
	}
	return room.Status
}
