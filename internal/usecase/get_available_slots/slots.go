package get_available_slots

import (
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
)

// generateSlots обходит рабочее окно дня и возвращает слоты, не
// пересекающиеся ни с одним блокирующим бронированием.
//
// После свободного слота курсор сдвигается на duration + buffer. Если слот
// пересекается с бронированием, курсор перепрыгивает на конец последнего
// пересекающегося бронирования плюс буфер — сетка уплотняется сразу после
// занятого интервала, а не продолжает фиксированный шаг.
//
// Слот попадает в выдачу только если целиком помещается в рабочее окно
// (конец слота не позже закрытия).
func generateSlots(
	date time.Time,
	durationMinutes int,
	bookings []*domain.Booking,
) []domain.TimeSlot {
	dayStart, dayEnd := domain.BusinessWindow(date)

	step := time.Duration(durationMinutes+domain.SlotBufferMinutes) * time.Minute
	duration := time.Duration(durationMinutes) * time.Minute
	buffer := time.Duration(domain.SlotBufferMinutes) * time.Minute

	slots := make([]domain.TimeSlot, 0)

	cursor := dayStart
	for !cursor.Add(duration).After(dayEnd) {
		slotEnd := cursor.Add(duration)

		if next, conflict := conflictEnd(cursor, slotEnd, bookings); conflict {
			cursor = next.Add(buffer)
			continue
		}

		slots = append(slots, domain.TimeSlot{
			StartTime:       cursor,
			EndTime:         slotEnd,
			DurationMinutes: durationMinutes,
		})
		cursor = cursor.Add(step)
	}

	return slots
}

// conflictEnd возвращает конец последнего блокирующего бронирования,
// пересекающегося с [start, end), и признак наличия конфликта
func conflictEnd(start, end time.Time, bookings []*domain.Booking) (time.Time, bool) {
	var latest time.Time
	conflict := false

	for _, b := range bookings {
		if !b.IsBlocking() || !b.Overlaps(start, end) {
			continue
		}
		if b.EndTime.After(latest) {
			latest = b.EndTime
		}
		conflict = true
	}

	return latest, conflict
}
