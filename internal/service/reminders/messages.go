package reminders

import (
	"fmt"
	"strings"

	"github.com/avilkin/AppointmentService/internal/domain"
)

const messageTimeFormat = "Monday, January 2, 2006 at 3:04 PM"

// buildReminderMessage собирает текст напоминания о предстоящем бронировании
func buildReminderMessage(booking *domain.Booking, serviceName string) string {
	var message strings.Builder

	message.WriteString("Reminder: You have an upcoming booking")

	if serviceName != "" {
		message.WriteString(" for ")
		message.WriteString(serviceName)
	}

	message.WriteString(" on ")
	message.WriteString(booking.StartTime.Format(messageTimeFormat))

	if booking.Notes != nil && strings.TrimSpace(*booking.Notes) != "" {
		message.WriteString(". Notes: ")
		message.WriteString(*booking.Notes)
	}

	return message.String()
}

// buildFollowUpMessage собирает текст письма после отмены бронирования
func buildFollowUpMessage(booking *domain.Booking, serviceName string) string {
	return fmt.Sprintf(
		"Your booking for %s on %s has been cancelled.\n\n"+
			"We are sorry to see you go. You can book a new appointment at any time.",
		serviceName,
		booking.StartTime.Format(messageTimeFormat),
	)
}

// serviceNameOrDefault возвращает имя услуги либо заглушку
func serviceNameOrDefault(name string) string {
	if name == "" {
		return "your service"
	}
	return name
}
