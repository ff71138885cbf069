package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avilkin/AppointmentService/internal/domain"
	"github.com/avilkin/AppointmentService/pkg/ptr"
)

func TestBuildReminderMessage(t *testing.T) {
	booking := &domain.Booking{
		StartTime: time.Date(2025, time.June, 2, 10, 30, 0, 0, time.UTC),
	}

	msg := buildReminderMessage(booking, "Haircut")
	assert.Equal(t,
		"Reminder: You have an upcoming booking for Haircut on Monday, June 2, 2025 at 10:30 AM",
		msg)
}

func TestBuildReminderMessage_WithoutServiceNameAndWithNotes(t *testing.T) {
	booking := &domain.Booking{
		StartTime: time.Date(2025, time.June, 2, 15, 0, 0, 0, time.UTC),
		Notes:     ptr.Ptr("please use the side entrance"),
	}

	msg := buildReminderMessage(booking, "")
	assert.Equal(t,
		"Reminder: You have an upcoming booking on Monday, June 2, 2025 at 3:00 PM."+
			" Notes: please use the side entrance",
		msg)
}

func TestBuildFollowUpMessage(t *testing.T) {
	booking := &domain.Booking{
		StartTime: time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC),
	}

	msg := buildFollowUpMessage(booking, "Haircut")
	assert.Contains(t, msg, "Your booking for Haircut on Monday, June 2, 2025 at 10:00 AM has been cancelled.")
	assert.Contains(t, msg, "We are sorry to see you go.")
}

func TestServiceNameOrDefault(t *testing.T) {
	assert.Equal(t, "Haircut", serviceNameOrDefault("Haircut"))
	assert.Equal(t, "your service", serviceNameOrDefault(""))
}
