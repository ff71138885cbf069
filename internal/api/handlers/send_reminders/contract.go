package send_reminders

import "context"

type ReminderService interface {
	SendUpcomingReminders(ctx context.Context, hoursAhead int) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
