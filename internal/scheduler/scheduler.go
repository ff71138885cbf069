package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ReminderService интерфейс сервиса напоминаний
type ReminderService interface {
	SendUpcomingReminders(ctx context.Context, hoursAhead int) (int, error)
	SendCancellationFollowUps(ctx context.Context) (int, error)
	ResetReminderFlags(ctx context.Context) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config расписания фоновых задач в формате cron
type Config struct {
	ReminderSpec       string
	ReminderHoursAhead int
	FollowUpSpec       string
	FlagResetSpec      string
	JobTimeout         time.Duration
}

// Scheduler запускает фоновые задачи напоминаний по cron-расписанию.
// Конкурирующие тики безопасны: захват флага в базе не даёт отправить
// напоминание дважды, даже если тик пересёкся с ручной рассылкой.
type Scheduler struct {
	cron     *cron.Cron
	reminder ReminderService
	cfg      Config
	logger   Logger
}

// New создает новый экземпляр шедулера
func New(reminder ReminderService, cfg Config, logger Logger) *Scheduler {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}

	return &Scheduler{
		cron:     cron.New(),
		reminder: reminder,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start регистрирует задачи и запускает шедулер
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.ReminderSpec, s.runReminders); err != nil {
		return fmt.Errorf("failed to schedule reminders job: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.FollowUpSpec, s.runFollowUps); err != nil {
		return fmt.Errorf("failed to schedule follow-ups job: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.FlagResetSpec, s.runFlagReset); err != nil {
		return fmt.Errorf("failed to schedule flag reset job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started (reminders=%q, follow-ups=%q, flag reset=%q)",
		s.cfg.ReminderSpec, s.cfg.FollowUpSpec, s.cfg.FlagResetSpec)

	return nil
}

// Stop останавливает шедулер и дожидается завершения запущенных задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	sent, err := s.reminder.SendUpcomingReminders(ctx, s.cfg.ReminderHoursAhead)
	if err != nil {
		s.logger.Error("Scheduler: reminders job failed: %v", err)
		return
	}
	if sent > 0 {
		s.logger.Info("Scheduler: reminders job sent %d reminders", sent)
	}
}

func (s *Scheduler) runFollowUps() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	sent, err := s.reminder.SendCancellationFollowUps(ctx)
	if err != nil {
		s.logger.Error("Scheduler: follow-ups job failed: %v", err)
		return
	}
	if sent > 0 {
		s.logger.Info("Scheduler: follow-ups job sent %d messages", sent)
	}
}

func (s *Scheduler) runFlagReset() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	reset, err := s.reminder.ResetReminderFlags(ctx)
	if err != nil {
		s.logger.Error("Scheduler: flag reset job failed: %v", err)
		return
	}
	if reset > 0 {
		s.logger.Info("Scheduler: flag reset job cleared %d flags", reset)
	}
}
