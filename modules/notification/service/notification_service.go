package service

import (
	"context"
	"fmt"
	"time"

	"hub-crm-api/core/config"
	coreEntity "hub-crm-api/core/entity"
	"hub-crm-api/core/logger"
	"hub-crm-api/core/params"
	"hub-crm-api/core/utils"
	"hub-crm-api/modules/notification/entity"
	"hub-crm-api/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

var _ Dispatcher = (*NotificationService)(nil)

func (s *NotificationService) SendRotaUpdateNotification(ctx context.Context, to Recipient, update RotaUpdate) error {
	when := "all occurrences"
	if update.OccurrenceStart != nil {
		when = utils.FormatDateTimeUK(*update.OccurrenceStart)
	}

	subject := fmt.Sprintf("Rota update: %s (%s)", update.Role, update.EventTitle)
	body := fmt.Sprintf("Hi %s,\n\nThe %q rota for %s (%s) has changed: %s.\n",
		to.Name, update.Role, update.EventTitle, when, update.Change)

	notif := &entity.Notification{
		UserID:  to.UserID,
		Email:   to.Email,
		Title:   subject,
		Message: update.Change,
		Type:    entity.TypeRotaUpdate,
		Data: entity.JSONB{
			"rota_id":     update.RotaID.String(),
			"role":        update.Role,
			"event_title": update.EventTitle,
		},
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		return err
	}

	return s.sendEmail(to, subject, body)
}

func (s *NotificationService) SendUpcomingRotaReminder(ctx context.Context, to Recipient, reminder RotaReminder) error {
	subject := fmt.Sprintf("Reminder: %s at %s", reminder.Role, reminder.EventTitle)
	body := fmt.Sprintf("Hi %s,\n\nYou are on the %q rota for %s on %s", to.Name, reminder.Role,
		reminder.EventTitle, utils.FormatDateTimeUK(reminder.StartsAt))
	if reminder.Location != "" {
		body += " at " + reminder.Location
	}
	body += ".\n"

	notif := &entity.Notification{
		UserID:  to.UserID,
		Email:   to.Email,
		Title:   subject,
		Message: fmt.Sprintf("%s on %s", reminder.Role, utils.FormatDateTimeUK(reminder.StartsAt)),
		Type:    entity.TypeRotaReminder,
		Data: entity.JSONB{
			"role":        reminder.Role,
			"event_title": reminder.EventTitle,
			"starts_at":   reminder.StartsAt.Format(time.RFC3339),
		},
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		logger.Error("NotificationService:SendUpcomingRotaReminder:Persist:Error:", err)
	}

	return s.sendEmail(to, subject, body)
}

func (s *NotificationService) sendEmail(to Recipient, subject, body string) error {
	cfg, ok := config.GetSafe()
	if !ok {
		return fmt.Errorf("config not loaded")
	}
	return utils.SendEmailTLS(cfg.SMTP, utils.EmailMessage{
		To:      to.Email,
		ToName:  to.Name,
		Subject: subject,
		Body:    body,
	})
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
