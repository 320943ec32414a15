package task

import (
	"context"
	"encoding/json"

	"hub-crm-api/core/config"
	"hub-crm-api/core/logger"
	"hub-crm-api/modules/reminder/service"

	"github.com/hibiken/asynq"
)

const TypeReminderSweep = "reminder:sweep"

type SweepPayload struct {
	DaysAhead int `json:"days_ahead"`
}

func NewSweepTask(daysAhead int) (*asynq.Task, error) {
	payload, err := json.Marshal(SweepPayload{DaysAhead: daysAhead})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReminderSweep, payload), nil
}

type SweepHandler struct {
	reminders service.ReminderServiceInterface
}

func NewSweepHandler(reminders service.ReminderServiceInterface) *SweepHandler {
	return &SweepHandler{reminders: reminders}
}

func (h *SweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload SweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("SweepHandler:ProcessTask:Payload:", err)
			return err
		}
	}
	daysAhead := payload.DaysAhead
	if daysAhead <= 0 {
		if cfg, ok := config.GetSafe(); ok {
			daysAhead = cfg.App.ReminderDaysAhead
		}
	}
	if daysAhead <= 0 {
		daysAhead = service.DefaultDaysAhead
	}

	summary, appErr := h.reminders.Dispatch(ctx, daysAhead)
	if appErr != nil {
		logger.Error("SweepHandler:ProcessTask:Dispatch:", appErr)
		return appErr
	}
	logger.Info("SweepHandler:ProcessTask:Completed",
		"sent", summary.Sent,
		"failed", summary.Failed)
	return nil
}
