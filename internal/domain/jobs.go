package domain

import (
	"context"
	"time"
)

// DraftJobCause описывает источник запроса на сборку черновика.
type DraftJobCause string

const (
	// DraftCauseManual — черновик запрошен через API вручную.
	DraftCauseManual DraftJobCause = "manual"
	// DraftCauseScheduled — черновик запланирован по расписанию.
	DraftCauseScheduled DraftJobCause = "scheduled"
)

// DraftJob содержит информацию о задаче сборки черновика.
type DraftJob struct {
	ID            string        `json:"job_id,omitempty"`
	UserID        int64         `json:"user_id"`
	Date          time.Time     `json:"date"`
	RequestedAt   time.Time     `json:"requested_at"`
	Cause         DraftJobCause `json:"cause"`
	MaxArticles   int           `json:"max_articles,omitempty"`
	IncludeTrends bool          `json:"include_trends"`
	Mode          string        `json:"mode,omitempty"`
}

// DraftQueue описывает очередь задач на сборку черновиков.
type DraftQueue interface {
	Enqueue(ctx context.Context, job DraftJob) error
	Receive(ctx context.Context) (DraftJob, DraftAckFunc, error)
}

// DraftAckFunc подтверждает успешную обработку или запрашивает повтор
// доставки задачи.
type DraftAckFunc func(success bool) error

// ScheduleTaskRepo отвечает за идемпотентное планирование задач.
type ScheduleTaskRepo interface {
	// Acquire помечает выполнение задачи на указанное время и возвращает
	// true, если запись была создана. При конфликте возвращает false без
	// ошибки.
	Acquire(userID int64, scheduledFor time.Time) (bool, error)
}

// DraftJobStatusRepo отслеживает статус доставки задач.
type DraftJobStatusRepo interface {
	// EnsureDraftJob регистрирует попытку обработки и возвращает признак
	// успешной доставки и номер текущей попытки.
	EnsureDraftJob(jobID string) (delivered bool, attempt int, err error)
	// MarkDraftJobDelivered помечает задачу как окончательно доставленную.
	MarkDraftJobDelivered(jobID string) error
}
