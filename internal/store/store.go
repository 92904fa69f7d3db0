package store

import (
	"context"

	"github.com/nhle/voicetask/internal/model"
)

// RecordFilter controls filtering, sorting, and pagination for voice
// record queries.
type RecordFilter struct {
	Duration  *string // model.DurationEvent, model.DurationNote, or nil (all)
	Completed *bool   // completed flag or nil (all)
	Query     *string // search transcript text
	SortDesc  bool    // newest-first when true
	Limit     int
	Offset    int
}

// Store defines the persistence interface for voice records and
// notification history.
type Store interface {
	// === Voice records ===

	CreateRecord(ctx context.Context, rec model.VoiceRecord) (int64, error)
	GetRecordByID(ctx context.Context, id int64) (*model.VoiceRecord, error)
	GetRecords(ctx context.Context, filter RecordFilter) ([]model.VoiceRecord, error)
	SetRecordCompleted(ctx context.Context, id int64, completed bool) error
	SetRecordProgress(ctx context.Context, id int64, progress float64) error
	DeleteRecord(ctx context.Context, id int64) error

	// === Notification history ===
	// Only the reminder delivery worker inserts; every other component
	// reads, marks, or deletes.

	CreateNotification(ctx context.Context, n model.NotificationHistory) error
	GetNotifications(ctx context.Context) ([]model.NotificationHistory, error)
	CountUnreadNotifications(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkTaskNotificationsRead(ctx context.Context, taskID int64) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteAllNotifications(ctx context.Context) error
}
