package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/voicetask/internal/model"
)

// CreateRecord inserts a new voice record and returns its assigned ID.
// IDs are assigned by the database and are monotonically increasing.
func (s *SQLiteStore) CreateRecord(ctx context.Context, rec model.VoiceRecord) (int64, error) {
	if strings.TrimSpace(rec.Transcript) == "" {
		return 0, fmt.Errorf("record transcript must not be empty")
	}
	if rec.Duration == "" {
		rec.Duration = model.DurationNote
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO voice_records (
			transcript, display_time, full_time, duration,
			progress, completed, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Transcript, rec.DisplayTime, rec.FullTime, rec.Duration,
		rec.Progress, rec.Completed, rec.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("creating record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted record id: %w", err)
	}
	return id, nil
}

// GetRecordByID retrieves a single voice record by ID.
func (s *SQLiteStore) GetRecordByID(ctx context.Context, id int64) (*model.VoiceRecord, error) {
	var rec model.VoiceRecord
	err := s.db.GetContext(ctx, &rec,
		"SELECT * FROM voice_records WHERE id = ?", id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting record %d: %w", id, err)
	}
	return &rec, nil
}

// GetRecords retrieves voice records matching the filter.
func (s *SQLiteStore) GetRecords(ctx context.Context, filter RecordFilter) ([]model.VoiceRecord, error) {
	var conditions []string
	var args []interface{}

	if filter.Duration != nil {
		conditions = append(conditions, "duration = ?")
		args = append(args, *filter.Duration)
	}
	if filter.Completed != nil {
		conditions = append(conditions, "completed = ?")
		args = append(args, *filter.Completed)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "transcript LIKE ?")
		args = append(args, "%"+*filter.Query+"%")
	}

	query := "SELECT * FROM voice_records"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY created_at %s, id %s", direction, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var records []model.VoiceRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	return records, nil
}

// SetRecordCompleted updates the completed flag for a record.
func (s *SQLiteStore) SetRecordCompleted(ctx context.Context, id int64, completed bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE voice_records SET completed = ? WHERE id = ?", completed, id,
	)
	if err != nil {
		return fmt.Errorf("updating record %d completed: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("record %d not found", id)
	}
	return nil
}

// SetRecordProgress updates the progress fraction for a record.
func (s *SQLiteStore) SetRecordProgress(ctx context.Context, id int64, progress float64) error {
	if progress < 0 || progress > 1 {
		return fmt.Errorf("progress %f out of range [0, 1]", progress)
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE voice_records SET progress = ? WHERE id = ?", progress, id,
	)
	if err != nil {
		return fmt.Errorf("updating record %d progress: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("record %d not found", id)
	}
	return nil
}

// DeleteRecord removes a voice record by ID. Cancelling any scheduled
// reminder for the record is the capture service's responsibility.
func (s *SQLiteStore) DeleteRecord(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM voice_records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting record %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("record %d not found", id)
	}
	return nil
}
