package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS voice_records (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	transcript   TEXT NOT NULL,
	display_time TEXT NOT NULL DEFAULT '',
	full_time    TEXT NOT NULL DEFAULT '',
	duration     TEXT NOT NULL DEFAULT 'NOTE',
	progress     REAL NOT NULL DEFAULT 0,
	completed    INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_history (
	id         TEXT PRIMARY KEY,
	task_id    INTEGER NOT NULL,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL DEFAULT '',
	due_at     DATETIME NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_records_duration ON voice_records(duration);
CREATE INDEX IF NOT EXISTS idx_records_completed ON voice_records(completed);
CREATE INDEX IF NOT EXISTS idx_records_created ON voice_records(created_at);
CREATE INDEX IF NOT EXISTS idx_history_task_id ON notification_history(task_id);
CREATE INDEX IF NOT EXISTS idx_history_read ON notification_history(read);
CREATE INDEX IF NOT EXISTS idx_history_created ON notification_history(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
