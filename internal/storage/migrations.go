package storage

type migration struct {
	id   int
	name string
	sql  string
}

var migrations = []migration{
	{
		id:   1,
		name: "initial_schema",
		sql: `
			-- Saves: one JSON world snapshot per row
			CREATE TABLE saves (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				turn INTEGER NOT NULL,
				snapshot_json TEXT NOT NULL,
				created_at DATETIME NOT NULL
			);
			CREATE INDEX idx_saves_name ON saves(name, created_at);

			-- Turn log: resolution outcomes recorded against a save
			CREATE TABLE turn_log (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				save_id TEXT NOT NULL,
				turn INTEGER NOT NULL,
				outcome_json TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				FOREIGN KEY (save_id) REFERENCES saves(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_turn_log_save ON turn_log(save_id, turn);
		`,
	},
}
