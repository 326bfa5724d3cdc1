package journal

const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	fill_id          TEXT PRIMARY KEY,
	time             TIMESTAMP NOT NULL,
	instrument       TEXT NOT NULL,
	units            INTEGER NOT NULL,
	price            REAL NOT NULL,
	target_exposure  INTEGER NOT NULL,
	account_exposure INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_time ON fills(time);

CREATE TABLE IF NOT EXISTS snapshots (
	snapshot_id TEXT PRIMARY KEY,
	time        TIMESTAMP NOT NULL,
	inventory   TEXT NOT NULL,
	exposure    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_time ON snapshots(time);
`
