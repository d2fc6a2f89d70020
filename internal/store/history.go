package store

import "time"

// HistoryEntry is one organized download. The table is a FIFO capped at
// HistoryCap; appending the 51st entry evicts the oldest.
type HistoryEntry struct {
	Filename   string    `json:"filename"`
	Folder     string    `json:"folder"`
	URL        string    `json:"url"`
	DownloadID string    `json:"id"`
	Size       int64     `json:"size"`
	Time       time.Time `json:"date"`
}

// AppendHistory records an organized download and trims beyond the cap.
func (db *DB) AppendHistory(e HistoryEntry) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	_, err := db.SQL.Exec(`INSERT INTO history(filename, folder, url, download_id, size, created_at)
		VALUES(?, ?, ?, ?, ?, ?)`,
		e.Filename, e.Folder, e.URL, e.DownloadID, e.Size, e.Time.Unix())
	if err != nil {
		return err
	}
	_, err = db.SQL.Exec(`DELETE FROM history WHERE id NOT IN
		(SELECT id FROM history ORDER BY id DESC LIMIT ?)`, HistoryCap)
	return err
}

// History returns entries newest first.
func (db *DB) History() ([]HistoryEntry, error) {
	rows, err := db.SQL.Query(`SELECT filename, folder, url, download_id, size, created_at
		FROM history ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var ts int64
		if err := rows.Scan(&e.Filename, &e.Folder, &e.URL, &e.DownloadID, &e.Size, &ts); err != nil {
			return nil, err
		}
		e.Time = time.Unix(ts, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}
