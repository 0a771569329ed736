package cache

import "log/slog"

// Seed upserts configured entries before the server starts taking calls.
// Entries missing an id or name are skipped with a warning rather than
// aborting startup.
func (db *DB) Seed(entries []Entry, logger *slog.Logger) error {
	for _, e := range entries {
		if NormalizeID(e.ID) == "" || e.Name == "" {
			logger.Warn("cache: skipping seed entry without id or name",
				slog.String("name", e.Name),
				slog.String("id", e.ID))
			continue
		}
		if err := db.Upsert(e); err != nil {
			return err
		}
		logger.Debug("cache: seeded entry",
			slog.String("name", e.Name),
			slog.String("id", NormalizeID(e.ID)))
	}
	return nil
}
