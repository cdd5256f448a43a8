package storage

// Stats is a point-in-time aggregate over every stored appointment.
// The aggregator always returns the complete computed set; display layers
// may drop zero entries.
type Stats struct {
	Total       int
	Companies   int
	Reports     int
	Evaluations int
	ByModality  []CountRow
	ByStatus    []CountRow
}

// CountRow is one group-by bucket, ordered by count descending.
type CountRow struct {
	Label string
	Count int
}

// Aggregator derives dashboard counts from the store. It is read-only and
// recomputes on demand; callers own any caching.
type Aggregator struct {
	db *DB
}

// NewAggregator creates an aggregator bound to db.
func NewAggregator(db *DB) *Aggregator {
	return &Aggregator{db: db}
}

// Snapshot computes the full aggregate set in one pass over the store.
func (a *Aggregator) Snapshot() (*Stats, error) {
	stats := &Stats{}

	scalars := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM appointments", &stats.Total},
		{"SELECT COUNT(DISTINCT company) FROM appointments", &stats.Companies},
		{"SELECT COUNT(*) FROM appointments WHERE report_pdf IS NOT NULL", &stats.Reports},
		{"SELECT COUNT(*) FROM appointments WHERE evaluation_pdf IS NOT NULL", &stats.Evaluations},
	}
	for _, s := range scalars {
		if err := a.db.QueryRow(s.query).Scan(s.dest); err != nil {
			return nil, classify("aggregate appointments", err)
		}
	}

	var err error
	if stats.ByModality, err = a.groupCount("modality"); err != nil {
		return nil, err
	}
	if stats.ByStatus, err = a.groupCount("status"); err != nil {
		return nil, err
	}

	return stats, nil
}

func (a *Aggregator) groupCount(column string) ([]CountRow, error) {
	// column is one of two fixed identifiers, never caller input.
	rows, err := a.db.Query("SELECT " + column + ", COUNT(*) FROM appointments GROUP BY " + column + " ORDER BY 2 DESC")
	if err != nil {
		return nil, classify("group appointments by "+column, err)
	}
	defer rows.Close()

	var out []CountRow
	for rows.Next() {
		var row CountRow
		if err := rows.Scan(&row.Label, &row.Count); err != nil {
			return nil, classify("group appointments by "+column, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("group appointments by "+column, err)
	}
	return out, nil
}
