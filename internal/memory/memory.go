package memory

import (
	"database/sql"
	"time"
)

// #region schema

const validationOutcomesSchema = `
CREATE TABLE IF NOT EXISTS validation_outcomes (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    request_id     TEXT NOT NULL,
    discipline     TEXT NOT NULL,
    is_valid       INTEGER NOT NULL DEFAULT 0,
    confidence     REAL NOT NULL DEFAULT 0,
    encoding_ms    REAL NOT NULL DEFAULT 0,
    inference_ms   REAL NOT NULL DEFAULT 0,
    stage          TEXT NOT NULL DEFAULT 'done',
    error_kind     TEXT NOT NULL DEFAULT '',
    created_at     TEXT NOT NULL
);
`

const validationOutcomesIndex = `
CREATE INDEX IF NOT EXISTS idx_validation_outcomes_lookup
ON validation_outcomes(discipline, stage);
`

// #endregion schema

// #region types

// OutcomeRecord is one validation call's telemetry row. Failed calls record
// the stage that failed and the error kind instead of a verdict.
type OutcomeRecord struct {
	RequestID   string
	Discipline  string
	IsValid     bool
	Confidence  float64
	EncodingMs  float64
	InferenceMs float64
	Stage       string // "done" | "dispatch" | "encode" | "infer"
	ErrorKind   string
	CreatedAt   time.Time
}

// DisciplineStats aggregates recorded outcomes for one discipline.
type DisciplineStats struct {
	Discipline     string
	Total          int
	Completed      int
	AcceptRate     float64 // valid verdicts / completed calls
	MeanConfidence float64
	MeanEncodingMs float64
	MeanInferMs    float64
	MaxInferMs     float64
}

// #endregion types

// #region memory-struct

// OutcomeMemory persists validation outcomes in SQLite. It sits off the
// determinism path: recording failures never fail a validation call.
type OutcomeMemory struct {
	db *sql.DB
}

// NewOutcomeMemory initializes the validation_outcomes table.
func NewOutcomeMemory(db *sql.DB) (*OutcomeMemory, error) {
	if _, err := db.Exec(validationOutcomesSchema); err != nil {
		return nil, err
	}
	if _, err := db.Exec(validationOutcomesIndex); err != nil {
		return nil, err
	}
	return &OutcomeMemory{db: db}, nil
}

// #endregion memory-struct

// #region record

// Record persists a single outcome row.
func (m *OutcomeMemory) Record(rec OutcomeRecord) error {
	valid := 0
	if rec.IsValid {
		valid = 1
	}
	_, err := m.db.Exec(`
		INSERT INTO validation_outcomes
		(request_id, discipline, is_valid, confidence, encoding_ms, inference_ms,
		 stage, error_kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RequestID,
		rec.Discipline,
		valid,
		rec.Confidence,
		rec.EncodingMs,
		rec.InferenceMs,
		rec.Stage,
		rec.ErrorKind,
		rec.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// #endregion record

// #region stats

// StatsFor aggregates outcomes for one discipline.
func (m *OutcomeMemory) StatsFor(disciplineID string) (DisciplineStats, error) {
	s := DisciplineStats{Discipline: disciplineID}

	err := m.db.QueryRow(`
		SELECT COUNT(*) FROM validation_outcomes WHERE discipline = ?`,
		disciplineID,
	).Scan(&s.Total)
	if err != nil {
		return DisciplineStats{}, err
	}

	var accepted int
	var meanConf, meanEnc, meanInf, maxInf sql.NullFloat64
	err = m.db.QueryRow(`
		SELECT COUNT(*), SUM(is_valid), AVG(confidence),
		       AVG(encoding_ms), AVG(inference_ms), MAX(inference_ms)
		FROM validation_outcomes
		WHERE discipline = ? AND stage = 'done'`,
		disciplineID,
	).Scan(&s.Completed, &nullableInt{&accepted}, &meanConf, &meanEnc, &meanInf, &maxInf)
	if err != nil {
		return DisciplineStats{}, err
	}

	if s.Completed > 0 {
		s.AcceptRate = float64(accepted) / float64(s.Completed)
	}
	if meanConf.Valid {
		s.MeanConfidence = meanConf.Float64
	}
	if meanEnc.Valid {
		s.MeanEncodingMs = meanEnc.Float64
	}
	if meanInf.Valid {
		s.MeanInferMs = meanInf.Float64
	}
	if maxInf.Valid {
		s.MaxInferMs = maxInf.Float64
	}
	return s, nil
}

// nullableInt scans a possibly-NULL SUM() into an int, defaulting to 0.
type nullableInt struct {
	dst *int
}

func (n *nullableInt) Scan(src any) error {
	if src == nil {
		*n.dst = 0
		return nil
	}
	switch v := src.(type) {
	case int64:
		*n.dst = int(v)
	case float64:
		*n.dst = int(v)
	}
	return nil
}

// #endregion stats
