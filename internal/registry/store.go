package registry

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/classifier"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/discipline"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS model_artifacts (
	model_id      TEXT PRIMARY KEY,
	discipline    TEXT NOT NULL,
	input_kind    TEXT NOT NULL,
	shape_json    TEXT NOT NULL,
	version       TEXT NOT NULL,
	weights       BLOB NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS active_models (
	discipline    TEXT PRIMARY KEY,
	model_id      TEXT NOT NULL,
	FOREIGN KEY (model_id) REFERENCES model_artifacts(model_id)
);
`
// #endregion schema

// #region types

// Artifact is one stored model: its metadata plus raw weights. The registry
// never interprets weights; it only ferries them to the inference runtime.
type Artifact struct {
	Meta      classifier.ModelMeta
	Weights   []float32
	CreatedAt time.Time
}

// #endregion types

// #region store-struct
// Store manages versioned model artifacts in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. the
// outcome memory).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region register

// Register stores a model artifact. Metadata is validated and, when the
// discipline is known, its declared shape is checked against the encoder's
// fixed output shape. Registering a conflicting artifact is a configuration
// error caught here, not at inference time. Assigns a model ID when empty.
func (s *Store) Register(meta classifier.ModelMeta, weights []float32) (classifier.ModelMeta, error) {
	if err := meta.Validate(); err != nil {
		return classifier.ModelMeta{}, err
	}
	if spec, err := discipline.Lookup(discipline.ID(meta.Discipline)); err == nil {
		if !shapeEqual(meta.Shape, spec.Shape()) {
			return classifier.ModelMeta{}, fmt.Errorf(
				"register %s: model shape %v conflicts with encoder shape %v",
				meta.Discipline, meta.Shape, spec.Shape())
		}
	}
	if meta.ModelID == "" {
		meta.ModelID = uuid.New().String()
	}

	shapeJSON, err := json.Marshal(meta.Shape)
	if err != nil {
		return classifier.ModelMeta{}, fmt.Errorf("marshal shape: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO model_artifacts (model_id, discipline, input_kind, shape_json, version, weights, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meta.ModelID, meta.Discipline, string(meta.InputKind), string(shapeJSON),
		meta.Version, encodeWeights(weights), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return classifier.ModelMeta{}, fmt.Errorf("insert artifact: %w", err)
	}
	return meta, nil
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// #endregion register

// #region activate

// SetActive marks one artifact as the serving model for its discipline.
func (s *Store) SetActive(disciplineID, modelID string) error {
	var storedDiscipline string
	err := s.db.QueryRow(
		`SELECT discipline FROM model_artifacts WHERE model_id = ?`, modelID,
	).Scan(&storedDiscipline)
	if err != nil {
		return fmt.Errorf("artifact %s: %w", modelID, err)
	}
	if storedDiscipline != disciplineID {
		return fmt.Errorf("artifact %s belongs to %s, not %s", modelID, storedDiscipline, disciplineID)
	}

	_, err = s.db.Exec(
		`INSERT INTO active_models (discipline, model_id) VALUES (?, ?)
		 ON CONFLICT(discipline) DO UPDATE SET model_id = excluded.model_id`,
		disciplineID, modelID,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return nil
}

// Active returns the serving artifact for a discipline.
func (s *Store) Active(disciplineID string) (Artifact, error) {
	var modelID string
	err := s.db.QueryRow(
		`SELECT model_id FROM active_models WHERE discipline = ?`, disciplineID,
	).Scan(&modelID)
	if err != nil {
		return Artifact{}, fmt.Errorf("no active model for %s: %w", disciplineID, err)
	}
	return s.Get(modelID)
}

// #endregion activate

// #region get

// Get retrieves one artifact by model ID.
func (s *Store) Get(modelID string) (Artifact, error) {
	var a Artifact
	var inputKind, shapeJSON, createdStr string
	var weightsBlob []byte

	err := s.db.QueryRow(
		`SELECT model_id, discipline, input_kind, shape_json, version, weights, created_at
		 FROM model_artifacts WHERE model_id = ?`, modelID,
	).Scan(&a.Meta.ModelID, &a.Meta.Discipline, &inputKind, &shapeJSON,
		&a.Meta.Version, &weightsBlob, &createdStr)
	if err != nil {
		return Artifact{}, fmt.Errorf("get artifact %s: %w", modelID, err)
	}

	a.Meta.InputKind = classifier.InputKind(inputKind)
	if err := json.Unmarshal([]byte(shapeJSON), &a.Meta.Shape); err != nil {
		return Artifact{}, fmt.Errorf("unmarshal shape: %w", err)
	}
	a.Weights = decodeWeights(weightsBlob)
	a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return a, nil
}

// List returns the most recently registered artifacts.
func (s *Store) List(limit int) ([]Artifact, error) {
	rows, err := s.db.Query(
		`SELECT model_id, discipline, input_kind, shape_json, version, weights, created_at
		 FROM model_artifacts ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		var inputKind, shapeJSON, createdStr string
		var weightsBlob []byte
		if err := rows.Scan(&a.Meta.ModelID, &a.Meta.Discipline, &inputKind, &shapeJSON,
			&a.Meta.Version, &weightsBlob, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		a.Meta.InputKind = classifier.InputKind(inputKind)
		if err := json.Unmarshal([]byte(shapeJSON), &a.Meta.Shape); err != nil {
			return nil, fmt.Errorf("unmarshal shape: %w", err)
		}
		a.Weights = decodeWeights(weightsBlob)
		a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// #endregion get

// #region weights-encoding

func encodeWeights(w []float32) []byte {
	buf := make([]byte, len(w)*4)
	for i, f := range w {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeWeights(b []byte) []float32 {
	w := make([]float32, len(b)/4)
	for i := range w {
		w[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return w
}

// #endregion weights-encoding
