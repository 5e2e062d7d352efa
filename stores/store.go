package stores

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/reusee/steina/targets"
)

const schema = `
CREATE TABLE IF NOT EXISTS targets (
	id   TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	data TEXT NOT NULL
);
`

const (
	kindVideo = "video"
	kindAudio = "audio"
)

// Store persists serialized targets in a sqlite database.
type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		db: db,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type targetRow struct {
	ID   string `db:"id"`
	Kind string `db:"kind"`
	Data []byte `db:"data"`
}

// SaveProject replaces the stored targets with the project's.
func (s *Store) SaveProject(project *Project) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM targets`); err != nil {
		return err
	}

	put := func(id, kind string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO targets (id, kind, data) VALUES (?, ?, ?)`,
			id, kind, data,
		)
		return err
	}

	for _, saved := range project.VideoTargets {
		if err := put(saved.ID, kindVideo, saved); err != nil {
			return err
		}
	}
	for _, saved := range project.AudioTargets {
		if err := put(saved.ID, kindAudio, saved); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) LoadProject() (*Project, error) {
	var rows []targetRow
	if err := s.db.Select(&rows, `SELECT id, kind, data FROM targets ORDER BY id`); err != nil {
		return nil, err
	}

	project := new(Project)
	for _, row := range rows {
		switch row.Kind {

		case kindVideo:
			var saved targets.SavedVideoTarget
			if err := json.Unmarshal(row.Data, &saved); err != nil {
				return nil, fmt.Errorf("target %s: %w", row.ID, err)
			}
			project.VideoTargets = append(project.VideoTargets, saved)

		case kindAudio:
			var saved targets.SavedAudioTarget
			if err := json.Unmarshal(row.Data, &saved); err != nil {
				return nil, fmt.Errorf("target %s: %w", row.ID, err)
			}
			project.AudioTargets = append(project.AudioTargets, saved)

		default:
			return nil, fmt.Errorf("target %s: unknown kind %q", row.ID, row.Kind)
		}
	}

	return project, nil
}
