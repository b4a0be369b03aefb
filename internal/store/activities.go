package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateActivity(name, color string) (*Activity, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO activities (id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, color, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return s.GetActivity(id)
}

func (s *Store) GetActivity(id string) (*Activity, error) {
	a := &Activity{}
	var createdAt, updatedAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, color, archived, created_at, updated_at FROM activities WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.Color, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get activity %s: %w", id, err)
	}
	a.Archived = archived == 1
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return a, nil
}

func (s *Store) ListActivities(includeArchived bool) ([]Activity, error) {
	query := `SELECT id, name, color, archived, created_at, updated_at FROM activities`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		var createdAt, updatedAt string
		var archived int
		if err := rows.Scan(&a.ID, &a.Name, &a.Color, &archived, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		a.Archived = archived == 1
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *Store) UpdateActivity(id, name, color string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE activities SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		name, color, now, id,
	)
	return err
}

func (s *Store) ArchiveActivity(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE activities SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}
