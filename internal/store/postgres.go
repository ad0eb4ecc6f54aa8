// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pagesmith/internal/models"
)

// PostgresStore keeps documents in the documents table. The profile,
// sections and theme are stored as JSONB so section content of any
// variant, including unrecognized ones, round-trips unchanged.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgresStore on an open, migrated pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const documentColumns = `id, title, form_data, sections, theme, is_published, published_url, created_at, updated_at`

// Save upserts doc. Timestamps are truncated to the microsecond precision
// of TIMESTAMPTZ so the caller's copy matches what is read back.
func (s *PostgresStore) Save(ctx context.Context, doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.CreatedAt = doc.CreatedAt.UTC().Truncate(time.Microsecond)
	doc.UpdatedAt = doc.UpdatedAt.UTC().Truncate(time.Microsecond)

	profile, err := json.Marshal(doc.BusinessProfile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	sections := doc.Sections
	if sections == nil {
		sections = []models.Section{}
	}
	sectionsJSON, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	theme, err := json.Marshal(doc.Theme)
	if err != nil {
		return fmt.Errorf("marshal theme: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			form_data = EXCLUDED.form_data,
			sections = EXCLUDED.sections,
			theme = EXCLUDED.theme,
			is_published = EXCLUDED.is_published,
			published_url = EXCLUDED.published_url,
			updated_at = EXCLUDED.updated_at
	`, doc.ID, doc.Title, profile, sectionsJSON, theme,
		doc.IsPublished, doc.PublishedURL, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []*models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: document %s", models.ErrNotFound, id)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (*models.Document, error) {
	var (
		doc                      models.Document
		profile, sections, theme []byte
	)
	if err := sc.Scan(&doc.ID, &doc.Title, &profile, &sections, &theme,
		&doc.IsPublished, &doc.PublishedURL, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profile, &doc.BusinessProfile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if err := json.Unmarshal(sections, &doc.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	if err := json.Unmarshal(theme, &doc.Theme); err != nil {
		return nil, fmt.Errorf("decode theme: %w", err)
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	return &doc, nil
}
