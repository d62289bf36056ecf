package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibefood/backend/internal/domain"
)

// PostgresStore persists device profiles in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_profiles (
			device_id TEXT PRIMARY KEY,
			preference TEXT,
			preferences JSONB,
			current_menu JSONB,
			current_vibe TEXT,
			current_recommendations JSONB,
			current_feedback JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Register(ctx context.Context, deviceID, preference string) error {
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO user_profiles (device_id, preference, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (device_id) DO NOTHING`,
		deviceID, preference, now,
	)
	if err != nil {
		return fmt.Errorf("register device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyRegistered
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, deviceID string) (*Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT device_id, COALESCE(preference, ''), preferences, current_menu,
		        COALESCE(current_vibe, ''), current_recommendations, current_feedback,
		        created_at, updated_at
		 FROM user_profiles WHERE device_id = $1`,
		deviceID,
	)

	var (
		p         Profile
		vibe      string
		prefsJSON []byte
		menuJSON  []byte
		recsJSON  []byte
		fbJSON    []byte
	)
	err := row.Scan(&p.DeviceID, &p.Preference, &prefsJSON, &menuJSON, &vibe, &recsJSON, &fbJSON, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	if vibe != "" {
		v := domain.Vibe(vibe)
		p.CurrentVibe = &v
	}
	if err := unmarshalInto(prefsJSON, &p.Preferences); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	if err := unmarshalInto(menuJSON, &p.CurrentMenu); err != nil {
		return nil, fmt.Errorf("decode current menu: %w", err)
	}
	if err := unmarshalInto(recsJSON, &p.CurrentRecommendations); err != nil {
		return nil, fmt.Errorf("decode current recommendations: %w", err)
	}
	if err := unmarshalInto(fbJSON, &p.CurrentFeedback); err != nil {
		return nil, fmt.Errorf("decode current feedback: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) GetPreferences(ctx context.Context, deviceID string) (*Preferences, error) {
	var prefsJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT preferences FROM user_profiles WHERE device_id = $1`,
		deviceID,
	).Scan(&prefsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	if len(prefsJSON) == 0 {
		return nil, ErrNotFound
	}

	var prefs Preferences
	if err := json.Unmarshal(prefsJSON, &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return &prefs, nil
}

func (s *PostgresStore) SavePreferences(ctx context.Context, deviceID string, prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_profiles (device_id, preferences, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (device_id) DO UPDATE SET preferences = $2, updated_at = $3`,
		deviceID, data, now,
	)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (s *PostgresStore) AppendFeedback(ctx context.Context, deviceID string, rating int, at time.Time) (*Preferences, error) {
	prefs, err := s.GetPreferences(ctx, deviceID)
	if errors.Is(err, ErrNotFound) {
		prefs = &Preferences{}
	} else if err != nil {
		return nil, err
	}

	appendFeedback(prefs, rating, at)
	if err := s.SavePreferences(ctx, deviceID, *prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *PostgresStore) SetCurrentMenu(ctx context.Context, deviceID string, menu *domain.MenuData) error {
	data, err := json.Marshal(menu)
	if err != nil {
		return fmt.Errorf("encode menu: %w", err)
	}
	return s.updateColumn(ctx, deviceID, `current_menu = $2`, data)
}

func (s *PostgresStore) SetCurrentRecommendations(ctx context.Context, deviceID string, vibe domain.Vibe, recs domain.DeviceRecommendations) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE user_profiles SET current_vibe = $2, current_recommendations = $3, updated_at = $4
		 WHERE device_id = $1`,
		deviceID, string(vibe), data, now,
	)
	if err != nil {
		return fmt.Errorf("update recommendations: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetCurrentFeedback(ctx context.Context, deviceID string, fb domain.DeviceFeedback) error {
	data, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}
	return s.updateColumn(ctx, deviceID, `current_feedback = $2`, data)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) updateColumn(ctx context.Context, deviceID, assignment string, data []byte) error {
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE user_profiles SET `+assignment+`, updated_at = $3 WHERE device_id = $1`,
		deviceID, data, now,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func unmarshalInto[T any](data []byte, out **T) error {
	if len(data) == 0 {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*out = &v
	return nil
}
