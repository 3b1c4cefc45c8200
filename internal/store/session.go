package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dukerupert/siag/internal/model"
)

type SessionStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Create opens a session for userID that expires after ttl.
func (s *SessionStore) Create(userID int64, ttl time.Duration) (*model.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(ttl).Unix()
	result, err := s.db.Exec(
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expires,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.get(`id = ?`, id)
}

// GetByToken returns the live session for token. Expired sessions are
// removed and reported as missing.
func (s *SessionStore) GetByToken(token string) (*model.Session, error) {
	sess, err := s.get(`token = ?`, token)
	if err != nil || sess == nil {
		return nil, err
	}
	if !s.now().Before(sess.ExpiresAt) {
		if err := s.Delete(token); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return sess, nil
}

func (s *SessionStore) get(where string, arg any) (*model.Session, error) {
	var sess model.Session
	var expires int64
	err := s.db.QueryRow(
		`SELECT id, token, user_id, expires_at, created_at FROM sessions WHERE `+where, arg,
	).Scan(&sess.ID, &sess.Token, &sess.UserID, &expires, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	sess.ExpiresAt = time.Unix(expires, 0)
	return &sess, nil
}

func (s *SessionStore) Delete(token string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteByUserID(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete sessions for user: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry and returns their tokens.
func (s *SessionStore) DeleteExpired() ([]string, error) {
	rows, err := s.db.Query(`DELETE FROM sessions WHERE expires_at <= ? RETURNING token`, s.now().Unix())
	if err != nil {
		return nil, fmt.Errorf("delete expired sessions: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, fmt.Errorf("scan expired session: %w", err)
		}
		tokens = append(tokens, tok)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tokens, nil
}
