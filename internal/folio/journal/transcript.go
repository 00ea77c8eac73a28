package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Turn is one stored line of conversation.
type Turn struct {
	SessionID string
	TurnID    string
	Role      string // "user" or "assistant"
	Content   string
	Intent    string
	Source    string
	CreatedAt time.Time
}

// Command is one executed command.
type Command struct {
	SessionID string
	TurnID    string
	Command   string
	CreatedAt time.Time
}

// StartSession records a new session and returns its ID.
func (j *Journal) StartSession(ctx context.Context, mode string) (string, error) {
	id := uuid.NewString()
	if _, err := j.db.ExecContext(ctx,
		"INSERT INTO sessions (id, mode, started_at) VALUES (?, ?, ?)",
		id, mode, j.now(),
	); err != nil {
		return "", fmt.Errorf("journal: start session: %w", err)
	}
	return id, nil
}

// RecordTurn appends a turn to its session.
func (j *Journal) RecordTurn(ctx context.Context, t Turn) error {
	if _, err := j.db.ExecContext(ctx, `
		INSERT INTO turns (session_id, turn_id, role, content, intent, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.SessionID, t.TurnID, t.Role, t.Content, t.Intent, t.Source, j.now(),
	); err != nil {
		return fmt.Errorf("journal: record turn: %w", err)
	}
	return nil
}

// RecordCommand stores a command that was handed to the executor.
func (j *Journal) RecordCommand(ctx context.Context, sessionID, turnID, command string) error {
	if _, err := j.db.ExecContext(ctx,
		"INSERT INTO commands (session_id, turn_id, command, created_at) VALUES (?, ?, ?, ?)",
		sessionID, turnID, command, j.now(),
	); err != nil {
		return fmt.Errorf("journal: record command: %w", err)
	}
	return nil
}

// Turns returns a session's turns, oldest first.
func (j *Journal) Turns(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, turn_id, role, content, intent, source, created_at
		FROM turns WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("journal: list turns: %w", err)
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.SessionID, &t.TurnID, &t.Role, &t.Content, &t.Intent, &t.Source, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan turn: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// RecentCommands returns up to limit executed commands across all
// sessions, newest first.
func (j *Journal) RecentCommands(ctx context.Context, limit int) ([]Command, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, turn_id, command, created_at
		FROM commands ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list commands: %w", err)
	}
	defer rows.Close()

	var out []Command
	for rows.Next() {
		var c Command
		if err := rows.Scan(&c.SessionID, &c.TurnID, &c.Command, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan command: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
