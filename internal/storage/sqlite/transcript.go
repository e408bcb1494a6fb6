package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/writewise/content-engine/internal/types"
)

// TranscriptRepository mirrors conversation turns into the local database.
type TranscriptRepository struct {
	db *sql.DB
}

// NewTranscriptRepository creates a new TranscriptRepository.
func NewTranscriptRepository(d *DB) *TranscriptRepository {
	return &TranscriptRepository{db: d.db}
}

// SaveTurn appends a turn at the next position.
func (r *TranscriptRepository) SaveTurn(turn types.ConversationTurn) error {
	frags, err := json.Marshal(turn.Fragments)
	if err != nil {
		return fmt.Errorf("marshal fragments: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO turns (id, position, role, fragments, feedback, is_generated_content, created_at)
		 VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM turns), ?, ?, ?, ?, ?)`,
		turn.ID, string(turn.Role), string(frags), string(turn.Feedback), boolToInt(turn.IsGeneratedContent), turn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

// ReplaceTurn swaps the row with oldID for the new turn, keeping its position.
func (r *TranscriptRepository) ReplaceTurn(oldID string, turn types.ConversationTurn) error {
	frags, err := json.Marshal(turn.Fragments)
	if err != nil {
		return fmt.Errorf("marshal fragments: %w", err)
	}
	_, err = r.db.Exec(
		`UPDATE turns
		 SET id = ?, role = ?, fragments = ?, feedback = ?, is_generated_content = ?, created_at = ?
		 WHERE id = ?`,
		turn.ID, string(turn.Role), string(frags), string(turn.Feedback), boolToInt(turn.IsGeneratedContent), turn.Timestamp, oldID,
	)
	if err != nil {
		return fmt.Errorf("replace turn: %w", err)
	}
	return nil
}

// SetFeedback updates the feedback column for a turn.
func (r *TranscriptRepository) SetFeedback(id string, fb types.Feedback) error {
	if _, err := r.db.Exec(`UPDATE turns SET feedback = ? WHERE id = ?`, string(fb), id); err != nil {
		return fmt.Errorf("set feedback: %w", err)
	}
	return nil
}

// LoadTurns returns the mirrored transcript in position order.
func (r *TranscriptRepository) LoadTurns() ([]types.ConversationTurn, error) {
	rows, err := r.db.Query(
		`SELECT id, role, fragments, feedback, is_generated_content, created_at
		 FROM turns ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("load turns: %w", err)
	}
	defer rows.Close()

	var turns []types.ConversationTurn
	for rows.Next() {
		var (
			turn      types.ConversationTurn
			role      string
			frags     string
			feedback  string
			generated int
		)
		if err := rows.Scan(&turn.ID, &role, &frags, &feedback, &generated, &turn.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if err := json.Unmarshal([]byte(frags), &turn.Fragments); err != nil {
			return nil, fmt.Errorf("unmarshal fragments: %w", err)
		}
		turn.Role = types.Role(role)
		turn.Feedback = types.Feedback(feedback)
		turn.IsGeneratedContent = generated != 0
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
