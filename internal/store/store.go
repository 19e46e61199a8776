package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"laserquote/internal/common/errors"
	"laserquote/internal/common/logger"
)

// Store wraps the Postgres connection for quote and chat persistence.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.With(map[string]interface{}{"component": "store"}),
	}
}

// SaveQuote inserts the record and returns its generated id.
func (s *Store) SaveQuote(ctx context.Context, record *QuoteRecord) (string, error) {
	id := uuid.New().String()
	createdAt := time.Now().UTC()

	breakdownJSON, err := json.Marshal(record.Breakdown)
	if err != nil {
		return "", errors.NewQuotePersistFailedError(fmt.Errorf("marshal breakdown: %w", err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (
			id, user_id, session_id,
			customer_name, customer_email, customer_phone,
			material, thickness, color, file_name, area_mm2,
			quote_id, total_price, breakdown, valid_until, simulated, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		id,
		record.UserID,
		record.SessionID,
		record.CustomerName,
		record.CustomerEmail,
		record.CustomerPhone,
		record.Material,
		record.Thickness,
		record.Color,
		record.FileName,
		record.AreaMM2,
		record.QuoteID,
		record.TotalPrice,
		breakdownJSON,
		record.ValidUntil,
		record.Simulated,
		createdAt,
	)
	if err != nil {
		return "", errors.NewQuotePersistFailedError(fmt.Errorf("insert quote: %w", err))
	}

	s.logger.Info("quote persisted", map[string]interface{}{
		"id":       id,
		"quote_id": record.QuoteID,
		"total":    record.TotalPrice,
	})
	return id, nil
}

// GetQuote loads one quote record; the user id scopes the lookup so one
// customer cannot read another's quotes.
func (s *Store) GetQuote(ctx context.Context, id, userID string) (*QuoteRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, session_id,
			customer_name, customer_email, customer_phone,
			material, thickness, color, file_name, area_mm2,
			quote_id, total_price, breakdown, valid_until, simulated, created_at
		FROM quotes
		WHERE id = $1 AND user_id = $2`, id, userID)

	var record QuoteRecord
	var breakdownJSON []byte
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.SessionID,
		&record.CustomerName,
		&record.CustomerEmail,
		&record.CustomerPhone,
		&record.Material,
		&record.Thickness,
		&record.Color,
		&record.FileName,
		&record.AreaMM2,
		&record.QuoteID,
		&record.TotalPrice,
		&breakdownJSON,
		&record.ValidUntil,
		&record.Simulated,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("quote %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load quote %s: %w", id, err)
	}

	if err := json.Unmarshal(breakdownJSON, &record.Breakdown); err != nil {
		return nil, fmt.Errorf("decode breakdown for quote %s: %w", id, err)
	}
	return &record, nil
}

// ListQuotes returns a user's quotes, newest first.
func (s *Store) ListQuotes(ctx context.Context, userID string, limit int) ([]QuoteRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, quote_id, total_price, simulated, created_at
		FROM quotes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list quotes for %s: %w", userID, err)
	}
	defer rows.Close()

	var records []QuoteRecord
	for rows.Next() {
		var record QuoteRecord
		if err := rows.Scan(&record.ID, &record.QuoteID, &record.TotalPrice, &record.Simulated, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}
		record.UserID = userID
		records = append(records, record)
	}
	return records, rows.Err()
}

// SaveMessage appends one turn to a conversation transcript.
func (s *Store) SaveMessage(ctx context.Context, message *ChatMessage) (string, error) {
	id := uuid.New().String()
	createdAt := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, conversation_id, user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id,
		message.ConversationID,
		message.UserID,
		message.Role,
		message.Content,
		createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert chat message: %w", err)
	}
	return id, nil
}

// LoadConversation returns a conversation's messages in order. The user id
// scopes the query the same way GetQuote does.
func (s *Store) LoadConversation(ctx context.Context, conversationID, userID string) ([]ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, user_id, role, content, created_at
		FROM chat_messages
		WHERE conversation_id = $1 AND user_id = $2
		ORDER BY created_at ASC`, conversationID, userID)
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", conversationID, err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var message ChatMessage
		if err := rows.Scan(&message.ID, &message.ConversationID, &message.UserID, &message.Role, &message.Content, &message.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}
