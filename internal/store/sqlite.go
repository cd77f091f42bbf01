package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/extractify/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	file_name  TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS extracted_fields (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id   TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	email             TEXT,
	phone             TEXT,
	zip_code          TEXT,
	order_id          TEXT,
	customer_name     TEXT,
	metadata          TEXT,
	extraction_method TEXT,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_conversations_created_at ON conversations(created_at);
CREATE INDEX IF NOT EXISTS idx_extracted_fields_conversation_id ON extracted_fields(conversation_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateConversation(ctx context.Context, req SaveRequest) (*model.StoredConversation, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversations (id, title, content, file_name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, defaultTitle(req.Title), req.Content, req.FileName, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert conversation")
	}

	if req.Result != nil {
		metaJSON, err := json.Marshal(req.Result.Metadata)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: marshal metadata")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO extracted_fields (conversation_id, email, phone, zip_code, order_id, customer_name, metadata, extraction_method, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, req.Result.Email, req.Result.Phone, req.Result.ZipCode, req.Result.OrderID,
			req.Result.CustomerName, string(metaJSON), req.Result.Metadata.ExtractionMethod, now,
		)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: insert extracted fields")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit")
	}

	return &model.StoredConversation{
		ID:        id,
		Title:     defaultTitle(req.Title),
		Content:   req.Content,
		FileName:  req.FileName,
		Fields:    req.Result,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) GetConversation(ctx context.Context, id string) (*model.StoredConversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT c.id, c.title, c.content, c.file_name, c.created_at, c.updated_at,
		        f.email, f.phone, f.zip_code, f.order_id, f.customer_name, f.metadata
		 FROM conversations c
		 LEFT JOIN extracted_fields f ON f.conversation_id = c.id
		 WHERE c.id = ?`,
		id,
	)

	var sc model.StoredConversation
	var fileName sql.NullString
	var email, phone, zip, orderID, name, metaJSON sql.NullString
	err := row.Scan(&sc.ID, &sc.Title, &sc.Content, &fileName, &sc.CreatedAt, &sc.UpdatedAt,
		&email, &phone, &zip, &orderID, &name, &metaJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("conversation not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get conversation")
	}
	sc.FileName = fileName.String

	if email.Valid {
		sc.Fields = fieldsFromColumns(email.String, phone.String, zip.String, orderID.String, name.String, metaJSON.String)
	}
	return &sc, nil
}

func (s *SQLiteStore) ListConversations(ctx context.Context, filter ListFilter) ([]model.StoredConversation, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT c.id, c.title, c.content, c.file_name, c.created_at, c.updated_at,
	                 f.email, f.phone, f.zip_code, f.order_id, f.customer_name, f.metadata
	          FROM conversations c
	          LEFT JOIN extracted_fields f ON f.conversation_id = c.id
	          ORDER BY c.created_at DESC LIMIT ?`
	args := []any{limit}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list conversations")
	}
	defer rows.Close()

	var out []model.StoredConversation
	for rows.Next() {
		var sc model.StoredConversation
		var content string
		var fileName sql.NullString
		var email, phone, zip, orderID, name, metaJSON sql.NullString
		if err := rows.Scan(&sc.ID, &sc.Title, &content, &fileName, &sc.CreatedAt, &sc.UpdatedAt,
			&email, &phone, &zip, &orderID, &name, &metaJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan conversation")
		}
		sc.FileName = fileName.String
		sc.Preview = preview(content)
		if email.Valid {
			sc.Fields = fieldsFromColumns(email.String, phone.String, zip.String, orderID.String, name.String, metaJSON.String)
		}
		out = append(out, sc)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list conversations iterate")
}

func (s *SQLiteStore) DeleteConversation(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM extracted_fields WHERE conversation_id = ?`, id,
	); err != nil {
		return eris.Wrapf(err, "sqlite: delete extracted fields %s", id)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete conversation %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("conversation not found: %s", id)
	}
	return nil
}

// fieldsFromColumns rebuilds an ExtractionResult from its table columns.
func fieldsFromColumns(email, phone, zip, orderID, name, metaJSON string) *model.ExtractionResult {
	res := &model.ExtractionResult{
		Email:        email,
		Phone:        phone,
		ZipCode:      zip,
		OrderID:      orderID,
		CustomerName: name,
	}
	if metaJSON != "" {
		// Metadata is display-only; a corrupt blob is not worth failing a read.
		_ = json.Unmarshal([]byte(metaJSON), &res.Metadata)
	}
	return res
}
