package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/extractify/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, satisfied by
// pgxmock.PgxPoolIface in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	file_name  TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS extracted_fields (
	id                BIGSERIAL PRIMARY KEY,
	conversation_id   TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	email             TEXT,
	phone             TEXT,
	zip_code          TEXT,
	order_id          TEXT,
	customer_name     TEXT,
	metadata          JSONB,
	extraction_method TEXT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_conversations_created_at ON conversations(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_extracted_fields_conversation_id ON extracted_fields(conversation_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateConversation(ctx context.Context, req SaveRequest) (*model.StoredConversation, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO conversations (id, title, content, file_name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, defaultTitle(req.Title), req.Content, req.FileName, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert conversation")
	}

	if req.Result != nil {
		metaJSON, err := json.Marshal(req.Result.Metadata)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: marshal metadata")
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO extracted_fields (conversation_id, email, phone, zip_code, order_id, customer_name, metadata, extraction_method, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, req.Result.Email, req.Result.Phone, req.Result.ZipCode, req.Result.OrderID,
			req.Result.CustomerName, string(metaJSON), req.Result.Metadata.ExtractionMethod, now,
		)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: insert extracted fields")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit")
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

func (s *PostgresStore) GetConversation(ctx context.Context, id string) (*model.StoredConversation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT c.id, c.title, c.content, c.file_name, c.created_at, c.updated_at,
		        f.email, f.phone, f.zip_code, f.order_id, f.customer_name, f.metadata
		 FROM conversations c
		 LEFT JOIN extracted_fields f ON f.conversation_id = c.id
		 WHERE c.id = $1`,
		id,
	)

	var sc model.StoredConversation
	var fileName *string
	var email, phone, zip, orderID, name, metaJSON *string
	err := row.Scan(&sc.ID, &sc.Title, &sc.Content, &fileName, &sc.CreatedAt, &sc.UpdatedAt,
		&email, &phone, &zip, &orderID, &name, &metaJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("conversation not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get conversation")
	}
	if fileName != nil {
		sc.FileName = *fileName
	}
	if email != nil {
		sc.Fields = fieldsFromColumns(deref(email), deref(phone), deref(zip), deref(orderID), deref(name), deref(metaJSON))
	}
	return &sc, nil
}

func (s *PostgresStore) ListConversations(ctx context.Context, filter ListFilter) ([]model.StoredConversation, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx,
		`SELECT c.id, c.title, c.content, c.file_name, c.created_at, c.updated_at,
		        f.email, f.phone, f.zip_code, f.order_id, f.customer_name, f.metadata
		 FROM conversations c
		 LEFT JOIN extracted_fields f ON f.conversation_id = c.id
		 ORDER BY c.created_at DESC LIMIT $1 OFFSET $2`,
		limit, filter.Offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list conversations")
	}
	defer rows.Close()

	var out []model.StoredConversation
	for rows.Next() {
		var sc model.StoredConversation
		var content string
		var fileName *string
		var email, phone, zip, orderID, name, metaJSON *string
		if err := rows.Scan(&sc.ID, &sc.Title, &content, &fileName, &sc.CreatedAt, &sc.UpdatedAt,
			&email, &phone, &zip, &orderID, &name, &metaJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan conversation")
		}
		if fileName != nil {
			sc.FileName = *fileName
		}
		sc.Preview = preview(content)
		if email != nil {
			sc.Fields = fieldsFromColumns(deref(email), deref(phone), deref(zip), deref(orderID), deref(name), deref(metaJSON))
		}
		out = append(out, sc)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list conversations iterate")
}

func (s *PostgresStore) DeleteConversation(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM extracted_fields WHERE conversation_id = $1`, id,
	); err != nil {
		return eris.Wrapf(err, "postgres: delete extracted fields %s", id)
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete conversation %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("conversation not found: %s", id)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
