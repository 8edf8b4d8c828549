package postgres_storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStorage{db: db}, nil
}

func createSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS bot_state (
	key TEXT PRIMARY KEY,
	value JSONB NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create bot_state schema: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Get(key string) ([]byte, error) {
	row := p.db.QueryRow(`SELECT value FROM bot_state WHERE key=$1`, key)

	var value []byte
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (p *PostgresStorage) Set(key string, value []byte) error {
	_, err := p.db.Exec(`
		INSERT INTO bot_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value=$2
	`, key, value)
	return err
}

func (p *PostgresStorage) Delete(key string) error {
	_, err := p.db.Exec(`DELETE FROM bot_state WHERE key=$1`, key)
	return err
}

func (p *PostgresStorage) Close() error {
	return p.db.Close()
}
