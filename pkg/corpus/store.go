package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrDocumentNotFound is returned when a named document does not exist.
var ErrDocumentNotFound = errors.New("corpus: document not found")

// SetupSchema initializes the corpus table in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaDocuments = `
CREATE TABLE IF NOT EXISTS corpus_documents (
    doc_id INTEGER PRIMARY KEY,
    doc_name TEXT NOT NULL UNIQUE,
    body TEXT NOT NULL
);
`

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaDocuments); err != nil {
		return fmt.Errorf("could not create corpus schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Document describes one stored corpus document.
type Document struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
	Size int    `json:"size"` // body length in bytes
}

// Store keeps corpus documents in SQLite. It holds prepared statements for
// every query it runs.
type Store struct {
	db                 *sql.DB
	stmtUpsertDocument *sql.Stmt
	stmtRemoveDocument *sql.Stmt
	stmtListDocuments  *sql.Stmt
	stmtDocumentBodies *sql.Stmt
	logger             *slog.Logger
}

// NewStore creates a Store over db, whose schema must already be set up with
// SetupSchema. It returns an error if any statement fails to prepare.
func NewStore(db *sql.DB) (*Store, error) {
	stmtUpsertDocument, err := db.Prepare(`INSERT INTO corpus_documents (doc_name, body) VALUES (?, ?) ON CONFLICT(doc_name) DO UPDATE SET body=excluded.body RETURNING doc_id;`)
	if err != nil {
		return nil, err
	}

	stmtRemoveDocument, err := db.Prepare(`DELETE FROM corpus_documents WHERE doc_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtListDocuments, err := db.Prepare(`SELECT doc_id, doc_name, length(CAST(body AS BLOB)) FROM corpus_documents ORDER BY doc_id;`)
	if err != nil {
		return nil, err
	}

	stmtDocumentBodies, err := db.Prepare(`SELECT body FROM corpus_documents ORDER BY doc_id;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:                 db,
		stmtUpsertDocument: stmtUpsertDocument,
		stmtRemoveDocument: stmtRemoveDocument,
		stmtListDocuments:  stmtListDocuments,
		stmtDocumentBodies: stmtDocumentBodies,
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtUpsertDocument.Close()
	_ = s.stmtRemoveDocument.Close()
	_ = s.stmtListDocuments.Close()
	_ = s.stmtDocumentBodies.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// AddDocument stores the contents of body under name, replacing any document
// of the same name. A replaced document keeps its position in the stream.
func (s *Store) AddDocument(ctx context.Context, name string, body io.Reader) (Document, error) {
	if name == "" {
		return Document{}, errors.New("corpus: document name is required")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return Document{}, fmt.Errorf("could not read document %q: %w", name, err)
	}

	doc := Document{Name: name, Size: len(data)}
	if err = s.stmtUpsertDocument.QueryRowContext(ctx, name, string(data)).Scan(&doc.Id); err != nil {
		return Document{}, fmt.Errorf("could not store document %q: %w", name, err)
	}

	s.logger.InfoContext(ctx, "Corpus document stored",
		slog.String("doc_name", name),
		slog.Int("doc_id", doc.Id),
		slog.Int("size", doc.Size),
	)
	return doc, nil
}

// RemoveDocument deletes the named document, returning ErrDocumentNotFound if
// there is none.
func (s *Store) RemoveDocument(ctx context.Context, name string) error {
	res, err := s.stmtRemoveDocument.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove document %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrDocumentNotFound, name)
	}

	s.logger.InfoContext(ctx, "Corpus document removed", slog.String("doc_name", name))
	return nil
}

// ListDocuments returns every document in stream order.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.stmtListDocuments.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	docs := make([]Document, 0)
	for rows.Next() {
		var doc Document
		if err = rows.Scan(&doc.Id, &doc.Name, &doc.Size); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Source returns a corpus source reading every stored document.
func (s *Store) Source() *StoreSource {
	return &StoreSource{store: s}
}

// StoreSource streams all documents of a Store, in id order, each followed by
// a newline. Adjacent documents therefore form one continuous token stream.
type StoreSource struct {
	store *Store
}

// Name identifies the source in logs and errors.
func (s *StoreSource) Name() string { return "corpus_documents" }

// Open starts streaming the documents. Rows are read lazily as the returned
// reader is consumed; closing the reader early stops the query.
func (s *StoreSource) Open(ctx context.Context) (io.ReadCloser, error) {
	rows, err := s.store.stmtDocumentBodies.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not query corpus documents: %w", err)
	}

	pr, pw := io.Pipe()
	go func() {
		defer func(rows *sql.Rows) {
			_ = rows.Close()
		}(rows)

		for rows.Next() {
			var body string
			if err := rows.Scan(&body); err != nil {
				_ = pw.CloseWithError(err)
				return
			}
			if _, err := io.WriteString(pw, body); err != nil {
				return // reader closed
			}
			if _, err := io.WriteString(pw, "\n"); err != nil {
				return
			}
		}
		_ = pw.CloseWithError(rows.Err())
	}()

	return pr, nil
}
