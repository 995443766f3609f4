package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"
)

const documentColumns = `id, status, project, query, current_step, progress, rams,
	method_statement, storage_key, rendered_formats, error_message, created_at, updated_at`

func scanDocument(row *sql.Row) (Document, error) {
	var d Document
	err := row.Scan(
		&d.ID, &d.Status, &d.Project, &d.Query, &d.CurrentStep, &d.Progress,
		&d.Rams, &d.MethodStatement, &d.StorageKey, pq.Array(&d.RenderedFormats),
		&d.ErrorMessage, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

// CreateDocumentParams are the parameters for CreateDocument.
type CreateDocumentParams struct {
	ID      uuid.UUID
	Project json.RawMessage
	Query   string
}

const createDocument = `
INSERT INTO documents (id, status, project, query)
VALUES ($1, 'pending', $2, $3)
RETURNING ` + documentColumns

// CreateDocument inserts a new pending document.
func (q *Queries) CreateDocument(ctx context.Context, params CreateDocumentParams) (Document, error) {
	row := q.db.QueryRowContext(ctx, createDocument, params.ID, params.Project, params.Query)
	return scanDocument(row)
}

const getDocument = `
SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

// GetDocument fetches a document by id. Returns sql.ErrNoRows if absent.
func (q *Queries) GetDocument(ctx context.Context, id uuid.UUID) (Document, error) {
	return scanDocument(q.db.QueryRowContext(ctx, getDocument, id))
}

// ListDocumentsParams are the parameters for ListDocuments. An empty Statuses
// slice matches every status.
type ListDocumentsParams struct {
	Statuses []string
	Limit    int32
	Offset   int32
}

const listDocuments = `
SELECT ` + documentColumns + `
FROM documents
WHERE cardinality($1::text[]) = 0 OR status = ANY($1::text[])
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

// ListDocuments returns documents newest first, optionally filtered by status.
func (q *Queries) ListDocuments(ctx context.Context, params ListDocumentsParams) ([]Document, error) {
	statuses := params.Statuses
	if statuses == nil {
		statuses = []string{}
	}
	rows, err := q.db.QueryContext(ctx, listDocuments, pq.Array(statuses), params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(
			&d.ID, &d.Status, &d.Project, &d.Query, &d.CurrentStep, &d.Progress,
			&d.Rams, &d.MethodStatement, &d.StorageKey, pq.Array(&d.RenderedFormats),
			&d.ErrorMessage, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

const countDocuments = `
SELECT count(*) FROM documents
WHERE cardinality($1::text[]) = 0 OR status = ANY($1::text[])`

// CountDocuments returns the number of documents matching the status filter.
// An empty filter counts everything.
func (q *Queries) CountDocuments(ctx context.Context, statuses []string) (int64, error) {
	if statuses == nil {
		statuses = []string{}
	}
	var count int64
	err := q.db.QueryRowContext(ctx, countDocuments, pq.Array(statuses)).Scan(&count)
	return count, err
}

// UpdateDocumentStatusParams are the parameters for UpdateDocumentStatus.
type UpdateDocumentStatusParams struct {
	ID          uuid.UUID
	Status      string
	CurrentStep sql.NullString
	Progress    int32
}

const updateDocumentStatus = `
UPDATE documents
SET status = $2, current_step = $3, progress = $4, updated_at = now()
WHERE id = $1`

// UpdateDocumentStatus records a lifecycle transition.
func (q *Queries) UpdateDocumentStatus(ctx context.Context, params UpdateDocumentStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateDocumentStatus,
		params.ID, params.Status, params.CurrentStep, params.Progress)
	return err
}

// UpdateDocumentProgressParams are the parameters for UpdateDocumentProgress.
type UpdateDocumentProgressParams struct {
	ID          uuid.UUID
	CurrentStep string
	Progress    int32
}

const updateDocumentProgress = `
UPDATE documents
SET current_step = $2, progress = $3, updated_at = now()
WHERE id = $1 AND status = 'generating'`

// UpdateDocumentProgress is the generation heartbeat: it advances the
// progress figure without touching status, and is a no-op once the document
// has left the generating state.
func (q *Queries) UpdateDocumentProgress(ctx context.Context, params UpdateDocumentProgressParams) error {
	_, err := q.db.ExecContext(ctx, updateDocumentProgress,
		params.ID, params.CurrentStep, params.Progress)
	return err
}

// UpdateDocumentResultsParams are the parameters for UpdateDocumentResults.
type UpdateDocumentResultsParams struct {
	ID              uuid.UUID
	Rams            pqtype.NullRawMessage
	MethodStatement pqtype.NullRawMessage
}

const updateDocumentResults = `
UPDATE documents
SET rams = $2, method_statement = $3, status = 'ready', current_step = 'complete',
    progress = 100, error_message = NULL, updated_at = now()
WHERE id = $1`

// UpdateDocumentResults stores the generated documents and marks the record
// ready.
func (q *Queries) UpdateDocumentResults(ctx context.Context, params UpdateDocumentResultsParams) error {
	_, err := q.db.ExecContext(ctx, updateDocumentResults,
		params.ID, params.Rams, params.MethodStatement)
	return err
}

// UpdateDocumentFailedParams are the parameters for UpdateDocumentFailed.
type UpdateDocumentFailedParams struct {
	ID           uuid.UUID
	ErrorMessage string
}

const updateDocumentFailed = `
UPDATE documents
SET status = 'failed', error_message = $2, updated_at = now()
WHERE id = $1`

// UpdateDocumentFailed records a generation failure.
func (q *Queries) UpdateDocumentFailed(ctx context.Context, params UpdateDocumentFailedParams) error {
	_, err := q.db.ExecContext(ctx, updateDocumentFailed, params.ID, params.ErrorMessage)
	return err
}

// UpdateDocumentStoredParams are the parameters for UpdateDocumentStored.
type UpdateDocumentStoredParams struct {
	ID         uuid.UUID
	StorageKey string
	Format     string
}

const updateDocumentStored = `
UPDATE documents
SET storage_key = $2,
    rendered_formats = array_append(array_remove(rendered_formats, $3), $3),
    updated_at = now()
WHERE id = $1`

// UpdateDocumentStored records a rendered artifact: its storage key prefix
// and the format just written. Re-rendering the same format is idempotent.
func (q *Queries) UpdateDocumentStored(ctx context.Context, params UpdateDocumentStoredParams) error {
	_, err := q.db.ExecContext(ctx, updateDocumentStored,
		params.ID, params.StorageKey, params.Format)
	return err
}

const resetDocumentForRetry = `
UPDATE documents
SET status = 'pending', current_step = NULL, progress = 0,
    error_message = NULL, updated_at = now()
WHERE id = $1 AND status IN ('failed', 'ready')
RETURNING ` + documentColumns

// ResetDocumentForRetry moves a failed or ready document back to pending so
// generation can run again. Returns sql.ErrNoRows if the document does not
// exist or is not in a retryable state.
func (q *Queries) ResetDocumentForRetry(ctx context.Context, id uuid.UUID) (Document, error) {
	return scanDocument(q.db.QueryRowContext(ctx, resetDocumentForRetry, id))
}

const deleteDocument = `DELETE FROM documents WHERE id = $1`

// DeleteDocument removes a document row. Returns the number of rows deleted.
func (q *Queries) DeleteDocument(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDocument, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countDocumentsByStatus = `
SELECT status, count(*) FROM documents GROUP BY status`

// CountDocumentsByStatus returns the number of documents in each status.
func (q *Queries) CountDocumentsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx, countDocumentsByStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
