package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// Document is a row in the documents table. The generated RAMS and method
// statement are stored as jsonb once generation completes; RenderedFormats
// lists the artifact formats already written to storage.
type Document struct {
	ID              uuid.UUID
	Status          string
	Project         json.RawMessage
	Query           string
	CurrentStep     sql.NullString
	Progress        int32
	Rams            pqtype.NullRawMessage
	MethodStatement pqtype.NullRawMessage
	StorageKey      sql.NullString
	RenderedFormats []string
	ErrorMessage    sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Job is a row in the jobs table.
type Job struct {
	ID           uuid.UUID
	JobType      string
	Payload      json.RawMessage
	Status       string
	Priority     int32
	Attempts     int32
	MaxAttempts  int32
	ErrorMessage sql.NullString
	ScheduledAt  time.Time
	StartedAt    sql.NullTime
	CompletedAt  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
