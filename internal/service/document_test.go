package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomashby/ramsgen/internal/domain"
	"github.com/tomashby/ramsgen/internal/repository"
)

func TestRowToDocument(t *testing.T) {
	svc := &documentService{logger: discardLogger()}
	id := uuid.New()
	created := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	row := repository.Document{
		ID:      id,
		Status:  "ready",
		Project: []byte(`{"projectName": "Rewire", "location": "Norwich"}`),
		Query:   "full rewire of a three bed semi",
		CurrentStep: sql.NullString{
			String: "complete", Valid: true,
		},
		Progress: 100,
		Rams: pqtype.NullRawMessage{
			RawMessage: []byte(`{"projectName": "Rewire", "risks": [{"id": "r-1", "hazard": "Electric shock"}]}`),
			Valid:      true,
		},
		MethodStatement: pqtype.NullRawMessage{
			RawMessage: []byte(`{"projectName": "Rewire", "steps": [{"id": "step-1", "title": "Isolate"}]}`),
			Valid:      true,
		},
		StorageKey:      sql.NullString{String: "documents/" + id.String() + "/rams", Valid: true},
		RenderedFormats: []string{"html", "pdf"},
		CreatedAt:       created,
		UpdatedAt:       created,
	}

	doc, err := svc.rowToDocument(row)
	require.NoError(t, err)

	assert.Equal(t, id, doc.ID)
	assert.Equal(t, domain.DocumentStatusReady, doc.Status)
	assert.Equal(t, "Rewire", doc.Project.ProjectName)
	assert.Equal(t, "Norwich", doc.Project.Location)
	assert.Equal(t, "complete", doc.CurrentStep)
	assert.Equal(t, 100, doc.Progress)

	require.NotNil(t, doc.RAMS)
	require.Len(t, doc.RAMS.Risks, 1)
	assert.Equal(t, "Electric shock", doc.RAMS.Risks[0].Hazard)
	require.NotNil(t, doc.MethodStatement)
	require.Len(t, doc.MethodStatement.Steps, 1)

	assert.True(t, doc.CanDownload())
	assert.True(t, doc.HasFormat(domain.DocumentFormatHTML))
	assert.True(t, doc.HasFormat(domain.DocumentFormatPDF))
	assert.False(t, doc.HasFormat(domain.DocumentFormatDOCX))
}

func TestRowToDocument_PendingRow(t *testing.T) {
	svc := &documentService{logger: discardLogger()}

	row := repository.Document{
		ID:      uuid.New(),
		Status:  "pending",
		Project: []byte(`{"projectName": "Socket additions", "location": "Colchester"}`),
		Query:   "add double sockets to kitchen",
	}

	doc, err := svc.rowToDocument(row)
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentStatusPending, doc.Status)
	assert.Nil(t, doc.RAMS)
	assert.Nil(t, doc.MethodStatement)
	assert.Empty(t, doc.StorageKey)
	assert.Empty(t, doc.RenderedFormats)
	assert.False(t, doc.CanDownload())
}

func TestRowToDocument_BadProject(t *testing.T) {
	svc := &documentService{logger: discardLogger()}

	_, err := svc.rowToDocument(repository.Document{
		ID:      uuid.New(),
		Status:  "pending",
		Project: []byte(`not json`),
	})
	require.Error(t, err)
}
