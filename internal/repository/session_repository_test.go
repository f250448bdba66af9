package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sra-panel-api/internal/models"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	dataset := &models.Dataset{
		SessionID: "s1",
		FileName:  "results.csv",
		Records:   []models.CourseRecord{{MatricNo: "U001", StudentName: "Ada", CourseCode: "MTH101"}},
	}
	require.NoError(t, store.SaveDataset(ctx, dataset))

	got, err := store.GetDataset(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "results.csv", got.FileName)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "U001", got.Records[0].MatricNo)
}

func TestMemorySessionStoreUnknownSession(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	_, err := store.GetDataset(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, store.SaveDataset(ctx, &models.Dataset{SessionID: "s1"}))

	_, err := store.GetDataset(ctx, "s1")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = store.GetDataset(ctx, "s1")
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
}

func TestMemorySessionStoreInsights(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	state := &models.InsightState{Status: models.InsightStatusRunning, RequestedAt: time.Now().UTC()}
	require.NoError(t, store.SaveInsights(ctx, "s1", state))

	got, err := store.GetInsights(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.InsightStatusRunning, got.Status)
}

func TestMemorySessionStoreDelete(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.SaveDataset(ctx, &models.Dataset{SessionID: "s1"}))
	require.NoError(t, store.SaveInsights(ctx, "s1", &models.InsightState{Status: models.InsightStatusIdle}))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.GetDataset(ctx, "s1")
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
	_, err = store.GetInsights(ctx, "s1")
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
}
