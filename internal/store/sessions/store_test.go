package sessions

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/interview/stages"
	"hr-interviewer/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client, time.Hour, stages.DefaultConfig(), logger.NewTestLogger(t)), srv
}

// ==========================
// Lifecycle Tests
// ==========================

func TestCreate_InitializesInitialStage(t *testing.T) {
	store, _ := newTestStore(t)

	session, err := store.Create(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, stages.StageAdvancements, session.CurrentStage)
	assert.Equal(t, stages.StageAdvancements, session.NextStage)
	assert.Zero(t, session.InteractionCount)
	assert.NotNil(t, session.StageResponses)
	assert.NotNil(t, session.StageMetrics)

	loaded, err := store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
}

func TestGet_MissingSession(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSessionNotFound, stdErr.Code)
}

func TestSave_RoundTripsStateAndRefreshesTTL(t *testing.T) {
	store, srv := newTestStore(t)

	session, err := store.Create(context.Background())
	require.NoError(t, err)

	session.CurrentStage = stages.StageChallenges
	session.InteractionCount = 3
	session.StageResponses[stages.StageChallenges] = []string{"the outage was hard"}
	session.Messages = append(session.Messages, models.Message{
		Content: "hello", Role: models.RoleUser, Stage: stages.StageChallenges, Timestamp: time.Now().UTC(),
	})

	require.NoError(t, store.Save(context.Background(), session))

	loaded, err := store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, stages.StageChallenges, loaded.CurrentStage)
	assert.Equal(t, 3, loaded.InteractionCount)
	assert.Equal(t, []string{"the outage was hard"}, loaded.StageResponses[stages.StageChallenges])
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, models.RoleUser, loaded.Messages[0].Role)

	ttl := srv.TTL(sessionKey(session.ID))
	assert.Greater(t, ttl, 50*time.Minute)
}

func TestDelete_RemovesSession(t *testing.T) {
	store, _ := newTestStore(t)

	session, err := store.Create(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), session.ID))

	exists, err := store.Exists(context.Background(), session.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDelete_MissingSession(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Delete(context.Background(), "nope")

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSessionNotFound, stdErr.Code)
}

func TestCount_SeesOnlySessionKeys(t *testing.T) {
	store, srv := newTestStore(t)

	_, err := store.Create(context.Background())
	require.NoError(t, err)
	_, err = store.Create(context.Background())
	require.NoError(t, err)
	srv.Set("unrelated:key", "x")

	count, err := store.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// ==========================
// Derived View Tests
// ==========================

func TestInfo_ComputesProgress(t *testing.T) {
	store, _ := newTestStore(t)

	session, err := store.Create(context.Background())
	require.NoError(t, err)
	session.CurrentStage = stages.StageAchievements
	session.InteractionCount = 2

	info := store.Info(session)

	assert.Equal(t, session.ID, info.SessionID)
	assert.Equal(t, stages.StageAchievements, info.CurrentStage)
	assert.Equal(t, []string{stages.StageAdvancements, stages.StageChallenges}, info.CompletedStages)
	assert.InDelta(t, 50.0, info.ProgressPercentage, 0.01)
}

func TestStats_CountsMessagesByRole(t *testing.T) {
	store, _ := newTestStore(t)

	session, err := store.Create(context.Background())
	require.NoError(t, err)
	session.Messages = []models.Message{
		{Role: models.RoleUser, Content: "a"},
		{Role: models.RoleAssistant, Content: "b"},
		{Role: models.RoleUser, Content: "c"},
	}

	stats := store.Stats(session)

	assert.Equal(t, 3, stats.TotalMessages)
	assert.Equal(t, 2, stats.UserMessages)
	assert.Equal(t, 1, stats.AssistantMessages)
}

// ==========================
// Cleanup Tests
// ==========================

func TestCleanupExpired_RemovesOnlyStaleSessions(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	stale, err := store.Create(ctx)
	require.NoError(t, err)
	fresh, err := store.Create(ctx)
	require.NoError(t, err)

	// backdate the stale session past the cutoff
	stale.LastActivity = time.Now().UTC().Add(-3 * time.Hour)
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, store.client.Set(ctx, sessionKey(stale.ID), data, time.Hour).Err())

	removed, err := store.CleanupExpired(ctx, 2*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, stale.ID)
	require.Error(t, err)
	_, err = store.Get(ctx, fresh.ID)
	require.NoError(t, err)
}
