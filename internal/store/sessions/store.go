// Package sessions keeps live interview conversation state in Redis.
package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/common/metrics"
	"hr-interviewer/internal/interview/stages"
	"hr-interviewer/internal/models"
)

const keyPrefix = "hr:session:"

type Store struct {
	client *redis.Client
	ttl    time.Duration
	cfg    *stages.Config
	logger logger.Logger
}

func NewStore(client *redis.Client, ttl time.Duration, cfg *stages.Config, log logger.Logger) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl, cfg: cfg, logger: log}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// Create initializes a new session in the interview's initial stage and
// persists it.
func (s *Store) Create(ctx context.Context) (*models.Session, error) {
	now := time.Now().UTC()
	session := &models.Session{
		ID:               uuid.NewString(),
		CurrentStage:     s.cfg.InitialStage,
		NextStage:        s.cfg.InitialStage,
		StageResponses:   map[string][]string{},
		StageMetrics:     map[string]models.CompletionMetrics{},
		InteractionCount: 0,
		CreatedAt:        now,
		LastActivity:     now,
	}

	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}

	metrics.SessionsActive.Inc()
	return session, nil
}

// Get loads a session; a missing key yields SESSION_NOT_FOUND.
func (s *Store) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, errors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewSessionStoreFailedError(err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.NewSessionStoreFailedError(err)
	}

	return &session, nil
}

// Save writes the session back, refreshing last activity and the TTL.
func (s *Store) Save(ctx context.Context, session *models.Session) error {
	session.LastActivity = time.Now().UTC()

	data, err := json.Marshal(session)
	if err != nil {
		return errors.NewSessionStoreFailedError(err)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return errors.NewSessionStoreFailedError(err)
	}

	return nil
}

// Delete removes a session. Returns SESSION_NOT_FOUND when absent.
func (s *Store) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return errors.NewSessionStoreFailedError(err)
	}
	if deleted == 0 {
		return errors.NewSessionNotFoundError(id)
	}

	metrics.SessionsActive.Dec()
	return nil
}

// Exists reports whether a session is live.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, errors.NewSessionStoreFailedError(err)
	}
	return n > 0, nil
}

// Count returns the number of live sessions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return 0, errors.NewSessionStoreFailedError(err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return count, nil
}

// Info derives the progress view of a session.
func (s *Store) Info(session *models.Session) *models.SessionInfo {
	idx := s.cfg.StageIndex(session.CurrentStage)

	var progress float64
	var completed []string
	if idx >= 0 {
		progress = float64(idx+1) / float64(len(s.cfg.StageOrder)) * 100
		completed = append(completed, s.cfg.StageOrder[:idx]...)
	}

	return &models.SessionInfo{
		SessionID:          session.ID,
		CurrentStage:       session.CurrentStage,
		NextStage:          session.NextStage,
		InteractionCount:   session.InteractionCount,
		CompletedStages:    completed,
		ProgressPercentage: progress,
		StageMetrics:       session.StageMetrics,
	}
}

// Stats summarizes transcript volume and session duration.
func (s *Store) Stats(session *models.Session) *models.SessionStats {
	var userCount, assistantCount int
	for _, m := range session.Messages {
		switch m.Role {
		case models.RoleUser:
			userCount++
		case models.RoleAssistant:
			assistantCount++
		}
	}

	return &models.SessionStats{
		SessionID:         session.ID,
		CreatedAt:         session.CreatedAt,
		LastActivity:      session.LastActivity,
		DurationMinutes:   session.LastActivity.Sub(session.CreatedAt).Minutes(),
		TotalMessages:     len(session.Messages),
		UserMessages:      userCount,
		AssistantMessages: assistantCount,
		CurrentStage:      session.CurrentStage,
		InteractionCount:  session.InteractionCount,
		StagesEvaluated:   len(session.StageMetrics),
	}
}

// CleanupExpired removes sessions idle past maxAge. The TTL normally
// takes care of this; the sweep covers non-expiring keys left by older
// writes and keeps the active gauge honest.
func (s *Store) CleanupExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return removed, errors.NewSessionStoreFailedError(err)
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Bytes()
			if err != nil {
				continue
			}
			var session models.Session
			if err := json.Unmarshal(data, &session); err != nil {
				continue
			}
			if session.LastActivity.Before(cutoff) {
				if err := s.client.Del(ctx, key).Err(); err == nil {
					removed++
					metrics.SessionsActive.Dec()
				}
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if removed > 0 {
		s.logger.Info("Swept expired sessions", map[string]interface{}{"removed": removed})
	}

	return removed, nil
}
