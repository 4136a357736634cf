package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
	"github.com/noah-isme/sma-tutoring-api/pkg/middleware/requestid"
)

const maxRemoteBody = 4 << 20

// RemoteRepository talks to the tutoring platform's REST API. It issues one request per
// call and never retries; the caller's bearer token is forwarded from the context.
type RemoteRepository struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRemoteRepository constructs the client. A zero timeout leaves the http.Client default.
func NewRemoteRepository(baseURL string, timeout time.Duration, logger *zap.Logger) *RemoteRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CreateSession persists a draft and returns the stored session.
func (r *RemoteRepository) CreateSession(ctx context.Context, draft models.SessionDraft) (*models.Session, error) {
	var session models.Session
	if err := r.do(ctx, http.MethodPost, "/sessions", nil, draft, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session by ID.
func (r *RemoteRepository) DeleteSession(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(id), nil, nil, nil)
}

// ListSessionsForParticipant returns sessions where the participant takes part.
func (r *RemoteRepository) ListSessionsForParticipant(ctx context.Context, participantID string, role models.Role) ([]models.Session, error) {
	var sessions []models.Session
	if err := r.do(ctx, http.MethodGet, "/sessions", participantQuery(participantID, role), nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListSessionsEnriched returns sessions with participant names joined server-side.
func (r *RemoteRepository) ListSessionsEnriched(ctx context.Context, participantID string, role models.Role) ([]models.EnrichedSession, error) {
	query := participantQuery(participantID, role)
	query.Set("include", "participants")
	var sessions []models.EnrichedSession
	if err := r.do(ctx, http.MethodGet, "/sessions", query, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListAvailability returns a student's declared free windows.
func (r *RemoteRepository) ListAvailability(ctx context.Context, studentID string) ([]models.AvailabilityEntry, error) {
	var entries models.AvailabilityList
	if err := r.do(ctx, http.MethodGet, "/students/"+url.PathEscape(studentID)+"/availability", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListWeeklyCounts returns per-week session counts for a group.
func (r *RemoteRepository) ListWeeklyCounts(ctx context.Context, groupID string) ([]models.WeeklyCount, error) {
	var counts []models.WeeklyCount
	if err := r.do(ctx, http.MethodGet, "/groups/"+url.PathEscape(groupID)+"/sessions/weekly-counts", nil, nil, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// AssignedTutor returns the tutor assigned to a student, or "" when there is none.
func (r *RemoteRepository) AssignedTutor(ctx context.Context, studentID string) (string, error) {
	var assignment struct {
		TutorID string `json:"tutor_id"`
	}
	err := r.do(ctx, http.MethodGet, "/students/"+url.PathEscape(studentID)+"/tutor", nil, nil, &assignment)
	if err != nil {
		if appErrors.IsCode(err, appErrors.ErrNotFound.Code) {
			return "", nil
		}
		return "", err
	}
	return assignment.TutorID, nil
}

// ListCounselors returns the counselor directory.
func (r *RemoteRepository) ListCounselors(ctx context.Context) ([]models.Participant, error) {
	var counselors []models.Participant
	if err := r.do(ctx, http.MethodGet, "/counselors", nil, nil, &counselors); err != nil {
		return nil, err
	}
	for i := range counselors {
		if counselors[i].Role == "" {
			counselors[i].Role = models.RoleCounselor
		}
	}
	return counselors, nil
}

func participantQuery(participantID string, role models.Role) url.Values {
	query := url.Values{}
	query.Set("participant_id", participantID)
	query.Set("role", string(role))
	return query
}

func (r *RemoteRepository) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	endpoint := r.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth, ok := models.AuthFromContext(ctx); ok && auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.HeaderKey, id)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, appErrors.ErrNetwork.Message)
	}
	defer resp.Body.Close()

	r.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, appErrors.ErrNetwork.Message)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, raw)
	}
	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrapEnvelope(raw), dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "unexpected response from server")
	}
	return nil
}

// unwrapEnvelope strips a {"data": ...} wrapper when the backend uses one.
func unwrapEnvelope(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return trimmed
	}
	if data, ok := envelope["data"]; ok {
		return data
	}
	return trimmed
}

func statusError(status int, raw []byte) error {
	message := remoteMessage(raw)
	var base *appErrors.Error
	switch {
	case status == http.StatusNotFound:
		base = appErrors.ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		base = appErrors.ErrUnauthorized
	case status == http.StatusConflict:
		base = appErrors.ErrConflict
	case status >= http.StatusInternalServerError:
		return appErrors.Wrap(fmt.Errorf("backend status %d: %s", status, message), appErrors.ErrServer.Code, appErrors.ErrServer.Status, appErrors.ErrServer.Message)
	default:
		base = appErrors.ErrValidation
	}
	return appErrors.Clone(base, message)
}

func remoteMessage(raw []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	var plain string
	if err := json.Unmarshal(payload.Error, &plain); err == nil {
		return plain
	}
	return ""
}
