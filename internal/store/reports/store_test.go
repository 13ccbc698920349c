package reports

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeTransport struct {
	requests []*http.Request
	respond  func(*http.Request) *http.Response
}

func (t *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests = append(t.requests, req)
	return t.respond(req), nil
}

func esResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header: http.Header{
			"X-Elastic-Product": []string{"Elasticsearch"},
			"Content-Type":      []string{"application/json"},
		},
		Body: io.NopCloser(strings.NewReader(body)),
	}
}

func newTestStore(t *testing.T, respond func(*http.Request) *http.Response) (*Store, *fakeTransport) {
	transport := &fakeTransport{respond: respond}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://elasticsearch:9200"},
		Transport: transport,
	})
	require.NoError(t, err)

	return NewStore(client, "test-reports", logger.NewTestLogger(t)), transport
}

// ==========================
// Index Tests
// ==========================

func TestIndex_WritesDocumentKeyedBySession(t *testing.T) {
	store, transport := newTestStore(t, func(*http.Request) *http.Response {
		return esResponse(201, `{"result":"created"}`)
	})

	err := store.Index(context.Background(), &models.Report{
		SessionID:    "sess-1",
		EmployeeName: "Dana Mercer",
		OverallScore: 0.82,
	})

	require.NoError(t, err)
	require.Len(t, transport.requests, 1)
	req := transport.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/test-reports/_doc/sess-1", req.URL.Path)
	assert.Equal(t, "true", req.URL.Query().Get("refresh"))
}

func TestIndex_ServerErrorSurfaces(t *testing.T) {
	store, _ := newTestStore(t, func(*http.Request) *http.Response {
		return esResponse(500, `{"error":"boom"}`)
	})

	err := store.Index(context.Background(), &models.Report{SessionID: "sess-1"})

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeReportIndexFailed, stdErr.Code)
}

// ==========================
// Get Tests
// ==========================

func TestGet_DecodesSource(t *testing.T) {
	store, _ := newTestStore(t, func(*http.Request) *http.Response {
		return esResponse(200, `{"_source":{"session_id":"sess-1","employee_name":"Dana Mercer","overall_score":0.82}}`)
	})

	report, err := store.Get(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.Equal(t, "sess-1", report.SessionID)
	assert.Equal(t, "Dana Mercer", report.EmployeeName)
	assert.InDelta(t, 0.82, report.OverallScore, 0.001)
}

func TestGet_MissingReport(t *testing.T) {
	store, _ := newTestStore(t, func(*http.Request) *http.Response {
		return esResponse(404, `{"found":false}`)
	})

	_, err := store.Get(context.Background(), "missing")

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeReportNotFound, stdErr.Code)
}

// ==========================
// Search Tests
// ==========================

func TestSearch_ParsesHitsAndTotal(t *testing.T) {
	store, transport := newTestStore(t, func(*http.Request) *http.Response {
		return esResponse(200, `{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_source": {"session_id": "sess-1", "employee_name": "Dana Mercer"}},
					{"_source": {"session_id": "sess-2", "employee_name": "Robin Okafor"}}
				]
			}
		}`)
	})

	reports, total, err := store.Search(context.Background(), "growth plan", 10)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, reports, 2)
	assert.Equal(t, "sess-2", reports[1].SessionID)

	require.Len(t, transport.requests, 1)
	assert.Equal(t, "/test-reports/_search", transport.requests[0].URL.Path)
}

func TestSearch_ServerErrorSurfaces(t *testing.T) {
	store, _ := newTestStore(t, func(*http.Request) *http.Response {
		return esResponse(502, `{"error":"unreachable"}`)
	})

	_, _, err := store.Search(context.Background(), "anything", 0)

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSearchQueryFailed, stdErr.Code)
}
