// Package reports indexes completed review reports into Elasticsearch
// and serves search over them.
package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/models"
)

type Store struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewStore(client *elasticsearch.Client, index string, log logger.Logger) *Store {
	if index == "" {
		index = "hr-review-reports"
	}
	return &Store{client: client, index: index, logger: log}
}

// Index writes a report document keyed by its session id.
func (s *Store) Index(ctx context.Context, report *models.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return errors.NewReportIndexFailedError(err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: report.SessionID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.NewSearchTimeoutError()
		}
		return errors.NewReportIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewReportIndexFailedError(fmt.Errorf("index response: %s", res.Status()))
	}

	s.logger.Info("Indexed review report", map[string]interface{}{
		"session_id":  report.SessionID,
		"employee_id": report.EmployeeID,
	})

	return nil
}

// Get fetches one report by session id.
func (s *Store) Get(ctx context.Context, sessionID string) (*models.Report, error) {
	req := esapi.GetRequest{
		Index:      s.index,
		DocumentID: sessionID,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, errors.NewReportNotFoundError(sessionID)
	}
	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("get response: %s", res.Status()))
	}

	var doc struct {
		Source models.Report `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}

	return &doc.Source, nil
}

// Search runs a full-text query across report summaries, section text,
// and employee names.
func (s *Store) Search(ctx context.Context, query string, size int) ([]models.Report, int64, error) {
	if size <= 0 {
		size = 20
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"employee_name^3", "summary^2", "sections.summary", "action_plan"},
				"type":   "best_fields",
			},
		},
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, 0, errors.NewSearchTimeoutError()
		}
		return nil, 0, errors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, errors.NewSearchQueryFailedError(fmt.Errorf("search response: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Report `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, errors.NewSearchQueryFailedError(err)
	}

	reports := make([]models.Report, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		reports = append(reports, h.Source)
	}

	return reports, parsed.Hits.Total.Value, nil
}
