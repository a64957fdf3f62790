package relranker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/botfabrik/dialog-backend/internal/config"
	"github.com/botfabrik/dialog-backend/internal/kbqa"
	apperrors "github.com/botfabrik/dialog-backend/internal/pkg/errors"
	"github.com/botfabrik/dialog-backend/internal/pkg/httpx"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

// Client is the network implementation of kbqa.RelRanker. The service
// returns [relation, score] pairs reordered by similarity to the question.
type Client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg config.CollaboratorConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("rel ranker: missing base url: %w", apperrors.ErrInvalidArgument)
	}
	return &Client{
		log:        log.With("client", "RelRanker"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout.Duration},
	}, nil
}

type rankRequest struct {
	Question      string   `json:"question"`
	CandidateRels []string `json:"candidate_rels"`
}

func (c *Client) Rank(ctx context.Context, question string, rels []string) ([]kbqa.RelScore, error) {
	var resp [][]json.RawMessage
	err := httpx.PostJSON(ctx, c.httpClient, c.baseURL+"/model", rankRequest{
		Question:      question,
		CandidateRels: rels,
	}, &resp)
	if err != nil {
		return nil, err
	}
	out := make([]kbqa.RelScore, 0, len(resp))
	for _, pair := range resp {
		if len(pair) < 2 {
			continue
		}
		var rs kbqa.RelScore
		if err := json.Unmarshal(pair[0], &rs.Rel); err != nil {
			return nil, fmt.Errorf("decode ranked rel: %w", err)
		}
		if err := json.Unmarshal(pair[1], &rs.Score); err != nil {
			return nil, fmt.Errorf("decode rel score: %w", err)
		}
		out = append(out, rs)
	}
	return out, nil
}
