package wikiparser

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

// Client is the network implementation of kbqa.WikiParser. Each query is
// tagged with the "find_rels" operation; in API-requester mode every
// returned relation is wrapped in a single-element list.
type Client struct {
	log          *logger.Logger
	baseURL      string
	httpClient   *http.Client
	apiRequester bool
}

func NewClient(log *logger.Logger, cfg config.CollaboratorConfig, apiRequester bool) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("wiki parser: missing base url: %w", apperrors.ErrInvalidArgument)
	}
	return &Client{
		log:          log.With("client", "WikiParser"),
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: cfg.Timeout.Duration},
		apiRequester: apiRequester,
	}, nil
}

type findRelsRequest struct {
	ParserInfo []string   `json:"parser_info"`
	Query      [][]string `json:"query"`
}

func (c *Client) FindRels(ctx context.Context, queries []kbqa.RelQuery) ([]string, error) {
	req := findRelsRequest{
		ParserInfo: make([]string, len(queries)),
		Query:      make([][]string, len(queries)),
	}
	for i, q := range queries {
		req.ParserInfo[i] = "find_rels"
		req.Query[i] = []string{q.Entity, q.Direction, q.RelType}
	}

	url := c.baseURL + "/model"
	if c.apiRequester {
		var wrapped []json.RawMessage
		if err := httpx.PostJSON(ctx, c.httpClient, url, req, &wrapped); err != nil {
			return nil, err
		}
		rels := make([]string, 0, len(wrapped))
		for _, raw := range wrapped {
			var inner []string
			if err := json.Unmarshal(raw, &inner); err != nil {
				return nil, fmt.Errorf("decode wrapped rel: %w", err)
			}
			if len(inner) > 0 {
				rels = append(rels, inner[0])
			}
		}
		return rels, nil
	}
	var rels []string
	if err := httpx.PostJSON(ctx, c.httpClient, url, req, &rels); err != nil {
		return nil, err
	}
	return rels, nil
}
