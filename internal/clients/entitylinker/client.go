package entitylinker

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/botfabrik/dialog-backend/internal/config"
	"github.com/botfabrik/dialog-backend/internal/kbqa"
	apperrors "github.com/botfabrik/dialog-backend/internal/pkg/errors"
	"github.com/botfabrik/dialog-backend/internal/pkg/httpx"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

// Client is the network implementation of kbqa.EntityLinker. The wire
// protocol is batched; this client sends single-element batches and unwraps
// the response, including the extra wrapping layer the linker adds when it
// runs behind an API requester.
type Client struct {
	log          *logger.Logger
	baseURL      string
	httpClient   *http.Client
	apiRequester bool
}

func NewClient(log *logger.Logger, cfg config.CollaboratorConfig, apiRequester bool) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("entity linker: missing base url: %w", apperrors.ErrInvalidArgument)
	}
	return &Client{
		log:          log.With("client", "EntityLinker"),
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: cfg.Timeout.Duration},
		apiRequester: apiRequester,
	}, nil
}

type linkRequest struct {
	EntitySubstr [][]string        `json:"entity_substr"`
	EntityTags   [][][]kbqa.NERTag `json:"entity_tags"`
	Context      [][]string        `json:"context"`
}

func (c *Client) Link(ctx context.Context, mentions []string, mentionTags [][]kbqa.NERTag, questionContext string) ([]kbqa.MentionLinks, error) {
	payload := linkRequest{
		EntitySubstr: [][]string{mentions},
		EntityTags:   [][][]kbqa.NERTag{mentionTags},
		Context:      [][]string{{questionContext}},
	}
	url := c.baseURL + "/model"
	if c.apiRequester {
		var wrapped [][][]kbqa.MentionLinks
		if err := httpx.PostJSON(ctx, c.httpClient, url, payload, &wrapped); err != nil {
			return nil, err
		}
		if len(wrapped) == 0 || len(wrapped[0]) == 0 {
			return nil, nil
		}
		return wrapped[0][0], nil
	}
	var resp [][]kbqa.MentionLinks
	if err := httpx.PostJSON(ctx, c.httpClient, url, payload, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, nil
	}
	return resp[0], nil
}
