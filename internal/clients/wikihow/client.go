package wikihow

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/botfabrik/dialog-backend/internal/config"
	"github.com/botfabrik/dialog-backend/internal/kbqa"
	apperrors "github.com/botfabrik/dialog-backend/internal/pkg/errors"
	"github.com/botfabrik/dialog-backend/internal/pkg/httpx"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

// Client is the network implementation of kbqa.HowToSource: a search call
// returning ranked article ids and a fetch call returning raw page markup.
type Client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg config.CollaboratorConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("howto source: missing base url: %w", apperrors.ErrInvalidArgument)
	}
	return &Client{
		log:        log.With("client", "WikiHow"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout.Duration},
	}, nil
}

func (c *Client) Search(ctx context.Context, phrase string, limit int) ([]kbqa.SearchHit, error) {
	u := fmt.Sprintf("%s/search?phrase=%s&limit=%d", c.baseURL, url.QueryEscape(phrase), limit)
	var hits []kbqa.SearchHit
	if err := httpx.GetJSON(ctx, c.httpClient, u, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

func (c *Client) GetHTML(ctx context.Context, articleID int) (string, error) {
	u := c.baseURL + "/articles/" + strconv.Itoa(articleID) + "/html"
	raw, err := httpx.GetBody(ctx, c.httpClient, u)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
