package templatematcher

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

// Client is the network implementation of kbqa.TemplateMatcher.
type Client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg config.CollaboratorConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("template matcher: missing base url: %w", apperrors.ErrInvalidArgument)
	}
	return &Client{
		log:        log.With("client", "TemplateMatcher"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout.Duration},
	}, nil
}

type matchRequest struct {
	Question    string   `json:"question"`
	NEREntities []string `json:"ner_entities"`
}

type matchResponse struct {
	Entities       []string   `json:"entities"`
	Types          []string   `json:"types"`
	Rels           [][]string `json:"rels"`
	RelDirs        []string   `json:"rel_dirs"`
	TemplateType   string     `json:"template_type"`
	EntityTypes    []string   `json:"entity_types"`
	TemplateAnswer string     `json:"template_answer"`
	AnswerTypes    []string   `json:"answer_types"`
	TemplateFound  string     `json:"template_found"`
}

func (c *Client) Match(ctx context.Context, questionSanitized string, nerEntities []string) (kbqa.TemplateMatch, error) {
	var resp matchResponse
	err := httpx.PostJSON(ctx, c.httpClient, c.baseURL+"/match", matchRequest{
		Question:    questionSanitized,
		NEREntities: nerEntities,
	}, &resp)
	if err != nil {
		return kbqa.TemplateMatch{}, err
	}
	return kbqa.TemplateMatch{
		Entities:       resp.Entities,
		Types:          resp.Types,
		Rels:           resp.Rels,
		RelDirs:        resp.RelDirs,
		TemplateType:   resp.TemplateType,
		EntityTypes:    resp.EntityTypes,
		TemplateAnswer: resp.TemplateAnswer,
		AnswerTypes:    resp.AnswerTypes,
		TemplateFound:  resp.TemplateFound,
	}, nil
}
