package entitylinker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/botfabrik/dialog-backend/internal/config"
	"github.com/botfabrik/dialog-backend/internal/kbqa"
	apperrors "github.com/botfabrik/dialog-backend/internal/pkg/errors"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

func testConfig(url string) config.CollaboratorConfig {
	return config.CollaboratorConfig{
		BaseURL: url,
		Timeout: config.Duration{Duration: 5 * time.Second},
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestLinkPlainMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/model" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			EntitySubstr [][]string `json:"entity_substr"`
			Context      [][]string `json:"context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(req.EntitySubstr) != 1 || req.EntitySubstr[0][0] != "justin" {
			t.Errorf("unexpected batch payload %v", req.EntitySubstr)
		}
		json.NewEncoder(w).Encode([][]kbqa.MentionLinks{{{EntityIDs: []string{"Q42"}}}})
	}))
	defer srv.Close()

	c, err := NewClient(testLogger(t), testConfig(srv.URL), false)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	links, err := c.Link(context.Background(), []string{"justin"}, nil, "where was justin born")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(links) != 1 || links[0].EntityIDs[0] != "Q42" {
		t.Fatalf("unexpected links %+v", links)
	}
}

func TestLinkAPIRequesterModeUnwraps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][][]kbqa.MentionLinks{{{{EntityIDs: []string{"Q42", "Q4220"}}}}})
	}))
	defer srv.Close()

	c, err := NewClient(testLogger(t), testConfig(srv.URL), true)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	links, err := c.Link(context.Background(), []string{"justin"}, nil, "q")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(links) != 1 || len(links[0].EntityIDs) != 2 {
		t.Fatalf("unexpected links %+v", links)
	}
}

func TestLinkEmptyBatchResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c, err := NewClient(testLogger(t), testConfig(srv.URL), false)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	links, err := c.Link(context.Background(), []string{"justin"}, nil, "q")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if links != nil {
		t.Fatalf("expected nil links, got %+v", links)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(testLogger(t), config.CollaboratorConfig{}, false)
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
