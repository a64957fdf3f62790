package templatematcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/botfabrik/dialog-backend/internal/config"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/match" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Question    string   `json:"question"`
			NEREntities []string `json:"ner_entities"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Question != "where was justin born" || len(req.NEREntities) != 1 {
			t.Errorf("unexpected payload %+v", req)
		}
		w.Write([]byte(`{
			"entities": ["justin"],
			"rels": [["P19"]],
			"rel_dirs": ["forw"],
			"template_type": "1",
			"template_found": "where was xxx born"
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(testLogger(t), config.CollaboratorConfig{
		BaseURL: srv.URL,
		Timeout: config.Duration{Duration: 5 * time.Second},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	match, err := c.Match(context.Background(), "where was justin born", []string{"justin"})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(match.Entities) != 1 || match.Entities[0] != "justin" {
		t.Fatalf("unexpected entities %v", match.Entities)
	}
	if match.TemplateType != "1" || match.RelDirs[0] != "forw" {
		t.Fatalf("unexpected match %+v", match)
	}
	if match.TemplateFound != "where was xxx born" {
		t.Fatalf("unexpected template %q", match.TemplateFound)
	}
}

func TestMatchServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(testLogger(t), config.CollaboratorConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Match(context.Background(), "q", nil); err == nil {
		t.Fatalf("expected an error on 503")
	}
}
