package ner

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/botfabrik/dialog-backend/internal/pkg/httpx"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

// Entity is one NER annotation as the service returns it.
type Entity struct {
	StartPos   int     `json:"start_pos"`
	EndPos     int     `json:"end_pos"`
	Type       string  `json:"type"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Case pairs one utterance with its expected annotations.
type Case struct {
	Utterance string
	Gold      [][]Entity
}

// Battery is the fixed multilingual smoke battery. Russian utterances and
// the empty string must yield no entities.
func Battery() []Case {
	return []Case{
		{Utterance: "я видела ивана в москве", Gold: [][]Entity{{}}},
		{Utterance: "Я видела Ивана в Москве", Gold: [][]Entity{{}}},
		{
			Utterance: "i have heard about justin. he is in sahara desert",
			Gold: [][]Entity{{
				{StartPos: 4, EndPos: 5, Type: "PER", Text: "justin", Confidence: 1},
				{StartPos: 9, EndPos: 11, Type: "LOC", Text: "sahara desert", Confidence: 1},
			}},
		},
		{
			Utterance: "I have heard about Justin. He is in Sahara Desert",
			Gold: [][]Entity{{
				{StartPos: 4, EndPos: 5, Type: "PER", Text: "Justin", Confidence: 1},
				{StartPos: 9, EndPos: 11, Type: "LOC", Text: "Sahara Desert", Confidence: 1},
			}},
		},
		{
			Utterance: "can john smith move forward for 15 meters, then for fifteen meters, and get back to las vegas then",
			Gold: [][]Entity{{
				{StartPos: 1, EndPos: 3, Type: "PER", Text: "john smith", Confidence: 1},
				{StartPos: 6, EndPos: 8, Type: "QUANTITY", Text: "15 meters", Confidence: 1},
				{StartPos: 11, EndPos: 13, Type: "QUANTITY", Text: "fifteen meters", Confidence: 1},
				{StartPos: 18, EndPos: 20, Type: "LOC", Text: "las vegas", Confidence: 1},
			}},
		},
		{
			Utterance: "я бы проехала на 30 метров вперед, а потом повернула на сорок пять градусов по часовой стрелке",
			Gold:      [][]Entity{{}},
		},
		{Utterance: "", Gold: [][]Entity{{}}},
	}
}

// Checker runs the smoke battery against a live NER service.
type Checker struct {
	log        *logger.Logger
	url        string
	httpClient *http.Client
}

func NewChecker(log *logger.Logger, url string) *Checker {
	return &Checker{
		log:        log.With("component", "NERSmoke"),
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type nerRequest struct {
	LastUtterances [][]string `json:"last_utterances"`
}

// Run posts every case concurrently and fails on the first mismatch.
func (c *Checker) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, tc := range Battery() {
		group.Go(func() error {
			var got [][][]Entity
			err := httpx.PostJSON(ctx, c.httpClient, c.url, nerRequest{
				LastUtterances: [][]string{{tc.Utterance}},
			}, &got)
			if err != nil {
				return fmt.Errorf("ner call for %q: %w", tc.Utterance, err)
			}
			if len(got) != 1 {
				return fmt.Errorf("ner returned %d batch items for %q", len(got), tc.Utterance)
			}
			if !equalAnnotations(got[0], tc.Gold) {
				return fmt.Errorf("mismatch for %q: got %+v, want %+v", tc.Utterance, got[0], tc.Gold)
			}
			c.log.Debug("case passed", "utterance", tc.Utterance)
			return nil
		})
	}
	return group.Wait()
}

func equalAnnotations(got, want [][]Entity) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if len(got[i]) == 0 && len(want[i]) == 0 {
			continue
		}
		if !reflect.DeepEqual(got[i], want[i]) {
			return false
		}
	}
	return true
}
