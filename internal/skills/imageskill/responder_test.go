package imageskill

import (
	"testing"

	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

func newTestResponder(t *testing.T) *Responder {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return New(log)
}

func TestRespondPassesCaptionThrough(t *testing.T) {
	r := newTestResponder(t)
	resp := r.Respond(Dialog{HumanUtterances: []Utterance{
		{Annotations: Annotations{Fromage: "old caption"}},
		{Annotations: Annotations{Fromage: "a dog on a beach"}},
	}})
	if resp.Text != "a dog on a beach" {
		t.Fatalf("expected the last utterance's caption, got %q", resp.Text)
	}
	if resp.Confidence != DefaultConfidence {
		t.Fatalf("unexpected confidence %v", resp.Confidence)
	}
}

func TestRespondDefaultsWhenNoCaption(t *testing.T) {
	r := newTestResponder(t)
	for _, d := range []Dialog{
		{},
		{HumanUtterances: []Utterance{{Text: "look at this"}}},
	} {
		resp := r.Respond(d)
		if resp.Text != DefaultResponse {
			t.Fatalf("expected the default response, got %q", resp.Text)
		}
	}
}

func TestRespondBatch(t *testing.T) {
	r := newTestResponder(t)
	out := r.RespondBatch([]Dialog{
		{HumanUtterances: []Utterance{{Annotations: Annotations{Fromage: "a cat"}}}},
		{},
	})
	if len(out) != 2 || out[0].Text != "a cat" || out[1].Text != DefaultResponse {
		t.Fatalf("unexpected batch output: %+v", out)
	}
}
