package imageskill

import (
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

const (
	// DefaultResponse is returned when the captioner produced nothing.
	DefaultResponse     = "Okay. Why did you send me this picture?"
	DefaultConfidence   = 0.85
	captionAnnotatorKey = "fromage"
)

type Annotations struct {
	Fromage string `json:"fromage"`
}

type Utterance struct {
	Text        string      `json:"text"`
	Annotations Annotations `json:"annotations"`
}

type Dialog struct {
	HumanUtterances []Utterance `json:"human_utterances"`
}

// Response is one skill hypothesis for a dialogue turn.
type Response struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Responder passes the image captioner's annotation through as the skill's
// reply.
type Responder struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Responder {
	return &Responder{log: log.With("component", "ImageSkill")}
}

func (r *Responder) Respond(d Dialog) Response {
	caption := ""
	if len(d.HumanUtterances) > 0 {
		caption = d.HumanUtterances[len(d.HumanUtterances)-1].Annotations.Fromage
	}
	r.log.Debug("image skill caption", "annotator", captionAnnotatorKey, "caption", caption)
	if caption == "" {
		return Response{Text: DefaultResponse, Confidence: DefaultConfidence}
	}
	return Response{Text: caption, Confidence: DefaultConfidence}
}

// RespondBatch handles a batch of dialog states.
func (r *Responder) RespondBatch(dialogs []Dialog) []Response {
	out := make([]Response, len(dialogs))
	for i, d := range dialogs {
		out[i] = r.Respond(d)
	}
	return out
}
