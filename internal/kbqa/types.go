package kbqa

import (
	"context"
	"encoding/json"
	"fmt"
)

// HowToRel is the sentinel relation a matched template carries when the
// question is a "how to ..." request. It routes the request to the
// search/scrape path instead of graph querying.
const HowToRel = "PHOW"

// NotFoundAnswer is the literal returned when the how-to path retrieves
// nothing usable.
const NotFoundAnswer = "Not Found"

// Request carries one question with its upstream annotations.
type Request struct {
	Question          string
	QuestionSanitized string
	// TemplateTypes is the caller's template-type hint, used on the NER
	// fallback path.
	TemplateTypes []string
	// EntitiesFromNER and TypesFromNER are parallel: one tag list per mention.
	EntitiesFromNER []string
	TypesFromNER    [][]NERTag
	// AnswerTypeFlag is the caller's coarse answer-type hint.
	AnswerTypeFlag string
}

// NERTag is one (tag, score) pair attached to a NER mention. On the wire it
// is a two-element array, e.g. ["misc", 0.95].
type NERTag struct {
	Tag   string
	Score float64
}

func (t *NERTag) UnmarshalJSON(b []byte) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(b, &arr); err != nil {
		return err
	}
	if len(arr) == 0 {
		return fmt.Errorf("ner tag: empty array")
	}
	if err := json.Unmarshal(arr[0], &t.Tag); err != nil {
		return err
	}
	if len(arr) > 1 {
		if err := json.Unmarshal(arr[1], &t.Score); err != nil {
			return err
		}
	}
	return nil
}

func (t NERTag) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Tag, t.Score})
}

// Candidate is one bound answer query. For how-to questions the query is
// empty and Answer holds the extracted text.
type Candidate struct {
	TemplateNum string   `json:"template_num,omitempty"`
	Query       string   `json:"query,omitempty"`
	Entities    []string `json:"entities,omitempty"`
	Types       []string `json:"types,omitempty"`
	Rels        []string `json:"rels,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// RelScore is a relation id with its ranker score against the question.
type RelScore struct {
	Rel   string
	Score float64
}

// TemplateMatch is the template matcher's output for one question. A zero
// value means no template matched.
type TemplateMatch struct {
	Entities       []string
	Types          []string
	Rels           [][]string
	RelDirs        []string
	TemplateType   string
	EntityTypes    []string
	TemplateAnswer string
	AnswerTypes    []string
	TemplateFound  string
}

// TemplateMatcher extracts entity/type/relation mentions and a template type
// from a sanitized question. Failures are a condition the caller checks, not
// an abort.
type TemplateMatcher interface {
	Match(ctx context.Context, questionSanitized string, nerEntities []string) (TemplateMatch, error)
}

// MentionLinks is the ranked identifier list for one mention.
type MentionLinks struct {
	EntityIDs []string `json:"entity_ids"`
}

// EntityLinker resolves mention strings to ranked entity identifiers.
type EntityLinker interface {
	Link(ctx context.Context, mentions []string, mentionTags [][]NERTag, context string) ([]MentionLinks, error)
}

// RelQuery is one (entity, direction, relation-type) lookup for the wiki
// parser.
type RelQuery struct {
	Entity    string
	Direction string
	RelType   string
}

// WikiParser answers batched "find relations" queries against the knowledge
// graph. Returned relation ids may be path-like; the caller keeps the final
// segment.
type WikiParser interface {
	FindRels(ctx context.Context, queries []RelQuery) ([]string, error)
}

// RelRanker reorders relation ids by textual similarity to the question.
type RelRanker interface {
	Rank(ctx context.Context, question string, rels []string) ([]RelScore, error)
}

// SearchHit is one ranked page identifier from the how-to search collaborator.
type SearchHit struct {
	ArticleID int `json:"article_id"`
}

// HowToSource is the search/scrape collaborator used for how-to questions.
type HowToSource interface {
	Search(ctx context.Context, phrase string, limit int) ([]SearchHit, error)
	GetHTML(ctx context.Context, articleID int) (string, error)
}
