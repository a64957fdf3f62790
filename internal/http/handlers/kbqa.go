package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/botfabrik/dialog-backend/internal/http/response"
	"github.com/botfabrik/dialog-backend/internal/kbqa"
	"github.com/botfabrik/dialog-backend/internal/kbqa/querylog"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

type KBQAHandler struct {
	log      *logger.Logger
	gen      *kbqa.Generator
	queryLog *querylog.Repo
}

func NewKBQAHandler(log *logger.Logger, gen *kbqa.Generator, queryLog *querylog.Repo) *KBQAHandler {
	return &KBQAHandler{
		log:      log.With("handler", "KBQA"),
		gen:      gen,
		queryLog: queryLog,
	}
}

type kbqaRequestItem struct {
	Question          string          `json:"question"`
	QuestionSanitized string          `json:"question_sanitized"`
	TemplateTypes     []string        `json:"template_types"`
	EntitiesFromNER   []string        `json:"entities_from_ner"`
	TypesFromNER      [][]kbqa.NERTag `json:"types_from_ner"`
	AnswerTypeFlag    string          `json:"answer_type_flag"`
}

type kbqaBatchRequest struct {
	Requests []kbqaRequestItem `json:"requests"`
}

type kbqaResponseItem struct {
	Candidates     []kbqa.Candidate `json:"candidates"`
	TemplateAnswer string           `json:"template_answer,omitempty"`
}

// FindCandidates handles POST /model: a batch of questions in, per-question
// candidate lists out. A question that produces nothing yields an empty
// candidate list, never an error.
func (h *KBQAHandler) FindCandidates(c *gin.Context) {
	var req kbqaBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	out := make([]kbqaResponseItem, 0, len(req.Requests))
	for _, item := range req.Requests {
		if strings.TrimSpace(item.QuestionSanitized) == "" {
			item.QuestionSanitized = item.Question
		}
		start := time.Now()
		candidates, templateAnswer := h.gen.FindCandidateAnswers(c.Request.Context(), kbqa.Request{
			Question:          item.Question,
			QuestionSanitized: item.QuestionSanitized,
			TemplateTypes:     item.TemplateTypes,
			EntitiesFromNER:   item.EntitiesFromNER,
			TypesFromNER:      item.TypesFromNER,
			AnswerTypeFlag:    item.AnswerTypeFlag,
		})
		if candidates == nil {
			candidates = []kbqa.Candidate{}
		}
		howTo := len(candidates) == 1 && len(candidates[0].Rels) == 1 && candidates[0].Rels[0] == kbqa.HowToRel
		h.queryLog.Insert(c.Request.Context(), querylog.Record{
			CreatedAt:      time.Now().UTC(),
			Question:       item.Question,
			TemplateTypes:  strings.Join(item.TemplateTypes, ","),
			CandidateCount: len(candidates),
			HowTo:          howTo,
			TemplateAnswer: templateAnswer != "",
			LatencyMS:      time.Since(start).Milliseconds(),
		})
		out = append(out, kbqaResponseItem{Candidates: candidates, TemplateAnswer: templateAnswer})
	}
	response.RespondOK(c, out)
}

// RecentLog handles GET /log/recent for offline inspection of outcomes.
func (h *KBQAHandler) RecentLog(c *gin.Context) {
	limit := 50
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	recs, err := h.queryLog.Recent(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "query_log", err)
		return
	}
	if recs == nil {
		recs = []querylog.Record{}
	}
	response.RespondOK(c, recs)
}
