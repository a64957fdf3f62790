package kbqa

import (
	"context"
	"strings"

	"github.com/botfabrik/dialog-backend/internal/config"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

// replaceTokens is the fixed punctuation/whitespace normalization applied to
// every question before template matching.
var replaceTokens = [][2]string{
	{" - ", "-"},
	{" .", ""},
	{"{", ""},
	{"}", ""},
	{"  ", " "},
	{`"`, "'"},
	{"(", ""},
	{")", ""},
	{"–", "-"},
}

// Generator turns a question plus upstream annotations into candidate answer
// queries. All collaborators are interfaces; every collaborator failure
// degrades to fewer or no candidates, never an error.
type Generator struct {
	log *logger.Logger
	cfg config.KBQAConfig

	matcher TemplateMatcher
	linker  EntityLinker
	ranker  RelRanker
	wiki    WikiParser
	howto   HowToSource

	lib       *TemplateLibrary
	rankList1 []string
	rankList2 []string
}

type GeneratorDeps struct {
	Matcher TemplateMatcher
	Linker  EntityLinker
	Ranker  RelRanker
	Wiki    WikiParser
	HowTo   HowToSource

	Library   *TemplateLibrary
	RankList1 []string
	RankList2 []string
}

func NewGenerator(log *logger.Logger, cfg config.KBQAConfig, deps GeneratorDeps) *Generator {
	return &Generator{
		log:       log.With("component", "QueryGenerator"),
		cfg:       cfg,
		matcher:   deps.Matcher,
		linker:    deps.Linker,
		ranker:    deps.Ranker,
		wiki:      deps.Wiki,
		howto:     deps.HowTo,
		lib:       deps.Library,
		rankList1: deps.RankList1,
		rankList2: deps.RankList2,
	}
}

// FindCandidateAnswers is the core contract: it returns zero or more bound
// candidate queries plus any literal template answer text.
func (g *Generator) FindCandidateAnswers(ctx context.Context, req Request) ([]Candidate, string) {
	question := req.Question
	for _, pair := range replaceTokens {
		question = strings.ReplaceAll(question, pair[0], pair[1])
	}

	match, err := g.matcher.Match(ctx, req.QuestionSanitized, req.EntitiesFromNER)
	if err != nil {
		g.log.Info("no output from template matcher", "degraded", true, "error", err)
		match = TemplateMatch{}
	}
	answerInfo := match.AnswerTypes
	if len(answerInfo) == 0 && req.AnswerTypeFlag != "" {
		answerInfo = []string{req.AnswerTypeFlag}
	}
	templateNums := []string{match.TemplateType}
	g.log.Debug("template matching done",
		"question", question,
		"template_type", match.TemplateType,
		"entities_from_template", match.Entities,
		"types_from_template", match.Types,
		"answer_types", answerInfo)

	var candidates []Candidate
	if len(match.Entities) > 0 || len(match.Types) > 0 {
		if len(match.Entities) > 0 && len(match.Rels) > 0 && len(match.Rels[0]) > 0 && match.Rels[0][0] == HowToRel {
			content := g.findHowToAnswer(ctx, match.Entities[0])
			candidates = []Candidate{{Rels: []string{HowToRel}, Answer: content, Confidence: 1.0}}
		} else {
			typesFromNER := req.TypesFromNER
			if len(typesFromNER) > 1 {
				typesFromNER = lastNonMiscTags(typesFromNER)
			}
			entityIDs := g.entityIDs(ctx, match.Entities, question, typesFromNER)
			g.log.Debug("template path linked",
				"entities_from_template", match.Entities,
				"rels_from_template", match.Rels,
				"entity_ids", entityIDs)
			candidates = g.selectCandidates(ctx, req.QuestionSanitized, templateNums,
				entityIDs, nil, match.Rels, match.RelDirs)
		}
	}

	if len(candidates) == 0 && len(req.EntitiesFromNER) > 0 {
		entities, types := req.EntitiesFromNER, req.TypesFromNER
		if len(entities) > 1 {
			entities, types = lastNonMisc(entities, types)
		}
		entityIDs := g.entityIDs(ctx, entities, question, types)
		if !g.cfg.SyntaxStructureKnown && len(entityIDs) > 3 {
			entityIDs = entityIDs[:3]
		}
		g.log.Debug("ner fallback path",
			"entities_from_ner", entities,
			"template_types", req.TemplateTypes,
			"entity_ids", entityIDs)
		candidates = g.selectCandidates(ctx, req.QuestionSanitized, req.TemplateTypes,
			entityIDs, nil, nil, nil)
	}
	return candidates, match.TemplateAnswer
}

// lastNonMiscTags keeps only the last tag list containing a non-misc tag.
// Why only the last is kept is inherited behavior; do not generalize.
func lastNonMiscTags(tags [][]NERTag) [][]NERTag {
	var filtered [][]NERTag
	for _, ts := range tags {
		if anyNonMisc(ts) {
			filtered = append(filtered, ts)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return [][]NERTag{filtered[len(filtered)-1]}
}

// lastNonMisc filters entity/tag pairs to those with a non-misc tag, keeping
// only the last surviving pair.
func lastNonMisc(entities []string, tags [][]NERTag) ([]string, [][]NERTag) {
	var fEntities []string
	var fTags [][]NERTag
	for i, entity := range entities {
		var ts []NERTag
		if i < len(tags) {
			ts = tags[i]
		}
		if anyNonMisc(ts) {
			fEntities = append(fEntities, entity)
			fTags = append(fTags, ts)
		}
	}
	if len(fEntities) == 0 {
		return nil, nil
	}
	last := len(fEntities) - 1
	return []string{fEntities[last]}, [][]NERTag{fTags[last]}
}

func anyNonMisc(tags []NERTag) bool {
	for _, t := range tags {
		if t.Tag != "misc" {
			return true
		}
	}
	return false
}

// entityIDs resolves mention strings to ranked identifier lists via the
// linker. A decode failure is absorbed into an empty result.
func (g *Generator) entityIDs(ctx context.Context, entities []string, question string, entityTypes [][]NERTag) [][]string {
	mentions := make([]string, len(entities))
	for i, e := range entities {
		mentions[i] = strings.ToLower(e)
	}
	links, err := g.linker.Link(ctx, mentions, entityTypes, strings.ToLower(question))
	if err != nil {
		g.log.Info("no output from entity linker", "degraded", true, "error", err)
		return nil
	}
	ids := make([][]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.EntityIDs)
	}
	return ids
}

// selectCandidates filters the template library and drives the ordered
// retry-with-fallback control flow: most specific templates first,
// alternatives last, first non-empty result wins.
func (g *Generator) selectCandidates(
	ctx context.Context,
	question string,
	templateNums []string,
	entityIDs, typeIDs [][]string,
	relsFromTemplate [][]string,
	relDirsFromTemplate []string,
) []Candidate {
	var templates []candidateTemplate
	for _, tnum := range templateNums {
		g.lib.Each(func(num string, t QueryTemplate) bool {
			if (g.cfg.SyntaxStructureKnown && num == tnum) ||
				(!g.cfg.SyntaxStructureKnown && t.TemplateNum == tnum) {
				templates = append(templates, candidateTemplate{num: num, tmpl: t})
			}
			return true
		})
	}
	if !g.cfg.SyntaxStructureKnown {
		kept := templates[:0]
		for _, ct := range templates {
			if len(ct.tmpl.EntitiesAndTypesNum) == 2 &&
				ct.tmpl.EntitiesAndTypesNum[0] == len(entityIDs) &&
				ct.tmpl.EntitiesAndTypesNum[1] == len(typeIDs) {
				kept = append(kept, ct)
			}
		}
		templates = kept
	}
	if len(templates) == 0 {
		return nil
	}

	if relsFromTemplate != nil {
		var selected *candidateTemplate
		for i := range templates {
			if equalStrings(templates[i].tmpl.RelDirs, relDirsFromTemplate) {
				selected = &templates[i]
			}
		}
		if selected == nil {
			return nil
		}
		return g.bindQuery(ctx, question, selected.num, selected.tmpl,
			selected.tmpl.EntitiesAndTypesSelect, entityIDs, typeIDs, relsFromTemplate)
	}

	for _, ct := range templates {
		candidates := g.bindQuery(ctx, question, ct.num, ct.tmpl,
			ct.tmpl.EntitiesAndTypesSelect, entityIDs, typeIDs, nil)
		if len(candidates) > 0 {
			return candidates
		}
	}

	if g.cfg.UseAltTemplates {
		for _, alt := range templates[0].tmpl.AlternativeTemplates {
			if len(alt) != 2 {
				continue
			}
			altNum, altSelect := alt[0], alt[1]
			altTmpl, ok := g.lib.Get(altNum)
			if !ok {
				continue
			}
			candidates := g.bindQuery(ctx, question, altNum, altTmpl,
				altSelect, entityIDs, typeIDs, nil)
			if len(candidates) > 0 {
				return candidates
			}
		}
	}
	return nil
}

type candidateTemplate struct {
	num  string
	tmpl QueryTemplate
}

// FindTopRels collects candidate relations for one (direction, source, type)
// triplet, filters to the P-prefix convention and ranks them against the
// question, keeping at most relsToLeave.
func (g *Generator) FindTopRels(ctx context.Context, question string, entityIDs [][]string, direction, source, relType string) []RelScore {
	var exRels []string
	switch source {
	case "wiki":
		var queries []RelQuery
		seen := map[RelQuery]bool{}
		for _, group := range entityIDs {
			top := group
			if len(top) > g.cfg.EntitiesToLeave {
				top = top[:g.cfg.EntitiesToLeave]
			}
			for _, entity := range top {
				q := RelQuery{Entity: entity, Direction: direction, RelType: relType}
				if !seen[q] {
					seen[q] = true
					queries = append(queries, q)
				}
			}
		}
		if len(queries) == 0 {
			return nil
		}
		found, err := g.wiki.FindRels(ctx, queries)
		if err != nil {
			g.log.Info("no output from wiki parser", "degraded", true, "error", err)
			return nil
		}
		seenRel := map[string]bool{}
		for _, rel := range found {
			parts := strings.Split(rel, "/")
			rel = parts[len(parts)-1]
			if !seenRel[rel] {
				seenRel[rel] = true
				exRels = append(exRels, rel)
			}
		}
	case "rank_list_1":
		exRels = g.rankList1
	case "rank_list_2":
		exRels = g.rankList2
	}

	filtered := make([]string, 0, len(exRels))
	for _, rel := range exRels {
		if strings.HasPrefix(rel, "P") {
			filtered = append(filtered, rel)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	ranked, err := g.ranker.Rank(ctx, question, filtered)
	if err != nil {
		g.log.Info("no output from relation ranker", "degraded", true, "error", err)
		return nil
	}
	if len(ranked) > g.cfg.RelsToLeave {
		ranked = ranked[:g.cfg.RelsToLeave]
	}
	return ranked
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
