package kbqa

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var (
	entityPlaceholderRe = regexp.MustCompile(`\bE([1-9])\b`)
	typePlaceholderRe   = regexp.MustCompile(`\bT([1-9])\b`)
	relPlaceholderRe    = regexp.MustCompile(`\bR([1-9])\b`)
)

func countSlots(re *regexp.Regexp, query string) int {
	max := 0
	for _, m := range re.FindAllStringSubmatch(query, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > max {
			max = n
		}
	}
	return max
}

// bindQuery fills one template's entity/type/relation slots per the
// slot-selection spec and emits one candidate per slot-value combination.
// Any unsatisfiable slot yields no candidates.
func (g *Generator) bindQuery(
	ctx context.Context,
	question string,
	num string,
	tmpl QueryTemplate,
	selectSpec string,
	entityIDs, typeIDs [][]string,
	relsFromTemplate [][]string,
) []Candidate {
	entSlots := countSlots(entityPlaceholderRe, tmpl.QueryTemplate)
	typeSlots := countSlots(typePlaceholderRe, tmpl.QueryTemplate)
	relSlots := countSlots(relPlaceholderRe, tmpl.QueryTemplate)

	spec := strings.ReplaceAll(selectSpec, " ", "")
	if len(spec) < entSlots+typeSlots {
		return nil
	}

	pickGroup := func(digit byte, groups [][]string) []string {
		idx := int(digit - '1')
		if idx < 0 || idx >= len(groups) {
			return nil
		}
		group := groups[idx]
		if len(group) > g.cfg.EntitiesToLeave {
			group = group[:g.cfg.EntitiesToLeave]
		}
		return group
	}

	entityGroups := make([][]string, entSlots)
	for i := 0; i < entSlots; i++ {
		entityGroups[i] = pickGroup(spec[i], entityIDs)
		if len(entityGroups[i]) == 0 {
			return nil
		}
	}
	typeGroups := make([][]string, typeSlots)
	for j := 0; j < typeSlots; j++ {
		typeGroups[j] = pickGroup(spec[entSlots+j], typeIDs)
		if len(typeGroups[j]) == 0 {
			return nil
		}
	}

	relGroups := make([][]RelScore, relSlots)
	for k := 0; k < relSlots; k++ {
		if relsFromTemplate != nil {
			if k >= len(relsFromTemplate) {
				return nil
			}
			for _, rel := range relsFromTemplate[k] {
				relGroups[k] = append(relGroups[k], RelScore{Rel: rel, Score: 1.0})
			}
		} else {
			if k >= len(tmpl.RankRels) || len(tmpl.RankRels[k]) < 3 {
				return nil
			}
			rr := tmpl.RankRels[k]
			relGroups[k] = g.FindTopRels(ctx, question, entityIDs, rr[0], rr[1], rr[2])
		}
		if len(relGroups[k]) == 0 {
			return nil
		}
	}

	// Odometer over all slot dimensions: entities, then types, then rels.
	dims := make([]int, 0, entSlots+typeSlots+relSlots)
	for _, grp := range entityGroups {
		dims = append(dims, len(grp))
	}
	for _, grp := range typeGroups {
		dims = append(dims, len(grp))
	}
	for _, grp := range relGroups {
		dims = append(dims, len(grp))
	}

	var candidates []Candidate
	idx := make([]int, len(dims))
	for {
		entities := make([]string, entSlots)
		types := make([]string, typeSlots)
		rels := make([]string, relSlots)
		confidence := 1.0
		query := tmpl.QueryTemplate
		pos := 0
		for i := 0; i < entSlots; i++ {
			entities[i] = entityGroups[i][idx[pos]]
			query = strings.ReplaceAll(query, "E"+strconv.Itoa(i+1), entities[i])
			pos++
		}
		for j := 0; j < typeSlots; j++ {
			types[j] = typeGroups[j][idx[pos]]
			query = strings.ReplaceAll(query, "T"+strconv.Itoa(j+1), types[j])
			pos++
		}
		for k := 0; k < relSlots; k++ {
			rs := relGroups[k][idx[pos]]
			rels[k] = rs.Rel
			confidence *= rs.Score
			query = strings.ReplaceAll(query, "R"+strconv.Itoa(k+1), rs.Rel)
			pos++
		}
		candidates = append(candidates, Candidate{
			TemplateNum: num,
			Query:       query,
			Entities:    entities,
			Types:       types,
			Rels:        rels,
			Confidence:  confidence,
		})

		carry := len(idx) - 1
		for carry >= 0 {
			idx[carry]++
			if idx[carry] < dims[carry] {
				break
			}
			idx[carry] = 0
			carry--
		}
		if carry < 0 {
			break
		}
	}
	return candidates
}
