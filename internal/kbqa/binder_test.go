package kbqa

import (
	"context"
	"testing"
)

func TestBindQueryCrossProduct(t *testing.T) {
	g := newTestGenerator(t, testDeps{}, nil, nil)
	tmpl := QueryTemplate{
		QueryTemplate:          "SELECT ?a WHERE { wd:E1 wdt:R1 ?a . }",
		EntitiesAndTypesNum:    []int{1, 0},
		EntitiesAndTypesSelect: "1",
	}
	candidates := g.bindQuery(context.Background(), "q", "1", tmpl, "1",
		[][]string{{"Q1", "Q2"}}, nil, [][]string{{"P19", "P26"}})
	if len(candidates) != 4 {
		t.Fatalf("expected 2x2 combinations, got %d", len(candidates))
	}
	seen := map[string]bool{}
	for _, c := range candidates {
		seen[c.Query] = true
		if c.Confidence != 1.0 {
			t.Fatalf("template-supplied rels must score 1.0, got %v", c.Confidence)
		}
	}
	if !seen["SELECT ?a WHERE { wd:Q2 wdt:P26 ?a . }"] {
		t.Fatalf("missing expected combination, got %v", seen)
	}
}

func TestBindQuerySpecDigitOutOfRange(t *testing.T) {
	g := newTestGenerator(t, testDeps{}, nil, nil)
	tmpl := QueryTemplate{
		QueryTemplate:          "SELECT ?a WHERE { wd:E1 wdt:R1 ?a . }",
		EntitiesAndTypesSelect: "2",
	}
	candidates := g.bindQuery(context.Background(), "q", "1", tmpl, "2",
		[][]string{{"Q1"}}, nil, [][]string{{"P19"}})
	if candidates != nil {
		t.Fatalf("out-of-range slot selection must yield nothing, got %+v", candidates)
	}
}

func TestBindQuerySpecTooShort(t *testing.T) {
	g := newTestGenerator(t, testDeps{}, nil, nil)
	tmpl := QueryTemplate{
		QueryTemplate: "SELECT ?a WHERE { wd:E1 wdt:R1 ?a . ?a wdt:P31 T1 . }",
	}
	candidates := g.bindQuery(context.Background(), "q", "1", tmpl, "1",
		[][]string{{"Q1"}}, [][]string{{"Q5"}}, [][]string{{"P19"}})
	if candidates != nil {
		t.Fatalf("spec shorter than slot count must yield nothing, got %+v", candidates)
	}
}

func TestBindQueryCapsEntitiesPerSlot(t *testing.T) {
	g := newTestGenerator(t, testDeps{}, nil, nil)
	g.cfg.EntitiesToLeave = 2
	tmpl := QueryTemplate{
		QueryTemplate:          "SELECT ?a WHERE { wd:E1 wdt:R1 ?a . }",
		EntitiesAndTypesSelect: "1",
	}
	candidates := g.bindQuery(context.Background(), "q", "1", tmpl, "1",
		[][]string{{"Q1", "Q2", "Q3", "Q4"}}, nil, [][]string{{"P19"}})
	if len(candidates) != 2 {
		t.Fatalf("expected the entity group capped to 2, got %d candidates", len(candidates))
	}
}
