package kbqa

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// QueryTemplate is one parametrized query pattern. Placeholders in the
// template string are E1..En for entities, T1..Tm for types and R1..Rk for
// relations.
type QueryTemplate struct {
	QueryTemplate string `json:"query_template"`
	// TemplateNum is the template-type identifier matched against the
	// matcher's output when the syntax structure is not pre-known.
	TemplateNum         string `json:"template_num"`
	EntitiesAndTypesNum []int  `json:"entities_and_types_num"`
	// EntitiesAndTypesSelect is a digit string: one digit per entity slot
	// followed by one digit per type slot, each picking a linked candidate
	// group (1-based).
	EntitiesAndTypesSelect string   `json:"entities_and_types_select"`
	RelDirs                []string `json:"rel_dirs"`
	// RankRels holds one [direction, source, relation-type] triplet per
	// relation slot; source is "wiki", "rank_list_1" or "rank_list_2".
	RankRels [][]string `json:"rank_rels"`
	// AlternativeTemplates lists fallback templates as
	// [template number, slot-selection spec] pairs, tried in order.
	AlternativeTemplates [][]string `json:"alternative_templates"`
}

// TemplateLibrary is the immutable template mapping loaded at startup,
// iterated in numeric key order.
type TemplateLibrary struct {
	nums  []string
	byNum map[string]QueryTemplate
}

func LoadTemplates(path string) (*TemplateLibrary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return ParseTemplates(b)
}

func ParseTemplates(b []byte) (*TemplateLibrary, error) {
	byNum := map[string]QueryTemplate{}
	if err := json.Unmarshal(b, &byNum); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	nums := make([]string, 0, len(byNum))
	for num := range byNum {
		nums = append(nums, num)
	}
	sort.Slice(nums, func(i, j int) bool {
		a, errA := strconv.Atoi(nums[i])
		b, errB := strconv.Atoi(nums[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return nums[i] < nums[j]
	})
	return &TemplateLibrary{nums: nums, byNum: byNum}, nil
}

func (l *TemplateLibrary) Get(num string) (QueryTemplate, bool) {
	t, ok := l.byNum[num]
	return t, ok
}

func (l *TemplateLibrary) Len() int { return len(l.nums) }

// Each visits templates in numeric key order.
func (l *TemplateLibrary) Each(fn func(num string, t QueryTemplate) bool) {
	for _, num := range l.nums {
		if !fn(num, l.byNum[num]) {
			return
		}
	}
}
