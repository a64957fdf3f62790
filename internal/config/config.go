package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout"`
	MaxRequestBytes   int64    `json:"max_request_bytes"`
}

// CollaboratorConfig points at one external annotator service.
type CollaboratorConfig struct {
	BaseURL string   `json:"base_url"`
	Timeout Duration `json:"timeout,omitempty"`
}

type KBQAConfig struct {
	TemplatesPath string `json:"templates_path"`
	RankList1Path string `json:"rank_list_1_path"`
	RankList2Path string `json:"rank_list_2_path"`

	EntitiesToLeave int `json:"entities_to_leave"`
	RelsToLeave     int `json:"rels_to_leave"`

	// SyntaxStructureKnown is set when an upstream syntax parser already
	// decided the query template type, which relaxes slot-count filtering.
	SyntaxStructureKnown bool `json:"syntax_structure_known"`
	UseAltTemplates      bool `json:"use_alt_templates"`

	// API-requester modes wrap collaborator payloads in a single-element batch.
	UseWPAPIRequester bool `json:"use_wp_api_requester"`
	UseELAPIRequester bool `json:"use_el_api_requester"`

	// WikiParserMode selects the relation source: "http" (collaborator
	// service, default) or "neo4j" (local graph store).
	WikiParserMode string `json:"wiki_parser_mode,omitempty"`

	TemplateMatcher CollaboratorConfig `json:"template_matcher"`
	EntityLinker    CollaboratorConfig `json:"entity_linker"`
	RelRanker       CollaboratorConfig `json:"rel_ranker"`
	WikiParser      CollaboratorConfig `json:"wiki_parser"`
	HowToSearch     CollaboratorConfig `json:"howto_search"`

	// CacheTTL bounds the optional redis read-through cache for linker and
	// wiki-parser responses. The cache is active only when REDIS_ADDR is set.
	CacheTTL Duration `json:"cache_ttl,omitempty"`
}

type SelectorConfig struct {
	RulesPath string `json:"rules_path,omitempty"`
}

type Config struct {
	Env      string         `json:"env"`
	HTTP     HTTPConfig     `json:"http"`
	KBQA     KBQAConfig     `json:"kbqa"`
	Selector SelectorConfig `json:"selector"`
}
