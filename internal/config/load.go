package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		if strings.TrimSpace(u) == "" {
			d.Duration = 0
			return nil
		}
		dd, err := time.ParseDuration(u)
		if err != nil {
			return err
		}
		d.Duration = dd
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

// Service default listen addresses, matching the deployed compose ports.
var defaultAddrs = map[string]string{
	"kbqa":       ":8072",
	"selector":   ":3000",
	"imageskill": ":8070",
}

func defaultConfig(service string) *Config {
	addr := defaultAddrs[service]
	if addr == "" {
		addr = ":8080"
	}
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              addr,
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   4 << 20,
		},
		KBQA: KBQAConfig{
			TemplatesPath:   "config/sparql_queries.json",
			RankList1Path:   "config/rels_rank_list_1.tsv",
			RankList2Path:   "config/rels_rank_list_2.tsv",
			EntitiesToLeave: 5,
			RelsToLeave:     7,
			UseAltTemplates: true,
			WikiParserMode:  "http",
			TemplateMatcher: CollaboratorConfig{Timeout: Duration{Duration: 5 * time.Second}},
			EntityLinker:    CollaboratorConfig{Timeout: Duration{Duration: 5 * time.Second}},
			RelRanker:       CollaboratorConfig{Timeout: Duration{Duration: 5 * time.Second}},
			WikiParser:      CollaboratorConfig{Timeout: Duration{Duration: 10 * time.Second}},
			HowToSearch:     CollaboratorConfig{Timeout: Duration{Duration: 10 * time.Second}},
			CacheTTL:        Duration{Duration: 10 * time.Minute},
		},
	}
}

// Load reads the shared JSON config file and applies env overrides. The
// service name picks the default listen address and the env var prefix for
// the HTTP address override.
func Load(service string) (*Config, error) {
	cfg := defaultConfig(service)

	cfgPath := strings.TrimSpace(os.Getenv("DIALOG_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.json")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("LOG_MODE")); v != "" {
		cfg.Env = v
	}
	prefix := strings.ToUpper(service)
	if v := strings.TrimSpace(os.Getenv(prefix + "_HTTP_ADDR")); v != "" {
		cfg.HTTP.Addr = v
	}

	for envKey, dst := range map[string]*CollaboratorConfig{
		"TEMPLATE_MATCHER_URL": &cfg.KBQA.TemplateMatcher,
		"ENTITY_LINKER_URL":    &cfg.KBQA.EntityLinker,
		"REL_RANKER_URL":       &cfg.KBQA.RelRanker,
		"WIKI_PARSER_URL":      &cfg.KBQA.WikiParser,
		"HOWTO_SEARCH_URL":     &cfg.KBQA.HowToSearch,
	} {
		if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
			dst.BaseURL = v
		}
	}
	if v := strings.TrimSpace(os.Getenv("SELECTOR_RULES_PATH")); v != "" {
		cfg.Selector.RulesPath = v
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 4 << 20
	}
	if cfg.KBQA.EntitiesToLeave <= 0 {
		cfg.KBQA.EntitiesToLeave = 5
	}
	if cfg.KBQA.RelsToLeave <= 0 {
		cfg.KBQA.RelsToLeave = 7
	}
	if cfg.KBQA.WikiParserMode == "" {
		cfg.KBQA.WikiParserMode = "http"
	}
	return cfg, nil
}
