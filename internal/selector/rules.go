package selector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the word/topic/dialog-act sets and skill chains the selector
// routes with. Deployments can override any field via a YAML file.
type Rules struct {
	WHWords            []string `yaml:"wh_words"`
	FirstQuestionWords []string `yaml:"first_question_words"`

	SensitiveTopics []string `yaml:"sensitive_topics"`
	// Sensitive dialog acts apply only when the reply contains "?".
	SensitiveDialogActs []string `yaml:"sensitive_dialog_acts"`

	IgnoredIntents []string `yaml:"ignored_intents"`

	MovieDialogActs []string `yaml:"movie_dialog_acts"`
	MovieTopics     []string `yaml:"movie_topics"`
	BookDialogActs  []string `yaml:"book_dialog_acts"`
	BookTopics      []string `yaml:"book_topics"`

	DangerousSkills  []string `yaml:"dangerous_skills"`
	GeneralSkills    []string `yaml:"general_skills"`
	LongDialogSkills []string `yaml:"long_dialog_skills"`
}

func DefaultRules() Rules {
	return Rules{
		WHWords: []string{"what", "when", "where", "which", "who", "whom", "whose", "why", "how"},
		FirstQuestionWords: []string{
			"do", "have", "did", "had", "are", "is", "am", "will",
			"would", "should", "shall", "may", "might", "can", "could",
		},
		SensitiveTopics: []string{
			"Politics", "Celebrities", "Religion", "Sex_Profanity", "Sports",
			"News", "Psychology",
		},
		SensitiveDialogActs: []string{"Opinion_RequestIntent", "General_ChatIntent"},
		IgnoredIntents: []string{
			"opinion_request", "yes", "no", "tell_me_more", "doing_well",
			"weather_forecast_intent",
		},
		MovieDialogActs: []string{
			"Entertainment_Movies", "Sports", "Entertainment_Music", "Entertainment_General",
			"Phatic",
		},
		MovieTopics: []string{
			"Movies_TV", "Celebrities", "Art_Event", "Entertainment",
			"Fashion", "Games", "Music", "Sports",
		},
		BookDialogActs:  []string{"Entertainment_General", "Entertainment_Books"},
		BookTopics:      []string{"Entertainment", "Literature"},
		DangerousSkills: []string{"program_y_dangerous", "cobotqa"},
		GeneralSkills: []string{
			"program_y", "cobotqa", "alice", "christmas_new_year_skill",
			"personal_info_skill",
		},
		LongDialogSkills: []string{"tfidf_retrieval", "convert_reddit"},
	}
}

// LoadRules reads overrides from a YAML file on top of the defaults. An
// empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read selector rules: %w", err)
	}
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse selector rules: %w", err)
	}
	return rules, nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
