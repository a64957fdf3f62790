package selector

import (
	"strings"

	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

// Selector decides which downstream skills should respond to a dialogue
// turn. It is a flat rule sequence over pre-computed annotations; the sets
// it checks come from Rules.
type Selector struct {
	log *logger.Logger

	whWords             map[string]bool
	firstQuestionWords  map[string]bool
	sensitiveTopics     map[string]bool
	sensitiveDialogActs map[string]bool
	ignoredIntents      map[string]bool
	movieDialogActs     map[string]bool
	movieTopics         map[string]bool
	bookDialogActs      map[string]bool
	bookTopics          map[string]bool

	dangerousSkills  []string
	generalSkills    []string
	longDialogSkills []string
}

func New(log *logger.Logger, rules Rules) *Selector {
	return &Selector{
		log:                 log.With("component", "RuleBasedSelector"),
		whWords:             toSet(rules.WHWords),
		firstQuestionWords:  toSet(rules.FirstQuestionWords),
		sensitiveTopics:     toSet(rules.SensitiveTopics),
		sensitiveDialogActs: toSet(rules.SensitiveDialogActs),
		ignoredIntents:      toSet(rules.IgnoredIntents),
		movieDialogActs:     toSet(rules.MovieDialogActs),
		movieTopics:         toSet(rules.MovieTopics),
		bookDialogActs:      toSet(rules.BookDialogActs),
		bookTopics:          toSet(rules.BookTopics),
		dangerousSkills:     rules.DangerousSkills,
		generalSkills:       rules.GeneralSkills,
		longDialogSkills:    rules.LongDialogSkills,
	}
}

// IsQuestion reports whether the tokenized reply looks like a question:
// auxiliary-first or containing a wh-word.
func (s *Selector) IsQuestion(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	if s.firstQuestionWords[tokens[0]] {
		return true
	}
	for _, tok := range tokens {
		if s.whWords[tok] {
			return true
		}
	}
	return false
}

// SelectBatch runs skill selection over a batch of dialog states.
func (s *Selector) SelectBatch(dialogs []Dialog) [][]string {
	out := make([][]string, len(dialogs))
	for i, d := range dialogs {
		out[i] = s.SelectSkills(d)
	}
	return out
}

// SelectSkills returns the deduplicated skill list for one dialog.
func (s *Selector) SelectSkills(d Dialog) []string {
	var skills []string
	if len(d.Utterances) == 0 {
		return []string{"dummy_skill"}
	}
	last := d.Utterances[len(d.Utterances)-1]
	reply := strings.ToLower(strings.ReplaceAll(last.Text, "'", " '"))

	intentDetected := false
	for intent, det := range last.Annotations.IntentCatcher {
		if !s.ignoredIntents[intent] && det.Detected == 1 {
			intentDetected = true
			break
		}
	}

	cobotTopics := toSet(last.Annotations.CobotTopics.Text)
	cobotDialogactTopics := toSet(last.Annotations.CobotDialogact.Topics)

	sensitiveTopicsDetected := intersects(cobotTopics, s.sensitiveTopics)
	sensitiveDialogActsDetected := false
	if strings.Contains(reply, "?") {
		for _, act := range last.Annotations.CobotDialogact.Intents {
			if s.sensitiveDialogActs[act] {
				sensitiveDialogActsDetected = true
				break
			}
		}
	}
	blistTopicsDetected := len(last.Annotations.BlacklistedWords.RestrictedTopics) > 0

	aboutMovies := intersects(cobotDialogactTopics, s.movieDialogActs) || intersects(cobotTopics, s.movieTopics)
	aboutMusic := cobotDialogactTopics["Entertainment_Music"] || cobotTopics["Music"]
	aboutBooks := intersects(cobotDialogactTopics, s.bookDialogActs) || intersects(cobotTopics, s.bookTopics)

	var prevUserUttHyp []Hypothesis
	if len(d.Utterances) >= 3 {
		prevUserUttHyp = d.Utterances[len(d.Utterances)-3].Hypotheses
	}
	var prevBotUtt Utterance
	if len(d.Utterances) >= 2 {
		prevBotUtt = d.Utterances[len(d.Utterances)-2]
	}

	weatherCitySlotRequested := false
	for _, hyp := range prevUserUttHyp {
		if hyp.SkillName == "weather_skill" && hyp.WeatherCitySlotRequested {
			weatherCitySlotRequested = true
			break
		}
	}
	aboutWeather := last.Annotations.IntentCatcher["weather_forecast_intent"].Detected == 1 ||
		(prevBotUtt.ActiveSkill == "weather_skill" && weatherCitySlotRequested)

	switch {
	case strings.Contains(last.Text, "/new_persona"):
		skills = append(skills, "personality_catcher")
	case intentDetected:
		skills = append(skills, "intent_responder")
	case blistTopicsDetected || (sensitiveTopicsDetected && sensitiveDialogActsDetected):
		skills = append(skills, s.dangerousSkills...)
	default:
		skills = append(skills, s.generalSkills...)

		if len(d.Utterances) > 7 {
			skills = append(skills, s.longDialogSkills...)
		}

		if aboutMovies {
			skills = append(skills, "movie_skill")
		}
		if aboutMusic && len(d.Utterances) > 2 {
			skills = append(skills, "music_tfidf_retrieval")
		}
		if aboutBooks {
			skills = append(skills, "book_skill")
		}
		if aboutWeather {
			skills = append(skills, "weather_skill")
		}

		// Skills that asked to continue get carried over.
		for _, hyp := range prevUserUttHyp {
			if hyp.CanContinue == CanContinue || hyp.CanContinue == MustContinue {
				skills = append(skills, hyp.SkillName)
			}
		}

		// A barely-heard utterance routes to the misheard-ASR skill alone,
		// except for the greeting turn.
		if len(d.Utterances) > 1 && last.Annotations.ASR.ASRConfidence == "very_low" {
			skills = []string{"misheard_asr"}
		}
	}

	skills = append(skills, "dummy_skill")
	return dedupe(skills)
}

func intersects(set map[string]bool, other map[string]bool) bool {
	for item := range set {
		if other[item] {
			return true
		}
	}
	return false
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
