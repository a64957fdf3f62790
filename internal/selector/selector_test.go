package selector

import (
	"testing"

	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

func newTestSelector(t *testing.T) *Selector {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return New(log, DefaultRules())
}

func contains(skills []string, name string) bool {
	for _, s := range skills {
		if s == name {
			return true
		}
	}
	return false
}

func dialogWithTexts(texts ...string) Dialog {
	d := Dialog{}
	for _, text := range texts {
		d.Utterances = append(d.Utterances, Utterance{Text: text})
	}
	return d
}

func TestEmptyDialogGetsDummySkill(t *testing.T) {
	s := newTestSelector(t)
	skills := s.SelectSkills(Dialog{})
	if len(skills) != 1 || skills[0] != "dummy_skill" {
		t.Fatalf("expected only dummy_skill, got %v", skills)
	}
}

func TestNewPersonaRoutesToPersonalityCatcher(t *testing.T) {
	s := newTestSelector(t)
	skills := s.SelectSkills(dialogWithTexts("/new_persona grumpy robot"))
	if !contains(skills, "personality_catcher") {
		t.Fatalf("expected personality_catcher, got %v", skills)
	}
	if contains(skills, "program_y") {
		t.Fatalf("general chain must not run for /new_persona, got %v", skills)
	}
}

func TestDetectedIntentRoutesToIntentResponder(t *testing.T) {
	s := newTestSelector(t)
	d := dialogWithTexts("stop")
	d.Utterances[0].Annotations.IntentCatcher = map[string]IntentDetection{
		"exit": {Detected: 1},
	}
	skills := s.SelectSkills(d)
	if !contains(skills, "intent_responder") {
		t.Fatalf("expected intent_responder, got %v", skills)
	}
	if contains(skills, "program_y") {
		t.Fatalf("general chain must not run on a detected intent, got %v", skills)
	}
}

func TestIgnoredIntentFallsThroughToGeneralChain(t *testing.T) {
	s := newTestSelector(t)
	d := dialogWithTexts("yes")
	d.Utterances[0].Annotations.IntentCatcher = map[string]IntentDetection{
		"yes": {Detected: 1},
	}
	skills := s.SelectSkills(d)
	if contains(skills, "intent_responder") {
		t.Fatalf("ignored intent must not trigger the responder, got %v", skills)
	}
	if !contains(skills, "program_y") {
		t.Fatalf("expected general skills, got %v", skills)
	}
}

func TestSensitiveTopicNeedsQuestionDialogAct(t *testing.T) {
	s := newTestSelector(t)
	d := dialogWithTexts("what do you think about politics?")
	d.Utterances[0].Annotations.CobotTopics = TopicList{Text: []string{"Politics"}}
	d.Utterances[0].Annotations.CobotDialogact = DialogActs{Intents: []string{"Opinion_RequestIntent"}}
	skills := s.SelectSkills(d)
	if !contains(skills, "program_y_dangerous") {
		t.Fatalf("expected the dangerous chain, got %v", skills)
	}
	if contains(skills, "alice") {
		t.Fatalf("general chain must not run on sensitive content, got %v", skills)
	}

	// Without a question mark the dialog-act check does not fire.
	d2 := dialogWithTexts("i hate politics")
	d2.Utterances[0].Annotations.CobotTopics = TopicList{Text: []string{"Politics"}}
	d2.Utterances[0].Annotations.CobotDialogact = DialogActs{Intents: []string{"Opinion_RequestIntent"}}
	skills2 := s.SelectSkills(d2)
	if contains(skills2, "program_y_dangerous") {
		t.Fatalf("no question mark, dangerous chain must not run, got %v", skills2)
	}
}

func TestBlacklistedTopicRoutesToDangerousChain(t *testing.T) {
	s := newTestSelector(t)
	d := dialogWithTexts("tell me something awful")
	d.Utterances[0].Annotations.BlacklistedWords = BlacklistedWords{RestrictedTopics: []string{"weapons"}}
	skills := s.SelectSkills(d)
	if !contains(skills, "program_y_dangerous") || !contains(skills, "cobotqa") {
		t.Fatalf("expected dangerous skills, got %v", skills)
	}
}

func TestGeneralChainAndThematicSkills(t *testing.T) {
	s := newTestSelector(t)
	d := dialogWithTexts("i love movies")
	d.Utterances[0].Annotations.CobotTopics = TopicList{Text: []string{"Movies_TV"}}
	skills := s.SelectSkills(d)
	for _, want := range []string{"program_y", "cobotqa", "alice", "personal_info_skill", "movie_skill", "dummy_skill"} {
		if !contains(skills, want) {
			t.Fatalf("expected %s in %v", want, skills)
		}
	}
	if contains(skills, "tfidf_retrieval") {
		t.Fatalf("long-dialog skills need more than 7 utterances, got %v", skills)
	}
}

func TestMusicSkillNeedsLongerDialog(t *testing.T) {
	s := newTestSelector(t)
	d := dialogWithTexts("i like music")
	d.Utterances[0].Annotations.CobotTopics = TopicList{Text: []string{"Music"}}
	if skills := s.SelectSkills(d); contains(skills, "music_tfidf_retrieval") {
		t.Fatalf("music retrieval must wait for a longer dialog, got %v", skills)
	}

	d3 := dialogWithTexts("hi", "hello", "i like music")
	d3.Utterances[2].Annotations.CobotTopics = TopicList{Text: []string{"Music"}}
	if skills := s.SelectSkills(d3); !contains(skills, "music_tfidf_retrieval") {
		t.Fatalf("expected music retrieval after 3 utterances, got %v", skills)
	}
}

func TestLongDialogSkillsAfterSevenUtterances(t *testing.T) {
	s := newTestSelector(t)
	d := dialogWithTexts("a", "b", "c", "d", "e", "f", "g", "h")
	skills := s.SelectSkills(d)
	if !contains(skills, "tfidf_retrieval") || !contains(skills, "convert_reddit") {
		t.Fatalf("expected long-dialog skills, got %v", skills)
	}
}

func TestWeatherContinuation(t *testing.T) {
	s := newTestSelector(t)
	d := dialogWithTexts("what is the weather", "what city are you in", "moscow")
	d.Utterances[0].Hypotheses = []Hypothesis{{
		SkillName:                "weather_skill",
		WeatherCitySlotRequested: true,
	}}
	d.Utterances[1].ActiveSkill = "weather_skill"
	skills := s.SelectSkills(d)
	if !contains(skills, "weather_skill") {
		t.Fatalf("expected weather_skill to continue, got %v", skills)
	}
}

func TestCanContinueCarryover(t *testing.T) {
	s := newTestSelector(t)
	d := dialogWithTexts("tell me more", "here is more", "go on")
	d.Utterances[0].Hypotheses = []Hypothesis{
		{SkillName: "book_skill", CanContinue: CanContinue},
		{SkillName: "alice", CanContinue: CanNotContinue},
	}
	skills := s.SelectSkills(d)
	if !contains(skills, "book_skill") {
		t.Fatalf("expected book_skill carried over, got %v", skills)
	}
}

func TestMisheardASROverridesGeneralChain(t *testing.T) {
	s := newTestSelector(t)
	d := dialogWithTexts("hi", "hello", "mumble")
	d.Utterances[2].Annotations.ASR = ASRInfo{ASRConfidence: "very_low"}
	skills := s.SelectSkills(d)
	if len(skills) != 2 || skills[0] != "misheard_asr" || skills[1] != "dummy_skill" {
		t.Fatalf("expected misheard_asr plus dummy_skill only, got %v", skills)
	}

	// The greeting turn is exempt.
	d1 := dialogWithTexts("mumble")
	d1.Utterances[0].Annotations.ASR = ASRInfo{ASRConfidence: "very_low"}
	if skills := s.SelectSkills(d1); contains(skills, "misheard_asr") {
		t.Fatalf("first utterance must not route to misheard_asr, got %v", skills)
	}
}

func TestDummySkillAlwaysPresentAndDeduped(t *testing.T) {
	s := newTestSelector(t)
	skills := s.SelectSkills(dialogWithTexts("hello there"))
	if !contains(skills, "dummy_skill") {
		t.Fatalf("expected dummy_skill, got %v", skills)
	}
	seen := map[string]int{}
	for _, skill := range skills {
		seen[skill]++
		if seen[skill] > 1 {
			t.Fatalf("duplicate skill %s in %v", skill, skills)
		}
	}
}

func TestIsQuestion(t *testing.T) {
	s := newTestSelector(t)
	if !s.IsQuestion([]string{"do", "you", "like", "jazz"}) {
		t.Fatalf("auxiliary-first should be a question")
	}
	if !s.IsQuestion([]string{"tell", "me", "what", "happened"}) {
		t.Fatalf("wh-word anywhere should be a question")
	}
	if s.IsQuestion([]string{"i", "like", "jazz"}) {
		t.Fatalf("plain statement is not a question")
	}
	if s.IsQuestion(nil) {
		t.Fatalf("empty token list is not a question")
	}
}

func TestSelectBatch(t *testing.T) {
	s := newTestSelector(t)
	out := s.SelectBatch([]Dialog{dialogWithTexts("hello"), {}})
	if len(out) != 2 {
		t.Fatalf("expected per-dialog output, got %d", len(out))
	}
	if !contains(out[0], "program_y") || len(out[1]) != 1 {
		t.Fatalf("unexpected batch output: %v", out)
	}
}
