package selector

// Dialogue continuation markers attached to skill hypotheses.
const (
	CanNotContinue = "no"
	CanContinue    = "can"
	MustContinue   = "must"
)

type Hypothesis struct {
	SkillName   string `json:"skill_name"`
	CanContinue string `json:"can_continue"`

	WeatherCitySlotRequested bool `json:"weather_forecast_interaction_city_slot_requested"`
}

type IntentDetection struct {
	Detected int `json:"detected"`
}

type TopicList struct {
	Text []string `json:"text"`
}

type DialogActs struct {
	Intents []string `json:"intents"`
	Topics  []string `json:"topics"`
}

type BlacklistedWords struct {
	RestrictedTopics []string `json:"restricted_topics"`
}

type ASRInfo struct {
	ASRConfidence string `json:"asr_confidence"`
}

// Annotations are the pre-computed per-utterance annotator outputs the
// selector rules read. Missing annotators decode to zero values.
type Annotations struct {
	IntentCatcher    map[string]IntentDetection `json:"intent_catcher"`
	CobotTopics      TopicList                  `json:"cobot_topics"`
	CobotDialogact   DialogActs                 `json:"cobot_dialogact"`
	BlacklistedWords BlacklistedWords           `json:"blacklisted_words"`
	ASR              ASRInfo                    `json:"asr"`
}

type Utterance struct {
	Text        string       `json:"text"`
	Annotations Annotations  `json:"annotations"`
	Hypotheses  []Hypothesis `json:"hypotheses"`
	ActiveSkill string       `json:"active_skill"`
}

type Dialog struct {
	Utterances []Utterance `json:"utterances"`
}
