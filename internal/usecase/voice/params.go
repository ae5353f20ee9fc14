package voice

// Params содержит пороги обучения голосового профиля. Значения являются
// частью контракта: тесты и оценка соответствия зависят от точных границ.
type Params struct {
	// MinTrainingSamples — минимум образцов, при котором профиль
	// считается обученным.
	MinTrainingSamples int
	// TopToneMarkers ограничивает число тоновых меток профиля.
	TopToneMarkers int
	// TopTransitionWords ограничивает число переходных слов профиля.
	TopTransitionWords int
	// TopCommonPhrases ограничивает число характерных фраз профиля.
	TopCommonPhrases int
	// MinPhraseOccurrences — минимум повторов фразы в корпусе.
	MinPhraseOccurrences int
	// MinBigramLength и MinTrigramLength — минимальная длина фразы в
	// символах для окон из 2 и 3 слов.
	MinBigramLength  int
	MinTrigramLength int
	// AdvancedWordLength и IntermediateWordLength — границы средней длины
	// слова для уровней словарного запаса.
	AdvancedWordLength     float64
	IntermediateWordLength float64
	// DetailedParagraphSentences — граница предложений на абзац между
	// concise-direct и detailed-analytical.
	DetailedParagraphSentences float64
}

// DefaultParams возвращает пороги по умолчанию.
func DefaultParams() Params {
	return Params{
		MinTrainingSamples:         3,
		TopToneMarkers:             3,
		TopTransitionWords:         5,
		TopCommonPhrases:           5,
		MinPhraseOccurrences:       2,
		MinBigramLength:            6,
		MinTrigramLength:           9,
		AdvancedWordLength:         5.5,
		IntermediateWordLength:     4.0,
		DetailedParagraphSentences: 5,
	}
}
