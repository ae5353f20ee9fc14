package generator

import (
	"math"
	"strings"

	"voiceletter/internal/domain"
	"voiceletter/internal/usecase/voice"
)

// Весовые коэффициенты оценки соответствия. Часть контракта.
const (
	sentenceLengthWeight = 0.5
	commonPhrasesWeight  = 0.3
	transitionsWeight    = 0.2
)

// MatchScore сравнивает сгенерированный текст с профилем: относительное
// отклонение средней длины предложения, доля характерных фраз и доля
// переходных слов, свёрнутые в оценку 0-100.
func MatchScore(profile domain.VoiceProfile, text string) float64 {
	sentences := voice.SplitSentences(text)
	if len(sentences) == 0 {
		return 0
	}

	var lengthScore float64
	if profile.AvgSentenceLength > 0 {
		var words int
		for _, s := range sentences {
			words += len(voice.Words(s))
		}
		avg := float64(words) / float64(len(sentences))
		deviation := math.Abs(avg-profile.AvgSentenceLength) / profile.AvgSentenceLength
		lengthScore = math.Max(0, 1-deviation)
	}

	lower := strings.ToLower(text)
	phraseScore := presenceFraction(profile.CommonPhrases, lower)
	transitionScore := presenceFraction(profile.TransitionWords, lower)

	score := (sentenceLengthWeight*lengthScore +
		commonPhrasesWeight*phraseScore +
		transitionsWeight*transitionScore) * 100
	return math.Round(score*10) / 10
}

// presenceFraction возвращает долю значений, встречающихся в тексте.
// Пустой список считается полностью совпавшим.
func presenceFraction(values []string, lowerText string) float64 {
	if len(values) == 0 {
		return 1
	}
	found := 0
	for _, v := range values {
		if strings.Contains(lowerText, strings.ToLower(v)) {
			found++
		}
	}
	return float64(found) / float64(len(values))
}
