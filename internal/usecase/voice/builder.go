package voice

import (
	"voiceletter/internal/domain"
)

// Builder агрегирует признаки корпуса в голосовой профиль.
type Builder struct {
	extractor *Extractor
	params    Params
}

// NewBuilder создаёт построитель профиля.
func NewBuilder(params Params) *Builder {
	return &Builder{extractor: NewExtractor(), params: params}
}

// Build строит профиль по упорядоченному корпусу. Результат детерминирован:
// один и тот же корпус в одном порядке даёт побайтово одинаковый профиль.
// Поле UpdatedAt проставляется при сохранении, не здесь.
func (b *Builder) Build(userID int64, samples []domain.TrainingSample) domain.VoiceProfile {
	profile := domain.VoiceProfile{
		UserID:      userID,
		SampleCount: len(samples),
		Trained:     len(samples) >= b.params.MinTrainingSamples,
	}
	if len(samples) == 0 {
		return profile
	}

	var toneOccurrences []string
	var transitionOccurrences []string
	texts := make([]string, 0, len(samples))

	n := float64(len(samples))
	for _, sample := range samples {
		f := b.extractor.Extract(sample.Text)
		profile.AvgSentenceLength += f.AvgSentenceLength / n
		profile.AvgParagraphLength += f.AvgParagraphLength / n
		profile.AvgWordLength += f.AvgWordLength / n
		profile.Punctuation.ExclamationRate += f.Punctuation.ExclamationRate / n
		profile.Punctuation.QuestionRate += f.Punctuation.QuestionRate / n
		profile.Punctuation.SemicolonRate += f.Punctuation.SemicolonRate / n
		profile.Punctuation.ColonRate += f.Punctuation.ColonRate / n
		profile.Punctuation.DashRate += f.Punctuation.DashRate / n
		profile.Writing.AdverbRate += f.Writing.AdverbRate / n
		profile.Writing.AdjectiveRate += f.Writing.AdjectiveRate / n
		profile.Writing.PassiveVoiceRate += f.Writing.PassiveVoiceRate / n

		toneOccurrences = append(toneOccurrences, f.ToneMarkers...)
		transitionOccurrences = append(transitionOccurrences, f.TransitionWords...)
		texts = append(texts, sample.Text)
	}
	profile.Writing.AvgWordLength = profile.AvgWordLength

	profile.ToneMarkers = rankByFrequency(toneOccurrences, b.params.TopToneMarkers)
	profile.TransitionWords = rankByFrequency(transitionOccurrences, b.params.TopTransitionWords)
	profile.CommonPhrases = ExtractCommonPhrases(texts, b.params)

	profile.VocabularyLevel = vocabularyLevel(profile.AvgWordLength, b.params)
	profile.StructurePattern = structurePattern(profile.AvgParagraphLength, b.params)
	return profile
}

func vocabularyLevel(avgWordLength float64, p Params) domain.VocabularyLevel {
	switch {
	case avgWordLength > p.AdvancedWordLength:
		return domain.VocabularyAdvanced
	case avgWordLength > p.IntermediateWordLength:
		return domain.VocabularyIntermediate
	default:
		return domain.VocabularySimple
	}
}

func structurePattern(avgParagraphLength float64, p Params) domain.StructurePattern {
	if avgParagraphLength > p.DetailedParagraphSentences {
		return domain.StructureDetailedAnalytical
	}
	return domain.StructureConciseDirect
}
