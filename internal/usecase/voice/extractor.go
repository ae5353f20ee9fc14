package voice

import (
	"regexp"
	"strings"
	"unicode"

	prose "github.com/jdkato/prose/v2"

	"voiceletter/internal/domain"
)

// transitionVocabulary — фиксированный словарь переходных слов. Порядок
// важен: он задаёт порядок первого появления при равных частотах.
var transitionVocabulary = []string{
	"however", "therefore", "moreover", "furthermore", "meanwhile",
	"consequently", "additionally", "nevertheless", "nonetheless",
	"similarly", "likewise", "instead", "ultimately", "specifically",
	"essentially", "basically", "overall", "finally", "importantly",
	"interestingly",
}

// Пороговые значения тоновых эвристик (на предложение).
const (
	toneExclamationThreshold = 0.1
	toneQuestionThreshold    = 0.1
	toneClauseThreshold      = 0.1
	toneFormalSentenceLen    = 22.0
	toneConversationalLen    = 12.0
)

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// Extractor вычисляет стилометрические признаки одного образца.
type Extractor struct{}

// NewExtractor создаёт экстрактор признаков.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract считает признаки текста. Текст без предложений возвращает
// нулевые признаки без ошибки.
func (e *Extractor) Extract(text string) domain.StyleFeatures {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return domain.StyleFeatures{}
	}

	paragraphs := splitParagraphs(text)

	var wordCount int
	var letterCount int
	for _, sentence := range sentences {
		for _, word := range Words(sentence) {
			wordCount++
			letterCount += len([]rune(word))
		}
	}

	features := domain.StyleFeatures{
		SentenceCount:  len(sentences),
		ParagraphCount: len(paragraphs),
		WordCount:      wordCount,
	}
	features.AvgSentenceLength = float64(wordCount) / float64(len(sentences))
	if len(paragraphs) > 0 {
		features.AvgParagraphLength = float64(len(sentences)) / float64(len(paragraphs))
	}
	if wordCount > 0 {
		features.AvgWordLength = float64(letterCount) / float64(wordCount)
	}

	perSentence := float64(len(sentences))
	features.Punctuation = domain.PunctuationStyle{
		ExclamationRate: float64(strings.Count(text, "!")) / perSentence,
		QuestionRate:    float64(strings.Count(text, "?")) / perSentence,
		SemicolonRate:   float64(strings.Count(text, ";")) / perSentence,
		ColonRate:       float64(strings.Count(text, ":")) / perSentence,
		DashRate:        float64(countDashes(text)) / perSentence,
	}

	adverbs, adjectives := tagPartsOfSpeech(text)
	features.Writing = domain.WritingStyle{
		AvgWordLength: features.AvgWordLength,
	}
	if wordCount > 0 {
		features.Writing.AdverbRate = float64(adverbs) / float64(wordCount)
		features.Writing.AdjectiveRate = float64(adjectives) / float64(wordCount)
	}

	features.ToneMarkers = detectToneMarkers(features)
	features.TransitionWords = detectTransitionWords(text)
	return features
}

// detectToneMarkers применяет фиксированные эвристики в неизменном
// порядке, чтобы результат был детерминированным.
func detectToneMarkers(f domain.StyleFeatures) []string {
	var markers []string
	if f.Punctuation.ExclamationRate > toneExclamationThreshold {
		markers = append(markers, "exciting")
	}
	if f.Punctuation.QuestionRate > toneQuestionThreshold {
		markers = append(markers, "inquisitive")
	}
	if f.AvgSentenceLength > toneFormalSentenceLen {
		markers = append(markers, "formal")
	}
	if f.AvgSentenceLength > 0 && f.AvgSentenceLength < toneConversationalLen {
		markers = append(markers, "conversational")
	}
	if f.Punctuation.SemicolonRate+f.Punctuation.ColonRate > toneClauseThreshold {
		markers = append(markers, "analytical")
	}
	return markers
}

func detectTransitionWords(text string) []string {
	present := make(map[string]bool)
	for _, sentence := range SplitSentences(text) {
		for _, word := range Words(sentence) {
			present[strings.ToLower(word)] = true
		}
	}
	var found []string
	for _, candidate := range transitionVocabulary {
		if present[candidate] {
			found = append(found, candidate)
		}
	}
	return found
}

func tagPartsOfSpeech(text string) (adverbs, adjectives int) {
	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return 0, 0
	}
	for _, tok := range doc.Tokens() {
		switch {
		case strings.HasPrefix(tok.Tag, "RB"):
			adverbs++
		case strings.HasPrefix(tok.Tag, "JJ"):
			adjectives++
		}
	}
	return adverbs, adjectives
}

// SplitSentences делит текст на предложения по терминаторам .!? —
// последовательность терминаторов считается одной границей.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	flush := func() {
		s := strings.TrimSpace(current.String())
		current.Reset()
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return sentences
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range paragraphSplit.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// Words возвращает слова предложения без обрамляющей пунктуации.
func Words(sentence string) []string {
	var words []string
	for _, field := range strings.Fields(sentence) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}

func countDashes(text string) int {
	return strings.Count(text, "—") + strings.Count(text, " - ") + strings.Count(text, "--")
}

// CountWordsAndSentences возвращает производные счётчики для хранения
// вместе с образцом.
func CountWordsAndSentences(text string) (words, sentences int) {
	for _, sentence := range SplitSentences(text) {
		sentences++
		words += len(Words(sentence))
	}
	return words, sentences
}
