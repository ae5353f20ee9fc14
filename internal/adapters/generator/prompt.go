package generator

import (
	"fmt"
	"strings"

	"voiceletter/internal/domain"
)

// sampleExcerptRunes ограничивает длину выдержки из образца в промпте.
const sampleExcerptRunes = 600

// promptSampleLimit — сколько образцов попадает в few-shot часть промпта.
const promptSampleLimit = 3

// maxTokensFor возвращает бюджет токенов секции.
func maxTokensFor(kind domain.SectionKind) int {
	switch kind {
	case domain.SectionIntro:
		return 450
	case domain.SectionCommentary:
		return 300
	case domain.SectionTrends:
		return 400
	case domain.SectionClosing:
		return 400
	case domain.SectionVoiceTest:
		return 500
	default:
		return 300
	}
}

// BuildPrompt собирает инструкцию генерации: профиль целиком в явном
// числовом виде, выдержки образцов и задание секции.
func BuildPrompt(in domain.GenerationInput) string {
	var b strings.Builder
	p := in.Profile

	b.WriteString("You are ghostwriting for a newsletter author. Match their voice exactly: sentence rhythm, vocabulary, punctuation habits and favorite phrases. Never mention that you are imitating anyone.\n\n")

	b.WriteString("VOICE PROFILE\n")
	fmt.Fprintf(&b, "- Average sentence length: %.1f words\n", p.AvgSentenceLength)
	fmt.Fprintf(&b, "- Average paragraph length: %.1f sentences\n", p.AvgParagraphLength)
	fmt.Fprintf(&b, "- Average word length: %.1f characters\n", p.AvgWordLength)
	fmt.Fprintf(&b, "- Vocabulary level: %s\n", p.VocabularyLevel)
	fmt.Fprintf(&b, "- Structure: %s\n", p.StructurePattern)
	fmt.Fprintf(&b, "- Tone markers: %s\n", joinOrNone(p.ToneMarkers))
	fmt.Fprintf(&b, "- Common phrases: %s\n", joinOrNone(p.CommonPhrases))
	fmt.Fprintf(&b, "- Transition words: %s\n", joinOrNone(p.TransitionWords))
	fmt.Fprintf(&b, "- Punctuation per sentence: exclamation %.2f, question %.2f, semicolon %.2f, colon %.2f, dash %.2f\n",
		p.Punctuation.ExclamationRate, p.Punctuation.QuestionRate,
		p.Punctuation.SemicolonRate, p.Punctuation.ColonRate, p.Punctuation.DashRate)
	fmt.Fprintf(&b, "- Adverb rate: %.3f, adjective rate: %.3f\n", p.Writing.AdverbRate, p.Writing.AdjectiveRate)

	samples := in.Samples
	if len(samples) > promptSampleLimit {
		samples = samples[:promptSampleLimit]
	}
	if len(samples) > 0 {
		b.WriteString("\nWRITING SAMPLES\n")
		for i, sample := range samples {
			fmt.Fprintf(&b, "--- sample %d ---\n%s\n", i+1, clipRunes(sample.Text, sampleExcerptRunes))
		}
	}

	b.WriteString("\nTASK\n")
	b.WriteString(taskInstructions(in))
	return b.String()
}

func taskInstructions(in domain.GenerationInput) string {
	switch in.Kind {
	case domain.SectionIntro:
		return fmt.Sprintf(
			"Write the opening paragraph of today's newsletter issue (%s). Today's top topics: %s. The issue covers %d articles. Greet readers the way this author would and set up what follows. 2-4 sentences, no headline.",
			in.Date.Format("January 2, 2006"), joinOrNone(in.Topics), in.ArticleCount)
	case domain.SectionCommentary:
		var article domain.Article
		if in.Article != nil {
			article = *in.Article
		}
		points := article.BulletPoints
		if len(points) > 3 {
			points = points[:3]
		}
		return fmt.Sprintf(
			"Write this author's commentary on the article below. Add their perspective, do not retell the summary.\nTitle: %s\nSummary: %s\nKey points: %s\n2-3 sentences.",
			article.Title, article.Summary, joinOrNone(points))
	case domain.SectionTrends:
		return fmt.Sprintf(
			"Write a short lead-in paragraph for the \"what's trending\" section. Rising topics: %s. Do not list statistics, just frame why these matter right now. 1-2 sentences.",
			joinOrNone(in.TrendTopics))
	case domain.SectionClosing:
		return fmt.Sprintf(
			"Write the sign-off paragraph of the newsletter. Topics covered: %s. End the way this author ends their pieces. 1-3 sentences.",
			joinOrNone(in.Topics))
	case domain.SectionVoiceTest:
		return fmt.Sprintf(
			"Write a short standalone paragraph about: %s. This is a voice calibration test, write exactly as the author would.",
			in.TestTopic)
	default:
		return "Write one short paragraph in the author's voice."
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func clipRunes(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
