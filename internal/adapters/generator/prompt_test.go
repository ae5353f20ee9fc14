package generator

import (
	"strings"
	"testing"
	"time"

	"voiceletter/internal/domain"
)

func testProfile() domain.VoiceProfile {
	return domain.VoiceProfile{
		AvgSentenceLength:  17.5,
		AvgParagraphLength: 3.2,
		AvgWordLength:      4.8,
		VocabularyLevel:    domain.VocabularyIntermediate,
		StructurePattern:   domain.StructureConciseDirect,
		ToneMarkers:        []string{"conversational", "exciting"},
		CommonPhrases:      []string{"here's the thing"},
		TransitionWords:    []string{"however", "meanwhile"},
	}
}

func TestBuildPromptIncludesProfile(t *testing.T) {
	prompt := BuildPrompt(domain.GenerationInput{
		Kind:         domain.SectionIntro,
		Profile:      testProfile(),
		Date:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Topics:       []string{"ai", "infrastructure"},
		ArticleCount: 4,
	})

	for _, expected := range []string{
		"Average sentence length: 17.5 words",
		"Average paragraph length: 3.2 sentences",
		"Vocabulary level: intermediate",
		"Structure: concise-direct",
		"conversational, exciting",
		"here's the thing",
		"however, meanwhile",
		"March 1, 2026",
		"ai, infrastructure",
		"covers 4 articles",
	} {
		if !strings.Contains(prompt, expected) {
			t.Fatalf("промпт должен содержать %q:\n%s", expected, prompt)
		}
	}
}

func TestBuildPromptClipsSamples(t *testing.T) {
	long := strings.Repeat("a", sampleExcerptRunes+100)
	prompt := BuildPrompt(domain.GenerationInput{
		Kind:    domain.SectionClosing,
		Profile: testProfile(),
		Samples: []domain.TrainingSample{{Text: long}},
	})
	if strings.Contains(prompt, long) {
		t.Fatalf("выдержка образца не обрезана")
	}
	if !strings.Contains(prompt, strings.Repeat("a", sampleExcerptRunes)) {
		t.Fatalf("обрезанная выдержка должна присутствовать")
	}
}

func TestBuildPromptSampleLimit(t *testing.T) {
	samples := []domain.TrainingSample{
		{Text: "first"}, {Text: "second"}, {Text: "third"}, {Text: "fourth"},
	}
	prompt := BuildPrompt(domain.GenerationInput{
		Kind:    domain.SectionClosing,
		Profile: testProfile(),
		Samples: samples,
	})
	if strings.Contains(prompt, "sample 4") {
		t.Fatalf("в промпт должно попадать не больше %d образцов", promptSampleLimit)
	}
	if !strings.Contains(prompt, "sample 3") {
		t.Fatalf("третий образец должен присутствовать")
	}
}

func TestMaxTokensBudgets(t *testing.T) {
	budgets := map[domain.SectionKind]int{
		domain.SectionIntro:      450,
		domain.SectionCommentary: 300,
		domain.SectionTrends:     400,
		domain.SectionClosing:    400,
		domain.SectionVoiceTest:  500,
	}
	for kind, expected := range budgets {
		if got := maxTokensFor(kind); got != expected {
			t.Fatalf("для %s ожидали бюджет %d, получили %d", kind, expected, got)
		}
	}
	if got := maxTokensFor(domain.SectionKind("unknown")); got != 300 {
		t.Fatalf("неизвестная секция должна получать бюджет 300, получили %d", got)
	}
}

func TestTaskInstructionsCommentary(t *testing.T) {
	article := domain.Article{
		Title:        "Go 1.25 released",
		Summary:      "The release focuses on runtime improvements.",
		BulletPoints: []string{"faster GC", "smaller binaries", "new vet checks", "extra point"},
	}
	prompt := BuildPrompt(domain.GenerationInput{
		Kind:    domain.SectionCommentary,
		Profile: testProfile(),
		Article: &article,
	})
	if !strings.Contains(prompt, "Go 1.25 released") {
		t.Fatalf("задание должно содержать заголовок материала")
	}
	if strings.Contains(prompt, "extra point") {
		t.Fatalf("в задание попадает не больше трёх ключевых пунктов")
	}
}
