package voice

import (
	"math"
	"reflect"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSplitSentences(t *testing.T) {
	cases := map[string]int{
		"One. Two! Three?":            3,
		"Trailing without terminator": 1,
		"Ellipsis... still one":       2,
		"":                            0,
		"!!!":                         0,
	}
	for input, expected := range cases {
		got := SplitSentences(input)
		if len(got) != expected {
			t.Fatalf("для %q ожидали %d предложений, получили %d", input, expected, len(got))
		}
	}
}

func TestWordsTrimsPunctuation(t *testing.T) {
	got := Words(`(Hello), "world" -- twice!`)
	expected := []string{"Hello", "world", "twice"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("ожидали %v, получили %v", expected, got)
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := NewExtractor()
	features := e.Extract("")
	if features.SentenceCount != 0 || features.WordCount != 0 {
		t.Fatalf("пустой текст должен давать нулевые признаки: %+v", features)
	}
	if features.AvgSentenceLength != 0 || features.AvgWordLength != 0 {
		t.Fatalf("пустой текст должен давать нулевые средние: %+v", features)
	}
}

func TestExtractPunctuationRates(t *testing.T) {
	e := NewExtractor()
	features := e.Extract("Really! Are you sure? Yes; and no: maybe.")

	if features.SentenceCount != 3 {
		t.Fatalf("ожидали 3 предложения, получили %d", features.SentenceCount)
	}
	third := 1.0 / 3.0
	if !almostEqual(features.Punctuation.ExclamationRate, third) {
		t.Fatalf("ожидали exclamation %f, получили %f", third, features.Punctuation.ExclamationRate)
	}
	if !almostEqual(features.Punctuation.QuestionRate, third) {
		t.Fatalf("ожидали question %f, получили %f", third, features.Punctuation.QuestionRate)
	}
	if !almostEqual(features.Punctuation.SemicolonRate, third) {
		t.Fatalf("ожидали semicolon %f, получили %f", third, features.Punctuation.SemicolonRate)
	}
	if !almostEqual(features.Punctuation.ColonRate, third) {
		t.Fatalf("ожидали colon %f, получили %f", third, features.Punctuation.ColonRate)
	}
}

func TestExtractToneMarkers(t *testing.T) {
	e := NewExtractor()
	// Короткие предложения с восклицаниями, вопросами и двоеточиями.
	features := e.Extract("Really! Are you sure? Yes; and no: maybe.")
	expected := []string{"exciting", "inquisitive", "conversational", "analytical"}
	if !reflect.DeepEqual(features.ToneMarkers, expected) {
		t.Fatalf("ожидали маркеры %v, получили %v", expected, features.ToneMarkers)
	}
}

func TestExtractFormalTone(t *testing.T) {
	e := NewExtractor()
	long := "The committee responsible for infrastructure decisions convened yesterday to deliberate on the proposed architectural changes affecting every downstream consumer of the platform and its integrations."
	features := e.Extract(long)
	if features.SentenceCount != 1 {
		t.Fatalf("ожидали 1 предложение, получили %d", features.SentenceCount)
	}
	found := false
	for _, marker := range features.ToneMarkers {
		if marker == "formal" {
			found = true
		}
	}
	if !found {
		t.Fatalf("ожидали маркер formal, получили %v", features.ToneMarkers)
	}
}

func TestDetectTransitionWordsOrder(t *testing.T) {
	e := NewExtractor()
	features := e.Extract("Therefore we ship. However, the tests come first. Meanwhile the build runs.")
	// Порядок соответствует словарю, не порядку появления в тексте.
	expected := []string{"however", "therefore", "meanwhile"}
	if !reflect.DeepEqual(features.TransitionWords, expected) {
		t.Fatalf("ожидали %v, получили %v", expected, features.TransitionWords)
	}
}

func TestExtractParagraphs(t *testing.T) {
	e := NewExtractor()
	text := "First. Second. Third.\n\nFourth. Fifth."
	features := e.Extract(text)
	if features.ParagraphCount != 2 {
		t.Fatalf("ожидали 2 абзаца, получили %d", features.ParagraphCount)
	}
	if !almostEqual(features.AvgParagraphLength, 2.5) {
		t.Fatalf("ожидали 2.5 предложения на абзац, получили %f", features.AvgParagraphLength)
	}
}

func TestCountWordsAndSentences(t *testing.T) {
	words, sentences := CountWordsAndSentences("One two three. Four five!")
	if words != 5 || sentences != 2 {
		t.Fatalf("ожидали 5 слов и 2 предложения, получили %d и %d", words, sentences)
	}
}
