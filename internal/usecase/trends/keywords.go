package trends

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// keywordsPerItem — сколько ключевых слов извлекается из одного материала.
const keywordsPerItem = 5

// minTokenLength отсекает короткие токены: слова из 3 и менее символов не
// участвуют в детекции.
const minTokenLength = 4

var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "against": {}, "all": {},
	"also": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"between": {}, "both": {}, "could": {}, "does": {}, "doing": {},
	"down": {}, "during": {}, "each": {}, "from": {}, "further": {},
	"have": {}, "having": {}, "here": {}, "into": {}, "itself": {},
	"just": {}, "more": {}, "most": {}, "once": {}, "only": {},
	"other": {}, "over": {}, "same": {}, "should": {}, "some": {},
	"so": {}, "such": {}, "than": {}, "that": {}, "their": {},
	"them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "under": {}, "until": {},
	"very": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "will": {}, "with": {}, "would": {},
	"your": {}, "yours": {}, "says": {}, "said": {}, "year": {},
	"years": {}, "today": {}, "week": {}, "month": {}, "news": {},
}

// Tokenize разбивает текст на нормализованные токены: нижний регистр,
// только буквенно-цифровые последовательности, без стоп-слов и коротких
// слов.
func Tokenize(text string) []string {
	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len([]rune(tok)) < minTokenLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// RankKeywords выбирает до keywordsPerItem ключевых слов для каждого
// документа корпуса по TF-IDF. Вес IDF считается по всему переданному
// корпусу, поэтому результат зависит только от входного набора.
// Документы задаются уже токенизированным текстом.
func RankKeywords(docs [][]string) [][]string {
	docFrequency := make(map[string]int)
	for _, tokens := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			docFrequency[tok]++
		}
	}

	total := float64(len(docs))
	result := make([][]string, len(docs))
	for i, tokens := range docs {
		if len(tokens) == 0 {
			continue
		}
		counts := make(map[string]int)
		for _, tok := range tokens {
			counts[tok]++
		}
		type scored struct {
			token string
			score float64
		}
		ranked := make([]scored, 0, len(counts))
		for tok, c := range counts {
			tf := float64(c) / float64(len(tokens))
			idf := math.Log(total/(1+float64(docFrequency[tok]))) + 1
			ranked = append(ranked, scored{token: tok, score: tf * idf})
		}
		sort.Slice(ranked, func(a, b int) bool {
			if ranked[a].score != ranked[b].score {
				return ranked[a].score > ranked[b].score
			}
			return ranked[a].token < ranked[b].token
		})
		if len(ranked) > keywordsPerItem {
			ranked = ranked[:keywordsPerItem]
		}
		keywords := make([]string, 0, len(ranked))
		for _, s := range ranked {
			keywords = append(keywords, s.token)
		}
		result[i] = keywords
	}
	return result
}
