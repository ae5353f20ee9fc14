package voice

import (
	"sort"
	"strings"
)

type phraseStat struct {
	phrase    string
	count     int
	firstSeen int
}

// ExtractCommonPhrases собирает характерные фразы корпуса скользящими
// окнами из 2 и 3 слов по каждому предложению. Фраза попадает в результат
// при достаточном числе повторов и минимальной длине, ранжирование по
// частоте, при равенстве — по порядку первого появления.
func ExtractCommonPhrases(texts []string, p Params) []string {
	stats := make(map[string]*phraseStat)
	seq := 0

	note := func(phrase string, minLen int) {
		if len(phrase) < minLen {
			return
		}
		if st, ok := stats[phrase]; ok {
			st.count++
			return
		}
		stats[phrase] = &phraseStat{phrase: phrase, count: 1, firstSeen: seq}
		seq++
	}

	for _, text := range texts {
		for _, sentence := range SplitSentences(text) {
			words := Words(strings.ToLower(sentence))
			for i := 0; i+1 < len(words); i++ {
				note(words[i]+" "+words[i+1], p.MinBigramLength)
			}
			for i := 0; i+2 < len(words); i++ {
				note(words[i]+" "+words[i+1]+" "+words[i+2], p.MinTrigramLength)
			}
		}
	}

	var ranked []*phraseStat
	for _, st := range stats {
		if st.count >= p.MinPhraseOccurrences {
			ranked = append(ranked, st)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})

	if len(ranked) > p.TopCommonPhrases {
		ranked = ranked[:p.TopCommonPhrases]
	}
	phrases := make([]string, 0, len(ranked))
	for _, st := range ranked {
		phrases = append(phrases, st.phrase)
	}
	return phrases
}

// rankByFrequency ранжирует значения по частоте с разрешением ничьих по
// первому появлению и обрезает до limit.
func rankByFrequency(occurrences []string, limit int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, v := range occurrences {
		if _, ok := counts[v]; !ok {
			firstSeen[v] = order
			order++
		}
		counts[v]++
	}

	unique := make([]string, 0, len(counts))
	for v := range counts {
		unique = append(unique, v)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return firstSeen[unique[i]] < firstSeen[unique[j]]
	})

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}
