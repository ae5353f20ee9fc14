package trends

import (
	"sort"
	"time"

	"voiceletter/internal/domain"
)

// relatedArticlesLimit ограничивает число ссылок на материалы в тренде.
const relatedArticlesLimit = 5

// DetectParams задаёт пороги детекции. Значения — часть контракта.
type DetectParams struct {
	// MinArticleCount — минимум различных материалов текущего окна,
	// упоминающих ключевое слово.
	MinArticleCount int
	// MinVelocity — минимальный прирост в процентах.
	MinVelocity float64
	// CurrentWindowDays и HistoricalWindowDays — длины окон в сутках.
	CurrentWindowDays    float64
	HistoricalWindowDays float64
	// TopN обрезает итоговый список.
	TopN int
	// TTL — срок жизни тренда после обнаружения.
	TTL time.Duration
	// Now — момент детекции, проставляется в DetectedAt.
	Now time.Time
	// TimeWindow — человекочитаемая метка окна, например "24h".
	TimeWindow string
}

// Detect сравнивает частоты ключевых слов текущего окна с исторической
// базой и возвращает тренды по убыванию оценки. Ключевое слово становится
// трендом только при достаточном охвате материалов и приросте выше порога.
func Detect(current, historical []domain.Article, p DetectParams) []domain.Trend {
	if len(current) == 0 {
		return nil
	}

	docs := make([][]string, len(current))
	for i, article := range current {
		docs[i] = Tokenize(article.Title + " " + article.Summary)
	}
	keywordsByDoc := RankKeywords(docs)

	type keywordStat struct {
		articleIDs []string
		seenIDs    map[string]struct{}
		coKeywords []string
		seenCo     map[string]struct{}
	}
	stats := make(map[string]*keywordStat)
	var order []string

	for i, keywords := range keywordsByDoc {
		for _, kw := range keywords {
			st, ok := stats[kw]
			if !ok {
				st = &keywordStat{
					seenIDs: make(map[string]struct{}),
					seenCo:  make(map[string]struct{}),
				}
				stats[kw] = st
				order = append(order, kw)
			}
			id := current[i].ID
			if _, dup := st.seenIDs[id]; !dup {
				st.seenIDs[id] = struct{}{}
				st.articleIDs = append(st.articleIDs, id)
			}
			for _, co := range keywords {
				if co == kw {
					continue
				}
				if _, dup := st.seenCo[co]; dup {
					continue
				}
				st.seenCo[co] = struct{}{}
				st.coKeywords = append(st.coKeywords, co)
			}
		}
	}

	// Историческая база — сырые счётчики вхождений токенов.
	historicalCounts := make(map[string]int)
	for _, article := range historical {
		for _, tok := range Tokenize(article.Title + " " + article.Summary) {
			historicalCounts[tok]++
		}
	}

	var detected []domain.Trend
	for _, kw := range order {
		st := stats[kw]
		articleCount := len(st.articleIDs)
		if articleCount < p.MinArticleCount {
			continue
		}

		currentRate := float64(articleCount) / p.CurrentWindowDays
		historicalRate := float64(historicalCounts[kw]) / p.HistoricalWindowDays

		// При нулевой исторической базе прирост считается напрямую от
		// текущей частоты; разрыв на нулевой границе сохранён сознательно.
		var velocity float64
		if historicalRate > 0 {
			velocity = (currentRate - historicalRate) / historicalRate * 100
		} else {
			velocity = currentRate * 100
		}
		if velocity <= p.MinVelocity {
			continue
		}

		related := st.articleIDs
		if len(related) > relatedArticlesLimit {
			related = related[:relatedArticlesLimit]
		}
		coKeywords := st.coKeywords
		if len(coKeywords) > keywordsPerItem {
			coKeywords = coKeywords[:keywordsPerItem]
		}

		detected = append(detected, domain.Trend{
			Topic:           kw,
			Keywords:        coKeywords,
			ArticleCount:    articleCount,
			Velocity:        velocity,
			TrendScore:      clamp(velocity/10, 0, 10),
			DetectedAt:      p.Now,
			ExpiresAt:       p.Now.Add(p.TTL),
			RelatedArticles: related,
			TimeWindow:      p.TimeWindow,
		})
	}

	sort.Slice(detected, func(i, j int) bool {
		if detected[i].TrendScore != detected[j].TrendScore {
			return detected[i].TrendScore > detected[j].TrendScore
		}
		return detected[i].Topic < detected[j].Topic
	})
	if p.TopN > 0 && len(detected) > p.TopN {
		detected = detected[:p.TopN]
	}
	return detected
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
