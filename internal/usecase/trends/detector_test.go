package trends

import (
	"math"
	"testing"
	"time"

	"voiceletter/internal/domain"
)

func articlesWithTitle(title string, count int) []domain.Article {
	articles := make([]domain.Article, 0, count)
	for i := 0; i < count; i++ {
		articles = append(articles, domain.Article{
			ID:    title + "-" + string(rune('a'+i)),
			Title: title,
		})
	}
	return articles
}

func defaultDetectParams(now time.Time) DetectParams {
	return DetectParams{
		MinArticleCount:      3,
		MinVelocity:          20,
		CurrentWindowDays:    1,
		HistoricalWindowDays: 30,
		TopN:                 10,
		TTL:                  7 * 24 * time.Hour,
		Now:                  now,
		TimeWindow:           "24h",
	}
}

func TestDetectBelowMinArticles(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	trends := Detect(articlesWithTitle("quantum", 2), nil, defaultDetectParams(now))
	if len(trends) != 0 {
		t.Fatalf("2 материала не должны давать тренд: %v", trends)
	}
}

func TestDetectZeroHistoricalBase(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	trends := Detect(articlesWithTitle("quantum", 3), nil, defaultDetectParams(now))
	if len(trends) != 1 {
		t.Fatalf("ожидали 1 тренд, получили %d", len(trends))
	}
	trend := trends[0]
	if trend.Topic != "quantum" {
		t.Fatalf("ожидали тему quantum, получили %s", trend.Topic)
	}
	// Без исторической базы прирост считается от текущей частоты: 3/1*100.
	if math.Abs(trend.Velocity-300) > 1e-9 {
		t.Fatalf("ожидали velocity 300, получили %f", trend.Velocity)
	}
	if trend.TrendScore != 10 {
		t.Fatalf("оценка должна упираться в потолок 10, получили %f", trend.TrendScore)
	}
	if trend.ArticleCount != 3 {
		t.Fatalf("ожидали 3 материала, получили %d", trend.ArticleCount)
	}
	if !trend.DetectedAt.Equal(now) {
		t.Fatalf("ожидали detected_at %v, получили %v", now, trend.DetectedAt)
	}
	if !trend.ExpiresAt.Equal(now.Add(7 * 24 * time.Hour)) {
		t.Fatalf("тренд должен истекать через 7 суток, получили %v", trend.ExpiresAt)
	}
	if trend.TimeWindow != "24h" {
		t.Fatalf("ожидали окно 24h, получили %s", trend.TimeWindow)
	}
}

func TestDetectVelocityAgainstHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Историческая частота 60/30=2 в сутки, текущая 3: прирост 50%.
	historical := articlesWithTitle("quantum", 60)
	trends := Detect(articlesWithTitle("quantum", 3), historical, defaultDetectParams(now))
	if len(trends) != 1 {
		t.Fatalf("ожидали 1 тренд, получили %d", len(trends))
	}
	if math.Abs(trends[0].Velocity-50) > 1e-9 {
		t.Fatalf("ожидали velocity 50, получили %f", trends[0].Velocity)
	}
	if math.Abs(trends[0].TrendScore-5) > 1e-9 {
		t.Fatalf("ожидали оценку 5, получили %f", trends[0].TrendScore)
	}
}

func TestDetectBelowVelocityThreshold(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Историческая частота равна текущей: прирост 0, порог не пройден.
	historical := articlesWithTitle("quantum", 90)
	trends := Detect(articlesWithTitle("quantum", 3), historical, defaultDetectParams(now))
	if len(trends) != 0 {
		t.Fatalf("нулевой прирост не должен давать тренд: %v", trends)
	}
}

func TestDetectOrderingAndTopN(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := append(articlesWithTitle("quantum", 4), articlesWithTitle("fusion", 3)...)

	params := defaultDetectParams(now)
	trends := Detect(current, nil, params)
	if len(trends) != 2 {
		t.Fatalf("ожидали 2 тренда, получили %d", len(trends))
	}
	// Обе оценки упираются в потолок, ничья разрешается по алфавиту.
	if trends[0].Topic != "fusion" || trends[1].Topic != "quantum" {
		t.Fatalf("ожидали порядок [fusion quantum], получили [%s %s]", trends[0].Topic, trends[1].Topic)
	}

	params.TopN = 1
	trends = Detect(current, nil, params)
	if len(trends) != 1 || trends[0].Topic != "fusion" {
		t.Fatalf("TopN=1 должен оставить только fusion, получили %v", trends)
	}
}

func TestDetectRelatedArticlesCapped(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	trends := Detect(articlesWithTitle("quantum", 8), nil, defaultDetectParams(now))
	if len(trends) != 1 {
		t.Fatalf("ожидали 1 тренд, получили %d", len(trends))
	}
	if len(trends[0].RelatedArticles) != relatedArticlesLimit {
		t.Fatalf("ожидали %d связанных материалов, получили %d", relatedArticlesLimit, len(trends[0].RelatedArticles))
	}
	if trends[0].ArticleCount != 8 {
		t.Fatalf("счётчик материалов не должен обрезаться: %d", trends[0].ArticleCount)
	}
}

func TestDetectEmptyCurrentWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if trends := Detect(nil, articlesWithTitle("quantum", 10), defaultDetectParams(now)); trends != nil {
		t.Fatalf("пустое текущее окно не должно давать тренды: %v", trends)
	}
}
