package draft

import (
	"fmt"
	"strings"

	"voiceletter/internal/domain"
)

// TrendIntensity переводит оценку тренда в словесную характеристику для
// шаблонного пояснения.
func TrendIntensity(score float64) string {
	switch {
	case score >= 8:
		return "exploding"
	case score >= 5:
		return "heating up"
	case score >= 2.5:
		return "gaining steam"
	default:
		return "on the rise"
	}
}

// ExplainTrend собирает шаблонное пояснение тренда. Текст не генерируется
// моделью и полностью определяется полями тренда.
func ExplainTrend(t domain.Trend) string {
	return fmt.Sprintf("%s is %s with %d recent articles (%.0f%% increase)",
		t.Topic, TrendIntensity(t.TrendScore), t.ArticleCount, t.Velocity)
}

// FormatDraft формирует текстовое превью черновика для ревью.
func FormatDraft(d domain.NewsletterDraft) string {
	var sections []string

	if title := strings.TrimSpace(d.Title); title != "" {
		sections = append(sections, title)
	}
	if intro := strings.TrimSpace(d.ContentIntro); intro != "" {
		sections = append(sections, intro)
	}

	for _, article := range d.Articles {
		var b strings.Builder
		b.WriteString("## " + article.Title)
		if commentary := strings.TrimSpace(article.Commentary); commentary != "" {
			b.WriteString("\n" + commentary)
		}
		for _, point := range article.BulletPoints {
			if point = strings.TrimSpace(point); point != "" {
				b.WriteString("\n- " + point)
			}
		}
		if article.URL != "" {
			b.WriteString("\n" + article.URL)
		}
		sections = append(sections, b.String())
	}

	if d.TrendsSection != nil {
		var b strings.Builder
		b.WriteString("## What's trending")
		if intro := strings.TrimSpace(d.TrendsSection.Intro); intro != "" {
			b.WriteString("\n" + intro)
		}
		for _, highlight := range d.TrendsSection.Trends {
			b.WriteString("\n- " + highlight.Explainer)
		}
		sections = append(sections, b.String())
	}

	if closing := strings.TrimSpace(d.Closing); closing != "" {
		sections = append(sections, closing)
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}
