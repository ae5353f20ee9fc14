package generator

import (
	"context"
	"fmt"
	"strings"

	"voiceletter/internal/domain"
)

// Template — детерминированный генератор без внешних вызовов. Используется
// в деградированном режиме и в тестах.
type Template struct{}

var _ domain.VoiceGenerator = (*Template)(nil)

// NewTemplate создаёт шаблонный генератор.
func NewTemplate() *Template {
	return &Template{}
}

// Section собирает секцию из фиксированных шаблонов по полям запроса.
func (t *Template) Section(_ context.Context, in domain.GenerationInput) (string, error) {
	switch in.Kind {
	case domain.SectionIntro:
		return fmt.Sprintf("Welcome to the %s issue. Today we cover %d stories, with a focus on %s.",
			in.Date.Format("January 2"), in.ArticleCount, joinOrNone(in.Topics)), nil
	case domain.SectionCommentary:
		if in.Article == nil {
			return "", fmt.Errorf("template generator: нет материала для комментария")
		}
		return fmt.Sprintf("Worth your time: %s. %s", in.Article.Title, clipRunes(in.Article.Summary, 200)), nil
	case domain.SectionTrends:
		return fmt.Sprintf("A few topics are picking up speed this week: %s.", joinOrNone(in.TrendTopics)), nil
	case domain.SectionClosing:
		return fmt.Sprintf("That's it for today. More on %s next time.", joinOrNone(in.Topics)), nil
	case domain.SectionVoiceTest:
		return fmt.Sprintf("A few thoughts on %s.", strings.TrimSpace(in.TestTopic)), nil
	default:
		return "", fmt.Errorf("template generator: неизвестный тип секции %q", in.Kind)
	}
}

// Match использует общий алгоритм оценки соответствия.
func (t *Template) Match(profile domain.VoiceProfile, text string) float64 {
	return MatchScore(profile, text)
}
