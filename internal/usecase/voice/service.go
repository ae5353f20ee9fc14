package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"voiceletter/internal/domain"
	"voiceletter/internal/infra/metrics"
)

// ErrNoSamples возвращается, если на переобучение не передано ни одного
// непустого образца.
var ErrNoSamples = errors.New("нет образцов для обучения голоса")

// ErrNoProfile возвращается, если у пользователя нет обученного профиля.
var ErrNoProfile = errors.New("голосовой профиль не обучен")

const testSampleLimit = 3

// Service реализует обучение и проверку голосового профиля.
type Service struct {
	samples   domain.SampleRepo
	profiles  domain.ProfileRepo
	generator domain.VoiceGenerator
	builder   *Builder
	params    Params
	log       zerolog.Logger
}

var _ domain.VoiceService = (*Service)(nil)

// NewService создаёт сервис голосового профиля.
func NewService(samples domain.SampleRepo, profiles domain.ProfileRepo, generator domain.VoiceGenerator, params Params, logger zerolog.Logger) *Service {
	return &Service{
		samples:   samples,
		profiles:  profiles,
		generator: generator,
		builder:   NewBuilder(params),
		params:    params,
		log:       logger,
	}
}

// Retrain заменяет корпус пользователя и перестраивает профиль целиком.
// Профиль помечается обученным только при достаточном числе образцов.
func (s *Service) Retrain(ctx context.Context, userID int64, samples []domain.TrainingSample) (domain.VoiceProfile, error) {
	prepared := make([]domain.TrainingSample, 0, len(samples))
	for _, sample := range samples {
		text := strings.TrimSpace(sample.Text)
		if text == "" {
			continue
		}
		sample.UserID = userID
		sample.Text = text
		sample.WordCount, sample.SentenceCount = CountWordsAndSentences(text)
		prepared = append(prepared, sample)
	}
	if len(prepared) == 0 {
		return domain.VoiceProfile{}, ErrNoSamples
	}

	start := time.Now()
	saved, err := s.samples.ReplaceSamples(userID, prepared)
	if err != nil {
		return domain.VoiceProfile{}, fmt.Errorf("сохранение образцов: %w", err)
	}

	profile := s.builder.Build(userID, saved)
	stored, err := s.profiles.ReplaceProfile(profile)
	if err != nil {
		return domain.VoiceProfile{}, fmt.Errorf("сохранение профиля: %w", err)
	}
	metrics.VoiceTrainSeconds.Observe(time.Since(start).Seconds())
	s.log.Info().
		Int64("user", userID).
		Int("samples", stored.SampleCount).
		Bool("trained", stored.Trained).
		Msg("voice: профиль перестроен")
	return stored, nil
}

// Profile возвращает текущий профиль пользователя.
func (s *Service) Profile(userID int64) (domain.VoiceProfile, error) {
	profile, err := s.profiles.GetProfile(userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.VoiceProfile{}, ErrNoProfile
	}
	if err != nil {
		return domain.VoiceProfile{}, fmt.Errorf("получение профиля: %w", err)
	}
	return profile, nil
}

// TestVoice генерирует пробный текст на свободную тему и оценивает его
// соответствие профилю по шкале 0-100.
func (s *Service) TestVoice(ctx context.Context, userID int64, topic string) (domain.VoiceTestResult, error) {
	profile, err := s.Profile(userID)
	if err != nil {
		return domain.VoiceTestResult{}, err
	}
	if !profile.Trained {
		return domain.VoiceTestResult{}, ErrNoProfile
	}

	corpus, err := s.samples.ListSamples(userID)
	if err != nil {
		return domain.VoiceTestResult{}, fmt.Errorf("получение образцов: %w", err)
	}
	if len(corpus) > testSampleLimit {
		corpus = corpus[:testSampleLimit]
	}

	text, err := s.generator.Section(ctx, domain.GenerationInput{
		Kind:      domain.SectionVoiceTest,
		Profile:   profile,
		Samples:   corpus,
		TestTopic: topic,
	})
	if err != nil {
		return domain.VoiceTestResult{}, fmt.Errorf("пробная генерация: %w", err)
	}
	return domain.VoiceTestResult{
		Text:       text,
		MatchScore: s.generator.Match(profile, text),
	}, nil
}
