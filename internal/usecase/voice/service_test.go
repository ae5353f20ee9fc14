package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"voiceletter/internal/domain"
)

type stubSampleRepo struct {
	replaced []domain.TrainingSample
	listed   []domain.TrainingSample
}

func (s *stubSampleRepo) ReplaceSamples(userID int64, samples []domain.TrainingSample) ([]domain.TrainingSample, error) {
	s.replaced = samples
	return samples, nil
}
func (s *stubSampleRepo) ListSamples(int64) ([]domain.TrainingSample, error) { return s.listed, nil }
func (s *stubSampleRepo) DeleteSamples(int64) error                          { return nil }

type stubProfileRepo struct {
	profile domain.VoiceProfile
	getErr  error
	stored  domain.VoiceProfile
}

func (s *stubProfileRepo) ReplaceProfile(p domain.VoiceProfile) (domain.VoiceProfile, error) {
	s.stored = p
	return p, nil
}
func (s *stubProfileRepo) GetProfile(int64) (domain.VoiceProfile, error) {
	if s.getErr != nil {
		return domain.VoiceProfile{}, s.getErr
	}
	return s.profile, nil
}
func (s *stubProfileRepo) ListTrainedUserIDs() ([]int64, error) { return nil, nil }

type stubGenerator struct {
	text     string
	err      error
	captured domain.GenerationInput
}

func (g *stubGenerator) Section(_ context.Context, in domain.GenerationInput) (string, error) {
	g.captured = in
	return g.text, g.err
}
func (g *stubGenerator) Match(domain.VoiceProfile, string) float64 { return 87.5 }

func newTestService(samples *stubSampleRepo, profiles *stubProfileRepo, gen *stubGenerator) *Service {
	return NewService(samples, profiles, gen, DefaultParams(), zerolog.Nop())
}

func TestRetrainSkipsEmptySamples(t *testing.T) {
	samples := &stubSampleRepo{}
	profiles := &stubProfileRepo{}
	svc := newTestService(samples, profiles, &stubGenerator{})

	profile, err := svc.Retrain(context.Background(), 7, []domain.TrainingSample{
		{Text: "A real sample with words."},
		{Text: "   "},
		{Text: "Another real sample with words."},
	})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(samples.replaced) != 2 {
		t.Fatalf("ожидали 2 сохранённых образца, получили %d", len(samples.replaced))
	}
	if profile.Trained {
		t.Fatalf("2 образца не должны давать обученный профиль")
	}
	if samples.replaced[0].WordCount == 0 || samples.replaced[0].SentenceCount == 0 {
		t.Fatalf("счётчики образца должны быть заполнены: %+v", samples.replaced[0])
	}
}

func TestRetrainAllEmpty(t *testing.T) {
	svc := newTestService(&stubSampleRepo{}, &stubProfileRepo{}, &stubGenerator{})
	_, err := svc.Retrain(context.Background(), 7, []domain.TrainingSample{{Text: ""}, {Text: "  "}})
	if !errors.Is(err, ErrNoSamples) {
		t.Fatalf("ожидали ErrNoSamples, получили %v", err)
	}
}

func TestRetrainTrainedAtThreshold(t *testing.T) {
	profiles := &stubProfileRepo{}
	svc := newTestService(&stubSampleRepo{}, profiles, &stubGenerator{})

	profile, err := svc.Retrain(context.Background(), 7, []domain.TrainingSample{
		{Text: "First sample, long enough to count."},
		{Text: "Second sample, also long enough."},
		{Text: "Third sample completes the corpus."},
	})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !profile.Trained {
		t.Fatalf("3 образца должны давать обученный профиль")
	}
	if profiles.stored.UserID != 7 {
		t.Fatalf("профиль должен быть сохранён для пользователя 7, получили %d", profiles.stored.UserID)
	}
}

func TestProfileNotFound(t *testing.T) {
	profiles := &stubProfileRepo{getErr: domain.ErrProfileNotFound}
	svc := newTestService(&stubSampleRepo{}, profiles, &stubGenerator{})
	_, err := svc.Profile(7)
	if !errors.Is(err, ErrNoProfile) {
		t.Fatalf("ожидали ErrNoProfile, получили %v", err)
	}
}

func TestTestVoiceRequiresTrainedProfile(t *testing.T) {
	profiles := &stubProfileRepo{profile: domain.VoiceProfile{UserID: 7, Trained: false}}
	svc := newTestService(&stubSampleRepo{}, profiles, &stubGenerator{})
	_, err := svc.TestVoice(context.Background(), 7, "remote work")
	if !errors.Is(err, ErrNoProfile) {
		t.Fatalf("ожидали ErrNoProfile, получили %v", err)
	}
}

func TestTestVoice(t *testing.T) {
	profiles := &stubProfileRepo{profile: domain.VoiceProfile{UserID: 7, Trained: true}}
	samples := &stubSampleRepo{listed: []domain.TrainingSample{
		{ID: 1, Text: "one"}, {ID: 2, Text: "two"}, {ID: 3, Text: "three"}, {ID: 4, Text: "four"},
	}}
	gen := &stubGenerator{text: "A short generated paragraph."}
	svc := newTestService(samples, profiles, gen)

	result, err := svc.TestVoice(context.Background(), 7, "remote work")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if result.Text != "A short generated paragraph." {
		t.Fatalf("ожидали текст генератора, получили %q", result.Text)
	}
	if result.MatchScore != 87.5 {
		t.Fatalf("ожидали оценку 87.5, получили %f", result.MatchScore)
	}
	if gen.captured.Kind != domain.SectionVoiceTest {
		t.Fatalf("ожидали секцию free-topic-test, получили %s", gen.captured.Kind)
	}
	if len(gen.captured.Samples) != 3 {
		t.Fatalf("в промпт должно попадать не больше 3 образцов, получили %d", len(gen.captured.Samples))
	}
	if gen.captured.TestTopic != "remote work" {
		t.Fatalf("ожидали тему remote work, получили %q", gen.captured.TestTopic)
	}
}

func TestTestVoiceGeneratorFailure(t *testing.T) {
	profiles := &stubProfileRepo{profile: domain.VoiceProfile{UserID: 7, Trained: true}}
	gen := &stubGenerator{err: errors.New("недоступен")}
	svc := newTestService(&stubSampleRepo{}, profiles, gen)
	if _, err := svc.TestVoice(context.Background(), 7, "remote work"); err == nil {
		t.Fatalf("ожидали ошибку генератора")
	}
}
