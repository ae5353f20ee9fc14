package draft

import (
	"context"
	"sync"

	"voiceletter/internal/domain"
)

type sectionJob struct {
	index int
	input domain.GenerationInput
}

type sectionResult struct {
	text string
	err  error
}

// runSections выполняет генерацию секций с ограниченным параллелизмом.
// Результаты раскладываются по исходным индексам, поэтому порядок сборки
// не зависит от планировщика.
func (s *Service) runSections(ctx context.Context, jobs []sectionJob) []sectionResult {
	results := make([]sectionResult, len(jobs))
	sem := make(chan struct{}, s.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	for _, job := range jobs {
		wg.Add(1)
		go func(job sectionJob) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[job.index] = sectionResult{err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			text, err := s.generator.Section(ctx, job.input)
			results[job.index] = sectionResult{text: text, err: err}
		}(job)
	}

	wg.Wait()
	return results
}
