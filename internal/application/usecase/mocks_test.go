package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sysguard/seqscore/internal/domain/model"
	"github.com/sysguard/seqscore/internal/domain/port"
	"github.com/sysguard/seqscore/internal/domain/service"
	"github.com/sysguard/seqscore/pkg/events"
)

// --- Mock implementations ---

type mockAssessmentRepository struct {
	saveFunc    func(ctx context.Context, assessment *model.SequenceAssessment) error
	saveAllFunc func(ctx context.Context, assessments []*model.SequenceAssessment) error
	saved       map[uuid.UUID]*model.SequenceAssessment
	order       []uuid.UUID
	mu          sync.Mutex
}

func newMockRepo() *mockAssessmentRepository {
	return &mockAssessmentRepository{saved: make(map[uuid.UUID]*model.SequenceAssessment)}
}

func (m *mockAssessmentRepository) Save(ctx context.Context, a *model.SequenceAssessment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[a.ID()] = a
	m.order = append(m.order, a.ID())
	return nil
}

func (m *mockAssessmentRepository) SaveAll(ctx context.Context, as []*model.SequenceAssessment) error {
	if m.saveAllFunc != nil {
		return m.saveAllFunc(ctx, as)
	}
	for _, a := range as {
		if err := m.Save(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockAssessmentRepository) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.SequenceAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.saved[id]
	if !ok || a.TenantID() != tenantID {
		return nil, service.ErrAssessmentNotFound
	}
	return a, nil
}

func (m *mockAssessmentRepository) FindBySampleID(_ context.Context, tenantID uuid.UUID, sampleID string, limit, offset int) ([]*model.SequenceAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.SequenceAssessment
	for i := len(m.order) - 1; i >= 0; i-- {
		a := m.saved[m.order[i]]
		if a.TenantID() == tenantID && a.SampleID() == sampleID {
			out = append(out, a)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockEventPublisher struct {
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
	published   []events.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, len(m.published))
	for i, e := range m.published {
		out[i] = e.EventType()
	}
	return out
}

// mockScorer returns probabilities keyed by sequence, defaultP otherwise.
type mockScorer struct {
	err      error
	bySeq    map[string]float64
	seen     []string
	defaultP float64
}

func (m *mockScorer) Evaluate(_ context.Context, sequence string) (port.ScoreResult, error) {
	m.seen = append(m.seen, sequence)
	if m.err != nil {
		return port.ScoreResult{}, m.err
	}
	p, ok := m.bySeq[sequence]
	if !ok {
		p = m.defaultP
	}
	return port.ScoreResult{
		ArtifactPath:   "files/random_forest_model_5",
		Probability:    p,
		TokenCount:     len(strings.Split(sequence, ",")),
		ExpectedLength: 5,
	}, nil
}

// upperEncoder joins uppercased call names so tests can predict sequences.
type upperEncoder struct{}

func (upperEncoder) Encode(calls []string) string {
	return strings.ToUpper(strings.Join(calls, ","))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
