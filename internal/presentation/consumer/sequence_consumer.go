// Package consumer scores syscall sequences delivered over Kafka.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sysguard/seqscore/internal/application/dto"
	"github.com/sysguard/seqscore/pkg/kafka"
)

// SequenceScorer is the use case fed by the consumer.
type SequenceScorer interface {
	Execute(ctx context.Context, req dto.ScoreSequenceRequest) (dto.AssessmentResponse, error)
}

// SequenceMessage is the JSON value of an ingested message. Sequence is a
// pointer so a missing field can be told apart from the empty sequence.
type SequenceMessage struct {
	Sequence *string `json:"sequence"`
	SampleID string  `json:"sample_id"`
	TenantID string  `json:"tenant_id"`
}

// SequenceConsumer turns ingested messages into ScoreSequence calls.
type SequenceConsumer struct {
	scorer SequenceScorer
	logger *slog.Logger
}

// NewSequenceConsumer creates a new SequenceConsumer.
func NewSequenceConsumer(scorer SequenceScorer, logger *slog.Logger) *SequenceConsumer {
	return &SequenceConsumer{scorer: scorer, logger: logger}
}

// Handle is a kafka.Handler. Malformed messages are logged and acknowledged;
// scoring failures are returned so the message stays uncommitted.
func (c *SequenceConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	req, err := decode(msg.Value)
	if err != nil {
		c.logger.WarnContext(ctx, "dropping malformed sequence message",
			slog.String("key", string(msg.Key)),
			slog.String("error", err.Error()),
		)
		return nil
	}

	resp, err := c.scorer.Execute(ctx, req)
	if err != nil {
		return fmt.Errorf("scoring sample %q: %w", req.SampleID, err)
	}

	c.logger.InfoContext(ctx, "sequence scored",
		slog.String("assessment_id", resp.ID.String()),
		slog.String("sample_id", resp.SampleID),
		slog.String("verdict", resp.Verdict),
		slog.Float64("probability", resp.Probability),
	)
	return nil
}

func decode(value []byte) (dto.ScoreSequenceRequest, error) {
	var m SequenceMessage
	if err := json.Unmarshal(value, &m); err != nil {
		return dto.ScoreSequenceRequest{}, fmt.Errorf("invalid json: %w", err)
	}

	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return dto.ScoreSequenceRequest{}, fmt.Errorf("invalid tenant_id: %w", err)
	}
	if tenantID == uuid.Nil {
		return dto.ScoreSequenceRequest{}, fmt.Errorf("tenant_id is required")
	}
	if m.Sequence == nil {
		return dto.ScoreSequenceRequest{}, fmt.Errorf("sequence is required")
	}

	return dto.ScoreSequenceRequest{
		TenantID: tenantID,
		SampleID: m.SampleID,
		Sequence: *m.Sequence,
	}, nil
}
