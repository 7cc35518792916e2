package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sysguard/seqscore/internal/domain/model"
	"github.com/sysguard/seqscore/internal/domain/service"
	"github.com/sysguard/seqscore/internal/domain/valueobject"
	pgutil "github.com/sysguard/seqscore/pkg/postgres"
)

// probabilityScale matches the NUMERIC(7,6) columns.
const probabilityScale = 6

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pgutil.Querier
	pgutil.Beginner
}

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	db DB
}

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(db DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const upsertAssessment = `
	INSERT INTO sequence_assessments (
		id, tenant_id, sample_id, source,
		token_count, expected_length, artifact_path,
		probability, threshold, verdict, risk_level,
		assessed_at, version, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (id) DO UPDATE SET
		probability = EXCLUDED.probability,
		threshold = EXCLUDED.threshold,
		verdict = EXCLUDED.verdict,
		risk_level = EXCLUDED.risk_level,
		assessed_at = EXCLUDED.assessed_at,
		version = EXCLUDED.version,
		updated_at = EXCLUDED.updated_at
`

const selectAssessment = `
	SELECT id, tenant_id, sample_id, source,
		token_count, expected_length, artifact_path,
		probability, threshold, verdict, risk_level,
		assessed_at, version, created_at, updated_at
	FROM sequence_assessments
`

// Save persists a sequence assessment.
func (r *AssessmentRepository) Save(ctx context.Context, assessment *model.SequenceAssessment) error {
	return save(ctx, r.db, assessment)
}

// SaveAll persists several assessments in one transaction.
func (r *AssessmentRepository) SaveAll(ctx context.Context, assessments []*model.SequenceAssessment) error {
	return pgutil.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		for _, a := range assessments {
			if err := save(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func save(ctx context.Context, q pgutil.Querier, a *model.SequenceAssessment) error {
	_, err := q.Exec(ctx, upsertAssessment,
		a.ID(),
		a.TenantID(),
		a.SampleID(),
		a.Source().String(),
		a.TokenCount(),
		a.ExpectedLength(),
		a.ArtifactPath(),
		toNumeric(a.Probability()),
		toNumeric(a.Threshold()),
		a.Verdict().String(),
		a.RiskLevel().String(),
		a.AssessedAt(),
		a.Version(),
		a.CreatedAt(),
		a.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment %s: %w", a.ID(), err)
	}
	return nil
}

// FindByID retrieves an assessment by its unique identifier.
func (r *AssessmentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.SequenceAssessment, error) {
	row := r.db.QueryRow(ctx, selectAssessment+` WHERE tenant_id = $1 AND id = $2`, tenantID, id)

	assessment, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", service.ErrAssessmentNotFound, id)
		}
		return nil, err
	}
	return assessment, nil
}

// FindBySampleID lists assessments for a sample, newest first.
func (r *AssessmentRepository) FindBySampleID(ctx context.Context, tenantID uuid.UUID, sampleID string, limit, offset int) ([]*model.SequenceAssessment, error) {
	rows, err := r.db.Query(ctx,
		selectAssessment+` WHERE tenant_id = $1 AND sample_id = $2 ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`,
		tenantID, sampleID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*model.SequenceAssessment
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row scanner) (*model.SequenceAssessment, error) {
	var (
		id             uuid.UUID
		tenantID       uuid.UUID
		sampleID       string
		sourceStr      string
		tokenCount     int
		expectedLength int
		artifactPath   string
		probability    decimal.Decimal
		threshold      decimal.Decimal
		verdictStr     string
		riskLevelStr   string
		assessedAt     time.Time
		version        int
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(
		&id, &tenantID, &sampleID, &sourceStr,
		&tokenCount, &expectedLength, &artifactPath,
		&probability, &threshold, &verdictStr, &riskLevelStr,
		&assessedAt, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	source, err := valueobject.SourceFromString(sourceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	verdict, err := valueobject.VerdictFromString(verdictStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}
	riskLevel, err := valueobject.RiskLevelFromString(riskLevelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}

	return model.Reconstruct(
		id, tenantID, sampleID, source,
		tokenCount, expectedLength, artifactPath,
		fromNumeric(probability), fromNumeric(threshold),
		verdict, riskLevel,
		assessedAt, version, createdAt, updatedAt,
	), nil
}

func toNumeric(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(probabilityScale)
}

func fromNumeric(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
