package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"lexchat/internal/domain"
)

type LawyerRepository interface {
	Search(ctx context.Context, filter domain.LawyerFilter) ([]domain.Lawyer, error)
}

type PgLawyerRepository struct {
	pool *pgxpool.Pool
}

func NewPgLawyerRepository(pool *pgxpool.Pool) *PgLawyerRepository {
	return &PgLawyerRepository{pool: pool}
}

const defaultLawyerPageSize = 20

// Search arma la consulta filtrada dinámicamente. El orden es el puntaje
// derivado calculado en SQL con los mismos pesos que Lawyer.MatchScore.
func (r *PgLawyerRepository) Search(ctx context.Context, filter domain.LawyerFilter) ([]domain.Lawyer, error) {
	var (
		conditions []string
		args       []any
	)

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Specialization != "" {
		addCondition("specialization ILIKE $%d", filter.Specialization)
	}
	if filter.City != "" {
		addCondition("city ILIKE $%d", filter.City)
	}
	if filter.Language != "" {
		addCondition("$%d = ANY(languages)", filter.Language)
	}
	if filter.MaxFee > 0 {
		addCondition("consultation_fee <= $%d", filter.MaxFee)
	}

	query := `
		SELECT id, name, specialization, city, languages,
			years_experience, rating, consultation_fee, verified, created_at
		FROM lawyers
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultLawyerPageSize
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, pageSize)
	query += fmt.Sprintf(`
		ORDER BY (years_experience * 0.4 + rating * 6 + CASE WHEN verified THEN 5 ELSE 0 END) DESC, id ASC
		LIMIT $%d`, len(args))
	args = append(args, (page-1)*pageSize)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lawyers []domain.Lawyer
	for rows.Next() {
		var l domain.Lawyer
		err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.Specialization,
			&l.City,
			&l.Languages,
			&l.YearsExperience,
			&l.Rating,
			&l.ConsultationFee,
			&l.Verified,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		lawyers = append(lawyers, l)
	}
	return lawyers, rows.Err()
}
