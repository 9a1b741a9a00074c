// Package repository реализует хранилище сгенерированных участников
// на основе PostgreSQL. Записи одного цикла генерации сохраняются
// в одной транзакции под общим идентификатором батча; статистика
// за текущий день считается по запросу из сохранённых строк.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baysidecampaign/signup-engine/internal/models"
)

// Storage инкапсулирует пул соединений с PostgreSQL. Каждый метод
// берёт соединение из пула и освобождает его до возврата: соединения
// не удерживаются между циклами генерации.
type Storage struct {
	Pool *pgxpool.Pool
}

// New создаёт пул соединений и проверяет доступность базы.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "repository.New"

	pool, err := pgxpool.New(ctx, storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{Pool: pool}, nil
}

// Close закрывает пул. Вызывается оркестратором в финальном шаге
// независимо от исхода цикла.
func (s *Storage) Close() {
	s.Pool.Close()
}

// EnsureTable идемпотентно создаёт таблицу и индексы для батчей
// и статистики.
func (s *Storage) EnsureTable(ctx context.Context) error {
	const op = "repository.EnsureTable"

	_, err := s.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS generated_users (
            id SERIAL PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            email VARCHAR(255) NOT NULL,
            postcode VARCHAR(10) NOT NULL,
            hear_about VARCHAR(50) NOT NULL,
            wants_updates BOOLEAN NOT NULL,
            comment TEXT,
            referral_code VARCHAR(16),
            is_generated BOOLEAN NOT NULL,
            generated_at TIMESTAMP NOT NULL,
            generation_batch UUID NOT NULL
        );

        CREATE INDEX IF NOT EXISTS idx_generation_batch ON generated_users(generation_batch);
        CREATE INDEX IF NOT EXISTS idx_generated_at ON generated_users(generated_at);
    `)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveUsers сохраняет все записи одного цикла в одной транзакции
// и возвращает идентификатор батча. При любой ошибке вставки транзакция
// откатывается целиком: частичные батчи не видны читателям. Пустой
// список тоже успешен и возвращает свежий идентификатор батча.
func (s *Storage) SaveUsers(ctx context.Context, users []*models.GeneratedUser) (string, error) {
	const op = "repository.SaveUsers"

	batchID := uuid.NewString()

	conn, err := s.Pool.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // откат после Commit — no-op

	for _, user := range users {
		_, err = tx.Exec(ctx, `
            INSERT INTO generated_users (
                name, email, postcode, hear_about, wants_updates,
                comment, referral_code, is_generated, generated_at, generation_batch
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			user.Name,
			user.Email,
			user.Postcode,
			user.HearAbout,
			user.WantsUpdates,
			nullable(user.Comment),
			nullable(user.ReferralCode),
			true,
			user.Timestamp,
			batchID,
		)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return batchID, nil
}

// GetTodayStats считает записи, сгенерированные за текущую календарную
// дату сервера, независимо от границ батчей. Пустая таблица даёт
// нулевую статистику без ошибки.
func (s *Storage) GetTodayStats(ctx context.Context) (*models.GenerationStats, error) {
	const op = "repository.GetTodayStats"

	var stats models.GenerationStats
	err := s.Pool.QueryRow(ctx, `
        SELECT
            COUNT(*) AS total_generated,
            COUNT(comment) AS total_with_comments
        FROM generated_users
        WHERE DATE(generated_at) = CURRENT_DATE
            AND is_generated = true`,
	).Scan(&stats.TotalGenerated, &stats.TotalWithComments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if stats.TotalGenerated > 0 {
		stats.CommentPercentage = float64(stats.TotalWithComments) / float64(stats.TotalGenerated)
	}
	return &stats, nil
}

// GetRecentBatches возвращает limit последних батчей с количеством
// записей и комментариев, упорядоченных по раннему таймстемпу батча
// по убыванию.
func (s *Storage) GetRecentBatches(ctx context.Context, limit int) ([]*models.BatchInfo, error) {
	const op = "repository.GetRecentBatches"

	rows, err := s.Pool.Query(ctx, `
        SELECT
            generation_batch,
            MIN(generated_at) AS batch_time,
            COUNT(*) AS user_count,
            COUNT(comment) AS comment_count
        FROM generated_users
        WHERE is_generated = true
        GROUP BY generation_batch
        ORDER BY MIN(generated_at) DESC
        LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var batches []*models.BatchInfo
	for rows.Next() {
		var info models.BatchInfo
		if err := rows.Scan(&info.BatchID, &info.Timestamp, &info.UserCount, &info.CommentCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		batches = append(batches, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return batches, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
