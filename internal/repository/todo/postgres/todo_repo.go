package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const columns = `id, title, description, due_date, is_resolved, created_at, updated_at`

const slowQuery = 100 * time.Millisecond

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, poolCfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	if poolCfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = poolCfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	start := time.Now()

	query := `INSERT INTO todos
				(title, description, due_date, is_resolved, created_at, updated_at)
				VALUES ($1, $2, $3, $4, NOW(), NOW())
				RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		todoToCreate.Title,
		todoToCreate.Description,
		todoToCreate.DueDate,
		todoToCreate.IsResolved,
	).Scan(&todoToCreate.ID, &todoToCreate.CreatedAt, &todoToCreate.UpdatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow(start)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	start := time.Now()

	query := `SELECT ` + columns + ` FROM todos WHERE id = $1`

	t, err := scanTodo(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow(start)
	return t, nil
}

// updated_at всегда строго растёт, created_at не трогаем
func (s *Storage) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	start := time.Now()

	query := `UPDATE todos
			SET title = $1,
				description = $2,
				due_date = $3,
				is_resolved = $4,
				updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
			WHERE id = $5
			RETURNING created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		todoToUpdate.Title,
		todoToUpdate.Description,
		todoToUpdate.DueDate,
		todoToUpdate.IsResolved,
		todoToUpdate.ID,
	).Scan(&todoToUpdate.CreatedAt, &todoToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Задача для обновления не найдена", zap.Int64("todo_id", todoToUpdate.ID))
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	warnIfSlow(start)
	return nil
}

func (s *Storage) ToggleResolved(ctx context.Context, id int64) (*todo.Todo, error) {
	start := time.Now()

	query := `UPDATE todos
			SET is_resolved = NOT is_resolved,
				updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
			WHERE id = $1
			RETURNING ` + columns

	t, err := scanTodo(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось переключить статус задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("переключение статуса: %w", err)
	}

	warnIfSlow(start)
	return t, nil
}

// полное удаление из БД
func (s *Storage) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	query := `DELETE FROM todos
				WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start)
	return nil
}

// сначала нерешённые, внутри группы новые первыми
func (s *Storage) List(ctx context.Context) ([]*todo.Todo, error) {
	start := time.Now()

	query := `SELECT ` + columns + `
				FROM todos
				ORDER BY is_resolved ASC, id DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	todos, err := collectTodos(rows)
	if err != nil {
		return nil, err
	}

	warnIfSlow(start)
	return todos, nil
}

func (s *Storage) ListOverdue(ctx context.Context, today time.Time) ([]*todo.Todo, error) {
	start := time.Now()

	query := `SELECT ` + columns + `
				FROM todos
				WHERE is_resolved = FALSE
					AND due_date IS NOT NULL
					AND due_date < $1
				ORDER BY due_date ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, todo.Date(today))
	if err != nil {
		logger.Error("Repository: Не удалось получить просроченные задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение просроченных задач: %w", err)
	}

	todos, err := collectTodos(rows)
	if err != nil {
		return nil, err
	}

	warnIfSlow(start)
	return todos, nil
}

func scanTodo(row pgx.Row) (*todo.Todo, error) {
	t := &todo.Todo{}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.IsResolved,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func collectTodos(rows pgx.Rows) ([]*todo.Todo, error) {
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return todos, nil
}

func warnIfSlow(start time.Time) {
	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
}
