package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"
	"todoTracker/internal/migrations"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/todo/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestSuite для интеграционных тестов с PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	ctx        context.Context
	connString string
}

// SetupSuite запускается один раз перед всеми тестами
func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	require.NoError(s.T(), migrations.Up(s.connString))

	s.storage, err = postgres.New(s.ctx, s.connString, postgres.PoolConfig{MaxConns: 4, MinConns: 1})
	require.NoError(s.T(), err)
}

// TearDownSuite очищает после всех тестов
func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.connString != "" {
		if err := migrations.Down(s.connString); err != nil {
			s.T().Logf("Не удалось откатить миграции: %v", err)
		}
	}
	if s.container != nil {
		s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицу перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	if err != nil {
		s.T().Logf("Не удалось подключиться для очистки: %v", err)
		return
	}
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "TRUNCATE todos RESTART IDENTITY")
	if err != nil {
		s.T().Logf("Не удалось очистить таблицу: %v", err)
	}
}

// TestPostgresTestSuite запускает suite
func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func dayOffset(offset int) *time.Time {
	d := todo.Date(time.Now()).AddDate(0, 0, offset)
	return &d
}

// TestStorage_Create тестирует создание задачи
func (s *PostgresTestSuite) TestStorage_Create() {
	due := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	created := todo.New("Test Todo", todo.WithDescription("Test Description"), todo.WithDueDate(&due))

	err := s.storage.Create(s.ctx, created)
	s.Require().NoError(err)
	s.Greater(created.ID, int64(0))
	s.False(created.CreatedAt.IsZero())
	s.True(created.CreatedAt.Equal(created.UpdatedAt))

	retrieved, err := s.storage.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Test Todo", retrieved.Title)
	s.Equal("Test Description", retrieved.Description)
	s.Require().NotNil(retrieved.DueDate)
	s.Equal("2025-12-31", todo.FormatDate(retrieved.DueDate))
	s.False(retrieved.IsResolved)
}

// TestStorage_CreateDefaults тестирует значения по умолчанию
func (s *PostgresTestSuite) TestStorage_CreateDefaults() {
	created := todo.New("Another Todo")
	s.Require().NoError(s.storage.Create(s.ctx, created))

	retrieved, err := s.storage.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("", retrieved.Description)
	s.Nil(retrieved.DueDate)
	s.False(retrieved.IsResolved)
}

// TestStorage_GetByID_NotFound тестирует отсутствующую задачу
func (s *PostgresTestSuite) TestStorage_GetByID_NotFound() {
	_, err := s.storage.GetByID(s.ctx, 9999)
	s.ErrorIs(err, repository.ErrNotFound)
}

// TestStorage_Update тестирует обновление задачи
func (s *PostgresTestSuite) TestStorage_Update() {
	created := todo.New("Original Title", todo.WithDescription("Original"))
	s.Require().NoError(s.storage.Create(s.ctx, created))

	toUpdate, err := s.storage.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	toUpdate.Apply(
		todo.WithTitle("Updated Title"),
		todo.WithDescription("Updated Description"),
		todo.WithDueDate(dayOffset(2)),
	)

	s.Require().NoError(s.storage.Update(s.ctx, toUpdate))
	s.True(toUpdate.UpdatedAt.After(created.UpdatedAt))

	// повторное обновление в ту же транзакционную секунду всё равно двигает updated_at
	previous := toUpdate.UpdatedAt
	s.Require().NoError(s.storage.Update(s.ctx, toUpdate))
	s.True(toUpdate.UpdatedAt.After(previous))

	retrieved, err := s.storage.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Updated Title", retrieved.Title)
	s.Equal("Updated Description", retrieved.Description)
	s.Equal(created.ID, retrieved.ID)
	s.True(created.CreatedAt.Equal(retrieved.CreatedAt))

	err = s.storage.Update(s.ctx, &todo.Todo{ID: 9999, Title: "Ghost"})
	s.ErrorIs(err, repository.ErrNotFound)
}

// TestStorage_ToggleResolved тестирует переключение статуса
func (s *PostgresTestSuite) TestStorage_ToggleResolved() {
	created := todo.New("Pay bills", todo.WithDueDate(dayOffset(-1)))
	s.Require().NoError(s.storage.Create(s.ctx, created))

	toggled, err := s.storage.ToggleResolved(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(toggled.IsResolved)
	s.False(toggled.IsOverdue(time.Now()))
	s.True(toggled.UpdatedAt.After(created.UpdatedAt))

	toggled, err = s.storage.ToggleResolved(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(toggled.IsResolved)

	_, err = s.storage.ToggleResolved(s.ctx, 9999)
	s.ErrorIs(err, repository.ErrNotFound)
}

// TestStorage_Delete тестирует удаление
func (s *PostgresTestSuite) TestStorage_Delete() {
	created := todo.New("Todo to Delete")
	s.Require().NoError(s.storage.Create(s.ctx, created))

	s.Require().NoError(s.storage.Delete(s.ctx, created.ID))

	_, err := s.storage.GetByID(s.ctx, created.ID)
	s.ErrorIs(err, repository.ErrNotFound)

	err = s.storage.Delete(s.ctx, created.ID)
	s.ErrorIs(err, repository.ErrNotFound)
}

// TestStorage_List тестирует порядок списка
func (s *PostgresTestSuite) TestStorage_List() {
	for i, resolved := range []bool{true, false, true, false} {
		td := todo.New(fmt.Sprintf("Todo %d", i), todo.WithResolved(resolved))
		s.Require().NoError(s.storage.Create(s.ctx, td))
	}

	todos, err := s.storage.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(todos, 4)

	titles := make([]string, 0, len(todos))
	for _, td := range todos {
		titles = append(titles, td.Title)
	}
	s.Equal([]string{"Todo 3", "Todo 1", "Todo 2", "Todo 0"}, titles)
}

// TestStorage_ListOverdue тестирует выборку просроченных задач
func (s *PostgresTestSuite) TestStorage_ListOverdue() {
	fixtures := []*todo.Todo{
		todo.New("Yesterday", todo.WithDueDate(dayOffset(-1))),
		todo.New("Last week", todo.WithDueDate(dayOffset(-7))),
		todo.New("Resolved", todo.WithDueDate(dayOffset(-3)), todo.WithResolved(true)),
		todo.New("Today", todo.WithDueDate(dayOffset(0))),
		todo.New("No date"),
	}
	for _, f := range fixtures {
		s.Require().NoError(s.storage.Create(s.ctx, f))
	}

	overdue, err := s.storage.ListOverdue(s.ctx, time.Now())
	s.Require().NoError(err)
	s.Require().Len(overdue, 2)
	assert.Equal(s.T(), "Last week", overdue[0].Title)
	assert.Equal(s.T(), "Yesterday", overdue[1].Title)
}

// TestStorage_HealthCheck тестирует ping
func (s *PostgresTestSuite) TestStorage_HealthCheck() {
	s.NoError(s.storage.HealthCheck(s.ctx))
}

func (s *PostgresTestSuite) tableExists() bool {
	conn, err := pgx.Connect(s.ctx, s.connString)
	s.Require().NoError(err)
	defer conn.Close(s.ctx)

	var exists bool
	err = conn.QueryRow(s.ctx, "SELECT to_regclass('public.todos') IS NOT NULL").Scan(&exists)
	s.Require().NoError(err)
	return exists
}

// TestMigrations_DownUp тестирует откат и повторное применение схемы
func (s *PostgresTestSuite) TestMigrations_DownUp() {
	s.Require().True(s.tableExists())

	s.Require().NoError(migrations.Down(s.connString))
	s.False(s.tableExists())

	s.Require().NoError(migrations.Up(s.connString))
	s.True(s.tableExists())

	// повторный Up без изменений не ошибка
	s.NoError(migrations.Up(s.connString))

	// таблица пересоздана, кеш подготовленных запросов пула устарел
	s.storage.Close()
	storage, err := postgres.New(s.ctx, s.connString, postgres.PoolConfig{MaxConns: 4, MinConns: 1})
	s.Require().NoError(err)
	s.storage = storage
}
