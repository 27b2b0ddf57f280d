// Package dbmock provides a testify mock of database.Querier.
package dbmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github-traffic-tracker/internal/database"
)

// MockQuerier is a mock of the database.Querier interface.
type MockQuerier struct {
	mock.Mock
}

var _ database.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) AggregateTrafficSince(ctx context.Context, day string) ([]database.AggregateTrafficSinceRow, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.AggregateTrafficSinceRow), args.Error(1)
}
func (m *MockQuerier) CreateRepository(ctx context.Context, arg database.CreateRepositoryParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}
func (m *MockQuerier) DeleteRepository(ctx context.Context, arg database.DeleteRepositoryParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) DeleteTrafficForRepository(ctx context.Context, repositoryID int64) (int64, error) {
	args := m.Called(ctx, repositoryID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) GetRepositoryByOwnerAndName(ctx context.Context, arg database.GetRepositoryByOwnerAndNameParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}
func (m *MockQuerier) GetSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
func (m *MockQuerier) GetTrafficTotalsSince(ctx context.Context, day string) (database.GetTrafficTotalsSinceRow, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(database.GetTrafficTotalsSinceRow), args.Error(1)
}
func (m *MockQuerier) ListRepositories(ctx context.Context) ([]database.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Repository), args.Error(1)
}
func (m *MockQuerier) ListTrafficSince(ctx context.Context, day string) ([]database.ListTrafficSinceRow, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.ListTrafficSinceRow), args.Error(1)
}
func (m *MockQuerier) UpsertSetting(ctx context.Context, arg database.UpsertSettingParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
func (m *MockQuerier) UpsertTrafficSample(ctx context.Context, arg database.UpsertTrafficSampleParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
