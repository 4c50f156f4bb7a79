package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/user-accounts-api/internal/domain/entity"
)

type UserRepository struct{ mock.Mock }

func (m *UserRepository) FindActive(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserRepository) SoftDelete(u *entity.User) {
	m.Called(u)
}

func (m *UserRepository) Save(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}
