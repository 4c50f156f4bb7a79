package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EventPublisher struct{ mock.Mock }

func (m *EventPublisher) PublishJSON(ctx context.Context, body any) error {
	return m.Called(ctx, body).Error(0)
}
