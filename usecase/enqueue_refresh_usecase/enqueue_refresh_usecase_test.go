package enqueue_refresh_usecase

import (
	"context"
	"testing"

	"feed-refresher/domain"
	"feed-refresher/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEnqueueRefreshUsecase_EnqueueAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueuePort(ctrl)

	queue.EXPECT().
		Enqueue(gomock.Any(), gomock.Any(), domain.EnqueueOptions{DedupID: "refresh-all-feeds:all", Priority: domain.JobPriorityLow}).
		DoAndReturn(func(_ context.Context, job *domain.Job, _ domain.EnqueueOptions) (bool, error) {
			assert.Equal(t, domain.JobNameRefreshAllFeeds, job.Name)
			assert.Equal(t, domain.RefreshKindAll, job.RefreshAllFeeds.RefreshContext.Kind)
			return true, nil
		})

	rc, added, err := NewEnqueueRefreshUsecase(queue).EnqueueAll(context.Background())
	require.NoError(t, err)
	assert.True(t, added)
	assert.NotEmpty(t, rc.RunID)
}

func TestEnqueueRefreshUsecase_EnqueueForUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueuePort(ctrl)

	queue.EXPECT().
		Enqueue(gomock.Any(), gomock.Any(), domain.EnqueueOptions{DedupID: "refresh-all-feeds:user:u1", Priority: domain.JobPriorityHigh}).
		Return(false, nil)

	rc, added, err := NewEnqueueRefreshUsecase(queue).EnqueueForUser(context.Background(), " u1 ")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, "u1", rc.UserID)
	assert.Equal(t, domain.RefreshKindUserAdded, rc.Kind)
}

func TestEnqueueRefreshUsecase_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueuePort(ctrl)
	u := NewEnqueueRefreshUsecase(queue)

	_, _, err := u.EnqueueForUser(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrUserIDRequired)

	queue.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, assert.AnError)
	_, _, err = u.EnqueueAll(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
