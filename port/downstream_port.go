package port

import (
	"context"

	"feed-refresher/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=downstream_port.go -destination=../mocks/mock_downstream_port.go -package=mocks

// ContentFetchPort asks the content fetch service to fetch and save an item
// for every listed user.
type ContentFetchPort interface {
	RequestContentFetch(ctx context.Context, req *domain.FetchContentRequest) error
}

// SaveContentPort saves an item built from feed supplied content.
type SaveContentPort interface {
	SaveFeedItem(ctx context.Context, req *domain.SaveContentRequest) error
}
