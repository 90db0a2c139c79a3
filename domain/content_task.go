package domain

import "time"

// TaskSubscriber is one subscriber waiting on a FetchContentTask.
type TaskSubscriber struct {
	SubscriptionID string
	UserID         string
	Folder         Folder
	LibraryItemID  string
}

// FetchContentTask is one downstream full-content fetch shared by every
// subscriber of a feed that wants the same item URL.
type FetchContentTask struct {
	URL  string
	Item FeedItem

	order       []string
	subscribers map[string]TaskSubscriber
}

// Subscribers returns the interested subscribers in the order they were added.
func (t *FetchContentTask) Subscribers() []TaskSubscriber {
	out := make([]TaskSubscriber, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.subscribers[id])
	}
	return out
}

// ContentTasks consolidates fetch content tasks for one refresh job.
// It is not safe for concurrent use; a job processes subscribers sequentially.
type ContentTasks struct {
	order []string
	tasks map[string]*FetchContentTask
}

// NewContentTasks returns an empty set of tasks.
func NewContentTasks() *ContentTasks {
	return &ContentTasks{tasks: make(map[string]*FetchContentTask)}
}

// Add registers sub's interest in item at url. A subscriber added twice for the
// same url keeps its first library item id.
func (c *ContentTasks) Add(url string, item FeedItem, sub TaskSubscriber) {
	task, ok := c.tasks[url]
	if !ok {
		task = &FetchContentTask{
			URL:         url,
			Item:        item,
			subscribers: make(map[string]TaskSubscriber),
		}
		c.tasks[url] = task
		c.order = append(c.order, url)
	}

	if _, exists := task.subscribers[sub.SubscriptionID]; exists {
		return
	}
	task.subscribers[sub.SubscriptionID] = sub
	task.order = append(task.order, sub.SubscriptionID)
}

// Len returns the number of distinct URLs.
func (c *ContentTasks) Len() int {
	return len(c.order)
}

// Tasks returns the tasks in the order their URLs were first added.
func (c *ContentTasks) Tasks() []*FetchContentTask {
	out := make([]*FetchContentTask, 0, len(c.order))
	for _, url := range c.order {
		out = append(out, c.tasks[url])
	}
	return out
}

// Label is a library label attached to saved items.
type Label struct {
	Name string `json:"name"`
}

// RSSLabel is attached to every item created from a feed.
var RSSLabel = Label{Name: "RSS"}

// ContentFetchSource identifies this service to the content fetch service.
const ContentFetchSource = "rss-feeder"

// ContentFetchUser is one recipient of a downstream content fetch.
type ContentFetchUser struct {
	ID            string `json:"id"`
	Folder        Folder `json:"folder"`
	LibraryItemID string `json:"libraryItemId"`
}

// FetchContentRequest is sent once per consolidated task.
type FetchContentRequest struct {
	Users         []ContentFetchUser `json:"users"`
	Source        string             `json:"source"`
	URL           string             `json:"url"`
	SaveRequestID string             `json:"saveRequestId"`
	Labels        []Label            `json:"labels"`
	RSSFeedURL    string             `json:"rssFeedUrl"`
	SavedAt       *time.Time         `json:"savedAt,omitempty"`
	PublishedAt   *time.Time         `json:"publishedAt,omitempty"`
}

// NewFetchContentRequest builds the downstream request for task.
func NewFetchContentRequest(feedURL string, task *FetchContentTask) *FetchContentRequest {
	subs := task.Subscribers()
	users := make([]ContentFetchUser, 0, len(subs))
	for _, s := range subs {
		users = append(users, ContentFetchUser{ID: s.UserID, Folder: s.Folder, LibraryItemID: s.LibraryItemID})
	}

	return &FetchContentRequest{
		Users:       users,
		Source:      ContentFetchSource,
		URL:         task.URL,
		Labels:      []Label{RSSLabel},
		RSSFeedURL:  feedURL,
		SavedAt:     task.Item.PublishedAt,
		PublishedAt: task.Item.PublishedAt,
	}
}

// SavedItemState is the state of an item synthesized from feed content.
const SavedItemState = "SUCCEEDED"

// SaveContentRequest creates a library item directly from feed content.
type SaveContentRequest struct {
	UserID        string     `json:"userId"`
	LibraryItemID string     `json:"libraryItemId"`
	URL           string     `json:"url"`
	FeedContent   string     `json:"feedContent"`
	Title         string     `json:"title"`
	Folder        Folder     `json:"folder"`
	RSSFeedURL    string     `json:"rssFeedUrl"`
	SavedAt       *time.Time `json:"savedAt,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	State         string     `json:"state"`
	Author        string     `json:"author,omitempty"`
	PreviewImage  string     `json:"previewImage,omitempty"`
	Labels        []Label    `json:"labels"`
}
