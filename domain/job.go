package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// JobName identifies the variant of a queued job.
type JobName string

const (
	// JobNameRefreshAllFeeds runs one discovery pass.
	JobNameRefreshAllFeeds JobName = "refresh-all-feeds"
	// JobNameRefreshFeed refreshes one feed URL for every subscriber in a group.
	JobNameRefreshFeed JobName = "refresh-feed"
)

// JobPriority selects the stream a job is written to.
type JobPriority string

const (
	JobPriorityHigh JobPriority = "high"
	JobPriorityLow  JobPriority = "low"
)

// EnqueueOptions controls deduplication and priority of an enqueued job.
type EnqueueOptions struct {
	// DedupID prevents a second job with the same id while one is outstanding.
	DedupID  string
	Priority JobPriority
}

// Job is a queued unit of work. Exactly one payload matching Name is set.
type Job struct {
	ID              string
	Name            JobName
	RefreshAllFeeds *RefreshAllFeedsPayload
	RefreshFeed     *RefreshFeedPayload
}

// RefreshAllFeedsPayload is the payload of a discovery job.
type RefreshAllFeedsPayload struct {
	RefreshContext *RefreshContext `json:"refreshContext"`
}

// RefreshFeedPayload is the payload of a per-URL refresh job.
type RefreshFeedPayload struct {
	FeedURL        string          `json:"feedUrl"`
	Subscribers    []Subscriber    `json:"subscribers"`
	RefreshContext *RefreshContext `json:"refreshContext,omitempty"`
}

// NewRefreshAllFeedsJob builds a discovery job. User-scoped runs get their own
// job id so they do not collide with the periodic run.
func NewRefreshAllFeedsJob(rc *RefreshContext) *Job {
	id := string(JobNameRefreshAllFeeds) + ":all"
	if rc != nil && rc.UserID != "" {
		id = string(JobNameRefreshAllFeeds) + ":user:" + rc.UserID
	}
	return &Job{
		ID:              id,
		Name:            JobNameRefreshAllFeeds,
		RefreshAllFeeds: &RefreshAllFeedsPayload{RefreshContext: rc},
	}
}

// NewRefreshFeedJob builds the refresh job for one subscription group.
func NewRefreshFeedJob(group SubscriptionGroup, rc *RefreshContext) *Job {
	return &Job{
		ID:   RefreshFeedJobID(group),
		Name: JobNameRefreshFeed,
		RefreshFeed: &RefreshFeedPayload{
			FeedURL:        group.FeedURL,
			Subscribers:    group.Subscribers,
			RefreshContext: rc,
		},
	}
}

// RefreshFeedJobID hashes the feed URL and the sorted subscription ids, so the
// same group found by two discovery runs maps to the same job.
func RefreshFeedJobID(group SubscriptionGroup) string {
	ids := group.SubscriptionIDs()
	sort.Strings(ids)

	h := sha256.New()
	h.Write([]byte(group.FeedURL))
	h.Write([]byte("\n"))
	h.Write([]byte(strings.Join(ids, ",")))

	return string(JobNameRefreshFeed) + ":" + hex.EncodeToString(h.Sum(nil))
}

// Validate checks that the job carries exactly the payload its name requires.
func (j *Job) Validate() error {
	if j == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}
	if j.ID == "" {
		return fmt.Errorf("%w: job id is required", ErrInvalidJob)
	}

	switch j.Name {
	case JobNameRefreshAllFeeds:
		if j.RefreshAllFeeds == nil || j.RefreshFeed != nil {
			return fmt.Errorf("%w: %s requires only a refresh-all payload", ErrInvalidJob, j.Name)
		}
		return j.RefreshAllFeeds.Validate()
	case JobNameRefreshFeed:
		if j.RefreshFeed == nil || j.RefreshAllFeeds != nil {
			return fmt.Errorf("%w: %s requires only a refresh-feed payload", ErrInvalidJob, j.Name)
		}
		return j.RefreshFeed.Validate()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, j.Name)
	}
}

// Payload encodes the variant payload of the job.
func (j *Job) Payload() ([]byte, error) {
	switch j.Name {
	case JobNameRefreshAllFeeds:
		return json.Marshal(j.RefreshAllFeeds)
	case JobNameRefreshFeed:
		return json.Marshal(j.RefreshFeed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJob, j.Name)
	}
}

// DecodeJob rebuilds a job from its queued name and payload and validates it.
// Malformed payloads are rejected here, before any processing starts.
func DecodeJob(id, name string, payload []byte) (*Job, error) {
	job := &Job{ID: id, Name: JobName(name)}

	switch job.Name {
	case JobNameRefreshAllFeeds:
		var p RefreshAllFeedsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
		}
		job.RefreshAllFeeds = &p
	case JobNameRefreshFeed:
		var p RefreshFeedPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
		}
		job.RefreshFeed = &p
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// Validate checks the refresh context of a discovery job.
func (p *RefreshAllFeedsPayload) Validate() error {
	if p.RefreshContext == nil {
		return fmt.Errorf("%w: refreshContext is required", ErrInvalidJob)
	}
	switch p.RefreshContext.Kind {
	case RefreshKindAll:
	case RefreshKindUserAdded:
		if p.RefreshContext.UserID == "" {
			return fmt.Errorf("%w: user-added refresh requires userId", ErrInvalidJob)
		}
	default:
		return fmt.Errorf("%w: unknown refresh kind %q", ErrInvalidJob, p.RefreshContext.Kind)
	}
	return nil
}

// Group returns the subscription group the payload refers to.
func (p *RefreshFeedPayload) Group() SubscriptionGroup {
	return SubscriptionGroup{FeedURL: p.FeedURL, Subscribers: p.Subscribers}
}

// Validate checks the feed URL and every subscriber record.
func (p *RefreshFeedPayload) Validate() error {
	if p.FeedURL == "" {
		return fmt.Errorf("%w: feedUrl is required", ErrInvalidJob)
	}
	if u, err := url.Parse(p.FeedURL); err != nil || u.Host == "" {
		return fmt.Errorf("%w: feedUrl %q is not an absolute url", ErrInvalidJob, p.FeedURL)
	}
	if len(p.Subscribers) == 0 {
		return fmt.Errorf("%w: at least one subscriber is required", ErrInvalidJob)
	}

	seen := make(map[string]struct{}, len(p.Subscribers))
	for i, s := range p.Subscribers {
		if s.SubscriptionID == "" || s.UserID == "" {
			return fmt.Errorf("%w: subscriber %d is missing subscriptionId or userId", ErrInvalidJob, i)
		}
		if _, dup := seen[s.SubscriptionID]; dup {
			return fmt.Errorf("%w: duplicate subscription %s", ErrInvalidJob, s.SubscriptionID)
		}
		seen[s.SubscriptionID] = struct{}{}
		if !s.FetchContentType.IsValid() {
			return fmt.Errorf("%w: subscriber %d has unknown fetchContentType %q", ErrInvalidJob, i, s.FetchContentType)
		}
	}
	return nil
}

// refreshFeedWire accepts both the array-of-structs payload and the older
// index-aligned payload.
type refreshFeedWire struct {
	FeedURL        string          `json:"feedUrl"`
	Subscribers    []Subscriber    `json:"subscribers"`
	RefreshContext *RefreshContext `json:"refreshContext"`

	SubscriptionIDs      []string  `json:"subscriptionIds"`
	UserIDs              []string  `json:"userIds"`
	MostRecentItemDates  []*int64  `json:"mostRecentItemDates"`
	ScheduledTimestamps  []*int64  `json:"scheduledTimestamps"`
	LastFetchedChecksums []*string `json:"lastFetchedChecksums"`
	FetchContentTypes    []string  `json:"fetchContentTypes"`
	FetchContents        []bool    `json:"fetchContents"`
	Folders              []string  `json:"folders"`
}

// UnmarshalJSON decodes either payload form into subscriber records.
func (p *RefreshFeedPayload) UnmarshalJSON(data []byte) error {
	var w refreshFeedWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	p.FeedURL = w.FeedURL
	p.RefreshContext = w.RefreshContext

	if len(w.Subscribers) > 0 || w.SubscriptionIDs == nil {
		p.Subscribers = w.Subscribers
		for i := range p.Subscribers {
			if p.Subscribers[i].FetchContentType == "" {
				p.Subscribers[i].FetchContentType = FetchContentAlways
			}
			p.Subscribers[i].Folder = ParseFolder(string(p.Subscribers[i].Folder))
		}
		return nil
	}

	subs, err := w.legacySubscribers()
	if err != nil {
		return err
	}
	p.Subscribers = subs
	return nil
}

func (w *refreshFeedWire) legacySubscribers() ([]Subscriber, error) {
	n := len(w.SubscriptionIDs)
	aligned := func(field string, got int, optional bool) error {
		if got == n || (optional && got == 0) {
			return nil
		}
		return fmt.Errorf("%w: %s has %d entries, want %d", ErrInvalidJob, field, got, n)
	}

	if err := aligned("userIds", len(w.UserIDs), false); err != nil {
		return nil, err
	}
	if err := aligned("mostRecentItemDates", len(w.MostRecentItemDates), false); err != nil {
		return nil, err
	}
	if err := aligned("scheduledTimestamps", len(w.ScheduledTimestamps), false); err != nil {
		return nil, err
	}
	if err := aligned("lastFetchedChecksums", len(w.LastFetchedChecksums), false); err != nil {
		return nil, err
	}
	if err := aligned("fetchContentTypes", len(w.FetchContentTypes), true); err != nil {
		return nil, err
	}
	if err := aligned("fetchContents", len(w.FetchContents), true); err != nil {
		return nil, err
	}
	if err := aligned("folders", len(w.Folders), true); err != nil {
		return nil, err
	}

	subs := make([]Subscriber, n)
	for i := range n {
		s := Subscriber{
			SubscriptionID:     w.SubscriptionIDs[i],
			UserID:             w.UserIDs[i],
			MostRecentItemDate: epochMillis(w.MostRecentItemDates[i]),
			ScheduledAt:        epochMillis(w.ScheduledTimestamps[i]),
			FetchContentType:   FetchContentAlways,
			Folder:             FolderFollowing,
		}
		if c := w.LastFetchedChecksums[i]; c != nil {
			s.LastFetchedChecksum = *c
		}
		switch {
		case len(w.FetchContentTypes) > 0:
			s.FetchContentType = ParseFetchContentType(w.FetchContentTypes[i])
		case len(w.FetchContents) > 0 && !w.FetchContents[i]:
			s.FetchContentType = FetchContentNever
		}
		if len(w.Folders) > 0 {
			s.Folder = ParseFolder(w.Folders[i])
		}
		subs[i] = s
	}
	return subs, nil
}

// epochMillis treats null and zero as "never".
func epochMillis(v *int64) *time.Time {
	if v == nil || *v <= 0 {
		return nil
	}
	t := time.UnixMilli(*v).UTC()
	return &t
}
