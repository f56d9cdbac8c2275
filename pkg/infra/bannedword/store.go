package bannedword

import (
	"context"
	"fmt"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/common"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const snapshotKey = "matcher"

//go:generate mockery --name=Checker --dir=. --output=./mocks --filename=checker_mock.go --case=underscore --with-expecter
type Checker interface {
	// Check returns the first banned word contained in text.
	Check(ctx context.Context, text string) (string, bool, error)
}

// Store keeps the banned word list in a redis set and serves lookups from a
// short lived local snapshot of it.
type Store struct {
	logger    *logrus.Logger
	cache     cache.Client
	publisher cache.EventPublisher
	snapshot  *cache.TTLMap
	group     singleflight.Group
}

func NewStore(logger *logrus.Logger, c cache.Client, publisher cache.EventPublisher, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = common.BannedWordCacheTTL
	}
	return &Store{
		logger:    logger,
		cache:     c,
		publisher: publisher,
		snapshot:  c.CreateTTLMap(common.BannedWordTTLName, ttl),
	}
}

func (s *Store) Check(ctx context.Context, text string) (string, bool, error) {
	m, err := s.matcher(ctx)
	if err != nil {
		return "", false, err
	}
	word, found := m.Match(text)
	return word, found, nil
}

func (s *Store) matcher(ctx context.Context) (*Matcher, error) {
	if v, ok := s.snapshot.Get(snapshotKey); ok {
		if m, ok := v.(*Matcher); ok {
			return m, nil
		}
	}
	v, err, _ := s.group.Do(snapshotKey, func() (interface{}, error) {
		words, err := s.cache.SetMembers(ctx, common.BannedWordSetKey)
		if err != nil {
			return nil, fmt.Errorf("load banned words: %w", err)
		}
		m := NewMatcher(words)
		s.snapshot.Set(snapshotKey, m)
		s.logger.WithField("count", m.Len()).Debug("banned word snapshot refreshed")
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Matcher), nil
}

// Replace swaps the stored list and tells every process to drop its snapshot.
func (s *Store) Replace(ctx context.Context, words []string, source string) error {
	normalized := Normalize(words)
	if err := s.cache.ReplaceSet(ctx, common.BannedWordSetKey, normalized); err != nil {
		return err
	}
	s.changed(ctx, len(normalized), source)
	return nil
}

func (s *Store) Add(ctx context.Context, source string, words ...string) error {
	normalized := Normalize(words)
	if err := s.cache.AddToSet(ctx, common.BannedWordSetKey, normalized...); err != nil {
		return fmt.Errorf("add banned words: %w", err)
	}
	s.changed(ctx, len(normalized), source)
	return nil
}

func (s *Store) Remove(ctx context.Context, source string, words ...string) error {
	normalized := Normalize(words)
	if err := s.cache.RemoveFromSet(ctx, common.BannedWordSetKey, normalized...); err != nil {
		return fmt.Errorf("remove banned words: %w", err)
	}
	s.changed(ctx, len(normalized), source)
	return nil
}

// changed drops the local snapshot and broadcasts the change. A failed
// broadcast only delays other processes until their snapshot expires.
func (s *Store) changed(ctx context.Context, count int, source string) {
	s.Invalidate()
	if s.publisher == nil {
		return
	}
	ev := cache.BannedWordsUpdatedEvent{Count: count, Source: source}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.WithError(err).Warn("failed to broadcast banned word update")
	}
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	words, err := s.cache.SetMembers(ctx, common.BannedWordSetKey)
	if err != nil {
		return nil, err
	}
	return Normalize(words), nil
}

func (s *Store) Invalidate() {
	s.snapshot.Delete(snapshotKey)
}

// OnEvent drops the local snapshot when another process rewrote the list.
func (s *Store) OnEvent(_ context.Context, ev cache.BannedWordsUpdatedEvent) error {
	s.logger.WithFields(logrus.Fields{
		"count":  ev.Count,
		"source": ev.Source,
	}).Info("banned word list changed")
	s.Invalidate()
	return nil
}
