package digest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pepetopia/topi/internal/present"
	"github.com/pepetopia/topi/internal/state"
)

// defaultAuthor is credited on queued parts whose commit author is unknown.
const defaultAuthor = "Pepetopia Team"

// Service runs the digest workflow: drain the pending queue first, then
// process the next unprocessed commit. The cursor advances only after a
// successful delivery.
type Service struct {
	source     Source
	store      *state.Store
	summarizer *Summarizer
	publish    func(ctx context.Context, html string) error
	now        func() time.Time
	log        *zap.Logger
}

// NewService wires the digest workflow. publish delivers one rendered HTML
// message to the investor channel.
func NewService(source Source, store *state.Store, summarizer *Summarizer,
	publish func(ctx context.Context, html string) error, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		source:     source,
		store:      store,
		summarizer: summarizer,
		publish:    publish,
		now:        time.Now,
		log:        log,
	}
}

// RunOnce executes one digest tick.
func (s *Service) RunOnce(ctx context.Context) error {
	// Queued parts from an earlier multi-day split go out first.
	part, ok, err := s.store.PopPending(ctx)
	if err != nil {
		return err
	}
	if ok {
		s.log.Info("delivering queued update part")
		return s.publish(ctx, present.RenderDigest(part, defaultAuthor, s.now()))
	}

	commits, err := s.source.ListCommits(ctx)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		s.log.Warn("no commits retrieved; repository may be empty")
		return nil
	}

	lastSHA, err := s.store.LastProcessedSHA(ctx)
	if err != nil {
		return err
	}
	next := findNextCommit(commits, lastSHA)
	if next == nil {
		s.log.Info("no new commits to process")
		return nil
	}

	s.log.Info("processing commit", zap.String("sha", shortSHA(next.SHA)))
	detail, err := s.source.CommitDetail(ctx, next.SHA)
	if err != nil {
		return err
	}

	parts, err := s.summarizer.Summarize(ctx, detail)
	if err != nil {
		return err
	}

	first := parts[0]
	if len(parts) > 1 {
		if err := s.store.PushPending(ctx, parts[1:]...); err != nil {
			// Deliver at least the first part even if queueing failed.
			s.log.Error("failed to queue remaining parts", zap.Error(err))
		} else {
			s.log.Info("queued parts for future delivery", zap.Int("count", len(parts)-1))
		}
	}

	author := detail.Author
	if author == "" {
		author = defaultAuthor
	}
	if err := s.publish(ctx, present.RenderDigest(first, author, s.now())); err != nil {
		return fmt.Errorf("deliver update for %s: %w", shortSHA(next.SHA), err)
	}

	// Advance the cursor only after the message went out, so a failed
	// delivery is retried on the next tick.
	if err := s.store.SetLastProcessedSHA(ctx, next.SHA); err != nil {
		return err
	}
	s.log.Info("commit marked as processed", zap.String("sha", shortSHA(next.SHA)))
	return nil
}

// RunDaily fires RunOnce once per day at the given local time until the
// context is canceled.
func (s *Service) RunDaily(ctx context.Context, hour, minute int) error {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	var lastFired string
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := s.now()
			if now.Hour() != hour || now.Minute() != minute {
				continue
			}
			day := now.Format("2006-01-02")
			if day == lastFired {
				continue
			}
			lastFired = day
			if err := s.RunOnce(ctx); err != nil {
				// Tick failures are isolated; the next day retries.
				s.log.Error("daily digest tick failed", zap.Error(err))
			}
		}
	}
}

// findNextCommit returns the first commit after lastSHA, or the first
// commit when no cursor exists yet.
func findNextCommit(commits []Commit, lastSHA string) *Commit {
	if len(commits) == 0 {
		return nil
	}
	if lastSHA == "" {
		return &commits[0]
	}
	for i := range commits {
		if commits[i].SHA == lastSHA && i+1 < len(commits) {
			return &commits[i+1]
		}
	}
	return nil
}
