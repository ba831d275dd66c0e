package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/scrapeflow/internal/lock"
	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/maheshrc27/scrapeflow/internal/queue"
	"github.com/maheshrc27/scrapeflow/internal/repository"
	"github.com/maheshrc27/scrapeflow/internal/service"
)

// Stage is how far a schedule got during one run.
type Stage int

const (
	StagePending Stage = iota
	StageFetched
	StageExtracted
	StageOptimized
	StageContentSaved
	StagePublished
	StagePublishQueued
	StageSkippedNoCredentials
	StageFailed
)

var stageNames = map[Stage]string{
	StagePending:              "pending",
	StageFetched:              "fetched",
	StageExtracted:            "extracted",
	StageOptimized:            "optimized",
	StageContentSaved:         "content_saved",
	StagePublished:            "published",
	StagePublishQueued:        "publish_queued",
	StageSkippedNoCredentials: "skipped_no_credentials",
	StageFailed:               "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

var ErrTickInProgress = errors.New("previous scrape tick still running")

const (
	defaultConcurrency = 4
	scheduleLockTTL    = 30 * time.Minute
)

// Report summarises one tick. Stale counts schedules that were listed as due
// but had already run, been paused or been removed by the time their lock was
// taken.
type Report struct {
	Due      int
	Locked   int
	Stale    int
	Outcomes map[Stage]int
}

type runResult int

const (
	runDone runResult = iota
	runLockedElsewhere
	runStale
)

type ScrapeJob struct {
	sr          repository.ScheduleRepository
	cr          repository.ContentRepository
	sa          repository.SocialAccountRepository
	fetcher     service.FetchService
	extractor   service.ExtractService
	optimizer   service.OptimizeService
	snapshots   service.SnapshotService
	dispatcher  queue.Dispatcher
	locker      lock.Locker
	concurrency int

	running sync.Mutex
	now     func() time.Time
}

func NewScrapeJob(
	sr repository.ScheduleRepository,
	cr repository.ContentRepository,
	sa repository.SocialAccountRepository,
	fetcher service.FetchService,
	extractor service.ExtractService,
	optimizer service.OptimizeService,
	snapshots service.SnapshotService,
	dispatcher queue.Dispatcher,
	locker lock.Locker,
	concurrency int) *ScrapeJob {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &ScrapeJob{
		sr:          sr,
		cr:          cr,
		sa:          sa,
		fetcher:     fetcher,
		extractor:   extractor,
		optimizer:   optimizer,
		snapshots:   snapshots,
		dispatcher:  dispatcher,
		locker:      locker,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Run is the cron entry point.
func (j *ScrapeJob) Run(ctx context.Context) {
	report, err := j.RunOnce(ctx, j.now())
	if err != nil {
		slog.Info("scrape tick aborted", "error", err)
		return
	}
	if report.Due == 0 {
		return
	}

	attrs := []any{"due", report.Due, "locked", report.Locked, "stale", report.Stale}
	for stage, n := range report.Outcomes {
		attrs = append(attrs, stage.String(), n)
	}
	slog.Info("scrape tick finished", attrs...)
}

// RunOnce processes every schedule due at now. Once a schedule has started it
// runs to completion even if ctx is cancelled; cancellation only stops new
// schedules from being picked up.
func (j *ScrapeJob) RunOnce(ctx context.Context, now time.Time) (Report, error) {
	if !j.running.TryLock() {
		return Report{}, ErrTickInProgress
	}
	defer j.running.Unlock()

	due, err := j.sr.ListDue(ctx, now)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list due schedules: %w", err)
	}

	report := Report{Due: len(due), Outcomes: map[Stage]int{}}
	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, j.concurrency)

loop:
	for _, s := range due {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break loop
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(s *models.Schedule) {
			defer wg.Done()
			defer func() { <-semaphore }()

			stage, res := j.runLocked(ctx, s, now)

			mu.Lock()
			defer mu.Unlock()
			switch res {
			case runLockedElsewhere:
				report.Locked++
			case runStale:
				report.Stale++
			default:
				report.Outcomes[stage]++
			}
		}(s)
	}

	wg.Wait()
	return report, nil
}

// Wait blocks until an in-flight tick has finished.
func (j *ScrapeJob) Wait() {
	j.running.Lock()
	defer j.running.Unlock()
}

// runLocked processes s under its schedule lock. The row is re-read once the
// lock is held: the listed copy may already have been run by another worker,
// paused or deleted since ListDue.
func (j *ScrapeJob) runLocked(ctx context.Context, s *models.Schedule, now time.Time) (Stage, runResult) {
	release, ok, err := j.locker.TryLock(ctx, fmt.Sprintf("schedule:%d", s.ID), scheduleLockTTL)
	if err != nil {
		slog.Info("failed to lock schedule", "schedule_id", s.ID, "error", err)
		return StagePending, runLockedElsewhere
	}
	if !ok {
		slog.Info("schedule is being processed elsewhere", "schedule_id", s.ID)
		return StagePending, runLockedElsewhere
	}
	defer release()

	ctx = context.WithoutCancel(ctx)
	fresh, err := j.sr.GetByID(ctx, s.ID)
	if err != nil {
		slog.Info("failed to reload schedule", "schedule_id", s.ID, "error", err)
		return StagePending, runStale
	}
	if fresh == nil || !fresh.IsDue(now) {
		slog.Info("schedule no longer due", "schedule_id", s.ID)
		return StagePending, runStale
	}

	return j.process(ctx, fresh, now), runDone
}

// process runs one schedule through the pipeline. The schedule is always
// advanced, whatever stage it stopped at.
func (j *ScrapeJob) process(ctx context.Context, s *models.Schedule, now time.Time) (stage Stage) {
	stage = StagePending
	defer func() {
		j.advance(ctx, s, now)
		slog.Info("schedule processed", "schedule_id", s.ID, "stage", stage.String())
	}()

	page, err := j.fetcher.Fetch(ctx, s.SourceURL)
	if err != nil {
		slog.Info("fetch failed", "schedule_id", s.ID, "error", err)
		return StageFailed
	}
	stage = StageFetched

	snapshotKey, err := j.snapshots.Archive(ctx, s.ID, page)
	if err != nil {
		slog.Info("snapshot failed", "schedule_id", s.ID, "error", err)
	}

	extraction, err := j.extractor.Extract(page, s.SourceURL)
	if err != nil {
		slog.Info("extract failed", "schedule_id", s.ID, "error", err)
		return StageFailed
	}
	stage = StageExtracted

	postText, err := j.optimizer.Optimize(ctx, extraction.Title, extraction.Content, s.PostStyle)
	if err != nil {
		slog.Info("optimization unavailable, using fallback post", "schedule_id", s.ID, "error", err)
		postText = service.FallbackPost(s, extraction.Title, extraction.Content, s.SourceURL)
	} else {
		postText = service.ApplyTemplate(s, postText, extraction.Title, extraction.Content, s.SourceURL)
	}
	stage = StageOptimized

	content := &models.Content{
		ScheduleID:  s.ID,
		OriginalURL: s.SourceURL,
		Title:       extraction.Title,
		RawContent:  extraction.Content,
		Summary:     service.Summarize(extraction.Content),
		PostText:    postText,
		Fallback:    extraction.Fallback,
		SnapshotKey: snapshotKey,
		CreatedAt:   j.now(),
	}
	content.ID, err = j.cr.Create(ctx, content)
	if err != nil {
		slog.Info("failed to save content", "schedule_id", s.ID, "error", err)
		return StageFailed
	}
	stage = StageContentSaved

	account, err := j.sa.GetByUserID(ctx, s.UserID, models.PlatformLinkedIn)
	if err != nil {
		slog.Info("failed to load credentials", "schedule_id", s.ID, "error", err)
		return StageFailed
	}
	if !account.CanPublish() {
		return StageSkippedNoCredentials
	}

	res, err := j.dispatcher.Dispatch(ctx, content.ID)
	if err != nil {
		slog.Info("publish failed", "schedule_id", s.ID, "content_id", content.ID, "error", err)
		return StageFailed
	}
	if res == queue.Queued {
		return StagePublishQueued
	}
	return StagePublished
}

func (j *ScrapeJob) advance(ctx context.Context, s *models.Schedule, now time.Time) {
	s.Advance(now)
	if err := j.sr.UpdateRun(ctx, s.ID, *s.LastRun, s.NextRun); err != nil {
		slog.Info("failed to advance schedule", "schedule_id", s.ID, "error", err)
	}
}
