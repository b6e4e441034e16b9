package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kbtools/url2kb/internal/api"
)

// Runner executes the full import pipeline for a single URL: submit, poll
// to a terminal state, flatten the result, upload the chunks. A Runner
// holds no per-job state, so one value can serve concurrent runs.
type Runner struct {
	Client   *api.Client
	Notifier Notifier
	Logger   *slog.Logger

	// Interval and MaxWait configure the status poller.
	Interval time.Duration
	MaxWait  time.Duration

	// OnStatus is forwarded to the poller.
	OnStatus func(status string)
}

// Report is the final accounting for one import run.
type Report struct {
	TaskID string
	Units  int
	UploadOutcome
}

// Run drives url through the pipeline into collection. Every failure mode
// is surfaced through the notifier; the returned error classifies terminal
// failures for errors.Is against the package sentinels. A nil error covers
// full success, partial upload success, and the no-content case.
func (r *Runner) Run(ctx context.Context, url, collection string, opts Options) (*Report, error) {
	notify := r.Notifier
	if notify == nil {
		notify = NopNotifier{}
	}
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	if strings.TrimSpace(url) == "" {
		notify.Notify(SeverityWarning, "Please provide a URL to import")
		return nil, ErrMissingURL
	}

	log = log.With("run_id", uuid.New().String()[:8])

	taskID, err := r.Client.SubmitImport(ctx, opts.payload(url))
	if err != nil {
		log.Error("import submission failed", "url", url, "error", err)
		notify.Notify(SeverityError, fmt.Sprintf("Import submission failed: %v", err))
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	log.Info("import task submitted", "task_id", taskID, "url", url)
	notify.Notify(SeverityInfo, fmt.Sprintf("Import task %s started", taskID))

	poller := &Poller{
		Client:   r.Client,
		Interval: r.Interval,
		MaxWait:  r.MaxWait,
		OnStatus: r.OnStatus,
	}
	raw, err := poller.Wait(ctx, taskID)
	if err != nil {
		report := &Report{TaskID: taskID}
		switch {
		case errors.Is(err, ErrJobFailed):
			log.Error("conversion task failed", "task_id", taskID, "error", err)
			notify.Notify(SeverityError, fmt.Sprintf("Import failed: %v", err))
		case errors.Is(err, ErrPollTimeout):
			log.Error("gave up waiting for task", "task_id", taskID, "max_wait", r.MaxWait)
			notify.Notify(SeverityError, fmt.Sprintf("Gave up waiting for task %s after %s", taskID, r.MaxWait))
		default:
			log.Error("status polling failed", "task_id", taskID, "error", err)
			notify.Notify(SeverityError, fmt.Sprintf("Status polling failed: %v", err))
		}
		return report, err
	}

	doc, err := ParseResult(raw)
	if err != nil {
		log.Error("unreadable task result", "task_id", taskID, "error", err)
		notify.Notify(SeverityError, fmt.Sprintf("Unreadable task result: %v", err))
		return &Report{TaskID: taskID}, err
	}

	units := Flatten(doc)
	if len(units) == 0 {
		log.Info("task produced no extractable content", "task_id", taskID)
		notify.Notify(SeverityInfo, "Conversion finished but produced no extractable content")
		return &Report{TaskID: taskID}, nil
	}

	uploader := &Uploader{Client: r.Client, Logger: log}
	outcome := uploader.UploadAll(ctx, collection, units, opts)
	report := &Report{TaskID: taskID, Units: len(units), UploadOutcome: outcome}
	log.Info("chunk upload finished",
		"task_id", taskID, "collection", collection,
		"succeeded", outcome.Succeeded, "failed", outcome.Failed)

	// The listing may have changed even when some uploads failed.
	defer notify.RefreshCollections()

	switch {
	case outcome.Failed == 0:
		notify.Notify(SeveritySuccess, fmt.Sprintf("Imported %d chunks into %q", outcome.Succeeded, collection))
	case outcome.Succeeded == 0:
		notify.Notify(SeverityError, fmt.Sprintf("All %d chunk uploads failed", outcome.Failed))
		return report, ErrAllUploadsFailed
	default:
		notify.Notify(SeverityWarning, fmt.Sprintf("Imported %d chunks into %q, %d failed", outcome.Succeeded, collection, outcome.Failed))
	}
	return report, nil
}
