package importer

import "errors"

// Terminal failure classes of the import pipeline. Runner translates each
// into a user-visible notification and returns it for errors.Is checks;
// none escape as unhandled faults.
var (
	// ErrMissingURL means the caller provided no URL; nothing was sent.
	ErrMissingURL = errors.New("no URL provided")

	// ErrSubmissionFailed means the submission call failed or the server
	// returned no task id; the job never started.
	ErrSubmissionFailed = errors.New("submission failed")

	// ErrJobFailed means the server reported the conversion task as failed.
	ErrJobFailed = errors.New("conversion task failed")

	// ErrPollTimeout means the configured maximum wait elapsed before the
	// task reached a terminal status.
	ErrPollTimeout = errors.New("timed out waiting for task completion")

	// ErrAllUploadsFailed means every chunk upload of a non-empty batch
	// failed.
	ErrAllUploadsFailed = errors.New("all chunk uploads failed")
)
