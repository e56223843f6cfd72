package errs

import "github.com/m-mizutani/goerr/v2"

var (
	// Client errors (4xx)
	TagNotFound       = goerr.NewTag("not_found")       // 404
	TagValidation     = goerr.NewTag("validation")      // 400
	TagInvalidRequest = goerr.NewTag("invalid_request") // 400
	TagConflict       = goerr.NewTag("conflict")        // 409

	// Remote store errors
	TagExternal = goerr.NewTag("external") // 502
	TagInternal = goerr.NewTag("internal") // 500

	// Flow control, never surfaced as faults
	TagCancelled = goerr.NewTag("cancelled")
	TagStale     = goerr.NewTag("stale")
)
