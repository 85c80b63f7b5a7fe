// Package errors provides the coded error type used across the journey engine.
//
// Every failure that crosses a package boundary is an *Error carrying a Code,
// a human readable message, an optional cause and optional metadata.
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("no save found")
//	err := errors.InvalidArgumentf("unknown option %q", optionID)
//
// Adding metadata:
//
//	err := errors.AlreadyExists("choice request already pending").
//	    WithMeta("pending_request_id", pending.ID)
//
// Wrapping errors:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save hero")
//	}
//
// Context errors:
//
//	if err := clk.Sleep(ctx, pause); err != nil {
//	    return errors.FromContext(err, "encounter abandoned")
//	}
//
// # Error Checking
//
//	if errors.IsDeadlineExceeded(err) {
//	    // the player never answered, fall back to a default
//	}
//
// # Codes used by the engine
//
//   - InvalidArgument: bad config or an option id the request did not offer
//   - AlreadyExists: a second choice request while one is pending
//   - FailedPrecondition: resolving a choice when nothing is pending
//   - Unavailable: no UI handler registered on the input bridge
//   - DeadlineExceeded: a choice request ran out of time
//   - Canceled: the caller abandoned the encounter or the bridge was closed
//   - NotFound: no save in the requested slot
//   - DataLoss: a save record could not be decoded
//   - Internal: storage or other unexpected faults
package errors
