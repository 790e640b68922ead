package onboarding

import (
	"errors"
	"fmt"

	"clienthub/internal/domain"
)

type compensation int

const (
	compensateNone compensation = iota
	// compensateUser deletes the user row created while the image subtask
	// was failing.
	compensateUser
	// compensateAsset deletes the stored avatar written while the user
	// subtask was failing.
	compensateAsset
)

// decision is the outcome of reconciling the two subtask results: the error
// to report (nil on commit) and the compensating delete to run.
type decision struct {
	err        error
	compensate compensation
}

// reconcile maps the (image outcome, user outcome) pair to a single
// decision. Pure; no I/O. Compensation itself runs elsewhere and never
// changes the error chosen here.
//
//	image ok,   user ok   -> commit
//	image fail, user ok   -> delete user, report image error
//	image ok,   user fail -> delete asset, report user error
//	image fail, user fail -> internal error if either side is an internal
//	                         fault, otherwise a combined client conflict
func reconcile(imageErr, userErr error) decision {
	switch {
	case imageErr == nil && userErr == nil:
		return decision{}

	case imageErr != nil && userErr != nil:
		if isInternal(imageErr) || isInternal(userErr) {
			return decision{err: fmt.Errorf("%w: both registration subtasks failed", domain.ErrInternal)}
		}
		return decision{err: domain.ErrCombinedConflict}

	case imageErr != nil:
		return decision{err: imageErr, compensate: compensateUser}

	default:
		return decision{err: userErr, compensate: compensateAsset}
	}
}

func isInternal(err error) bool {
	return errors.Is(err, domain.ErrImageProcessing) || errors.Is(err, domain.ErrDatabase)
}
