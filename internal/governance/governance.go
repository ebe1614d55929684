// Package governance is the version lifecycle state machine: it decides
// which mutations a caller may apply to a project version and in which
// order statuses may move. Decisions are pure; persistence is the caller's
// job. Rejections carry one of the sentinel errors below and are never
// retried.
package governance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pricecast/backend/internal/engine"
	"github.com/pricecast/backend/internal/model"
	"github.com/shopspring/decimal"
)

var (
	// ErrLocked rejects any mutation against a locked version. It is
	// checked before all other validation.
	ErrLocked = errors.New("version is locked")
	// ErrNotLocked rejects an unlock of a version that is not locked.
	ErrNotLocked = errors.New("version is not locked")
	// ErrForbidden rejects a caller without the required authority.
	ErrForbidden = errors.New("insufficient authority")
	// ErrInvalidTransition rejects a status move the transition table
	// does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrJustificationRequired rejects an over-threshold effort change
	// without an adequate written justification.
	ErrJustificationRequired = errors.New("justification required")
	// ErrReasonRequired rejects an unlock without a reason.
	ErrReasonRequired = errors.New("reason required")
)

// MinJustificationLen is the minimum trimmed length of a justification for
// an over-threshold effort change.
const MinJustificationLen = 10

// StatusTransitions maps each lifecycle status to its allowed targets.
// Won is terminal while locked; unlock demotes to submitted out of band.
var StatusTransitions = map[string][]string{
	model.StatusDraft:     {model.StatusReview},
	model.StatusReview:    {model.StatusSubmitted, model.StatusDraft},
	model.StatusSubmitted: {model.StatusWon, model.StatusReview},
	model.StatusWon:       {},
}

// Guard gates version mutations. Its only dependency is the calculation
// engine, which supplies the effort-override threshold predicate.
type Guard struct {
	engine *engine.Engine
}

func NewGuard(e *engine.Engine) *Guard {
	return &Guard{engine: e}
}

// CheckUnlocked is the first gate of every mutation entry point.
func (g *Guard) CheckUnlocked(v *model.ProjectVersion) error {
	if v.IsLocked {
		return ErrLocked
	}
	return nil
}

// AuthorizeTransition validates a status move: the version must be
// unlocked, the transition table must allow the move, and the caller must
// hold edit authority, or the narrower finance authority to reach won.
func (g *Guard) AuthorizeTransition(v *model.ProjectVersion, target string, roles []string) error {
	if v.IsLocked {
		return ErrLocked
	}
	current := strings.ToLower(v.Status)
	if current == "" {
		current = model.StatusDraft
	}
	target = strings.ToLower(target)
	allowed := StatusTransitions[current]
	ok := false
	for _, a := range allowed {
		if a == target {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, current, target)
	}
	if target == model.StatusWon {
		if !CanLockVersion(roles) {
			return fmt.Errorf("%w: only finance or admin may mark a version won", ErrForbidden)
		}
		return nil
	}
	if !CanEditFeatures(roles) {
		return fmt.Errorf("%w: cannot transition status", ErrForbidden)
	}
	return nil
}

// ApplyTransition mutates the version for an authorized move. Entering won
// sets the lock flag and records the locking actor and time atomically
// with the status change.
func (g *Guard) ApplyTransition(v *model.ProjectVersion, target string, userID int64, now time.Time) {
	target = strings.ToLower(target)
	v.Status = target
	if target == model.StatusWon {
		v.IsLocked = true
		v.LockedBy = &userID
		v.LockedAt = &now
	}
}

// AuthorizeLock validates the submitted→won shortcut: finance authority,
// not already locked, and status submitted.
func (g *Guard) AuthorizeLock(v *model.ProjectVersion, roles []string) error {
	if !CanLockVersion(roles) {
		return fmt.Errorf("%w: only finance or admin may lock", ErrForbidden)
	}
	if v.IsLocked {
		return ErrLocked
	}
	if strings.ToLower(v.Status) != model.StatusSubmitted {
		return fmt.Errorf("%w: can only lock a submitted version", ErrInvalidTransition)
	}
	return nil
}

// ApplyLock marks the version won and locked.
func (g *Guard) ApplyLock(v *model.ProjectVersion, userID int64, now time.Time) {
	g.ApplyTransition(v, model.StatusWon, userID, now)
}

// AuthorizeUnlock validates an unlock: highest administrative authority, a
// locked version, and a non-empty reason.
func (g *Guard) AuthorizeUnlock(v *model.ProjectVersion, roles []string, reason string) error {
	if !CanUnlockVersion(roles) {
		return fmt.Errorf("%w: only admin may unlock", ErrForbidden)
	}
	if !v.IsLocked {
		return ErrNotLocked
	}
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	return nil
}

// ApplyUnlock clears the lock and demotes the version to submitted;
// never back to draft or review.
func (g *Guard) ApplyUnlock(v *model.ProjectVersion) {
	v.IsLocked = false
	v.LockedBy = nil
	v.LockedAt = nil
	v.Status = model.StatusSubmitted
}

// AuthorizeEffortChange gates an effort-hours edit. Below the threshold any
// feature-edit authority passes. Beyond it the caller must hold senior
// technical or administrative authority and supply a justification of at
// least MinJustificationLen trimmed characters. Returns the authority tag
// recorded in history and whether the change exceeded the threshold.
func (g *Guard) AuthorizeEffortChange(
	previous, proposed decimal.Decimal,
	roles []string,
	justification string,
) (authority string, exceeds bool, err error) {
	if !CanModifyEffort(roles) && !CanEditFeatures(roles) {
		return "", false, fmt.Errorf("%w: cannot modify effort", ErrForbidden)
	}
	exceeds = g.engine.EffortOverrideExceedsThreshold(previous, proposed)
	if exceeds {
		if !hasAny(roles, RoleTechnicalArchitect, RoleAdmin) {
			return "", true, fmt.Errorf("%w: effort change beyond threshold requires technical architect approval", ErrForbidden)
		}
		if len(strings.TrimSpace(justification)) < MinJustificationLen {
			return "", true, ErrJustificationRequired
		}
	}
	authority = RoleBusinessAnalyst
	if CanModifyEffort(roles) {
		authority = RoleTechnicalArchitect
	}
	return authority, exceeds, nil
}
