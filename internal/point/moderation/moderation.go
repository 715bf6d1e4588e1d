// Package moderation holds the state machine that governs donation point
// visibility. Points created by organizations wait in PENDING until an
// administrator approves or rejects them; rejected points re-enter the queue
// when their owner edits them.
package moderation

import "donapoint/internal/point/models"

// Approve moves a point to ACTIVE from any state, clears a previous
// rejection reason and forces the visibility flag on. Approving an already
// active point is a no-op with the same observable result.
func Approve(p *models.Point) {
	p.State = models.StateActive
	p.Active = true
	p.RejectionReason = ""
}

// Reject moves a point to REJECTED from any state and records the reason.
// An empty reason is allowed.
func Reject(p *models.Point, reason string) {
	p.State = models.StateRejected
	p.RejectionReason = reason
}

// ResubmitOnEdit re-queues a rejected organization point for review after an
// edit. The transition fires only when the edit payload carried more than a
// single key: toggling just the active flag must not reset the queue, so an
// administrator can soft-hide a rejected point without resubmitting it.
// Returns whether the transition fired.
func ResubmitOnEdit(p *models.Point, payloadFields int) bool {
	if !p.OrganizationCreated() || p.State != models.StateRejected || payloadFields <= 1 {
		return false
	}
	p.State = models.StatePending
	p.RejectionReason = ""
	return true
}
