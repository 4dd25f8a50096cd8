// Package queue contains the pure business logic for queue operations.
// Guards are pure functions that evaluate preconditions without side effects.
package queue

import "fmt"

// Status is the user-visible outcome of a queue operation.
type Status string

const (
	StatusOK        Status = "ok"
	StatusAlready   Status = "already"
	StatusAbsent    Status = "absent"
	StatusForbidden Status = "forbidden"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Status  Status
	Reason  string
}

func allowed() GuardResult {
	return GuardResult{Allowed: true, Status: StatusOK}
}

// MembershipContext provides context for join/leave guards.
type MembershipContext struct {
	ParticipantID int64
	Enrolled      bool
}

// AdminContext provides context for administrator-only guards.
type AdminContext struct {
	CallerID int64
	IsAdmin  bool
}

// RemoveContext provides context for the admin-remove guard.
type RemoveContext struct {
	CallerID       int64
	IsAdmin        bool
	TargetID       int64
	TargetEnrolled bool
}

// CanJoin evaluates whether a participant can join the queue.
// Rules:
// - Participant must not already be enrolled
func CanJoin(ctx MembershipContext) GuardResult {
	if ctx.Enrolled {
		return GuardResult{
			Status: StatusAlready,
			Reason: fmt.Sprintf("participant %d is already in the queue", ctx.ParticipantID),
		}
	}
	return allowed()
}

// CanLeave evaluates whether a participant can leave the queue.
// Rules:
// - Participant must be enrolled
func CanLeave(ctx MembershipContext) GuardResult {
	if !ctx.Enrolled {
		return GuardResult{
			Status: StatusAbsent,
			Reason: fmt.Sprintf("participant %d is not in the queue", ctx.ParticipantID),
		}
	}
	return allowed()
}

// CanAdminister evaluates whether the caller may run an administrator-only
// action (clear, export).
func CanAdminister(ctx AdminContext) GuardResult {
	if !ctx.IsAdmin {
		return GuardResult{
			Status: StatusForbidden,
			Reason: fmt.Sprintf("participant %d is not an administrator", ctx.CallerID),
		}
	}
	return allowed()
}

// CanRemove evaluates whether the caller may remove the target from the queue.
// Rules:
// - Caller must be an administrator
// - Target must be enrolled
func CanRemove(ctx RemoveContext) GuardResult {
	if r := CanAdminister(AdminContext{CallerID: ctx.CallerID, IsAdmin: ctx.IsAdmin}); !r.Allowed {
		return r
	}
	if !ctx.TargetEnrolled {
		return GuardResult{
			Status: StatusAbsent,
			Reason: fmt.Sprintf("participant %d is not in the queue", ctx.TargetID),
		}
	}
	return allowed()
}
