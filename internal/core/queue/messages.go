package queue

import (
	"fmt"
	"strings"
)

// User-facing texts.
const (
	GreetingAdmin      = "Hello! Use the buttons below to manage the queue."
	GreetingUser       = "Hello! Use the buttons below to take a place in the queue."
	UnknownCommandText = "Unknown command. Use the buttons to work with the bot."
	AlreadyInQueueText = "You are already in the queue!"
	LeftText           = "You have been removed from the queue."
	NotInQueueText     = "You are not in the queue."
	EmptyQueueText     = "The queue is empty."
	ClearedText        = "The queue has been cleared."
	ForbiddenText      = "This command is available to administrators only."
	UpNextText         = "You're up next! Please get ready."
	FailureText        = "Something went wrong. Please try again later."
	unknownName        = "Unknown user"
)

// ListedEntry is one line of a rendered queue listing.
type ListedEntry struct {
	Position      int
	ParticipantID int64
	DisplayName   string
}

// JoinedText confirms enrollment.
func JoinedText(position int) string {
	return fmt.Sprintf("You have been added to the queue. Your number: %d.", position)
}

// PositionText reports the caller's place.
func PositionText(position int) string {
	return fmt.Sprintf("Your place in the queue: %d.", position)
}

// RemovedText confirms an admin-remove.
func RemovedText(participantID int64) string {
	return fmt.Sprintf("Participant %d has been removed from the queue.", participantID)
}

// TargetAbsentText reports that the admin-remove target is not queued.
func TargetAbsentText(participantID int64) string {
	return fmt.Sprintf("Participant %d is not in the queue.", participantID)
}

// RenderList renders a numbered queue listing. withIDs appends participant
// IDs, which only administrators see.
func RenderList(entries []ListedEntry, withIDs bool) string {
	if len(entries) == 0 {
		return EmptyQueueText
	}

	var b strings.Builder
	b.WriteString("Queue:")
	for _, e := range entries {
		name := e.DisplayName
		if name == "" {
			name = unknownName
		}
		fmt.Fprintf(&b, "\n%d. %s", e.Position, name)
		if withIDs {
			fmt.Fprintf(&b, " (ID: %d)", e.ParticipantID)
		}
	}
	return b.String()
}
