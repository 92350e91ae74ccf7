package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reminder-draft/internal/draft"
	"reminder-draft/internal/draft/repository"
	"reminder-draft/internal/model"
	"reminder-draft/pkg/gcalendar"
)

// commitProposals validates and stores the selected proposals. Stored
// items are never rolled back. Failed and unselected items are carried
// into a fresh pending session renumbered from 1; when nothing is left
// the session is committed and discarded.
func (uc *implUseCase) commitProposals(ctx context.Context, sc model.Scope, key string, sess *draft.Session, indices []int) (draft.CommandOutcome, error) {
	sess.Status = draft.StatusCommitting

	selected := make(map[int]bool, len(indices))
	for _, n := range indices {
		selected[n] = true
	}

	var committed []model.Reminder
	var leftover []draft.Proposal
	var reasons []error
	failedCount := 0

	for _, p := range sess.Proposals {
		if !selected[p.Index] {
			leftover = append(leftover, p)
			continue
		}

		rem, err := uc.commitOne(ctx, sc, sess, p)
		if err != nil {
			uc.l.Errorf(ctx, "commit: proposal %d %q failed: %v", p.Index, p.Title, err)
			leftover = append(leftover, p)
			reasons = append(reasons, fmt.Errorf("%q: %w", p.Title, err))
			failedCount++
			continue
		}

		committed = append(committed, rem)
		uc.l.Infof(ctx, "commit: stored reminder %s from proposal %q", rem.ID, p.Title)
	}

	now := uc.now()
	if len(leftover) == 0 {
		sess.Status = draft.StatusCommitted
		sess.Proposals = nil
		uc.sessions.remove(key)
	} else {
		renumber(leftover)
		sess.Proposals = leftover
		sess.Status = draft.StatusPending
		sess.RefinementTarget = 0
		sess.ExpiresAt = now.Add(uc.cfg.SessionTimeout)
		uc.sessions.put(key, sess)
	}

	outcome := draft.CommandOutcome{
		Session:   sess,
		Committed: committed,
		Summary:   renderCommitOutcome(sess, committed, failedCount),
	}

	if failedCount > 0 {
		if len(committed) == 0 {
			return outcome, reasons[0]
		}
		return outcome, &draft.PartialCommitError{
			CommittedCount: len(committed),
			FailedCount:    failedCount,
			Reasons:        reasons,
		}
	}
	return outcome, nil
}

// commitOne validates a single proposal and hands it to the store.
// Calendar event creation is best-effort and never fails the commit.
func (uc *implUseCase) commitOne(ctx context.Context, sc model.Scope, sess *draft.Session, p draft.Proposal) (model.Reminder, error) {
	if strings.TrimSpace(p.Title) == "" {
		return model.Reminder{}, fmt.Errorf("empty title")
	}
	if p.Recurrence != draft.RecurrenceNone && p.Recurrence != "" && p.Due == nil {
		return model.Reminder{}, draft.ErrInvalidRecurrence
	}

	opt := repository.CreateReminderOptions{
		Title:       p.Title,
		Notes:       p.Notes,
		Link:        p.Link,
		Priority:    p.Priority,
		Topics:      p.Topics,
		Timezone:    uc.cfg.Timezone,
		ChatID:      sess.ChatID,
		OwnerUserID: sc.UserID,
		SourceRefs:  p.SourceRefs,
	}
	if p.Recurrence != draft.RecurrenceNone && p.Recurrence != "" {
		opt.Recurrence = string(p.Recurrence)
	}
	if p.Due != nil {
		due := p.Due.Time
		opt.DueAt = &due
		opt.AllDay = p.Due.AllDay
	}

	rem, err := uc.repo.CreateReminder(ctx, opt)
	if err != nil {
		return model.Reminder{}, err
	}

	if link := uc.tryCreateCalendarEvent(ctx, p); link != "" {
		rem.CalendarLink = link
	}
	return rem, nil
}

// tryCreateCalendarEvent attempts to mirror a dated proposal into
// Google Calendar. Returns the event HTML link, or empty string on
// failure (graceful degradation).
func (uc *implUseCase) tryCreateCalendarEvent(ctx context.Context, p draft.Proposal) string {
	if uc.calendar == nil || p.Due == nil {
		return ""
	}

	start := p.Due.Time
	var end time.Time
	if p.Due.AllDay {
		end = start.AddDate(0, 0, 1)
	} else {
		end = start.Add(time.Hour)
	}

	event, err := uc.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  "primary",
		Summary:     p.Title,
		Description: p.Notes,
		StartTime:   start,
		EndTime:     end,
		Timezone:    uc.cfg.Timezone,
		AllDay:      p.Due.AllDay,
	})
	if err != nil {
		uc.l.Warnf(ctx, "commit: calendar event creation failed for %q (non-fatal): %v", p.Title, err)
		return ""
	}
	return event.HtmlLink
}
