// Copyright (C) 2025 Dotmart, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package automation reconciles pending program enrollments: it resolves
// each local record to a remote contact, pushes per-type datafields, enrolls
// the resolved contacts into their program and writes one terminal outcome
// per batch.
package automation

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/dotmart/emailsync/internal/dotapi"
	"github.com/dotmart/emailsync/internal/logctx"
	"github.com/dotmart/emailsync/internal/tenant"
	"github.com/dotmart/emailsync/syncdb"
)

// programNotActiveSentinel is the exact message, trailing space included,
// that the remote service stores on enrollments whose program was switched
// off. Seeing it forces the Deactivated outcome.
const programNotActiveSentinel = "Error: ERROR_PROGRAM_NOT_ACTIVE "

// Store is the enrollment queue plus the order lookup the datafield updates
// need.
type Store interface {
	PendingAutomationTypes(ctx context.Context) ([]syncdb.AutomationType, error)
	PendingAutomationsByType(ctx context.Context, automationType syncdb.AutomationType, limit int) ([]syncdb.AutomationEnrollment, error)
	UpdateAutomationStatus(ctx context.Context, id int64, status syncdb.EnrolmentStatus, message string) error
	UpdateAutomationBatch(ctx context.Context, ids []int64, status syncdb.EnrolmentStatus, message string) (int64, error)
	OrderByID(ctx context.Context, orderID int64) (syncdb.OrderRow, error)
}

// Reconciler runs one enrollment reconciliation cycle at a time.
type Reconciler struct {
	store      Store
	clients    dotapi.Provider
	accounts   tenant.Provider
	batchLimit int
}

func New(store Store, clients dotapi.Provider, accounts tenant.Provider, batchLimit int) *Reconciler {
	return &Reconciler{
		store:      store,
		clients:    clients,
		accounts:   accounts,
		batchLimit: batchLimit,
	}
}

// Sync processes every automation type with pending enrollments. Business
// failures are written to the rows themselves; only infrastructure failures
// (fetches and the final batched writes) surface in the returned error.
func (r *Reconciler) Sync(ctx context.Context) error {
	types, err := r.store.PendingAutomationTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to discover pending automation types: %w", err)
	}

	var errs *multierror.Error
	for _, automationType := range types {
		if err := r.syncType(ctx, automationType); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("automation type %s: %w", automationType, err))
		}
	}
	return errs.ErrorOrNil()
}

func (r *Reconciler) syncType(ctx context.Context, automationType syncdb.AutomationType) error {
	ctx = logctx.WithAttrs(ctx, "automationType", string(automationType))
	ll := logctx.FromContext(ctx)

	enrollments, err := r.store.PendingAutomationsByType(ctx, automationType, r.batchLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch pending enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return nil
	}

	// Enrollments of one type share a website and program per cycle.
	websiteID := enrollments[0].WebsiteID
	programID := enrollments[0].ProgramID

	client, err := r.clients.ClientForWebsite(ctx, websiteID)
	if err != nil {
		ll.Debug("Skipping automation type, no usable client", "websiteID", websiteID, "reason", err)
		return nil
	}
	account, err := r.accounts.AccountForWebsite(ctx, websiteID)
	if err != nil {
		ll.Debug("Skipping automation type, no account", "websiteID", websiteID, "reason", err)
		return nil
	}

	var enrolledIDs []int64
	var contactIDs []int64
	for _, enrollment := range enrollments {
		contact, err := client.GetContactByEmail(ctx, enrollment.Email)
		if err != nil || contact.ID == 0 {
			// Unresolved identities are suppressed inline, never
			// silently dropped.
			message := "contact not found"
			if err != nil {
				message = err.Error()
			}
			if uerr := r.store.UpdateAutomationStatus(ctx, enrollment.ID, syncdb.EnrolmentStatusSuppressed, message); uerr != nil {
				ll.Error("Failed to suppress enrollment", "id", enrollment.ID, "error", uerr)
			}
			enrollmentsSuppressed.Add(ctx, 1)
			continue
		}

		r.updateDataFields(ctx, client, account, enrollment)
		enrolledIDs = append(enrolledIDs, enrollment.ID)
		contactIDs = append(contactIDs, contact.ID)
	}

	if len(contactIDs) == 0 {
		return nil
	}

	status, message := r.enrollContacts(ctx, client, programID, contactIDs)
	if message == programNotActiveSentinel {
		status = syncdb.EnrolmentStatusDeactivated
	}

	affected, err := r.store.UpdateAutomationBatch(ctx, enrolledIDs, status, message)
	if err != nil {
		return fmt.Errorf("failed to write batch outcome: %w", err)
	}
	enrollmentsProcessed.Add(ctx, affected)
	ll.Info("Automation batch reconciled", "status", status, "enrollments", len(enrolledIDs), "affected", affected)
	return nil
}

// enrollContacts confirms the program is active and submits all resolved
// contact ids in one call. The whole batch gets one outcome.
func (r *Reconciler) enrollContacts(ctx context.Context, client dotapi.Client, programID int64, contactIDs []int64) (syncdb.EnrolmentStatus, string) {
	program, err := client.GetProgramByID(ctx, programID)
	if err != nil {
		return syncdb.EnrolmentStatusFailed, err.Error()
	}
	if program.Status != dotapi.ProgramActive {
		status := program.Status
		if status == "" {
			status = string(syncdb.EnrolmentStatusFailed)
		}
		return syncdb.EnrolmentStatus(status), ""
	}

	result, err := client.PostProgramEnrolments(ctx, dotapi.Enrolment{
		Contacts:  contactIDs,
		ProgramID: programID,
	})
	if err != nil {
		return syncdb.EnrolmentStatusFailed, err.Error()
	}
	if result.Message != "" {
		return syncdb.EnrolmentStatusFailed, result.Message
	}
	return syncdb.EnrolmentStatusActive, ""
}

// updateDataFields pushes the per-type datafields for one resolved
// enrollment. Failures are logged; they do not exclude the contact from the
// enrollment call.
func (r *Reconciler) updateDataFields(ctx context.Context, client dotapi.Client, account tenant.Account, enrollment syncdb.AutomationEnrollment) {
	ll := logctx.FromContext(ctx)

	var fields []dotapi.DataField
	if usesOrderDataFields(enrollment.AutomationType) {
		order, err := r.store.OrderByID(ctx, enrollment.TypeID)
		if err != nil {
			ll.Warn("Failed to load order for datafields", "enrollmentID", enrollment.ID, "orderID", enrollment.TypeID, "error", err)
			fields = defaultDataFields(account, enrollment)
		} else {
			fields = orderDataFields(account, enrollment, order)
		}
	} else {
		fields = defaultDataFields(account, enrollment)
	}

	if len(fields) == 0 {
		return
	}
	if err := client.UpdateContactDataFieldsByEmail(ctx, enrollment.Email, fields); err != nil {
		ll.Warn("Failed to update contact datafields", "enrollmentID", enrollment.ID, "email", enrollment.Email, "error", err)
	}
}
