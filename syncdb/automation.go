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

package syncdb

import (
	"context"
)

// PendingAutomationTypes returns the distinct automation types that currently
// have pending enrollments.
func (store *Store) PendingAutomationTypes(ctx context.Context) ([]AutomationType, error) {
	rows, err := store.db.Query(ctx, `
		SELECT DISTINCT automation_type
		FROM email_automation
		WHERE enrolment_status = $1
		ORDER BY automation_type`,
		EnrolmentStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []AutomationType
	for rows.Next() {
		var t AutomationType
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// PendingAutomationsByType returns up to limit pending enrollments of one
// type, oldest first.
func (store *Store) PendingAutomationsByType(ctx context.Context, automationType AutomationType, limit int) ([]AutomationEnrollment, error) {
	rows, err := store.db.Query(ctx, `
		SELECT id, automation_type, type_id, email, website_id, program_id,
			COALESCE(store_name, ''), enrolment_status, COALESCE(message, ''), created_at, updated_at
		FROM email_automation
		WHERE enrolment_status = $1 AND automation_type = $2
		ORDER BY id
		LIMIT $3`,
		EnrolmentStatusPending, automationType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []AutomationEnrollment
	for rows.Next() {
		var a AutomationEnrollment
		if err := rows.Scan(
			&a.ID, &a.AutomationType, &a.TypeID, &a.Email, &a.WebsiteID,
			&a.ProgramID, &a.StoreName, &a.EnrolmentStatus, &a.Message,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, a)
	}
	return enrollments, rows.Err()
}

// UpdateAutomationStatus writes the status and message of a single
// enrollment. Used for the inline Suppressed transition.
func (store *Store) UpdateAutomationStatus(ctx context.Context, id int64, status EnrolmentStatus, message string) error {
	_, err := store.db.Exec(ctx, `
		UPDATE email_automation
		SET enrolment_status = $2, message = $3, updated_at = now()
		WHERE id = $1`,
		id, status, message)
	return err
}

// UpdateAutomationBatch writes one outcome to every enrollment id in ids and
// returns the number of affected rows. Zero affected rows is not an error.
func (store *Store) UpdateAutomationBatch(ctx context.Context, ids []int64, status EnrolmentStatus, message string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := store.db.Exec(ctx, `
		UPDATE email_automation
		SET enrolment_status = $2, message = $3, updated_at = now()
		WHERE id = ANY($1)`,
		ids, status, message)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
