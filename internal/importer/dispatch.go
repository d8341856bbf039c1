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

package importer

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/dotmart/emailsync/internal/logctx"
)

// dispatchTier walks one tier's rules in order. The running total is a local
// so cycles stay re-entrant; a failure in one rule is collected and the next
// rule still runs.
func (imp *Importer) dispatchTier(ctx context.Context, rules []Rule) error {
	ll := logctx.FromContext(ctx)

	var errs *multierror.Error
	total := 0
	for _, rule := range rules {
		if total >= rule.Limit {
			continue
		}

		batch, err := imp.store.ImportQueueByTypeAndMode(ctx, rule.Types, rule.Mode, rule.Limit-total)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to fetch %v/%s entries: %w", rule.Types, rule.Mode, err))
			continue
		}
		if len(batch) == 0 {
			continue
		}

		total += len(batch)
		entriesDispatched.Add(ctx, int64(len(batch)))
		ll.Debug("Dispatching batch", "importTypes", rule.Types, "importMode", rule.Mode, "count", len(batch))

		if err := rule.Worker.Sync(ctx, batch); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("worker for %v/%s failed: %w", rule.Types, rule.Mode, err))
		}
	}
	return errs.ErrorOrNil()
}
