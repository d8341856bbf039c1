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

package tenant

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileProvider struct {
	accounts map[int32]Account
}

// NewFileProvider loads accounts from a YAML file once at startup. Intended
// for local development and single-box deployments without the sync
// database's account table.
func NewFileProvider(path string) (Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file %s: %w", path, err)
	}

	var accounts []Account
	if err := yaml.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file %s: %w", path, err)
	}

	byWebsite := make(map[int32]Account, len(accounts))
	for _, account := range accounts {
		byWebsite[account.WebsiteID] = account
	}
	return &fileProvider{accounts: byWebsite}, nil
}

func (p *fileProvider) AccountForWebsite(_ context.Context, websiteID int32) (Account, error) {
	account, ok := p.accounts[websiteID]
	if !ok {
		return Account{}, fmt.Errorf("%w: website %d", ErrAccountNotFound, websiteID)
	}
	return account, nil
}

func (p *fileProvider) EnabledAccounts(_ context.Context) ([]Account, error) {
	var enabled []Account
	for _, account := range p.accounts {
		if account.Enabled {
			enabled = append(enabled, account)
		}
	}
	return enabled, nil
}
