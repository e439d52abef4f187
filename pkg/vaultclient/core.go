package vaultclient

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// VaultVersion returns the version of the Vault instance.
func (c *Client) VaultVersion(ctx context.Context) (*semver.Version, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := c.Do(ctx, "GET", "/v1/vault-version", nil, nil, &out); err != nil {
		return nil, err
	}
	v, err := semver.NewVersion(out.Version)
	if err != nil {
		return nil, fmt.Errorf("vaultclient: parse vault version %q: %w", out.Version, err)
	}
	return v, nil
}

// Account is the subset of a Core API account the toolkit reads.
type Account struct {
	ID               string            `json:"id"`
	ProductVersionID string            `json:"product_version_id"`
	Status           string            `json:"status"`
	StakeholderIDs   []string          `json:"stakeholder_ids"`
	InstanceParams   map[string]string `json:"instance_param_vals"`
	OpeningTimestamp string            `json:"opening_timestamp"`
}

// GetAccount fetches a single account.
func (c *Client) GetAccount(ctx context.Context, accountID string) (Account, error) {
	var out Account
	err := c.Do(ctx, "GET", "/v1/accounts/"+accountID, nil, nil, &out)
	return out, err
}

// DefaultAccountStatuses are listed when no status filter is given.
var DefaultAccountStatuses = []string{"ACCOUNT_STATUS_OPEN", "ACCOUNT_STATUS_PENDING_CLOSURE"}

// ListAccounts lists accounts with the given statuses and product versions.
func (c *Client) ListAccounts(ctx context.Context, statuses, productVersionIDs []string, opts PageOptions) ([]Account, error) {
	if len(statuses) == 0 {
		statuses = DefaultAccountStatuses
	}
	params := map[string]any{
		"account_statuses":    statuses,
		"product_version_ids": productVersionIDs,
	}
	return FetchAll[Account](ctx, c, "GET", "/v1/accounts", params, "accounts", opts)
}

// LiveBalance is one live balance row.
type LiveBalance struct {
	AccountID      string `json:"account_id"`
	AccountAddress string `json:"account_address"`
	Phase          string `json:"phase"`
	Asset          string `json:"asset"`
	Denomination   string `json:"denomination"`
	Amount         string `json:"amount"`
	TotalDebit     string `json:"total_debit"`
	TotalCredit    string `json:"total_credit"`
	ValueTime      string `json:"value_time"`
}

// LiveBalances lists the live balances of an account, optionally filtered
// to one address.
func (c *Client) LiveBalances(ctx context.Context, accountID, address string, opts PageOptions) ([]LiveBalance, error) {
	params := map[string]any{"account_ids": accountID}
	if address != "" {
		params["account_addresses"] = address
	}
	return FetchAll[LiveBalance](ctx, c, "GET", "/v1/balances/live", params, "balances", opts)
}
