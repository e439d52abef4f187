package contracts

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAddress and DefaultAsset are the balance coordinates used when a
// posting does not name its own.
const (
	DefaultAddress = "DEFAULT"
	DefaultAsset   = "COMMERCIAL_BANK_MONEY"
)

// Balance holds credit, debit and net amounts for one coordinate.
type Balance struct {
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
	Net    decimal.Decimal `json:"net"`
}

// tsideSign is +1 for liability accounts and -1 for asset accounts.
func tsideSign(t Tside) decimal.Decimal {
	if t == TsideAsset {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Adjust adds credit and debit to the balance and recomputes Net for tside.
func (b Balance) Adjust(tside Tside, credit, debit decimal.Decimal) Balance {
	b.Credit = b.Credit.Add(credit)
	b.Debit = b.Debit.Add(debit)
	b.Net = b.Credit.Sub(b.Debit).Mul(tsideSign(tside))
	return b
}

// Add sums two balances field by field.
func (b Balance) Add(o Balance) Balance {
	return Balance{Credit: b.Credit.Add(o.Credit), Debit: b.Debit.Add(o.Debit), Net: b.Net.Add(o.Net)}
}

// Equal compares balances by value.
func (b Balance) Equal(o Balance) bool {
	return b.Credit.Equal(o.Credit) && b.Debit.Equal(o.Debit) && b.Net.Equal(o.Net)
}

func (b Balance) String() string {
	return fmt.Sprintf("Balance(credit=%s, debit=%s, net=%s)", b.Credit, b.Debit, b.Net)
}

// BalanceCoordinate identifies one balance of an account.
type BalanceCoordinate struct {
	AccountAddress string `json:"account_address"`
	Asset          string `json:"asset"`
	Denomination   string `json:"denomination"`
	Phase          Phase  `json:"phase"`
}

// Coordinate is a shorthand for a coordinate on the default address and asset.
func Coordinate(denomination string, phase Phase) BalanceCoordinate {
	return BalanceCoordinate{AccountAddress: DefaultAddress, Asset: DefaultAsset, Denomination: denomination, Phase: phase}
}

func (c BalanceCoordinate) String() string {
	return fmt.Sprintf("BalanceCoordinate(account_address=%s, asset=%s, denomination=%s, phase=%s)",
		c.AccountAddress, c.Asset, c.Denomination, c.Phase)
}

func (c BalanceCoordinate) less(o BalanceCoordinate) bool {
	if c.AccountAddress != o.AccountAddress {
		return c.AccountAddress < o.AccountAddress
	}
	if c.Asset != o.Asset {
		return c.Asset < o.Asset
	}
	if c.Denomination != o.Denomination {
		return c.Denomination < o.Denomination
	}
	return c.Phase < o.Phase
}

// BalanceDefaultDict maps coordinates to balances. Missing coordinates read
// as a zero balance.
type BalanceDefaultDict map[BalanceCoordinate]Balance

// Get returns the balance at c, or a zero balance.
func (d BalanceDefaultDict) Get(c BalanceCoordinate) Balance {
	return d[c]
}

// Add returns a new dict holding the per-coordinate sum of d and other.
func (d BalanceDefaultDict) Add(other BalanceDefaultDict) BalanceDefaultDict {
	out := make(BalanceDefaultDict, len(d)+len(other))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range other {
		out[k] = out[k].Add(v)
	}
	return out
}

// Merge adds other into d in place.
func (d BalanceDefaultDict) Merge(other BalanceDefaultDict) {
	for k, v := range other {
		d[k] = d[k].Add(v)
	}
}

// Coordinates returns the keys in a stable order.
func (d BalanceDefaultDict) Coordinates() []BalanceCoordinate {
	keys := make([]BalanceCoordinate, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

type balanceEntry struct {
	Coordinate BalanceCoordinate `json:"coordinate"`
	Balance    Balance           `json:"balance"`
}

func (d BalanceDefaultDict) MarshalJSON() ([]byte, error) {
	entries := make([]balanceEntry, 0, len(d))
	for _, k := range d.Coordinates() {
		entries = append(entries, balanceEntry{Coordinate: k, Balance: d[k]})
	}
	return json.Marshal(entries)
}

func (d *BalanceDefaultDict) UnmarshalJSON(data []byte) error {
	var entries []balanceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	out := make(BalanceDefaultDict, len(entries))
	for _, e := range entries {
		out[e.Coordinate] = out[e.Coordinate].Add(e.Balance)
	}
	*d = out
	return nil
}

// BalancesObservation is a snapshot of balances at ValueDatetime. A zero
// ValueDatetime marks a live observation.
type BalancesObservation struct {
	Balances      BalanceDefaultDict `json:"balances"`
	ValueDatetime time.Time          `json:"value_datetime,omitempty"`
}

func (o BalancesObservation) Validate() error {
	if err := requireUTC(o.ValueDatetime, "value_datetime", "BalancesObservation"); err != nil {
		return err
	}
	if o.Balances == nil {
		return strongTypingf("'BalancesObservation.balances' expected BalanceDefaultDict, got None")
	}
	return nil
}

// BalanceTimeseries is the history of one balance coordinate. Lookups with
// no value in force read as a zero balance.
type BalanceTimeseries = Timeseries[Balance]

// NewBalanceTimeseries builds a BalanceTimeseries that returns a zero
// balance before its first item.
func NewBalanceTimeseries(items []TimeseriesItem[Balance]) (BalanceTimeseries, error) {
	ts, err := NewTimeseries(items)
	if err != nil {
		return ts, err
	}
	return ts.WithReturnOnEmpty(Balance{}), nil
}

// AddressDetails describes an account address.
type AddressDetails struct {
	AccountAddress string   `json:"account_address"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
}

func (a AddressDetails) Validate() error {
	if a.AccountAddress == "" {
		return invalidf("AddressDetails 'account_address' must be populated")
	}
	if a.Description == "" {
		return invalidf("AddressDetails 'description' must be populated")
	}
	if a.Tags == nil {
		return invalidf("AddressDetails 'tags' must be populated")
	}
	return nil
}
