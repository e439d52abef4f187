package contracts

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxPostingsPerInstruction bounds the postings of one CustomInstruction.
const MaxPostingsPerInstruction = 64

// Posting is a single ledger movement.
type Posting struct {
	Credit         bool            `json:"credit"`
	Amount         decimal.Decimal `json:"amount"`
	Denomination   string          `json:"denomination"`
	AccountID      string          `json:"account_id"`
	AccountAddress string          `json:"account_address"`
	Asset          string          `json:"asset"`
	Phase          Phase           `json:"phase"`
}

func (p Posting) Validate() error {
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"denomination", p.Denomination},
		{"account_id", p.AccountID},
		{"account_address", p.AccountAddress},
		{"asset", p.Asset},
	} {
		if f.v == "" {
			missing = append(missing, "'"+f.name+"'")
		}
	}
	if len(missing) > 0 {
		return invalidf("Postings missing required argument(s): [%s]", strings.Join(missing, ", "))
	}
	if !p.Amount.IsPositive() {
		return invalidf("Amount must be greater than 0, %s", p.Amount)
	}
	if !p.Phase.Valid() {
		return strongTypingf("'phase' must be set to a Phase value")
	}
	return nil
}

// TransactionCode classifies a posting instruction.
type TransactionCode struct {
	Domain    string `json:"domain"`
	Family    string `json:"family"`
	Subfamily string `json:"subfamily"`
}

func (c TransactionCode) Validate() error {
	if err := requireNonEmpty("TransactionCode.domain", c.Domain); err != nil {
		return err
	}
	if err := requireNonEmpty("TransactionCode.family", c.Family); err != nil {
		return err
	}
	return requireNonEmpty("TransactionCode.subfamily", c.Subfamily)
}

// CustomInstruction is a non-chainable instruction writing explicit credits
// and debits to the ledger.
type CustomInstruction struct {
	Postings                []Posting         `json:"postings"`
	InstructionDetails      map[string]string `json:"instruction_details,omitempty"`
	TransactionCode         *TransactionCode  `json:"transaction_code,omitempty"`
	OverrideAllRestrictions bool              `json:"override_all_restrictions,omitempty"`
}

func (c CustomInstruction) Validate() error {
	if len(c.Postings) == 0 {
		return invalidf("'postings' must be a non empty list, got []")
	}
	for _, p := range c.Postings {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if c.TransactionCode != nil {
		if err := c.TransactionCode.Validate(); err != nil {
			return err
		}
	}
	return c.validateZeroNet()
}

type netKey struct {
	asset, denomination string
	phase               Phase
}

func (k netKey) String() string {
	return fmt.Sprintf("('%s', '%s', %s)", k.asset, k.denomination, k.phase)
}

// validateZeroNet requires credits and debits to cancel out per
// (asset, denomination, phase).
func (c CustomInstruction) validateZeroNet() error {
	if len(c.Postings) > MaxPostingsPerInstruction {
		return invalidf("Too many postings submitted in the CUSTOM_INSTRUCTION. Number submitted: %d. Limit: %d.",
			len(c.Postings), MaxPostingsPerInstruction)
	}
	type sums struct{ credit, debit decimal.Decimal }
	var order []netKey
	totals := make(map[netKey]*sums)
	for _, p := range c.Postings {
		k := netKey{p.Asset, p.Denomination, p.Phase}
		s, ok := totals[k]
		if !ok {
			s = &sums{}
			totals[k] = s
			order = append(order, k)
		}
		if p.Credit {
			s.credit = s.credit.Add(p.Amount)
		} else {
			s.debit = s.debit.Add(p.Amount)
		}
	}
	for _, k := range order {
		s := totals[k]
		if !s.credit.Equal(s.debit) {
			return invalidf("Net of balance coordinate %s in the CustomInstruction: %s, Expected: 0.",
				k, s.credit.Sub(s.debit).Abs())
		}
	}
	return nil
}

// Balances returns the balance changes the instruction makes to accountID.
func (c CustomInstruction) Balances(accountID string, tside Tside) (BalanceDefaultDict, error) {
	return balancesOf(c.Postings, accountID, tside)
}

// PostingInstruction is an instruction as seen by hooks after the runtime
// has accepted it. CommittedPostings is the ledger effect.
type PostingInstruction struct {
	Type                      PostingInstructionType `json:"type"`
	ID                        string                 `json:"id,omitempty"`
	ClientTransactionID       string                 `json:"client_transaction_id,omitempty"`
	UniqueClientTransactionID string                 `json:"unique_client_transaction_id,omitempty"`
	ClientBatchID             string                 `json:"client_batch_id,omitempty"`
	BatchID                   string                 `json:"batch_id,omitempty"`
	InsertionDatetime         time.Time              `json:"insertion_datetime,omitempty"`
	ValueDatetime             time.Time              `json:"value_datetime,omitempty"`
	Amount                    *decimal.Decimal       `json:"amount,omitempty"`
	Denomination              string                 `json:"denomination,omitempty"`
	TargetAccountID           string                 `json:"target_account_id,omitempty"`
	InternalAccountID         string                 `json:"internal_account_id,omitempty"`
	Advice                    bool                   `json:"advice,omitempty"`
	Final                     bool                   `json:"final,omitempty"`
	InstructionDetails        map[string]string      `json:"instruction_details,omitempty"`
	BatchDetails              map[string]string      `json:"batch_details,omitempty"`
	TransactionCode           *TransactionCode       `json:"transaction_code,omitempty"`
	OverrideAllRestrictions   bool                   `json:"override_all_restrictions,omitempty"`
	CommittedPostings         []Posting              `json:"committed_postings,omitempty"`
	OwnAccountID              string                 `json:"own_account_id,omitempty"`
	Tside                     Tside                  `json:"tside,omitempty"`
}

func (pi PostingInstruction) Validate() error {
	if err := requireValidEnum("type", "PostingInstructionType", pi.Type); err != nil {
		return err
	}
	if err := requireUTC(pi.ValueDatetime, "value_datetime", "PostingInstruction"); err != nil {
		return err
	}
	if pi.Type == CustomInstructionType {
		return CustomInstruction{
			Postings:           pi.CommittedPostings,
			InstructionDetails: pi.InstructionDetails,
			TransactionCode:    pi.TransactionCode,
		}.Validate()
	}
	if pi.Amount != nil && pi.Amount.IsNegative() {
		return invalidf("Amount must be greater than 0, %s", pi.Amount)
	}
	return nil
}

// Balances returns the committed balance changes for accountID, defaulting
// to the owning account and tside.
func (pi PostingInstruction) Balances(accountID string, tside Tside) (BalanceDefaultDict, error) {
	if accountID == "" {
		accountID = pi.OwnAccountID
	}
	if tside == "" {
		tside = pi.Tside
	}
	if accountID == "" {
		return nil, invalidf("An account_id must be specified for the balances calculation.")
	}
	if pi.CommittedPostings == nil {
		kind := string(pi.Type)
		if kind == "" {
			kind = "posting instruction"
		}
		return nil, invalidf("The %s posting instruction type does not support the balances method for the non-historical data as committed_postings are not available.", kind)
	}
	if tside == "" {
		return nil, invalidf("A tside must be specified for the balances calculation.")
	}
	return balancesOf(pi.CommittedPostings, accountID, tside)
}

func balancesOf(postings []Posting, accountID string, tside Tside) (BalanceDefaultDict, error) {
	if !tside.Valid() {
		return nil, invalidf("A tside must be specified for the balances calculation.")
	}
	out := make(BalanceDefaultDict)
	for _, p := range postings {
		if p.AccountID != accountID {
			continue
		}
		k := BalanceCoordinate{AccountAddress: p.AccountAddress, Asset: p.Asset, Denomination: p.Denomination, Phase: p.Phase}
		if p.Credit {
			out[k] = out[k].Adjust(tside, p.Amount, decimal.Zero)
		} else {
			out[k] = out[k].Adjust(tside, decimal.Zero, p.Amount)
		}
	}
	return out, nil
}

// ClientTransaction groups the posting instructions sharing a client
// transaction id.
type ClientTransaction struct {
	ClientTransactionID string               `json:"client_transaction_id"`
	AccountID           string               `json:"account_id"`
	PostingInstructions []PostingInstruction `json:"posting_instructions"`
	Tside               Tside                `json:"tside,omitempty"`
}

func (ct ClientTransaction) Validate() error {
	if len(ct.PostingInstructions) == 0 {
		return invalidf("'posting_instructions' must be a non empty list, got []")
	}
	for _, pi := range ct.PostingInstructions {
		if err := pi.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Balances sums the effects of every instruction whose value datetime is at
// or before effective. A zero effective includes every instruction.
func (ct ClientTransaction) Balances(effective time.Time, tside Tside) (BalanceDefaultDict, error) {
	if err := requireUTC(effective, "effective_datetime", "ClientTransaction.balances()"); err != nil {
		return nil, err
	}
	if tside == "" {
		tside = ct.Tside
	}
	out := make(BalanceDefaultDict)
	for _, pi := range ct.PostingInstructions {
		if !effective.IsZero() && pi.ValueDatetime.After(effective) {
			continue
		}
		b, err := pi.Balances(ct.AccountID, tside)
		if err != nil {
			return nil, err
		}
		out.Merge(b)
	}
	return out, nil
}
