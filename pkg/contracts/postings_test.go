package contracts

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func posting(account string, credit bool, amount string) Posting {
	return Posting{
		Credit:         credit,
		Amount:         decimal.RequireFromString(amount),
		Denomination:   "GBP",
		AccountID:      account,
		AccountAddress: DefaultAddress,
		Asset:          DefaultAsset,
		Phase:          PhaseCommitted,
	}
}

func transfer(amount string) CustomInstruction {
	return CustomInstruction{Postings: []Posting{
		posting("main", false, amount),
		posting("savings", true, amount),
	}}
}

func TestPosting_Validate(t *testing.T) {
	require.NoError(t, posting("a", true, "1").Validate())

	err := Posting{Amount: decimal.NewFromInt(1), Phase: PhaseCommitted, Denomination: "GBP"}.Validate()
	require.Error(t, err)
	assert.Equal(t, "Postings missing required argument(s): ['account_id', 'account_address', 'asset']", err.Error())

	p := posting("a", true, "0")
	err = p.Validate()
	require.Error(t, err)
	assert.Equal(t, "Amount must be greater than 0, 0", err.Error())

	p = posting("a", true, "1")
	p.Phase = "SETTLED"
	assert.ErrorIs(t, p.Validate(), ErrStrongTyping)
}

func TestCustomInstruction_ZeroNet(t *testing.T) {
	require.NoError(t, transfer("10").Validate())

	ci := transfer("10")
	ci.Postings[1].Amount = decimal.RequireFromString("7.5")
	err := ci.Validate()
	require.Error(t, err)
	assert.Equal(t,
		"Net of balance coordinate ('COMMERCIAL_BANK_MONEY', 'GBP', COMMITTED) in the CustomInstruction: 2.5, Expected: 0.",
		err.Error())

	err = CustomInstruction{}.Validate()
	require.Error(t, err)
	assert.Equal(t, "'postings' must be a non empty list, got []", err.Error())

	var many []Posting
	for i := 0; i < 33; i++ {
		many = append(many, posting("a", true, "1"), posting("b", false, "1"))
	}
	err = CustomInstruction{Postings: many}.Validate()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Too many postings submitted in the CUSTOM_INSTRUCTION. Number submitted: 66."))
}

func TestCustomInstruction_Balances(t *testing.T) {
	ci := transfer("10")

	asset, err := ci.Balances("main", TsideAsset)
	require.NoError(t, err)
	b := asset.Get(Coordinate("GBP", PhaseCommitted))
	assert.True(t, b.Debit.Equal(decimal.NewFromInt(10)))
	assert.True(t, b.Net.Equal(decimal.NewFromInt(10)))

	liability, err := ci.Balances("savings", TsideLiability)
	require.NoError(t, err)
	assert.True(t, liability.Get(Coordinate("GBP", PhaseCommitted)).Net.Equal(decimal.NewFromInt(10)))

	_, err = ci.Balances("main", "")
	assert.ErrorIs(t, err, ErrInvalidSmartContract)
}

func TestPostingInstruction_Balances(t *testing.T) {
	pi := PostingInstruction{Type: InboundHardSettlement, OwnAccountID: "main", Tside: TsideLiability}
	_, err := pi.Balances("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INBOUND_HARD_SETTLEMENT posting instruction type does not support the balances method")

	pi.CommittedPostings = []Posting{posting("main", true, "25"), posting("internal", false, "25")}
	got, err := pi.Balances("", "")
	require.NoError(t, err)
	assert.True(t, got.Get(Coordinate("GBP", PhaseCommitted)).Net.Equal(decimal.NewFromInt(25)))

	_, err = PostingInstruction{CommittedPostings: pi.CommittedPostings}.Balances("", TsideAsset)
	require.Error(t, err)
	assert.Equal(t, "An account_id must be specified for the balances calculation.", err.Error())
}

func TestClientTransaction_BalancesAsOf(t *testing.T) {
	t0 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	ct := ClientTransaction{
		ClientTransactionID: "ct-1",
		AccountID:           "main",
		Tside:               TsideAsset,
		PostingInstructions: []PostingInstruction{
			{Type: OutboundAuthorisation, ValueDatetime: t0, CommittedPostings: []Posting{
				{Credit: false, Amount: decimal.NewFromInt(5), Denomination: "GBP", AccountID: "main",
					AccountAddress: DefaultAddress, Asset: DefaultAsset, Phase: PhasePendingOut},
			}},
			{Type: Settlement, ValueDatetime: t0.Add(time.Hour), CommittedPostings: []Posting{
				posting("main", false, "5"),
			}},
		},
	}
	require.NoError(t, ct.Validate())

	early, err := ct.Balances(t0, "")
	require.NoError(t, err)
	assert.Len(t, early, 1)

	all, err := ct.Balances(time.Time{}, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.True(t, all.Get(Coordinate("GBP", PhaseCommitted)).Debit.Equal(decimal.NewFromInt(5)))
}

func TestPostingInstructionsDirective(t *testing.T) {
	require.NoError(t, PostingInstructionsDirective{PostingInstructions: []CustomInstruction{transfer("1")}}.Validate())

	err := PostingInstructionsDirective{}.Validate()
	require.Error(t, err)
	assert.Equal(t, "'posting_instructions' must be a non empty list, got []", err.Error())

	var many []CustomInstruction
	for i := 0; i < MaxPostingInstructionsPerDirective+1; i++ {
		many = append(many, transfer("1"))
	}
	err = PostingInstructionsDirective{PostingInstructions: many}.Validate()
	require.Error(t, err)
	assert.Equal(t, "Too many posting instructions submitted in the Posting Instructions Directive. Number submitted: 65. Limit: 64.", err.Error())

	err = PostingInstructionsDirective{
		PostingInstructions: []CustomInstruction{transfer("1")},
		ValueDatetime:       time.Date(2023, 1, 1, 9, 0, 0, 0, time.FixedZone("EST", -5*3600)),
	}.Validate()
	require.Error(t, err)
	assert.Equal(t, "'value_datetime' of PostingInstructionsDirective must have timezone UTC, currently EST.", err.Error())
}

func TestUpdateEventTypeDirectives(t *testing.T) {
	err := NewUpdateAccountEventTypeDirective("ACCRUE").Validate()
	require.Error(t, err)
	assert.Equal(t, "UpdateAccountEventTypeDirective object must have either an end_datetime, an expression, schedule_method, or skip defined", err.Error())

	err = NewUpdatePlanEventTypeDirective("SWEEP").
		WithExpression(ScheduleExpression{Hour: Num(1)}).
		WithScheduleMethod(EndOfMonthSchedule{Day: 1}).
		Validate()
	require.Error(t, err)
	assert.Equal(t, "UpdatePlanEventTypeDirective cannot contain both expression and schedule_method fields", err.Error())

	assert.NoError(t, NewUpdateAccountEventTypeDirective("ACCRUE").WithSkip(SkipIndefinitely()).Validate())
	assert.NoError(t, NewUpdateAccountEventTypeDirective("ACCRUE").WithEndDatetime(time.Now().UTC()).Validate())

	d := NewUpdateAccountEventTypeDirective("ACCRUE").WithExpression(ScheduleExpression{Day: Num(1)})
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event_type":"ACCRUE"`)
	assert.Contains(t, string(data), `"expression":{"day":1}`)
}

func TestNotificationDirectives(t *testing.T) {
	err := AccountNotificationDirective{NotificationType: "LOW_BALANCE"}.Validate()
	require.Error(t, err)
	assert.Equal(t, "AccountNotificationDirective 'notification_details' must be populated", err.Error())

	assert.NoError(t, PlanNotificationDirective{NotificationType: "X", NotificationDetails: map[string]string{"k": "v"}}.Validate())
}
