package ctr007

import "github.com/Mindburn-Labs/vaultsdk/pkg/contracts"

const API = "4.0.0"

const (
	ParamDenomination = "denomination"
	nominatedAccount  = "nominated_account"
)

var Parameters = []contracts.Parameter{
	{Name: ParamDenomination, DisplayName: "Denomination"},
	{Name: "spending_limit", DisplayName: "Spending Limit"}, // want `CTR007 Parameter names should be defined as constants prefixed with Param`
	{Name: nominatedAccount, DisplayName: "Nominated Account"}, // want `CTR007`
}
