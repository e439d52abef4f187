package ctr008

import "github.com/Mindburn-Labs/vaultsdk/pkg/contracts"

const API = "4.0.0"

const (
	ParamDenomination = "denomination"
	ParamLimit        = "limit"
	ParamAccount      = "account"
	ParamRate         = "rate"
)

var Parameters = []contracts.Parameter{
	{Name: ParamDenomination, DisplayName: "Wallet denomination"}, // want `CTR008 Parameter display names should be in Title Case`
	{Name: ParamLimit, DisplayName: "Spending Limit"},
	{Name: ParamAccount, DisplayName: "Nominated Account (some unconformative blob)"},
	{Name: ParamRate, DisplayName: "Rate of Interest"},
}
