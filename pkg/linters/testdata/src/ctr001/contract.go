package ctr001

import (
	"time"

	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
)

const API = "4.0.0"

const ParamStart = "start"

var Parameters = []contracts.Parameter{
	{Name: ParamStart, DisplayName: "Start Date", DefaultValue: time.Now()},
}

func startOf() time.Time {
	return time.Now() // want `CTR001 Do not use time\.Now\(\) in contracts; use hook_arguments\.EffectiveDatetime`
}
