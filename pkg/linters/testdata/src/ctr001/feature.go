package ctr001

import (
	"time"

	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
)

var defaultTside = contracts.TsideLiability

func stamp() time.Time {
	now := time.Now() // want `CTR001`
	return now
}
