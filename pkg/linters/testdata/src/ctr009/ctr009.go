package ctr009

import (
	"time"

	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
)

const API = "4.0.0"

func directives(now time.Time) []contracts.PostingInstructionsDirective {
	d := contracts.PostingInstructionsDirective{ClientBatchID: "batch"}
	d.ValueDatetime = now // want `CTR009 ValueDatetime should not be set on PostingInstructionsDirective`
	return []contracts.PostingInstructionsDirective{
		d,
		{ClientBatchID: "b", ValueDatetime: now}, // want `CTR009`
	}
}
