package ctr002

import (
	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

const API = "4.0.0"

var EventTypes = []contracts.SmartContractEventType{{Name: "a"}}

var extra = append(EventTypes, contracts.SmartContractEventType{Name: "b"}) // want `CTR002 List-type metadata objects should be extended using the unpacking operator \(\*\)`

func init() {
	EventTypes = append(EventTypes, contracts.SmartContractEventType{Name: "c"}) // want `CTR002` `CTR002`
}

func ActivationHook(vault vaultapi.Vault, hookArguments contracts.ActivationHookArguments) *contracts.ActivationHookResult {
	_ = EventTypes
	_ = count()
	return nil
}

func count() int { return len(EventTypes) }

func names() []string {
	var out []string
	for _, et := range EventTypes {
		out = append(out, et.Name)
	}
	return out
}
