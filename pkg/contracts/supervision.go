package contracts

// SupervisedHooks selects the supervisee hooks a supervisor takes part in.
type SupervisedHooks struct {
	PrePostingHook SupervisionExecutionMode `json:"pre_posting_hook,omitempty"`
}

func (h SupervisedHooks) Validate() error {
	if h.PrePostingHook == "" {
		return invalidf("At least one hook supervision must be specified.")
	}
	return requireValidEnum("SupervisedHooks.pre_posting_hook", "SupervisionExecutionMode", h.PrePostingHook)
}

// SmartContractDescriptor declares a contract supervised by a plan.
type SmartContractDescriptor struct {
	Alias                    string           `json:"alias"`
	SmartContractVersionID   string           `json:"smart_contract_version_id"`
	SupervisePostPostingHook bool             `json:"supervise_post_posting_hook,omitempty"`
	SupervisedHooks          *SupervisedHooks `json:"supervised_hooks,omitempty"`
}

func (d SmartContractDescriptor) Validate() error {
	if d.Alias == "" {
		return strongTypingf("SmartContractDescriptor 'alias' must be populated")
	}
	if d.SmartContractVersionID == "" {
		return strongTypingf("SmartContractDescriptor 'smart_contract_version_id' must be populated")
	}
	if d.SupervisedHooks != nil {
		return d.SupervisedHooks.Validate()
	}
	return nil
}
