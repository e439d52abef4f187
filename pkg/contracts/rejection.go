package contracts

// Rejection refuses a hook's input, e.g. a posting or a parameter change.
type Rejection struct {
	Message    string          `json:"message"`
	ReasonCode RejectionReason `json:"reason_code,omitempty"`
}

func (r Rejection) Validate() error {
	if r.Message == "" {
		return invalidf("Rejection 'message' must be populated")
	}
	if r.ReasonCode != "" {
		return requireValidEnum("reason_code", "RejectionReason", r.ReasonCode)
	}
	return nil
}

// Reason returns the reason code, defaulting to UNKNOWN_REASON.
func (r Rejection) Reason() RejectionReason {
	if r.ReasonCode == "" {
		return RejectionReasonUnknown
	}
	return r.ReasonCode
}
