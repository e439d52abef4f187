package contracts

import "github.com/Mindburn-Labs/vaultsdk/pkg/typespec"

// RejectionReason is the reason code attached to a Rejection.
type RejectionReason string

// Rejection reasons.
const (
	RejectionReasonUnknown            RejectionReason = "UNKNOWN_REASON"
	RejectionReasonInsufficientFunds  RejectionReason = "INSUFFICIENT_FUNDS"
	RejectionReasonWrongDenomination  RejectionReason = "WRONG_DENOMINATION"
	RejectionReasonAgainstTNC         RejectionReason = "AGAINST_TNC"
	RejectionReasonClientCustomReason RejectionReason = "CLIENT_CUSTOM_REASON"
)

var rejectionReasons = []RejectionReason{
	RejectionReasonUnknown, RejectionReasonInsufficientFunds, RejectionReasonWrongDenomination,
	RejectionReasonAgainstTNC, RejectionReasonClientCustomReason,
}

// Valid reports whether r is a declared reason.
func (r RejectionReason) Valid() bool { return member(rejectionReasons, r) }

// Tside is the accounting side of an account.
type Tside string

// Tsides.
const (
	TsideAsset     Tside = "ASSET"
	TsideLiability Tside = "LIABILITY"
)

// Valid reports whether t is ASSET or LIABILITY.
func (t Tside) Valid() bool { return t == TsideAsset || t == TsideLiability }

// Phase is the lifecycle phase of a posting.
type Phase string

// Phases.
const (
	PhaseCommitted  Phase = "COMMITTED"
	PhasePendingIn  Phase = "PENDING_IN"
	PhasePendingOut Phase = "PENDING_OUT"
)

var phases = []Phase{PhaseCommitted, PhasePendingIn, PhasePendingOut}

func (p Phase) Valid() bool { return member(phases, p) }

// ParameterLevel controls where a parameter value is set.
type ParameterLevel string

// Parameter levels.
const (
	ParameterLevelGlobal   ParameterLevel = "GLOBAL"
	ParameterLevelTemplate ParameterLevel = "TEMPLATE"
	ParameterLevelInstance ParameterLevel = "INSTANCE"
)

var parameterLevels = []ParameterLevel{ParameterLevelGlobal, ParameterLevelTemplate, ParameterLevelInstance}

func (l ParameterLevel) Valid() bool { return member(parameterLevels, l) }

// ParameterUpdatePermission controls who may change an instance parameter.
type ParameterUpdatePermission string

// Update permissions.
const (
	PermissionUnknown                       ParameterUpdatePermission = "PERMISSION_UNKNOWN"
	PermissionFixed                         ParameterUpdatePermission = "FIXED"
	PermissionOpsEditable                   ParameterUpdatePermission = "OPS_EDITABLE"
	PermissionUserEditable                  ParameterUpdatePermission = "USER_EDITABLE"
	PermissionUserEditableWithOpsPermission ParameterUpdatePermission = "USER_EDITABLE_WITH_OPS_PERMISSION"
)

var updatePermissions = []ParameterUpdatePermission{
	PermissionUnknown, PermissionFixed, PermissionOpsEditable, PermissionUserEditable,
	PermissionUserEditableWithOpsPermission,
}

func (p ParameterUpdatePermission) Valid() bool { return member(updatePermissions, p) }

// DefinedDateTime names a datetime resolved by the runtime.
type DefinedDateTime string

// Defined datetimes. EFFECTIVE_TIME was removed in 4.0.
const (
	DefinedDateTimeLive              DefinedDateTime = "LIVE"
	DefinedDateTimeIntervalStart     DefinedDateTime = "INTERVAL_START"
	DefinedDateTimeEffectiveDatetime DefinedDateTime = "EFFECTIVE_DATETIME"
)

var definedDateTimes = []DefinedDateTime{DefinedDateTimeLive, DefinedDateTimeIntervalStart, DefinedDateTimeEffectiveDatetime}

func (d DefinedDateTime) Valid() bool { return member(definedDateTimes, d) }

// ScheduleFailover picks the day used when an end-of-month day does not exist.
type ScheduleFailover string

// Failover policies.
const (
	FailoverFirstValidDayBefore ScheduleFailover = "FIRST_VALID_DAY_BEFORE"
	FailoverFirstValidDayAfter  ScheduleFailover = "FIRST_VALID_DAY_AFTER"
)

func (f ScheduleFailover) Valid() bool {
	return f == FailoverFirstValidDayBefore || f == FailoverFirstValidDayAfter
}

// SupervisionExecutionMode controls how a supervisor treats a supervisee hook.
type SupervisionExecutionMode string

// Execution modes.
const (
	SupervisionOverride SupervisionExecutionMode = "OVERRIDE"
	SupervisionInvoked  SupervisionExecutionMode = "INVOKED"
)

func (m SupervisionExecutionMode) Valid() bool { return m == SupervisionOverride || m == SupervisionInvoked }

// PostingInstructionType is the kind of a posting instruction.
type PostingInstructionType string

// Posting instruction types.
const (
	OutboundAuthorisation   PostingInstructionType = "OUTBOUND_AUTHORISATION"
	InboundAuthorisation    PostingInstructionType = "INBOUND_AUTHORISATION"
	Authorisation           PostingInstructionType = "AUTHORISATION"
	AuthorisationAdjustment PostingInstructionType = "AUTHORISATION_ADJUSTMENT"
	CustomInstructionType   PostingInstructionType = "CUSTOM_INSTRUCTION"
	OutboundHardSettlement  PostingInstructionType = "OUTBOUND_HARD_SETTLEMENT"
	InboundHardSettlement   PostingInstructionType = "INBOUND_HARD_SETTLEMENT"
	HardSettlement          PostingInstructionType = "HARD_SETTLEMENT"
	Release                 PostingInstructionType = "RELEASE"
	Settlement              PostingInstructionType = "SETTLEMENT"
	Transfer                PostingInstructionType = "TRANSFER"
)

var postingInstructionTypes = []PostingInstructionType{
	OutboundAuthorisation, InboundAuthorisation, Authorisation, AuthorisationAdjustment,
	CustomInstructionType, OutboundHardSettlement, InboundHardSettlement, HardSettlement,
	Release, Settlement, Transfer,
}

func (t PostingInstructionType) Valid() bool { return member(postingInstructionTypes, t) }

func member[E comparable](set []E, v E) bool {
	for _, m := range set {
		if m == v {
			return true
		}
	}
	return false
}

func enumSpec[E ~string](name, doc string, members []E) typespec.EnumSpec {
	out := typespec.EnumSpec{Name: name, Docstring: doc}
	for _, m := range members {
		out.Members = append(out.Members, typespec.EnumMember{Name: string(m), Value: string(m)})
	}
	return out
}
