package contracts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mindburn-Labs/vaultsdk/pkg/typespec"
)

// Specs documents every public contract type. It is filled at package init
// and read by the spec exporter and the strict vault doubles.
var Specs = typespec.NewRegistry()

func attr(name, typ, doc string) typespec.ValueSpec {
	return typespec.ValueSpec{Name: name, Type: typ, Docstring: doc}
}

func isType[T any](v any) bool {
	switch v.(type) {
	case T, *T:
		return true
	}
	return false
}

func registerClass[T any](name, doc string, attrs ...typespec.ValueSpec) {
	Specs.RegisterClass(typespec.ClassSpec{
		Name:             name,
		Docstring:        doc,
		PublicAttributes: attrs,
		Constructor:      &typespec.ConstructorSpec{Docstring: "Constructs a new " + name + ".", Args: attrs},
	}, isType[T])
}

func registerEnum[E ~string](name, doc string, members []E) {
	Specs.RegisterEnum(enumSpec(name, doc, members), func(v any) bool {
		e, ok := v.(E)
		return ok && member(members, e)
	})
}

func init() {
	checker := Specs.Checker()
	checker.Register("Decimal", isType[decimal.Decimal])
	checker.Register("datetime", isType[time.Time])

	registerEnum("RejectionReason", "The reason attached to a Rejection.", rejectionReasons)
	registerEnum("Tside", "The accounting side of an account.", []Tside{TsideAsset, TsideLiability})
	registerEnum("Phase", "The lifecycle phase of a posting.", phases)
	registerEnum("ParameterLevel", "Where a parameter value is set.", parameterLevels)
	registerEnum("ParameterUpdatePermission", "Who may update an instance parameter.", updatePermissions)
	registerEnum("DefinedDateTime", "A datetime resolved by the runtime.", definedDateTimes)
	registerEnum("ScheduleFailover", "Day selection when an end-of-month day is missing.",
		[]ScheduleFailover{FailoverFirstValidDayBefore, FailoverFirstValidDayAfter})
	registerEnum("SupervisionExecutionMode", "How a supervisor treats a supervisee hook.",
		[]SupervisionExecutionMode{SupervisionOverride, SupervisionInvoked})
	registerEnum("PostingInstructionType", "The kind of a posting instruction.", postingInstructionTypes)

	Specs.RegisterException(typespec.ExceptionSpec{
		Name:            "InvalidSmartContractError",
		Docstring:       "Raised when a contract definition violates a structural invariant.",
		ConstructorArgs: []typespec.ValueSpec{attr("message", "str", "The violated invariant.")},
	})
	Specs.RegisterException(typespec.ExceptionSpec{
		Name:            "StrongTypingError",
		Docstring:       "Raised when a value does not match its declared type.",
		ConstructorArgs: []typespec.ValueSpec{attr("message", "str", "The mismatch.")},
	})

	registerShapes()
	registerValueTypes()
	registerDirectives()
	registerHookTypes()
}

func registerShapes() {
	registerClass[NumberShape]("NumberShape", "A numeric parameter domain.",
		attr("min_value", "Optional[Decimal]", "The smallest allowed value."),
		attr("max_value", "Optional[Decimal]", "The largest allowed value."),
		attr("step", "Optional[Decimal]", "The increment between allowed values."),
	)
	registerClass[StringShape]("StringShape", "A free text parameter domain.")
	registerClass[AccountIDShape]("AccountIdShape", "A parameter domain of account ids.")
	registerClass[DenominationShape]("DenominationShape", "A denomination parameter domain.",
		attr("permitted_denominations", "Optional[List[str]]", "Denominations that may be chosen."),
	)
	registerClass[DateShape]("DateShape", "A datetime parameter domain.",
		attr("min_date", "Optional[datetime]", "The earliest allowed datetime, in UTC."),
		attr("max_date", "Optional[datetime]", "The latest allowed datetime, in UTC."),
	)
	registerClass[UnionItem]("UnionItem", "One choice of a UnionShape.",
		attr("key", "str", "The value stored when this item is chosen."),
		attr("display_name", "str", "The label shown for this item."),
	)
	registerClass[UnionItemValue]("UnionItemValue", "A chosen UnionItem.",
		attr("key", "str", "The key of the chosen item."),
	)
	registerClass[UnionShape]("UnionShape", "A parameter domain of enumerated choices.",
		attr("items", "List[UnionItem]", "The allowed choices."),
	)
	registerClass[OptionalValue]("OptionalValue", "A value that may be unset.",
		attr("value", "Any", "The wrapped value."),
		attr("is_set", "bool", "Whether the value is set."),
	)
	registerClass[OptionalShape]("OptionalShape", "Wraps a shape to make the parameter optional.",
		attr("shape", "Union[AccountIdShape, DateShape, DenominationShape, NumberShape, StringShape, UnionShape]", "The wrapped shape."),
	)
	registerClass[Parameter]("Parameter", "A contract parameter declaration.",
		attr("name", "str", "The parameter name."),
		attr("shape", "Union[AccountIdShape, DateShape, DenominationShape, NumberShape, OptionalShape, StringShape, UnionShape]", "The allowed domain."),
		attr("level", "ParameterLevel", "Where the value is set."),
		attr("derived", "bool", "Whether the value is computed by derived_parameter_hook."),
		attr("display_name", "str", "The label shown for the parameter."),
		attr("description", "str", "The parameter description."),
		attr("default_value", "Any", "The default value."),
		attr("update_permission", "Optional[ParameterUpdatePermission]", "Who may update the value."),
	)
}

func registerValueTypes() {
	registerClass[ScheduleExpression]("ScheduleExpression", "A cron-like schedule.",
		attr("second", "Optional[Union[int, str]]", ""),
		attr("minute", "Optional[Union[int, str]]", ""),
		attr("hour", "Optional[Union[int, str]]", ""),
		attr("day_of_week", "Optional[Union[int, str]]", ""),
		attr("day", "Optional[Union[int, str]]", ""),
		attr("month", "Optional[Union[int, str]]", ""),
		attr("year", "Optional[Union[int, str]]", ""),
	)
	registerClass[EndOfMonthSchedule]("EndOfMonthSchedule", "A monthly schedule anchored to a day of the month.",
		attr("day", "int", "Day of month, 1-31."),
		attr("hour", "int", ""),
		attr("minute", "int", ""),
		attr("second", "int", ""),
		attr("failover", "ScheduleFailover", "Day selection when day does not exist in a month."),
	)
	registerClass[ScheduleSkip]("ScheduleSkip", "Skips a schedule until a datetime.",
		attr("end", "datetime", "The skip ends at this datetime."),
	)
	registerClass[ScheduledEvent]("ScheduledEvent", "The schedule of an event type.",
		attr("start_datetime", "Optional[datetime]", ""),
		attr("end_datetime", "Optional[datetime]", ""),
		attr("expression", "Optional[ScheduleExpression]", ""),
		attr("schedule_method", "Optional[EndOfMonthSchedule]", ""),
		attr("skip", "Optional[Union[bool, ScheduleSkip]]", ""),
	)
	registerClass[SmartContractEventType]("SmartContractEventType", "An event type declared by a contract.",
		attr("name", "str", ""),
		attr("scheduler_tag_ids", "Optional[List[str]]", ""),
	)
	registerClass[SupervisorContractEventType]("SupervisorContractEventType", "An event type declared by a supervisor.",
		attr("name", "str", ""),
		attr("scheduler_tag_ids", "Optional[List[str]]", ""),
		attr("overrides_event_types", "Optional[List[Tuple[str, str]]]", "Supervisee event types replaced by this one."),
	)
	registerClass[EventTypesGroup]("EventTypesGroup", "Event types run in a fixed order.",
		attr("name", "str", ""),
		attr("event_types_order", "List[str]", ""),
	)
	registerClass[Posting]("Posting", "A single committed or pending movement on a balance.",
		attr("credit", "bool", ""),
		attr("amount", "Decimal", ""),
		attr("denomination", "str", ""),
		attr("account_id", "str", ""),
		attr("account_address", "str", ""),
		attr("asset", "str", ""),
		attr("phase", "Phase", ""),
	)
	registerClass[TransactionCode]("TransactionCode", "Classifies an instruction.",
		attr("domain", "str", ""),
		attr("family", "str", ""),
		attr("subfamily", "str", ""),
	)
	registerClass[CustomInstruction]("CustomInstruction", "A balanced set of postings.",
		attr("postings", "List[Posting]", ""),
		attr("instruction_details", "Optional[Dict[str, str]]", ""),
		attr("transaction_code", "Optional[TransactionCode]", ""),
		attr("override_all_restrictions", "Optional[bool]", ""),
	)
	registerClass[Balance]("Balance", "Credit, debit and net of a coordinate.",
		attr("credit", "Decimal", ""),
		attr("debit", "Decimal", ""),
		attr("net", "Decimal", ""),
	)
	registerClass[BalancesObservation]("BalancesObservation", "Balances observed at a datetime.",
		attr("balances", "BalanceDefaultDict", ""),
		attr("value_datetime", "Optional[datetime]", ""),
	)
	Specs.Checker().Register("BalanceDefaultDict", isType[BalanceDefaultDict])
	registerClass[Rejection]("Rejection", "Rejects the hook's triggering action.",
		attr("message", "str", ""),
		attr("reason_code", "RejectionReason", ""),
	)
	registerClass[CalendarEvent]("CalendarEvent", "A calendar entry.",
		attr("id", "str", ""),
		attr("calendar_id", "str", ""),
		attr("start_datetime", "datetime", ""),
		attr("end_datetime", "datetime", ""),
	)
	registerClass[SmartContractDescriptor]("SmartContractDescriptor", "A contract supervised by a plan.",
		attr("alias", "str", ""),
		attr("smart_contract_version_id", "str", ""),
		attr("supervise_post_posting_hook", "bool", ""),
		attr("supervised_hooks", "Optional[SupervisedHooks]", ""),
	)
	registerClass[SupervisedHooks]("SupervisedHooks", "Supervisee hooks a supervisor takes part in.",
		attr("pre_posting_hook", "Optional[SupervisionExecutionMode]", ""),
	)
	registerClass[PostingsIntervalFetcher]("PostingsIntervalFetcher", "Fetches postings in an interval.",
		attr("fetcher_id", "str", ""),
		attr("start", "Union[RelativeDateTime, DefinedDateTime]", ""),
		attr("end", "Optional[Union[RelativeDateTime, DefinedDateTime]]", ""),
	)
	registerClass[BalancesIntervalFetcher]("BalancesIntervalFetcher", "Fetches balances in an interval.",
		attr("fetcher_id", "str", ""),
		attr("start", "Union[RelativeDateTime, DefinedDateTime]", ""),
		attr("end", "Optional[Union[RelativeDateTime, DefinedDateTime]]", ""),
		attr("filter", "Optional[BalancesFilter]", ""),
	)
	registerClass[BalancesObservationFetcher]("BalancesObservationFetcher", "Fetches balances at a single point.",
		attr("fetcher_id", "str", ""),
		attr("at", "Union[RelativeDateTime, DefinedDateTime]", ""),
		attr("filter", "Optional[BalancesFilter]", ""),
	)
	registerClass[RelativeDateTime]("RelativeDateTime", "A datetime derived from an origin.",
		attr("shift", "Optional[Shift]", ""),
		attr("find", "Optional[Union[Next, Previous, Override]]", ""),
		attr("origin", "DefinedDateTime", ""),
	)
}

func registerDirectives() {
	registerClass[PostingInstructionsDirective]("PostingInstructionsDirective", "Instructs postings.",
		attr("posting_instructions", "List[CustomInstruction]", ""),
		attr("client_batch_id", "Optional[str]", ""),
		attr("value_datetime", "Optional[datetime]", ""),
		attr("batch_details", "Optional[Dict[str, str]]", ""),
	)
	schedule := []typespec.ValueSpec{
		attr("event_type", "str", ""),
		attr("expression", "Optional[ScheduleExpression]", ""),
		attr("schedule_method", "Optional[EndOfMonthSchedule]", ""),
		attr("end_datetime", "Optional[datetime]", ""),
		attr("skip", "Optional[Union[bool, ScheduleSkip]]", ""),
	}
	registerClass[UpdateAccountEventTypeDirective]("UpdateAccountEventTypeDirective", "Updates an account schedule.", schedule...)
	registerClass[UpdatePlanEventTypeDirective]("UpdatePlanEventTypeDirective", "Updates a plan schedule.", schedule...)
	notification := []typespec.ValueSpec{
		attr("notification_type", "str", ""),
		attr("notification_details", "Dict[str, str]", ""),
	}
	registerClass[AccountNotificationDirective]("AccountNotificationDirective", "Publishes an account notification.", notification...)
	registerClass[PlanNotificationDirective]("PlanNotificationDirective", "Publishes a plan notification.", notification...)
}

func registerHookTypes() {
	effective := attr("effective_datetime", "datetime", "The datetime the hook runs as of.")
	registerClass[ActivationHookArguments]("ActivationHookArguments", "", effective)
	registerClass[ConversionHookArguments]("ConversionHookArguments", "", effective,
		attr("existing_schedules", "Dict[str, ScheduledEvent]", ""))
	registerClass[DeactivationHookArguments]("DeactivationHookArguments", "", effective)
	registerClass[DerivedParameterHookArguments]("DerivedParameterHookArguments", "", effective)
	registerClass[PostParameterChangeHookArguments]("PostParameterChangeHookArguments", "", effective,
		attr("old_parameter_values", "Dict[str, Any]", ""),
		attr("updated_parameter_values", "Dict[str, Any]", ""))
	registerClass[PreParameterChangeHookArguments]("PreParameterChangeHookArguments", "", effective,
		attr("updated_parameter_values", "Dict[str, Any]", ""))
	posting := []typespec.ValueSpec{
		effective,
		attr("posting_instructions", "List[PostingInstruction]", ""),
		attr("client_transactions", "Dict[str, ClientTransaction]", ""),
	}
	registerClass[PostPostingHookArguments]("PostPostingHookArguments", "", posting...)
	registerClass[PrePostingHookArguments]("PrePostingHookArguments", "", posting...)
	registerClass[ScheduledEventHookArguments]("ScheduledEventHookArguments", "", effective,
		attr("event_type", "str", ""),
		attr("pause_at_datetime", "Optional[datetime]", ""))
	registerClass[SupervisorActivationHookArguments]("SupervisorActivationHookArguments", "", effective)
	registerClass[SupervisorConversionHookArguments]("SupervisorConversionHookArguments", "", effective,
		attr("existing_schedules", "Dict[str, ScheduledEvent]", ""))
	supervisee := []typespec.ValueSpec{
		effective,
		attr("supervisee_posting_instructions", "Dict[str, List[PostingInstruction]]", ""),
		attr("supervisee_client_transactions", "Dict[str, Dict[str, ClientTransaction]]", ""),
	}
	registerClass[SupervisorPostPostingHookArguments]("SupervisorPostPostingHookArguments", "", supervisee...)
	registerClass[SupervisorPrePostingHookArguments]("SupervisorPrePostingHookArguments", "", supervisee...)
	registerClass[SupervisorScheduledEventHookArguments]("SupervisorScheduledEventHookArguments", "", effective,
		attr("event_type", "str", ""),
		attr("pause_at_datetime", "Optional[datetime]", ""),
		attr("supervisee_pause_at_datetime", "Dict[str, datetime]", ""))
	Specs.Checker().Register("PostingInstruction", isType[PostingInstruction])
	Specs.Checker().Register("ClientTransaction", isType[ClientTransaction])

	registerClass[ActivationHookResult]("ActivationHookResult", "")
	registerClass[ConversionHookResult]("ConversionHookResult", "")
	registerClass[DeactivationHookResult]("DeactivationHookResult", "")
	registerClass[DerivedParameterHookResult]("DerivedParameterHookResult", "",
		attr("parameters_return_value", "Dict[str, Any]", ""))
	registerClass[PostParameterChangeHookResult]("PostParameterChangeHookResult", "")
	registerClass[PostPostingHookResult]("PostPostingHookResult", "")
	registerClass[PreParameterChangeHookResult]("PreParameterChangeHookResult", "",
		attr("rejection", "Optional[Rejection]", ""))
	registerClass[PrePostingHookResult]("PrePostingHookResult", "",
		attr("rejection", "Optional[Rejection]", ""))
	registerClass[ScheduledEventHookResult]("ScheduledEventHookResult", "")
	registerClass[SupervisorActivationHookResult]("SupervisorActivationHookResult", "")
	registerClass[SupervisorConversionHookResult]("SupervisorConversionHookResult", "")
	registerClass[SupervisorPostPostingHookResult]("SupervisorPostPostingHookResult", "")
	registerClass[SupervisorPrePostingHookResult]("SupervisorPrePostingHookResult", "",
		attr("rejection", "Optional[Rejection]", ""))
	registerClass[SupervisorScheduledEventHookResult]("SupervisorScheduledEventHookResult", "")
}
