package vaultapi

import "github.com/Mindburn-Labs/vaultsdk/pkg/typespec"

func arg(name, typ, doc string) typespec.ValueSpec {
	return typespec.ValueSpec{Name: name, Type: typ, Docstring: doc}
}

func returns(typ, doc string) *typespec.ReturnValueSpec {
	return &typespec.ReturnValueSpec{Type: typ, Docstring: doc}
}

func method(name, doc string, ret *typespec.ReturnValueSpec, args ...typespec.ValueSpec) *typespec.MethodSpec {
	return &typespec.MethodSpec{Name: name, Docstring: doc, Args: args, ReturnValue: ret}
}

func added(kind Kind, version string, m *typespec.MethodSpec) Capability {
	return Capability{Kind: kind, Version: version, Op: OpAdd, Method: m}
}

func changed(kind Kind, version string, m *typespec.MethodSpec) Capability {
	return Capability{Kind: kind, Version: version, Op: OpChange, Method: m}
}

func attribute(kind Kind, version string, v typespec.ValueSpec) Capability {
	return Capability{Kind: kind, Version: version, Op: OpAdd, Attribute: &v}
}

func reset(kind Kind, version string) Capability {
	return Capability{Kind: kind, Version: version, Op: OpReset}
}

const (
	fetcherIDDoc = "The id of a fetcher declared on the hook's requirements."
	proposedDoc  = "Whether to include the proposed postings of the current hook."
)

// capabilityLog is append-only. Entries must be ordered by version within
// each kind. Reset entries drop everything declared before them.
var capabilityLog = []Capability{
	// Contract 3.0.0
	attribute(KindContract, "3.0.0", arg("account_id", "str", "The id of the account being executed.")),
	attribute(KindContract, "3.0.0", arg("tside", "Tside", "The accounting side of the account.")),
	added(KindContract, "3.0.0", method("get_last_execution_time",
		"Returns the last time the event type ran, or None.",
		returns("Optional[datetime]", "The last execution time."),
		arg("event_type", "str", "The event type name."))),
	added(KindContract, "3.0.0", method("get_postings",
		"Returns the postings declared by requirements.",
		returns("List[PostingInstruction]", "The posting instructions."),
		arg("include_proposed", "Optional[bool]", proposedDoc))),
	added(KindContract, "3.0.0", method("get_client_transactions",
		"Returns client transactions keyed by client transaction id.",
		returns("Dict[str, ClientTransaction]", "The client transactions."),
		arg("include_proposed", "Optional[bool]", proposedDoc))),
	added(KindContract, "3.0.0", method("get_posting_batches",
		"Returns the posting batches declared by requirements.",
		returns("List[Any]", "The posting batches."),
		arg("include_proposed", "Optional[bool]", proposedDoc))),
	added(KindContract, "3.0.0", method("add_account_note",
		"Instructs a note on the account.",
		nil,
		arg("body", "str", "The note body."),
		arg("note_type", "str", "The note type."),
		arg("is_visible_to_customer", "bool", "Whether the customer can see the note."),
		arg("date", "datetime", "The note date."),
		arg("idempotency_key", "Optional[str]", "A key deduplicating the note."))),
	added(KindContract, "3.0.0", method("amend_schedule",
		"Amends the schedule of an event type.",
		nil,
		arg("event_type", "str", "The event type name."),
		arg("new_schedule", "Dict[str, str]", "The new schedule."))),
	added(KindContract, "3.0.0", method("get_account_creation_date",
		"Returns the account creation date.",
		returns("datetime", "The creation date."))),
	added(KindContract, "3.0.0", method("get_balance_timeseries",
		"Returns the balance timeseries declared by requirements.",
		returns("BalanceTimeseries", "The balances."))),
	added(KindContract, "3.0.0", method("get_hook_execution_id",
		"Returns a unique-enough id for the hook execution.",
		returns("str", "The id."))),
	added(KindContract, "3.0.0", method("get_parameter_timeseries",
		"Returns the timeseries of a parameter.",
		returns("ParameterTimeseries", "The parameter values."),
		arg("name", "str", "The parameter name."))),
	added(KindContract, "3.0.0", method("get_flag_timeseries",
		"Returns the timeseries of a flag.",
		returns("FlagTimeseries", "The flag presence."),
		arg("flag", "str", "The flag definition id."))),
	added(KindContract, "3.0.0", method("remove_schedule",
		"Removes the schedule of an event type.",
		nil,
		arg("event_type", "str", "The event type name."))),
	added(KindContract, "3.0.0", method("start_workflow",
		"Instructs a workflow instantiation.",
		nil,
		arg("workflow", "str", "The workflow definition id."),
		arg("context", "Dict[str, str]", "The instantiation context."),
		arg("idempotency_key", "Optional[str]", "A key deduplicating the instantiation."))),
	added(KindContract, "3.0.0", method("make_internal_transfer_instructions",
		"Builds the instructions of an internal transfer.",
		returns("List[PostingInstruction]", "The instructions."),
		arg("amount", "Decimal", "The amount."),
		arg("denomination", "str", "The denomination."),
		arg("client_transaction_id", "str", "The client transaction id."),
		arg("from_account_id", "str", "The debited account."),
		arg("from_account_address", "Optional[str]", "The debited address."),
		arg("to_account_id", "str", "The credited account."),
		arg("to_account_address", "Optional[str]", "The credited address."),
		arg("pics", "Optional[List[str]]", "Posting instruction codes."),
		arg("instruction_details", "Optional[Dict[str, str]]", "Instruction metadata."),
		arg("asset", "Optional[str]", "The asset."),
		arg("custom_instruction_grouping_key", "Optional[str]", "Groups instructions."))),
	added(KindContract, "3.0.0", method("instruct_posting_batch",
		"Instructs a batch of posting instructions.",
		nil,
		arg("posting_instructions", "List[PostingInstruction]", "The instructions."),
		arg("batch_details", "Optional[Dict[str, str]]", "Batch metadata."),
		arg("client_batch_id", "Optional[str]", "The client batch id."),
		arg("effective_date", "Optional[datetime]", "The value datetime."),
		arg("request_id", "Optional[str]", "The request id."))),

	// Contract 3.3.0
	added(KindContract, "3.3.0", method("localize_datetime",
		"Converts a UTC datetime to the events timezone.",
		returns("datetime", "The localized datetime."),
		arg("dt", "datetime", "A UTC datetime."))),
	changed(KindContract, "3.3.0", method("amend_schedule",
		"Amends the schedule of an event type. Deprecated in favour of update_event_type.",
		nil,
		arg("event_type", "str", "The event type name."),
		arg("new_schedule", "Dict[str, str]", "The new schedule."))),
	changed(KindContract, "3.3.0", method("remove_schedule",
		"Removes the schedule of an event type. Deprecated in favour of update_event_type.",
		nil,
		arg("event_type", "str", "The event type name."))),

	// Contract 3.4.0
	added(KindContract, "3.4.0", method("get_hook_directives",
		"Returns the directives instructed by the supervisee hook.",
		returns("Any", "The hook directives."))),
	added(KindContract, "3.4.0", method("get_alias",
		"Returns the alias of the supervisee contract version.",
		returns("str", "The alias."))),

	// Contract 3.7.0
	added(KindContract, "3.7.0", method("get_calendar_events",
		"Returns the events of the given calendars.",
		returns("CalendarEvents", "The calendar events."),
		arg("calendar_ids", "List[str]", "The calendar ids."))),
	changed(KindContract, "3.7.0", method("make_internal_transfer_instructions",
		"Builds the instructions of an internal transfer.",
		returns("List[PostingInstruction]", "The instructions."),
		arg("amount", "Decimal", "The amount."),
		arg("denomination", "str", "The denomination."),
		arg("client_transaction_id", "str", "The client transaction id."),
		arg("from_account_id", "str", "The debited account."),
		arg("from_account_address", "Optional[str]", "The debited address."),
		arg("to_account_id", "str", "The credited account."),
		arg("to_account_address", "Optional[str]", "The credited address."),
		arg("pics", "Optional[List[str]]", "Posting instruction codes."),
		arg("override_all_restrictions", "Optional[bool]", "Bypasses restrictions."),
		arg("instruction_details", "Optional[Dict[str, str]]", "Instruction metadata."),
		arg("transaction_code", "Optional[TransactionCode]", "The transaction code."),
		arg("asset", "Optional[str]", "The asset."))),

	// Contract 3.8.0
	added(KindContract, "3.8.0", method("update_event_type",
		"Updates the schedule of an event type.",
		nil,
		arg("event_type", "str", "The event type name."),
		arg("schedule", "Optional[Dict[str, str]]", "The new schedule."),
		arg("end_datetime", "Optional[datetime]", "The schedule end."))),

	// Contract 3.10.0
	added(KindContract, "3.10.0", method("get_balances_observation",
		"Returns the balances observed by a fetcher.",
		returns("BalancesObservation", "The observation."),
		arg("fetcher_id", "str", fetcherIDDoc))),
	added(KindContract, "3.10.0", method("get_scheduled_job_details",
		"Returns the details of the scheduled job running the hook.",
		returns("Any", "The job details."))),
	changed(KindContract, "3.10.0", method("get_postings",
		"Returns the postings declared by requirements or a fetcher.",
		returns("List[PostingInstruction]", "The posting instructions."),
		arg("fetcher_id", "Optional[str]", fetcherIDDoc),
		arg("include_proposed", "Optional[bool]", proposedDoc))),
	changed(KindContract, "3.10.0", method("get_posting_batches",
		"Returns the posting batches declared by requirements or a fetcher.",
		returns("List[Any]", "The posting batches."),
		arg("fetcher_id", "Optional[str]", fetcherIDDoc),
		arg("include_proposed", "Optional[bool]", proposedDoc))),
	changed(KindContract, "3.10.0", method("get_client_transactions",
		"Returns client transactions declared by requirements or a fetcher.",
		returns("Dict[str, ClientTransaction]", "The client transactions."),
		arg("fetcher_id", "Optional[str]", fetcherIDDoc),
		arg("include_proposed", "Optional[bool]", proposedDoc))),
	changed(KindContract, "3.10.0", method("get_balance_timeseries",
		"Returns the balance timeseries declared by requirements or a fetcher.",
		returns("BalanceTimeseries", "The balances."),
		arg("fetcher_id", "Optional[str]", fetcherIDDoc))),
	changed(KindContract, "3.10.0", method("update_event_type",
		"Updates the schedule of an event type.",
		nil,
		arg("event_type", "str", "The event type name."),
		arg("schedule", "Optional[Dict[str, str]]", "The new schedule."),
		arg("end_datetime", "Optional[datetime]", "The schedule end."),
		arg("schedule_method", "Optional[EndOfMonthSchedule]", "An end-of-month schedule."))),

	// Contract 3.12.0
	added(KindContract, "3.12.0", method("instruct_notification",
		"Publishes an account notification.",
		nil,
		arg("notification_type", "str", "The notification type."),
		arg("notification_details", "Dict[str, str]", "The notification payload."))),
	added(KindContract, "3.12.0", method("get_hook_return_data",
		"Returns the return data of the supervisee hook.",
		returns("Any", "The hook return data."))),

	// Contract 4.0.0 starts over.
	reset(KindContract, "4.0.0"),
	attribute(KindContract, "4.0.0", arg("account_id", "str", "The id of the account being executed.")),
	attribute(KindContract, "4.0.0", arg("tside", "Tside", "The accounting side of the account.")),
	attribute(KindContract, "4.0.0", arg("events_timezone", "str", "The timezone schedules are evaluated in.")),
	added(KindContract, "4.0.0", method("get_last_execution_datetime",
		"Returns the last time the event type ran, or None.",
		returns("Optional[datetime]", "The last execution datetime."),
		arg("event_type", "str", "The event type name."))),
	added(KindContract, "4.0.0", method("get_posting_instructions",
		"Returns the posting instructions of a fetcher, or of the hook when fetcher_id is unset.",
		returns("List[PostingInstruction]", "The posting instructions."),
		arg("fetcher_id", "Optional[str]", fetcherIDDoc))),
	added(KindContract, "4.0.0", method("get_client_transactions",
		"Returns client transactions keyed by unique client transaction id.",
		returns("Dict[str, ClientTransaction]", "The client transactions."),
		arg("fetcher_id", "Optional[str]", fetcherIDDoc))),
	added(KindContract, "4.0.0", method("get_account_creation_datetime",
		"Returns the account creation datetime.",
		returns("datetime", "The creation datetime."))),
	added(KindContract, "4.0.0", method("get_balances_timeseries",
		"Returns balance timeseries keyed by coordinate.",
		returns("Dict[BalanceCoordinate, BalanceTimeseries]", "The balances."),
		arg("fetcher_id", "Optional[str]", fetcherIDDoc))),
	added(KindContract, "4.0.0", method("get_hook_execution_id",
		"Returns a unique-enough id for the hook execution.",
		returns("str", "The id."))),
	added(KindContract, "4.0.0", method("get_parameter_timeseries",
		"Returns the timeseries of a parameter.",
		returns("ParameterTimeseries", "The parameter values."),
		arg("name", "str", "The parameter name."))),
	added(KindContract, "4.0.0", method("get_flag_timeseries",
		"Returns the timeseries of a flag.",
		returns("FlagTimeseries", "The flag presence."),
		arg("flag", "str", "The flag definition id."))),
	added(KindContract, "4.0.0", method("get_hook_result",
		"Returns the result of the supervisee hook.",
		returns("Union[PostPostingHookResult, PrePostingHookResult, ScheduledEventHookResult]", "The hook result."))),
	added(KindContract, "4.0.0", method("get_alias",
		"Returns the alias of the supervisee contract version.",
		returns("str", "The alias."))),
	added(KindContract, "4.0.0", method("get_permitted_denominations",
		"Returns the denominations the account may hold.",
		returns("List[str]", "The denominations."))),
	added(KindContract, "4.0.0", method("get_calendar_events",
		"Returns the events of the given calendars.",
		returns("CalendarEvents", "The calendar events."),
		arg("calendar_ids", "List[str]", "The calendar ids."))),
	added(KindContract, "4.0.0", method("get_balances_observation",
		"Returns the balances observed by a fetcher.",
		returns("BalancesObservation", "The observation."),
		arg("fetcher_id", "str", fetcherIDDoc))),

	// Supervisor 3.4.0
	attribute(KindSupervisor, "3.4.0", arg("plan_id", "str", "The id of the plan being executed.")),
	attribute(KindSupervisor, "3.4.0", arg("supervisees", "Dict[str, Vault]", "Supervisee vaults keyed by account id.")),
	added(KindSupervisor, "3.4.0", method("get_last_execution_time",
		"Returns the last time the event type ran, or None.",
		returns("Optional[datetime]", "The last execution time."),
		arg("event_type", "str", "The event type name."))),
	added(KindSupervisor, "3.4.0", method("localize_datetime",
		"Converts a UTC datetime to the events timezone.",
		returns("datetime", "The localized datetime."),
		arg("dt", "datetime", "A UTC datetime."))),
	added(KindSupervisor, "3.4.0", method("get_plan_creation_date",
		"Returns the plan creation date.",
		returns("datetime", "The creation date."))),
	added(KindSupervisor, "3.4.0", method("get_hook_execution_id",
		"Returns a unique-enough id for the plan hook execution.",
		returns("str", "The id."))),

	// Supervisor 3.7.0
	added(KindSupervisor, "3.7.0", method("get_calendar_events",
		"Returns the events of the given calendars.",
		returns("CalendarEvents", "The calendar events."),
		arg("calendar_ids", "List[str]", "The calendar ids."))),

	// Supervisor 3.12.0
	added(KindSupervisor, "3.12.0", method("instruct_notification",
		"Publishes a plan notification.",
		nil,
		arg("notification_type", "str", "The notification type."),
		arg("notification_details", "Dict[str, str]", "The notification payload."))),
	added(KindSupervisor, "3.12.0", method("get_posting_instructions_by_supervisee",
		"Returns the hook's posting instructions keyed by supervisee account id.",
		returns("Dict[str, List[PostingInstruction]]", "The posting instructions."))),

	// Supervisor 4.0.0 starts over.
	reset(KindSupervisor, "4.0.0"),
	attribute(KindSupervisor, "4.0.0", arg("plan_id", "str", "The id of the plan being executed.")),
	attribute(KindSupervisor, "4.0.0", arg("supervisees", "Dict[str, Vault]", "Supervisee vaults keyed by account id.")),
	added(KindSupervisor, "4.0.0", method("get_plan_opening_datetime",
		"Returns the opening datetime of the plan.",
		returns("datetime", "The opening datetime in UTC."))),
	added(KindSupervisor, "4.0.0", method("get_hook_execution_id",
		"Returns a unique-enough id for the plan hook execution.",
		returns("str", "The id."))),
	added(KindSupervisor, "4.0.0", method("get_calendar_events",
		"Returns the events of the given calendars.",
		returns("CalendarEvents", "The calendar events."),
		arg("calendar_ids", "List[str]", "The calendar ids."))),
}
