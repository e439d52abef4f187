package contracts

// EventType declares a scheduled event type of a contract.
type EventType struct {
	Name            string   `json:"name"`
	SchedulerTagIDs []string `json:"scheduler_tag_ids,omitempty"`
}

func (e EventType) validateAs(kind string) error {
	if e.Name == "" {
		return invalidf("%s 'name' must be populated", kind)
	}
	for i, tag := range e.SchedulerTagIDs {
		if tag == "" {
			return strongTypingf("%s 'scheduler_tag_ids[%d]' must be a non-empty string", kind, i)
		}
	}
	return nil
}

func (e EventType) Validate() error { return e.validateAs("EventType") }

// SmartContractEventType is an event type declared by a smart contract.
type SmartContractEventType struct {
	EventType
}

func (e SmartContractEventType) Validate() error { return e.validateAs("SmartContractEventType") }

// SupervisorContractEventType is an event type declared by a supervisor.
// OverridesEventTypes lists (supervisee alias, event type name) pairs whose
// schedules this event replaces.
type SupervisorContractEventType struct {
	EventType
	OverridesEventTypes [][2]string `json:"overrides_event_types,omitempty"`
}

func (e SupervisorContractEventType) Validate() error {
	if err := e.validateAs("SupervisorContractEventType"); err != nil {
		return err
	}
	for i, pair := range e.OverridesEventTypes {
		if pair[0] == "" || pair[1] == "" {
			return strongTypingf("SupervisorContractEventType 'overrides_event_types[%d]' expected Tuple[str, str], got %v", i, pair)
		}
	}
	return nil
}

// EventTypesGroup orders event types that must not run concurrently.
type EventTypesGroup struct {
	Name            string   `json:"name"`
	EventTypesOrder []string `json:"event_types_order"`
}

func (g EventTypesGroup) Validate() error {
	if g.Name == "" {
		return invalidf("EventTypesGroup 'name' must be populated")
	}
	if len(g.EventTypesOrder) < 2 {
		return invalidf("An EventTypesGroup must have at least two event types")
	}
	return nil
}
