package contracts

// BalancesFilter narrows fetched balances to a set of addresses.
type BalancesFilter struct {
	Addresses []string `json:"addresses"`
}

func (f BalancesFilter) Validate() error {
	if len(f.Addresses) == 0 {
		return invalidf("BalancesFilter 'addresses' must be a non empty list, got []")
	}
	for i, a := range f.Addresses {
		if a == "" {
			return invalidf("'BalancesFilter.addresses[%d]' must be a non-empty string", i)
		}
	}
	return nil
}

// intervalFetcher holds the window shared by the interval fetchers.
type intervalFetcher struct {
	FetcherID string      `json:"fetcher_id"`
	Start     DateTimeRef `json:"start"`
	End       DateTimeRef `json:"end"`
}

func (f intervalFetcher) validate(kind string) error {
	if f.FetcherID == "" {
		return invalidf("%s 'fetcher_id' must be populated", kind)
	}
	if f.Start.IsZero() {
		return strongTypingf("'%s.start' expected Union[RelativeDateTime, DefinedDateTime], got None", kind)
	}
	if err := f.Start.validate(kind + ".start"); err != nil {
		return err
	}
	if f.Start.Relative != nil && f.Start.Relative.Origin != DefinedDateTimeEffectiveDatetime {
		return invalidf("%s 'start' origin value must be set to 'DefinedDateTime.EFFECTIVE_DATETIME'", kind)
	}
	switch f.Start.Defined {
	case DefinedDateTimeLive:
		return invalidf("%s 'start' cannot be set to 'DefinedDateTime.LIVE'", kind)
	case DefinedDateTimeIntervalStart:
		return invalidf("%s 'start' cannot be set to 'DefinedDateTime.INTERVAL_START'", kind)
	}
	if f.End.IsZero() {
		return nil
	}
	if err := f.End.validate(kind + ".end"); err != nil {
		return err
	}
	if f.End.Defined == DefinedDateTimeIntervalStart {
		return invalidf("%s 'end' cannot be set to 'DefinedDateTime.INTERVAL_START'", kind)
	}
	return nil
}

// EndOrLive returns End, defaulting to LIVE.
func (f intervalFetcher) EndOrLive() DateTimeRef {
	if f.End.IsZero() {
		return Defined(DefinedDateTimeLive)
	}
	return f.End
}

// PostingsIntervalFetcher fetches posting instructions over a window.
type PostingsIntervalFetcher struct {
	intervalFetcher
}

// NewPostingsIntervalFetcher builds a fetcher from start to end. A zero end
// means LIVE.
func NewPostingsIntervalFetcher(id string, start, end DateTimeRef) PostingsIntervalFetcher {
	return PostingsIntervalFetcher{intervalFetcher{FetcherID: id, Start: start, End: end}}
}

func (f PostingsIntervalFetcher) Validate() error { return f.validate("PostingsIntervalFetcher") }

// BalancesIntervalFetcher fetches a balances timeseries over a window.
type BalancesIntervalFetcher struct {
	intervalFetcher
	Filter *BalancesFilter `json:"filter,omitempty"`
}

// NewBalancesIntervalFetcher builds a fetcher from start to end. A zero end
// means LIVE.
func NewBalancesIntervalFetcher(id string, start, end DateTimeRef, filter *BalancesFilter) BalancesIntervalFetcher {
	return BalancesIntervalFetcher{intervalFetcher{FetcherID: id, Start: start, End: end}, filter}
}

func (f BalancesIntervalFetcher) Validate() error {
	if err := f.validate("BalancesIntervalFetcher"); err != nil {
		return err
	}
	if f.Filter != nil {
		return f.Filter.Validate()
	}
	return nil
}

// BalancesObservationFetcher fetches a single balances snapshot.
type BalancesObservationFetcher struct {
	FetcherID string          `json:"fetcher_id"`
	At        DateTimeRef     `json:"at"`
	Filter    *BalancesFilter `json:"filter,omitempty"`
}

func (f BalancesObservationFetcher) Validate() error {
	if f.FetcherID == "" {
		return invalidf("BalancesObservationFetcher 'fetcher_id' must be populated")
	}
	if f.At.IsZero() {
		return invalidf("BalancesObservationFetcher 'at' must be populated")
	}
	if err := f.At.validate("BalancesObservationFetcher.at"); err != nil {
		return err
	}
	if f.At.Defined == DefinedDateTimeIntervalStart {
		return invalidf("BalancesObservationFetcher 'at' cannot be set to 'DefinedDateTime.INTERVAL_START'")
	}
	if f.Filter != nil {
		return f.Filter.Validate()
	}
	return nil
}

// Requirements declares the data a hook needs the runtime to fetch before it
// is invoked.
type Requirements struct {
	Balances                 string   `json:"balances,omitempty"`
	Calendar                 []string `json:"calendar,omitempty"`
	DataScope                string   `json:"data_scope,omitempty"`
	EventType                string   `json:"event_type,omitempty"`
	Flags                    bool     `json:"flags,omitempty"`
	LastExecutionDatetime    []string `json:"last_execution_datetime,omitempty"`
	Parameters               bool     `json:"parameters,omitempty"`
	Postings                 bool     `json:"postings,omitempty"`
	SuperviseeHookDirectives string   `json:"supervisee_hook_directives,omitempty"`
}

func (r Requirements) Validate() error {
	switch r.DataScope {
	case "", "all", "self":
	default:
		return invalidf("Requirements 'data_scope' must be one of 'all' or 'self', got '%s'", r.DataScope)
	}
	return nil
}

// FetcherRequirements names the fetchers a hook consumes.
type FetcherRequirements struct {
	Fetchers []string `json:"fetchers"`
}

func (r FetcherRequirements) Validate() error {
	if len(r.Fetchers) == 0 {
		return invalidf("'fetchers' must be a non empty list, got []")
	}
	return nil
}
