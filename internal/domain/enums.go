package domain

// ParticipantRole is the network role a participant plays: buyer
// platform or seller platform.
type ParticipantRole string

const (
	RoleBAP ParticipantRole = "BAP"
	RoleBPP ParticipantRole = "BPP"
)

// RecordType distinguishes an instantaneous order from one placed
// against a non-default TTL, per the aggregate's request_type ⇔ TTL
// invariant.
type RecordType string

const (
	RecordTypeSaleOrder     RecordType = "SaleOrder"
	RecordTypePurchaseOrder RecordType = "PurchaseOrder"
)

// RecordStatus is the commerce aggregate's lifecycle state.
type RecordStatus string

const (
	StatusQuoteRequested RecordStatus = "QuoteRequested"
	StatusQuoteAccepted  RecordStatus = "QuoteAccepted"
	StatusQuoteRejected  RecordStatus = "QuoteRejected"
	StatusInitialized    RecordStatus = "Initialized"
	StatusCreated        RecordStatus = "Created"
	StatusAccepted       RecordStatus = "Accepted"
	StatusInProgress     RecordStatus = "InProgress"
	StatusCompleted      RecordStatus = "Completed"
	StatusCancelled      RecordStatus = "Cancelled"
)

// transitions enumerates the only legal record_status edges, keyed by
// the inbound event that drives them. A transition not present here
// is ignored, with an audit entry, rather than applied.
var transitions = map[RecordStatus]map[string]RecordStatus{
	"": {
		"select": StatusQuoteRequested,
	},
	StatusQuoteRequested: {
		"on_select_ok":  StatusQuoteAccepted,
		"on_select_err": StatusQuoteRejected,
	},
	StatusQuoteAccepted: {
		"on_init":           StatusInitialized,
		"on_cancel_ok":      StatusCancelled,
	},
	StatusInitialized: {
		"on_confirm":   StatusCreated,
		"on_cancel_ok": StatusCancelled,
	},
	StatusCreated: {
		"on_status_accepted": StatusAccepted,
		"on_cancel_ok":       StatusCancelled,
	},
	StatusAccepted: {
		"on_status_in_progress": StatusInProgress,
		"on_cancel_ok":          StatusCancelled,
	},
	StatusInProgress: {
		"on_status_completed": StatusCompleted,
		"on_cancel_ok":        StatusCancelled,
	},
}

// NextStatus applies event to current, returning the resulting status
// and true if the transition is legal, or current and false if the
// event does not apply to this state (a stale or out-of-order
// callback, per the state-monotonicity property).
func NextStatus(current RecordStatus, event string) (RecordStatus, bool) {
	next, ok := transitions[current][event]
	return next, ok
}

// CollectedBy is who collects a payment: the buyer platform or the
// seller platform.
type CollectedBy string

const (
	CollectedByBAP CollectedBy = "BAP"
	CollectedByBPP CollectedBy = "BPP"
)

// FulfillmentType mirrors the protocol's fulfillment category.
type FulfillmentType string

const (
	FulfillmentDelivery   FulfillmentType = "Delivery"
	FulfillmentSelfPickup FulfillmentType = "Self-Pickup"
)

// FulfillmentCategory is the service-level category of a delivery
// fulfillment.
type FulfillmentCategory string

const (
	CategoryStandardDelivery FulfillmentCategory = "Standard Delivery"
	CategoryExpressDelivery  FulfillmentCategory = "Express Delivery"
	CategorySelfPickup       FulfillmentCategory = "Self-Pickup"
)

// ServiceableStatus reports whether a BPP can serve a fulfillment stop.
type ServiceableStatus string

const (
	Serviceable    ServiceableStatus = "Serviceable"
	NonServiceable ServiceableStatus = "Non-serviceable"
)

// IncoTerm is one of the five Incoterms used on import trade fulfillments.
type IncoTerm string

const (
	IncoTermEXW IncoTerm = "EXW"
	IncoTermCIF IncoTerm = "CIF"
	IncoTermFOB IncoTerm = "FOB"
	IncoTermDAP IncoTerm = "DAP"
	IncoTermDDP IncoTerm = "DDP"
)
