package commerce

import (
	"database/sql"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/ondcnet/bap-adapter/internal/domain"
)

// nullStringToPtr, nullStringToDecimal and nullStringToCollectedBy
// bridge nullable text columns to the domain's optional-pointer
// fields, since scanning directly into **T is not supported by
// database/sql for arbitrary named string types.

func nullStringToPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func nullStringToDecimal(n sql.NullString) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d, err := decimal.NewFromString(n.String)
	if err != nil {
		return nil
	}
	return &d
}

func nullStringToCollectedBy(n sql.NullString) *domain.CollectedBy {
	if !n.Valid {
		return nil
	}
	cb := domain.CollectedBy(n.String)
	return &cb
}

// decimalArg guards against decimal.Decimal's value-receiver Value()
// method panicking on a nil *decimal.Decimal when passed straight to
// Exec/Query as a driver argument.
func decimalArg(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}

// encodeStop, encodeBPPTerms and encodeCancellationTerms serialize the
// nested protocol shapes that buyer_commerce_fulfillment_data and
// buyer_commerce_data store as jsonb columns, rather than normalizing
// every nested field into its own column.

func encodeStop(stop *domain.FulfillmentStop) []byte {
	if stop == nil {
		return nil
	}
	b, err := json.Marshal(stop)
	if err != nil {
		return nil
	}
	return b
}

func decodeStop(raw []byte) *domain.FulfillmentStop {
	if len(raw) == 0 {
		return nil
	}
	var stop domain.FulfillmentStop
	if err := json.Unmarshal(raw, &stop); err != nil {
		return nil
	}
	return &stop
}

func encodeBPPTerms(terms *domain.BPPTerms) []byte {
	if terms == nil {
		return nil
	}
	b, err := json.Marshal(terms)
	if err != nil {
		return nil
	}
	return b
}

func decodeBPPTerms(raw []byte) *domain.BPPTerms {
	if len(raw) == 0 {
		return nil
	}
	var terms domain.BPPTerms
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil
	}
	return &terms
}

func encodeCancellationTerms(terms []domain.CancellationTerm) []byte {
	if len(terms) == 0 {
		return nil
	}
	b, err := json.Marshal(terms)
	if err != nil {
		return nil
	}
	return b
}

func decodeCancellationTerms(raw []byte) []domain.CancellationTerm {
	if len(raw) == 0 {
		return nil
	}
	var terms []domain.CancellationTerm
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil
	}
	return terms
}

func decodeSettlementDetails(raw []byte) []domain.SettlementDetail {
	if len(raw) == 0 {
		return nil
	}
	var details []domain.SettlementDetail
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil
	}
	return details
}
