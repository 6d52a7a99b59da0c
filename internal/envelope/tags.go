package envelope

import "github.com/ondcnet/bap-adapter/internal/domain"

// Tag is the generic {code, list[{code,value}]} tag-group shape the
// protocol uses for every extensible attribute. Tag categories are
// represented as a small enumeration (TagGroup) and built by pattern
// match, never via reflection over a dynamic map.
type Tag struct {
	Code string      `json:"code"`
	List []TagEntry  `json:"list"`
}

type TagEntry struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

type TagGroup string

const (
	TagGroupBuyerFee         TagGroup = "buyer_fee"
	TagGroupBuyerID          TagGroup = "buyer_id"
	TagGroupBuyerTerms       TagGroup = "buyer_terms"
	TagGroupDeliveryTerms    TagGroup = "delivery_terms"
	TagGroupBPPTerms         TagGroup = "bpp_terms"
	TagGroupCancellationTerms TagGroup = "cancellation_terms"
)

func tag(group TagGroup, entries ...TagEntry) Tag {
	return Tag{Code: string(group), List: entries}
}

// BuyerFeeTag builds the mandatory search-intent tag describing the
// BAP's own fee terms.
func BuyerFeeTag(feeType string, feeValue string) Tag {
	return tag(TagGroupBuyerFee,
		TagEntry{Code: "fee_type", Value: feeType},
		TagEntry{Code: "fee_value", Value: feeValue},
	)
}

// BuyerIDTag builds the buyer identity tag from the caller's default
// vector credential (e.g. a GSTIN).
func BuyerIDTag(vectorType, vectorValue string) Tag {
	return tag(TagGroupBuyerID,
		TagEntry{Code: "type", Value: vectorType},
		TagEntry{Code: "value", Value: vectorValue},
	)
}

// BuyerTermsTag builds the item/packaging requirement tag attached to
// a select line item when the order is a PurchaseOrder.
func BuyerTermsTag(bt domain.BuyerTerm) Tag {
	return tag(TagGroupBuyerTerms,
		TagEntry{Code: "item_req", Value: bt.ItemReq},
		TagEntry{Code: "packaging_req", Value: bt.PackagingReq},
	)
}

// DeliveryTermsTag builds the Incoterms tag attached to an import
// trade fulfillment.
func DeliveryTermsTag(incoTerms domain.IncoTerm, placeOfDelivery string) Tag {
	return tag(TagGroupDeliveryTerms,
		TagEntry{Code: "inco_terms", Value: string(incoTerms)},
		TagEntry{Code: "place_of_delivery", Value: placeOfDelivery},
	)
}

// BPPTermsTag serializes the seller's liability/jurisdiction terms
// for inclusion on a confirm envelope.
func BPPTermsTag(terms domain.BPPTerms) Tag {
	return tag(TagGroupBPPTerms,
		TagEntry{Code: "max_liability", Value: terms.MaxLiability},
		TagEntry{Code: "max_liability_cap", Value: terms.MaxLiabilityCap},
		TagEntry{Code: "mandatory_arbitration", Value: terms.MandatoryArbitration},
		TagEntry{Code: "court_jurisdiction", Value: terms.CourtJurisdiction},
		TagEntry{Code: "delay_interest", Value: terms.DelayInterest},
	)
}

// AgreementTag is the "bap_agreement_to_bpp_terms=Y" tag emitted on
// confirm whenever BPP terms exist.
func AgreementTag() Tag {
	return tag(TagGroupBPPTerms, TagEntry{Code: "bap_agreement_to_bpp_terms", Value: "Y"})
}

// CancellationTermTag serializes one cancellation-terms entry.
func CancellationTermTag(ct domain.CancellationTerm) Tag {
	entries := []TagEntry{
		{Code: "fulfillment_state", Value: ct.FulfillmentState},
	}
	if ct.CancellationFee.Percentage != nil {
		entries = append(entries, TagEntry{Code: "cancellation_fee_percentage", Value: ct.CancellationFee.Percentage.String()})
	}
	if ct.CancellationFee.Amount != nil {
		entries = append(entries, TagEntry{Code: "cancellation_fee_amount", Value: ct.CancellationFee.Amount.String()})
	}
	return tag(TagGroupCancellationTerms, entries...)
}
