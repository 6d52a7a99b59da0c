// Package commerce implements the Commerce State Store: the durable
// buyer_commerce_* aggregate and its atomic, transactional
// transitions across the order lifecycle.
package commerce

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DraftSelect deletes any prior aggregate with the same external urn,
// then inserts a fresh header (status QuoteRequested), its items (with
// unit_price/tax_rate resolved from the caller-supplied catalog
// lookup, zero-defaulted on miss; no mrp is stored on the line), its
// fulfillments (drop-off derived from the request), and its payments,
// all within one transaction.
func (s *Store) DraftSelect(ctx context.Context, in DraftSelectInput) error {
	if err := checkSelectClosure("commerce.Store.DraftSelect", in); err != nil {
		return err
	}

	return s.withTx(ctx, "commerce.Store.DraftSelect", func(tx *sql.Tx) error {
		if err := deleteAggregate(ctx, tx, in.ExternalURN); err != nil {
			return err
		}

		commerceID := uuid.New()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO buyer_commerce_data
				(id, external_urn, record_type, record_status, domain_category_code, buyer_id,
				 seller_id, seller_name, bap_id, bap_uri, bpp_id, bpp_uri, quote_ttl,
				 currency_code, grand_total, city_code, country_code, created_by, created_on, updated_on)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,0,$15,$16,$17, now(), now())`,
			commerceID, in.ExternalURN, in.RecordType, domain.StatusQuoteRequested, in.DomainCategoryCode, in.BuyerID,
			in.ProviderID, in.ProviderName, in.Routing.BAP.ID, in.Routing.BAP.URI, in.Routing.BPP.ID, in.Routing.BPP.URI,
			in.QuoteTTL, in.CurrencyCode, in.CityCode, in.CountryCode, in.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("insert header: %w", err)
		}

		for _, item := range in.Items {
			catalogItem := in.CatalogItems[domain.MappingKey(in.Routing.BPP.ID, in.ProviderID, item.ItemID)]
			_, err := tx.ExecContext(ctx, `
				INSERT INTO buyer_commerce_data_line
					(id, commerce_id, item_id, item_name, item_code, item_image, qty,
					 tax_rate, tax_value, unit_price, gross_total, available_qty, discount_amount,
					 location_ids, fulfillment_ids)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,0,$9,0,0,0,$10,$11)`,
				uuid.New(), commerceID, item.ItemID, catalogItem.ItemName, catalogItem.ItemCode, firstImage(catalogItem.Images), item.Qty,
				catalogItem.TaxRate, catalogItem.UnitPriceWithTax,
				pq.Array(item.LocationIDs), pq.Array(item.FulfillmentIDs),
			)
			if err != nil {
				return fmt.Errorf("insert item %s: %w", item.ItemID, err)
			}
		}

		for _, f := range in.Fulfillments {
			if err := insertFulfillment(ctx, tx, commerceID, f.FulfillmentID, f.Type, nil, f.DropOff, f.IncoTerms); err != nil {
				return err
			}
		}

		for _, pt := range in.PaymentTypes {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO buyer_commerce_payment (id, commerce_id, payment_type)
				VALUES ($1,$2,$3)`, uuid.New(), commerceID, pt)
			if err != nil {
				return fmt.Errorf("insert payment: %w", err)
			}
		}

		return nil
	})
}

// ApplyQuote updates the existing (draft) aggregate for external urn
// in place with the seller's quoted values: status QuoteAccepted on a
// response with no error, else QuoteRejected; item amounts taken from
// the response breakup (missing values default to zero); fulfillments
// gain category/serviceable-status/tat/tracking and a pickup stop
// parsed from a start-type response stop; payments gain collected_by.
// Header, item, fulfillment and payment rows are updated, not deleted
// and re-inserted, and no aggregate is created when none exists.
func (s *Store) ApplyQuote(ctx context.Context, externalURN uuid.UUID, in ApplyQuoteInput) error {
	return s.withTx(ctx, "commerce.Store.ApplyQuote", func(tx *sql.Tx) error {
		commerceID, prior, err := loadHeaderForUpdate(ctx, tx, externalURN)
		if err != nil {
			return err
		}

		status := domain.StatusQuoteAccepted
		if !in.Accepted {
			status = domain.StatusQuoteRejected
		}
		next, ok := domain.NextStatus(prior.status, eventFor(in.Accepted))
		if !ok {
			return auditIgnored(ctx, tx, externalURN, "on_select: illegal transition from "+string(prior.status))
		}
		_ = next

		if _, err := tx.ExecContext(ctx, `
			UPDATE buyer_commerce_data SET record_status=$1, grand_total=$2, updated_on=now() WHERE id=$3`,
			status, in.GrandTotal, commerceID,
		); err != nil {
			return fmt.Errorf("update header: %w", err)
		}

		breakupByItem := map[string]QuoteBreakupLineInput{}
		for _, b := range in.Breakup {
			breakupByItem[b.ItemID] = b
		}

		rows, err := tx.QueryContext(ctx, `SELECT id, item_id FROM buyer_commerce_data_line WHERE commerce_id=$1`, commerceID)
		if err != nil {
			return fmt.Errorf("select items: %w", err)
		}
		type idItem struct {
			id     uuid.UUID
			itemID string
		}
		var lines []idItem
		for rows.Next() {
			var li idItem
			if err := rows.Scan(&li.id, &li.itemID); err != nil {
				rows.Close()
				return fmt.Errorf("scan item: %w", err)
			}
			lines = append(lines, li)
		}
		rows.Close()

		for _, li := range lines {
			b := breakupByItem[li.itemID]
			if _, err := tx.ExecContext(ctx, `
				UPDATE buyer_commerce_data_line
				SET unit_price=$1, tax_value=$2, discount_amount=$3, gross_total=$4, available_qty=$5
				WHERE id=$6`,
				b.UnitPrice, b.TaxValue, b.DiscountAmount, b.GrossTotal, b.AvailableQty, li.id,
			); err != nil {
				return fmt.Errorf("update item %s: %w", li.itemID, err)
			}
		}

		for _, qf := range in.Fulfillments {
			if _, err := tx.ExecContext(ctx, `
				UPDATE buyer_commerce_fulfillment_data
				SET category=$1, servicable_status=$2, tat=$3, tracking=$4, pickup=$5,
				    packing_charge=$6, delivery_charge=$7, convenience_fee=$8
				WHERE commerce_id=$9 AND fulfillment_id=$10`,
				qf.Category, qf.ServicableStatus, qf.TAT, qf.Tracking, encodeStop(qf.Pickup),
				qf.PackingCharge, qf.DeliveryCharge, qf.ConvenienceFee, commerceID, qf.FulfillmentID,
			); err != nil {
				return fmt.Errorf("update fulfillment %s: %w", qf.FulfillmentID, err)
			}
		}

		for _, pay := range in.Payments {
			if _, err := tx.ExecContext(ctx, `
				UPDATE buyer_commerce_payment SET collected_by=$1 WHERE commerce_id=$2 AND payment_type=$3`,
				pay.CollectedBy, commerceID, pay.Type,
			); err != nil {
				return fmt.Errorf("update payment: %w", err)
			}
		}

		return nil
	})
}

// ApplyOnInit resolves the commerce id by external urn, replaces its
// payments with the seller-supplied settlement data, updates header
// billing/bpp_terms/cancellation_terms, and sets status Initialized.
func (s *Store) ApplyOnInit(ctx context.Context, in ApplyOnInitInput) error {
	return s.withTx(ctx, "commerce.Store.ApplyOnInit", func(tx *sql.Tx) error {
		commerceID, prior, err := loadHeaderForUpdate(ctx, tx, in.ExternalURN)
		if err != nil {
			return err
		}
		if _, ok := domain.NextStatus(prior.status, "on_init"); !ok {
			return auditIgnored(ctx, tx, in.ExternalURN, "on_init: illegal transition from "+string(prior.status))
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM buyer_commerce_payment WHERE commerce_id=$1`, commerceID); err != nil {
			return fmt.Errorf("delete payments: %w", err)
		}
		for _, p := range in.Payments {
			detailsJSON, err := json.Marshal(p.SettlementDetails)
			if err != nil {
				return fmt.Errorf("marshal settlement details: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO buyer_commerce_payment
					(id, commerce_id, buyer_fee_type, buyer_fee_amount, settlement_window,
					 withholding_amount, seller_payment_uri, settlement_basis, settlement_details)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
				uuid.New(), commerceID, p.BuyerFeeType, decimalArg(p.BuyerFeeAmount), p.SettlementWindow,
				decimalArg(p.WithholdingAmount), p.SellerPaymentURI, p.SettlementBasis, detailsJSON,
			); err != nil {
				return fmt.Errorf("insert payment: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE buyer_commerce_data
			SET billing_name=$1, billing_address=$2, billing_tax_id=$3, billing_mobile_no=$4, billing_email=$5,
			    billing_city=$6, billing_state=$7,
			    bpp_terms=$8, cancellation_terms=$9, record_status=$10, updated_on=now()
			WHERE id=$11`,
			in.Billing.Name, in.Billing.Address, in.Billing.TaxID, in.Billing.MobileNo, in.Billing.Email,
			in.Billing.City, in.Billing.State,
			encodeBPPTerms(in.BPPTerms), encodeCancellationTerms(in.CancellationTerms), domain.StatusInitialized, commerceID,
		); err != nil {
			return fmt.Errorf("update header: %w", err)
		}

		return nil
	})
}

// ApplyOnConfirm moves an Initialized aggregate to Created.
func (s *Store) ApplyOnConfirm(ctx context.Context, externalURN uuid.UUID) error {
	return s.applyStatusEvent(ctx, externalURN, "on_confirm", domain.StatusCreated)
}

// ApplyOnStatus moves a Created/Accepted/InProgress aggregate forward
// per the response's order state, which the caller maps to event.
func (s *Store) ApplyOnStatus(ctx context.Context, externalURN uuid.UUID, event string) error {
	return s.withTx(ctx, "commerce.Store.ApplyOnStatus", func(tx *sql.Tx) error {
		commerceID, prior, err := loadHeaderForUpdate(ctx, tx, externalURN)
		if err != nil {
			return err
		}
		next, ok := domain.NextStatus(prior.status, event)
		if !ok {
			return auditIgnored(ctx, tx, externalURN, event+": illegal transition from "+string(prior.status))
		}
		_, err = tx.ExecContext(ctx, `UPDATE buyer_commerce_data SET record_status=$1, updated_on=now() WHERE id=$2`, next, commerceID)
		if err != nil {
			return fmt.Errorf("update header: %w", err)
		}
		return nil
	})
}

// ApplyOnCancel moves any cancellable aggregate to Cancelled.
func (s *Store) ApplyOnCancel(ctx context.Context, externalURN uuid.UUID) error {
	return s.applyStatusEvent(ctx, externalURN, "on_cancel_ok", domain.StatusCancelled)
}

func (s *Store) applyStatusEvent(ctx context.Context, externalURN uuid.UUID, event string, want domain.RecordStatus) error {
	return s.withTx(ctx, "commerce.Store.applyStatusEvent", func(tx *sql.Tx) error {
		commerceID, prior, err := loadHeaderForUpdate(ctx, tx, externalURN)
		if err != nil {
			return err
		}
		next, ok := domain.NextStatus(prior.status, event)
		if !ok || next != want {
			return auditIgnored(ctx, tx, externalURN, event+": illegal transition from "+string(prior.status))
		}
		_, err = tx.ExecContext(ctx, `UPDATE buyer_commerce_data SET record_status=$1, updated_on=now() WHERE id=$2`, next, commerceID)
		if err != nil {
			return fmt.Errorf("update header: %w", err)
		}
		return nil
	})
}

// RecordOutbound appends to the outbound audit log in
// ondc_buyer_order_req. The dispatcher runs it concurrently with the
// POST it describes, so the row may be written before or after the
// send.
func (s *Store) RecordOutbound(ctx context.Context, in OutboundAuditInput) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ondc_buyer_order_req
			(id, transaction_id, message_id, action, payload, user_id, business_id, device_id, created_on)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now())`,
		uuid.New(), in.TransactionID, in.MessageID, in.Action, in.Payload, in.UserID, in.BusinessID, in.DeviceID,
	)
	if err != nil {
		return ondcerr.Databasef("commerce.Store.RecordOutbound", err)
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ondcerr.Databasef(op, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return ondcerr.Databasef(op, err)
	}

	if err := tx.Commit(); err != nil {
		return ondcerr.Databasef(op, fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// checkSelectClosure fails fast on a select request whose item
// references don't close over its own fulfillments and locations: an
// item naming a fulfillment id absent from in.Fulfillments, or any
// item present with no location id at all.
func checkSelectClosure(op string, in DraftSelectInput) error {
	tmp := domain.Commerce{}
	for _, f := range in.Fulfillments {
		tmp.Fulfillments = append(tmp.Fulfillments, domain.CommerceFulfillment{FulfillmentID: f.FulfillmentID})
	}
	for _, item := range in.Items {
		tmp.Items = append(tmp.Items, domain.CommerceItem{
			ItemID: item.ItemID, LocationIDs: item.LocationIDs, FulfillmentIDs: item.FulfillmentIDs,
		})
	}

	known := tmp.FulfillmentIDSet()
	for _, item := range tmp.Items {
		for _, fid := range item.FulfillmentIDs {
			if _, ok := known[fid]; !ok {
				return ondcerr.Validationf(op, "item %s references unknown fulfillment id %s", item.ItemID, fid)
			}
		}
	}
	if len(tmp.Items) > 0 && len(tmp.LocationIDClosure()) == 0 {
		return ondcerr.Validationf(op, "select request has items but no location ids")
	}
	return nil
}

func eventFor(accepted bool) string {
	if accepted {
		return "on_select_ok"
	}
	return "on_select_err"
}

func deleteAggregate(ctx context.Context, tx *sql.Tx, externalURN uuid.UUID) error {
	var commerceID uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM buyer_commerce_data WHERE external_urn=$1`, externalURN).Scan(&commerceID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("select prior aggregate: %w", err)
	}

	for _, table := range []string{"buyer_commerce_data_line", "buyer_commerce_payment", "buyer_commerce_fulfillment_data"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE commerce_id=$1`, commerceID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM buyer_commerce_data WHERE id=$1`, commerceID); err != nil {
		return fmt.Errorf("delete header: %w", err)
	}
	return nil
}

type headerRow struct {
	status domain.RecordStatus
}

func loadHeaderForUpdate(ctx context.Context, tx *sql.Tx, externalURN uuid.UUID) (uuid.UUID, headerRow, error) {
	var id uuid.UUID
	var status domain.RecordStatus
	err := tx.QueryRowContext(ctx, `SELECT id, record_status FROM buyer_commerce_data WHERE external_urn=$1 FOR UPDATE`, externalURN).Scan(&id, &status)
	if err == sql.ErrNoRows {
		return uuid.UUID{}, headerRow{}, fmt.Errorf("commerce aggregate not found for external_urn %s", externalURN)
	}
	if err != nil {
		return uuid.UUID{}, headerRow{}, fmt.Errorf("select header: %w", err)
	}
	return id, headerRow{status: status}, nil
}

func auditIgnored(ctx context.Context, tx *sql.Tx, externalURN uuid.UUID, reason string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ondc_buyer_order_req (id, transaction_id, action, payload, business_id, created_on)
		SELECT gen_random_uuid(), $1, 'ignored_transition', $2, id, now() FROM buyer_commerce_data WHERE external_urn=$1`,
		externalURN, reason)
	return err
}

func insertFulfillment(ctx context.Context, tx *sql.Tx, commerceID uuid.UUID, fulfillmentID string, ftype domain.FulfillmentType, pickup, dropoff *domain.FulfillmentStop, incoTerms *domain.IncoTerm) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO buyer_commerce_fulfillment_data
			(id, commerce_id, fulfillment_id, fulfillment_type, status, inco_terms, drop_off, pickup,
			 packing_charge, delivery_charge, convenience_fee)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,0,0,0)`,
		uuid.New(), commerceID, fulfillmentID, ftype, domain.FulfillmentStatusPending, incoTerms, encodeStop(dropoff), encodeStop(pickup),
	)
	if err != nil {
		return fmt.Errorf("insert fulfillment %s: %w", fulfillmentID, err)
	}
	return nil
}

func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}

// Fetch hydrates a full Commerce aggregate by external urn across four
// queries (header, items, payments, fulfillments). Returns nil, nil
// when no aggregate exists for that urn.
func (s *Store) Fetch(ctx context.Context, externalURN uuid.UUID) (*domain.Commerce, error) {
	var c domain.Commerce
	var bppTermsRaw, cancellationTermsRaw []byte
	var billingName, billingAddress, billingTaxID, billingMobileNo, billingEmail, billingCity, billingState sql.NullString

	row := s.db.QueryRowContext(ctx, `
		SELECT id, external_urn, record_type, record_status, domain_category_code, buyer_id,
		       seller_id, seller_name, bap_id, bap_uri, bpp_id, bpp_uri, quote_ttl,
		       currency_code, grand_total, city_code, country_code, created_by, created_on, updated_on,
		       billing_name, billing_address, billing_tax_id, billing_mobile_no, billing_email,
		       billing_city, billing_state, bpp_terms, cancellation_terms
		FROM buyer_commerce_data WHERE external_urn=$1`, externalURN)

	err := row.Scan(
		&c.ID, &c.ExternalURN, &c.RecordType, &c.RecordStatus, &c.DomainCategoryCode, &c.BuyerID,
		&c.SellerID, &c.SellerName, &c.Routing.BAP.ID, &c.Routing.BAP.URI, &c.Routing.BPP.ID, &c.Routing.BPP.URI, &c.QuoteTTL,
		&c.CurrencyCode, &c.GrandTotal, &c.CityCode, &c.CountryCode, &c.CreatedBy, &c.CreatedOn, &c.UpdatedOn,
		&billingName, &billingAddress, &billingTaxID, &billingMobileNo, &billingEmail,
		&billingCity, &billingState, &bppTermsRaw, &cancellationTermsRaw,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ondcerr.Databasef("commerce.Store.Fetch", fmt.Errorf("select header: %w", err))
	}

	if billingName.Valid {
		c.Billing = &domain.Billing{
			Name: billingName.String, Address: billingAddress.String, TaxID: billingTaxID.String,
			MobileNo: billingMobileNo.String, Email: billingEmail.String, City: billingCity.String, State: billingState.String,
		}
	}
	c.BPPTerms = decodeBPPTerms(bppTermsRaw)
	c.CancellationTerms = decodeCancellationTerms(cancellationTermsRaw)

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, item_name, item_code, item_image, qty, tax_rate, tax_value, unit_price,
		       gross_total, available_qty, discount_amount, location_ids, fulfillment_ids
		FROM buyer_commerce_data_line WHERE commerce_id=$1`, c.ID)
	if err != nil {
		return nil, ondcerr.Databasef("commerce.Store.Fetch", fmt.Errorf("select items: %w", err))
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var item domain.CommerceItem
		if err := itemRows.Scan(
			&item.ID, &item.ItemID, &item.ItemName, &item.ItemCode, &item.ItemImage, &item.Qty,
			&item.TaxRate, &item.TaxValue, &item.UnitPrice, &item.GrossTotal, &item.AvailableQty,
			&item.DiscountAmount, pq.Array(&item.LocationIDs), pq.Array(&item.FulfillmentIDs),
		); err != nil {
			return nil, ondcerr.Databasef("commerce.Store.Fetch", fmt.Errorf("scan item: %w", err))
		}
		c.Items = append(c.Items, item)
	}

	payRows, err := s.db.QueryContext(ctx, `
		SELECT id, collected_by, payment_type, buyer_fee_type, buyer_fee_amount, settlement_window,
		       withholding_amount, seller_payment_uri, settlement_basis, settlement_details
		FROM buyer_commerce_payment WHERE commerce_id=$1`, c.ID)
	if err != nil {
		return nil, ondcerr.Databasef("commerce.Store.Fetch", fmt.Errorf("select payments: %w", err))
	}
	defer payRows.Close()
	for payRows.Next() {
		var pay domain.CommercePayment
		var collectedBy, buyerFeeType, settlementWindow, sellerPaymentURI, settlementBasis sql.NullString
		var buyerFeeAmount, withholdingAmount sql.NullString
		var settlementDetailsRaw []byte
		if err := payRows.Scan(
			&pay.ID, &collectedBy, &pay.PaymentType, &buyerFeeType, &buyerFeeAmount,
			&settlementWindow, &withholdingAmount, &sellerPaymentURI, &settlementBasis, &settlementDetailsRaw,
		); err != nil {
			return nil, ondcerr.Databasef("commerce.Store.Fetch", fmt.Errorf("scan payment: %w", err))
		}
		pay.CollectedBy = nullStringToCollectedBy(collectedBy)
		pay.BuyerFeeType = nullStringToPtr(buyerFeeType)
		pay.SettlementWindow = nullStringToPtr(settlementWindow)
		pay.SellerPaymentURI = nullStringToPtr(sellerPaymentURI)
		pay.SettlementBasis = nullStringToPtr(settlementBasis)
		pay.BuyerFeeAmount = nullStringToDecimal(buyerFeeAmount)
		pay.WithholdingAmount = nullStringToDecimal(withholdingAmount)
		pay.SettlementDetails = decodeSettlementDetails(settlementDetailsRaw)
		c.Payments = append(c.Payments, pay)
	}

	fulRows, err := s.db.QueryContext(ctx, `
		SELECT id, fulfillment_id, fulfillment_type, tat, status, inco_terms, place_of_delivery,
		       provider_name, category, servicable_status, tracking, drop_off, pickup,
		       packing_charge, delivery_charge, convenience_fee
		FROM buyer_commerce_fulfillment_data WHERE commerce_id=$1`, c.ID)
	if err != nil {
		return nil, ondcerr.Databasef("commerce.Store.Fetch", fmt.Errorf("select fulfillments: %w", err))
	}
	defer fulRows.Close()
	for fulRows.Next() {
		var f domain.CommerceFulfillment
		var tat, incoTerms, placeOfDelivery, providerName, category, servicableStatus sql.NullString
		var tracking sql.NullBool
		var dropOffRaw, pickupRaw []byte
		if err := fulRows.Scan(
			&f.ID, &f.FulfillmentID, &f.FulfillmentType, &tat, &f.Status, &incoTerms, &placeOfDelivery,
			&providerName, &category, &servicableStatus, &tracking, &dropOffRaw, &pickupRaw,
			&f.PackingCharge, &f.DeliveryCharge, &f.ConvenienceFee,
		); err != nil {
			return nil, ondcerr.Databasef("commerce.Store.Fetch", fmt.Errorf("scan fulfillment: %w", err))
		}
		f.TAT = nullStringToPtr(tat)
		f.PlaceOfDelivery = nullStringToPtr(placeOfDelivery)
		f.ProviderName = nullStringToPtr(providerName)
		if incoTerms.Valid {
			it := domain.IncoTerm(incoTerms.String)
			f.IncoTerms = &it
		}
		if category.Valid {
			cat := domain.FulfillmentCategory(category.String)
			f.Category = &cat
		}
		if servicableStatus.Valid {
			st := domain.ServiceableStatus(servicableStatus.String)
			f.ServicableStatus = &st
		}
		if tracking.Valid {
			f.Tracking = &tracking.Bool
		}
		f.DropOff = decodeStop(dropOffRaw)
		f.Pickup = decodeStop(pickupRaw)
		c.Fulfillments = append(c.Fulfillments, f)
	}

	return &c, nil
}
