// Package catalog implements the Catalog Store: bulk ingest and
// lookup of seller metadata, provider locations, and item
// pricing/tax/images learned from inbound search responses.
package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
)

type Store struct {
	sellers   *mongo.Collection
	locations *mongo.Collection
	items     *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		sellers:   db.Collection("ondc_seller_info"),
		locations: db.Collection("ondc_seller_location_info"),
		items:     db.Collection("ondc_seller_product_info"),
	}
}

// Ingest flattens a search response's providers into seller, location
// and item rows and bulk-upserts each collection concurrently. An
// empty provider list is a no-op — nothing to flatten, nothing to
// spawn.
func (s *Store) Ingest(ctx context.Context, bppID string, resp SearchResponse, countryCode string) error {
	if len(resp.Catalog.Providers) == 0 {
		return nil
	}

	var sellers []domain.Seller
	var locations []domain.Location
	var items []domain.Item

	for _, p := range resp.Catalog.Providers {
		sellers = append(sellers, domain.Seller{
			SellerSubscriberID: bppID,
			ProviderID:         p.ID,
			ProviderName:       p.Descriptor.Name,
		})
		for _, l := range p.Locations {
			locations = append(locations, toDomainLocation(bppID, p.ID, l))
		}
		for _, it := range p.Items {
			items = append(items, toDomainItem(bppID, countryCode, p.ID, it))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.upsertSellers(gctx, sellers) })
	g.Go(func() error { return s.upsertLocations(gctx, locations) })
	g.Go(func() error { return s.upsertItems(gctx, items) })
	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}

func (s *Store) upsertSellers(ctx context.Context, sellers []domain.Seller) error {
	if len(sellers) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(sellers))
	for _, sel := range sellers {
		filter := bson.M{"seller_subscriber_id": sel.SellerSubscriberID, "provider_id": sel.ProviderID}
		update := bson.M{"$set": bson.M{
			"seller_subscriber_id": sel.SellerSubscriberID,
			"provider_id":          sel.ProviderID,
			"provider_name":        sel.ProviderName,
		}}
		models = append(models, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}
	_, err := s.sellers.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return ondcerr.Databasef("catalog.Store.upsertSellers", err)
	}
	return nil
}

func (s *Store) upsertLocations(ctx context.Context, locations []domain.Location) error {
	if len(locations) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(locations))
	for _, loc := range locations {
		filter := bson.M{
			"seller_subscriber_id": loc.SellerSubscriberID,
			"provider_id":          loc.ProviderID,
			"location_id":          loc.LocationID,
		}
		update := bson.M{"$set": locationDoc(loc)}
		models = append(models, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}
	_, err := s.locations.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return ondcerr.Databasef("catalog.Store.upsertLocations", err)
	}
	return nil
}

func (s *Store) upsertItems(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(items))
	for _, it := range items {
		filter := bson.M{
			"seller_subscriber_id": it.SellerSubscriberID,
			"country_code":         it.CountryCode,
			"provider_id":          it.ProviderID,
			"item_id":              it.ItemID,
		}
		update := bson.M{"$set": itemDoc(it)}
		models = append(models, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}
	_, err := s.items.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return ondcerr.Databasef("catalog.Store.upsertItems", err)
	}
	return nil
}

// ItemMapping batch-fetches items keyed by the
// "bppID_providerID_itemID" composite string callers depend on to
// collate outbound items.
func (s *Store) ItemMapping(ctx context.Context, bppID, providerID string, itemIDs []string, countryCode string) (map[string]domain.Item, error) {
	cur, err := s.items.Find(ctx, bson.M{
		"seller_subscriber_id": bppID,
		"country_code":         countryCode,
		"provider_id":          providerID,
		"item_id":              bson.M{"$in": itemIDs},
	})
	if err != nil {
		return nil, ondcerr.Databasef("catalog.Store.ItemMapping", err)
	}
	defer cur.Close(ctx)

	out := map[string]domain.Item{}
	for cur.Next(ctx) {
		var doc itemBSON
		if err := cur.Decode(&doc); err != nil {
			return nil, ondcerr.Databasef("catalog.Store.ItemMapping", fmt.Errorf("decode item: %w", err))
		}
		it := doc.toDomain()
		out[domain.MappingKey(bppID, providerID, it.ItemID)] = it
	}
	return out, cur.Err()
}

// LocationMapping is ItemMapping's analog for location rows.
func (s *Store) LocationMapping(ctx context.Context, bppID, providerID string, locationIDs []string) (map[string]domain.Location, error) {
	cur, err := s.locations.Find(ctx, bson.M{
		"seller_subscriber_id": bppID,
		"provider_id":          providerID,
		"location_id":          bson.M{"$in": locationIDs},
	})
	if err != nil {
		return nil, ondcerr.Databasef("catalog.Store.LocationMapping", err)
	}
	defer cur.Close(ctx)

	out := map[string]domain.Location{}
	for cur.Next(ctx) {
		var doc locationBSON
		if err := cur.Decode(&doc); err != nil {
			return nil, ondcerr.Databasef("catalog.Store.LocationMapping", fmt.Errorf("decode location: %w", err))
		}
		loc := doc.toDomain()
		out[domain.MappingKey(bppID, providerID, loc.LocationID)] = loc
	}
	return out, cur.Err()
}

func (s *Store) SellerInfo(ctx context.Context, bppID, providerID string) (*domain.Seller, error) {
	var doc sellerBSON
	err := s.sellers.FindOne(ctx, bson.M{"seller_subscriber_id": bppID, "provider_id": providerID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, ondcerr.Databasef("catalog.Store.SellerInfo", err)
	}
	sel := doc.toDomain()
	return &sel, nil
}
