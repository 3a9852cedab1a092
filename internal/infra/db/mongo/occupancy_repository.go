package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "wayfare/internal/domain/availability"
	domainlisting "wayfare/internal/domain/listing"
)

// OccupancyRepository holds one document per listing keyed by the listing
// id. The versioned upsert makes the first concurrent writer win: the loser
// either matches no document or trips the duplicate-key error on _id.
type OccupancyRepository struct {
	col *mongo.Collection
}

func NewOccupancyRepository(db *mongo.Database) *OccupancyRepository {
	return &OccupancyRepository{col: db.Collection("occupancies")}
}

func (r *OccupancyRepository) ByListing(ctx context.Context, id domainlisting.ListingID) (*domainavailability.Occupancy, error) {
	var doc occupancyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainavailability.NewOccupancy(id), nil
		}
		return nil, err
	}
	return doc.toAggregate(id), nil
}

func (r *OccupancyRepository) Save(ctx context.Context, o *domainavailability.Occupancy) error {
	doc := newOccupancyDocument(o)
	filter := bson.M{"_id": doc.ID, "version": o.Version}
	doc.Version = o.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	o.Version = doc.Version
	return nil
}

type occupancyDocument struct {
	ID        string  `bson:"_id"`
	Days      []int64 `bson:"days"`
	UpdatedAt int64   `bson:"updated_at"`
	Version   int64   `bson:"version"`
}

func newOccupancyDocument(o *domainavailability.Occupancy) occupancyDocument {
	days := o.Days()
	encoded := make([]int64, 0, len(days))
	for _, d := range days {
		encoded = append(encoded, d.UnixMilli())
	}
	return occupancyDocument{
		ID:        string(o.ListingID),
		Days:      encoded,
		UpdatedAt: o.UpdatedAt.UnixMilli(),
		Version:   o.Version,
	}
}

func (d occupancyDocument) toAggregate(id domainlisting.ListingID) *domainavailability.Occupancy {
	days := make([]time.Time, 0, len(d.Days))
	for _, ms := range d.Days {
		days = append(days, timestampToTime(ms))
	}
	return domainavailability.OccupancyFromDays(id, days, d.Version, timestampToTime(d.UpdatedAt))
}
