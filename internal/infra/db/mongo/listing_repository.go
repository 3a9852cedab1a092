package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "wayfare/internal/domain/listing"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlisting.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlisting.Listing) error {
	doc := newListingDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	l.Version = doc.Version
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlisting.ListingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlisting.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Search(ctx context.Context, params domainlisting.SearchParams) (domainlisting.SearchResult, error) {
	filter := bson.M{}
	if len(params.Statuses) > 0 {
		statuses := make([]string, 0, len(params.Statuses))
		for _, s := range params.Statuses {
			statuses = append(statuses, string(s))
		}
		filter["status"] = bson.M{"$in": statuses}
	}
	if loc := strings.TrimSpace(params.Location); loc != "" {
		filter["location"] = bson.M{"$regex": primitive.Regex{Pattern: loc, Options: "i"}}
	}
	if params.Guests > 0 {
		filter["max_guests"] = bson.M{"$gte": params.Guests}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainlisting.SearchResult{}, err
	}

	opts := options.Find().SetSort(sortSpec(params.Sort))
	if params.Limit > 0 {
		opts.SetLimit(int64(params.Limit))
		page := params.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * params.Limit))
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return domainlisting.SearchResult{}, err
	}
	defer cursor.Close(ctx)

	var items []*domainlisting.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainlisting.SearchResult{}, err
		}
		items = append(items, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return domainlisting.SearchResult{}, err
	}
	return domainlisting.SearchResult{Items: items, Total: int(total)}, nil
}

func sortSpec(sort string) bson.D {
	switch sort {
	case "-price":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "ratings_average", Value: -1}}
	default:
		return bson.D{{Key: "price", Value: 1}}
	}
}

type listingDocument struct {
	ID              string   `bson:"_id"`
	Host            string   `bson:"host"`
	Title           string   `bson:"title"`
	Description     string   `bson:"description"`
	Location        string   `bson:"location"`
	TourType        string   `bson:"tour_type"`
	Price           float64  `bson:"price"`
	MaxGuests       int      `bson:"max_guests"`
	Amenities       []string `bson:"amenities"`
	Images          []string `bson:"images"`
	Status          string   `bson:"status"`
	RatingsAverage  float64  `bson:"ratings_average"`
	RatingsQuantity int      `bson:"ratings_quantity"`
	CreatedAt       int64    `bson:"created_at"`
	UpdatedAt       int64    `bson:"updated_at"`
	Version         int64    `bson:"version"`
}

func newListingDocument(l *domainlisting.Listing) listingDocument {
	return listingDocument{
		ID:              string(l.ID),
		Host:            string(l.Host),
		Title:           l.Title,
		Description:     l.Description,
		Location:        l.Location,
		TourType:        l.TourType,
		Price:           l.Price,
		MaxGuests:       l.MaxGuests,
		Amenities:       l.Amenities,
		Images:          l.Images,
		Status:          string(l.Status),
		RatingsAverage:  l.RatingsAverage,
		RatingsQuantity: l.RatingsQuantity,
		CreatedAt:       l.CreatedAt.UnixMilli(),
		UpdatedAt:       l.UpdatedAt.UnixMilli(),
		Version:         l.Version,
	}
}

func (d listingDocument) toAggregate() *domainlisting.Listing {
	return &domainlisting.Listing{
		ID:              domainlisting.ListingID(d.ID),
		Host:            domainlisting.HostID(d.Host),
		Title:           d.Title,
		Description:     d.Description,
		Location:        d.Location,
		TourType:        d.TourType,
		Price:           d.Price,
		MaxGuests:       d.MaxGuests,
		Amenities:       d.Amenities,
		Images:          d.Images,
		Status:          domainlisting.Status(d.Status),
		RatingsAverage:  d.RatingsAverage,
		RatingsQuantity: d.RatingsQuantity,
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
		Version:         d.Version,
	}
}
