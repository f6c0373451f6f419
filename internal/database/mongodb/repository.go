// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/formhive/formhive/internal/database/interfaces"
	"github.com/formhive/formhive/internal/pkg/log"
)

// MongoRepository implements the Repository interface for MongoDB
type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	dbName   string
}

// Config holds MongoDB connection settings
type Config struct {
	URI                    string
	Database               string
	MaxPoolSize            int
	MinPoolSize            int
	ConnectTimeout         int
	ServerSelectionTimeout int
}

// NewMongoRepository creates a new MongoDB repository
func NewMongoRepository(ctx context.Context, config *Config) (*MongoRepository, error) {
	clientOptions := options.Client().ApplyURI(config.URI)

	if config.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(uint64(config.MaxPoolSize))
	}
	if config.MinPoolSize > 0 {
		clientOptions.SetMinPoolSize(uint64(config.MinPoolSize))
	}
	if config.ConnectTimeout > 0 {
		clientOptions.SetConnectTimeout(time.Duration(config.ConnectTimeout) * time.Second)
	}
	if config.ServerSelectionTimeout > 0 {
		clientOptions.SetServerSelectionTimeout(time.Duration(config.ServerSelectionTimeout) * time.Second)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(config.Database),
		dbName:   config.Database,
	}, nil
}

// MongoQueryResult implements QueryResult for MongoDB
type MongoQueryResult struct {
	cursor *mongo.Cursor
	ctx    context.Context
	err    error
}

func (r *MongoQueryResult) Next() bool {
	if r.err != nil || r.cursor == nil {
		return false
	}
	return r.cursor.Next(r.ctx)
}

func (r *MongoQueryResult) Decode(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	return r.cursor.Decode(v)
}

func (r *MongoQueryResult) Close() {
	if r.cursor != nil {
		_ = r.cursor.Close(r.ctx)
	}
}

func (r *MongoQueryResult) Error() error {
	if r.err != nil {
		return r.err
	}
	if r.cursor != nil {
		return r.cursor.Err()
	}
	return nil
}

// MongoSingleResult implements SingleResult for MongoDB
type MongoSingleResult struct {
	result   *mongo.SingleResult
	err      error
	noResult bool
}

func (r *MongoSingleResult) Decode(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	return r.result.Decode(v)
}

func (r *MongoSingleResult) Error() error {
	return r.err
}

func (r *MongoSingleResult) NoResult() bool {
	return r.noResult
}

// Save inserts a new document into the collection
func (r *MongoRepository) Save(ctx context.Context, collectionName string, data interface{}) <-chan interfaces.RepositoryResult {
	result := make(chan interfaces.RepositoryResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)
		insertResult, err := collection.InsertOne(ctx, data)
		if err != nil {
			log.Error("MongoDB Save error: %s", err.Error())
			result <- interfaces.RepositoryResult{Error: err}
			return
		}

		result <- interfaces.RepositoryResult{Result: insertResult.InsertedID}
	}()

	return result
}

// Find runs a compiled filter against the collection
func (r *MongoRepository) Find(ctx context.Context, collectionName string, filter interface{}, opts *interfaces.FindOptions) <-chan interfaces.QueryResult {
	result := make(chan interfaces.QueryResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)

		findOptions := options.Find()
		if opts != nil {
			if opts.Limit != nil {
				findOptions.SetLimit(*opts.Limit)
			}
			if opts.Skip != nil {
				findOptions.SetSkip(*opts.Skip)
			}
			if opts.Sort != nil {
				findOptions.SetSort(opts.Sort)
			}
			if opts.Select != nil {
				findOptions.SetProjection(opts.Select)
			}
		}

		cursor, err := collection.Find(ctx, filter, findOptions)
		if err != nil {
			log.Error("MongoDB Find error: %s", err.Error())
			result <- &MongoQueryResult{err: err}
			return
		}

		result <- &MongoQueryResult{cursor: cursor, ctx: ctx}
	}()

	return result
}

// FindOne retrieves a single document matching the compiled filter
func (r *MongoRepository) FindOne(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.SingleResult {
	result := make(chan interfaces.SingleResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)
		singleResult := collection.FindOne(ctx, filter)

		if err := singleResult.Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				result <- &MongoSingleResult{noResult: true, err: interfaces.ErrNoDocuments}
				return
			}
			log.Error("MongoDB FindOne error: %s", err.Error())
			result <- &MongoSingleResult{err: err}
			return
		}

		result <- &MongoSingleResult{result: singleResult}
	}()

	return result
}

// Update updates documents matching the compiled filter
func (r *MongoRepository) Update(ctx context.Context, collectionName string, filter interface{}, data interface{}) <-chan interfaces.RepositoryResult {
	result := make(chan interfaces.RepositoryResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)
		updateResult, err := collection.UpdateOne(ctx, filter, data)
		if err != nil {
			log.Error("MongoDB Update error: %s", err.Error())
			result <- interfaces.RepositoryResult{Error: err}
			return
		}

		result <- interfaces.RepositoryResult{Result: updateResult.ModifiedCount}
	}()

	return result
}

// Delete removes documents matching the compiled filter
func (r *MongoRepository) Delete(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.RepositoryResult {
	result := make(chan interfaces.RepositoryResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)
		deleteResult, err := collection.DeleteMany(ctx, filter)
		if err != nil {
			log.Error("MongoDB Delete error: %s", err.Error())
			result <- interfaces.RepositoryResult{Error: err}
			return
		}

		result <- interfaces.RepositoryResult{Result: deleteResult.DeletedCount}
	}()

	return result
}

// Aggregate runs a compiled pipeline against the collection
func (r *MongoRepository) Aggregate(ctx context.Context, collectionName string, pipeline interface{}) <-chan interfaces.QueryResult {
	result := make(chan interfaces.QueryResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)
		cursor, err := collection.Aggregate(ctx, pipeline)
		if err != nil {
			log.Error("MongoDB Aggregate error: %s", err.Error())
			result <- &MongoQueryResult{err: err}
			return
		}

		result <- &MongoQueryResult{cursor: cursor, ctx: ctx}
	}()

	return result
}

// Count counts documents matching the compiled filter
func (r *MongoRepository) Count(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.CountResult {
	result := make(chan interfaces.CountResult)

	go func() {
		defer close(result)

		collection := r.database.Collection(collectionName)
		count, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			log.Error("MongoDB Count error: %s", err.Error())
			result <- interfaces.CountResult{Error: err}
			return
		}

		result <- interfaces.CountResult{Count: count}
	}()

	return result
}

// Ping verifies the connection to the database
func (r *MongoRepository) Ping(ctx context.Context) <-chan error {
	result := make(chan error)

	go func() {
		defer close(result)
		result <- r.client.Ping(ctx, readpref.Primary())
	}()

	return result
}

// Close disconnects from the database
func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}
