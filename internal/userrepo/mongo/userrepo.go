package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haguru/obito/internal/interfaces"
	"github.com/haguru/obito/internal/models"
	"github.com/haguru/obito/internal/userrepo/constants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	mongoClient "github.com/haguru/obito/pkg/databases/mongo"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MAXLENGTH_USERNAME = 64 // Maximum length for username
)

// MongoUserRepository implements UserRepository using the generic DBClient.
type MongoUserRepository struct {
	dbClient interfaces.DBClient // Here we use the concrete Mongo implementation of DBClient
}

// NewMongoUserRepository creates a new MongoDB repository instance.
// It takes a concrete mongo.MongoDBClient.
func NewMongoUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	// Ensure the dbClient is of type MongoDBClient
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &MongoUserRepository{dbClient: dbClient}, nil
}

// AddUser saves a new user to MongoDB via DBClient.
func (r *MongoUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	// MongoDB generates the ObjectID; we set it here so the hex form can be
	// returned without a second round trip.
	mongoUser := struct {
		ID             primitive.ObjectID `bson:"_id,omitempty"`
		Username       string             `bson:"username"`
		HashedPassword string             `bson:"hashed_password"`
	}{
		ID:             primitive.NewObjectID(),
		Username:       user.Username,
		HashedPassword: user.HashedPassword,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, mongoUser)
	if err != nil {
		if strings.Contains(err.Error(), "E11000 duplicate key error") { // MongoDB specific duplicate key error check
			return "", constants.ErrDuplicateUsername
		}
		return "", fmt.Errorf("failed to add user to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// GetUserByUsername retrieves a user from MongoDB via DBClient.
// Returns (nil, nil) when no user exists with the given username.
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	// Validate the username
	if len(username) == 0 || len(username) > MAXLENGTH_USERNAME {
		return nil, fmt.Errorf("invalid username: must be between 1 and %d characters", MAXLENGTH_USERNAME)
	}

	var mongoUser struct { // Temporary struct to decode MongoDB BSON
		ID             primitive.ObjectID `bson:"_id,omitempty"`
		Username       string             `bson:"username"`
		HashedPassword string             `bson:"hashed_password"`
	}

	filter := map[string]interface{}{"username": username}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &mongoUser)
	if err != nil {
		if errors.Is(err, mongosdk.ErrNoDocuments) {
			return nil, nil // User not found, a normal outcome
		}
		return nil, fmt.Errorf("failed to get user by username from MongoDB: %w", err)
	}

	return &models.User{
		ID:             mongoUser.ID.Hex(),
		Username:       mongoUser.Username,
		HashedPassword: mongoUser.HashedPassword,
	}, nil
}

// EnsureIndices creates the unique index on username in MongoDB. The unique
// index is what closes the signup check-then-create race; concurrent inserts
// of the same username collapse into one success and one duplicate-key error.
func (r *MongoUserRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	}
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
