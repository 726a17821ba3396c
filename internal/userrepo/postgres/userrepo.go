package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/haguru/obito/internal/interfaces"
	"github.com/haguru/obito/internal/models"
	"github.com/haguru/obito/internal/userrepo/constants"

	pgClient "github.com/haguru/obito/pkg/databases/postgres"
)

// PostgresUserRepository implements UserRepository for PostgreSQL databases.
type PostgresUserRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresUserRepository creates a new PostgreSQL repository instance.
func NewPostgresUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	// Ensure the dbClient is of type PostgresDatabaseClient
	if _, ok := dbClient.(*pgClient.PostgresDatabaseClient); !ok {
		return nil, fmt.Errorf("dbClient must be a PostgreSQL client")
	}
	return &PostgresUserRepository{dbClient: dbClient}, nil
}

// AddUser saves a new user to PostgreSQL via DBClient.
func (r *PostgresUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	// Convert models.User struct to map[string]interface{} for the generic client
	doc := map[string]interface{}{
		"username":        user.Username,
		"hashed_password": user.HashedPassword,
	}
	// The client's InsertOne will generate the ID if not present

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		// 23505 is unique_violation; the UNIQUE constraint on username is what
		// closes the signup check-then-create race.
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", constants.ErrDuplicateUsername
		}
		return "", fmt.Errorf("failed to add user to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

// GetUserByUsername retrieves a user from PostgreSQL via DBClient.
// Returns (nil, nil) when no user exists with the given username.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	filter := map[string]interface{}{"username": username}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found, a normal outcome
		}
		return nil, fmt.Errorf("failed to get user by username from PostgreSQL: %w", err)
	}
	return &user, nil
}

// EnsureIndices creates the users table and unique username constraint in PostgreSQL.
func (r *PostgresUserRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, nil)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
