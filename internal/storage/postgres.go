package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/xaenox/parcel-bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

//go:embed seed.sql
var seedData embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

// Seed loads the embedded sample rows; existing rows are left untouched.
func (s *PostgresStorage) Seed() error {
	seedSQL, err := seedData.ReadFile("seed.sql")
	if err != nil {
		return fmt.Errorf("error reading seed file: %v", err)
	}

	_, err = s.db.Exec(string(seedSQL))
	if err != nil {
		return fmt.Errorf("error executing seed: %v", err)
	}

	return nil
}

func (s *PostgresStorage) GetRecentInteractions(ctx context.Context, limit int) ([]models.Interaction, error) {
	query := `
		SELECT id, question, response, interaction_time
		FROM user_llm_interactions
		ORDER BY interaction_time DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying interactions: %v", err)
	}
	defer rows.Close()

	var interactions []models.Interaction
	for rows.Next() {
		var interaction models.Interaction
		err := rows.Scan(
			&interaction.ID,
			&interaction.Question,
			&interaction.Response,
			&interaction.InteractionTime,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning interaction: %v", err)
		}
		interactions = append(interactions, interaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interactions: %v", err)
	}

	return interactions, nil
}

func (s *PostgresStorage) SaveInteraction(ctx context.Context, interaction *models.Interaction) error {
	query := `
		INSERT INTO user_llm_interactions (id, question, response, interaction_time)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query,
		interaction.ID,
		interaction.Question,
		interaction.Response,
		interaction.InteractionTime,
	)
	if err != nil {
		return fmt.Errorf("error saving interaction: %v", err)
	}

	return nil
}

func (s *PostgresStorage) GetLatestTracking(ctx context.Context, trackingCode string) (*models.TrackingRecord, error) {
	query := `
		SELECT tracking_code, status, last_update, location, weight_kg, shipping_type
		FROM package_tracking
		WHERE tracking_code = $1
		ORDER BY last_update DESC
		LIMIT 1`

	record := &models.TrackingRecord{}
	err := s.db.QueryRowContext(ctx, query, trackingCode).Scan(
		&record.TrackingCode,
		&record.Status,
		&record.LastUpdate,
		&record.Location,
		&record.WeightKg,
		&record.ShippingType,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying tracking record: %v", err)
	}

	return record, nil
}

func (s *PostgresStorage) GetUser(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	query := `
		SELECT user_id, name, email, phone_number, address, city, postal_code, country, created_at
		FROM users
		WHERE user_id = $1`

	user := &models.UserProfile{}
	var phone sql.NullString
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&phone,
		&user.Address,
		&user.City,
		&user.PostalCode,
		&user.Country,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user: %v", err)
	}
	user.PhoneNumber = phone.String

	return user, nil
}

// UpdateUserField selects the statement by a closed switch over the allowed
// fields; the column name is never built from input.
func (s *PostgresStorage) UpdateUserField(ctx context.Context, userID uuid.UUID, field models.ProfileField, value string) error {
	var query string
	switch field {
	case models.FieldAddress:
		query = `UPDATE users SET address = $1 WHERE user_id = $2`
	case models.FieldCity:
		query = `UPDATE users SET city = $1 WHERE user_id = $2`
	default:
		return &models.ValidationError{Field: "field_type", Value: string(field)}
	}

	result, err := s.db.ExecContext(ctx, query, value, userID)
	if err != nil {
		return fmt.Errorf("error updating user %s: %v", field, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
