package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"client_directory_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// ClientFilter narrows a client listing. SearchTerm is a case-insensitive
// substring match on name; Gender is an exact case-insensitive match.
type ClientFilter struct {
	SearchTerm *string
	Gender     *string
}

// ClientRepository defines the interface for client-related database operations.
// Every read excludes soft-deleted rows; there is deliberately no way to ask
// for a deleted client through this interface.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (int64, error)
	GetClientByID(id int64) (*models.Client, error)
	GetClientByEmailOrPhone(email, phone string) (*models.Client, error)
	GetClients(page, pageSize int, filter ClientFilter) ([]models.Client, error)
	UpdateClient(executor SQLExecutor, client *models.Client) error
	SoftDeleteClient(executor SQLExecutor, id int64, deletedAt time.Time) error
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, email, phone, age, gender, created_at, updated_at`

func scanClient(row interface{ Scan(dest ...interface{}) error }) (*models.Client, error) {
	client := &models.Client{}
	var age sql.NullString
	var gender string
	err := row.Scan(
		&client.ID, &client.Name, &client.Email, &client.Phone, &age,
		&gender, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if age.Valid {
		client.Age = &age.String
	}
	client.Gender = models.Gender(gender)
	return client, nil
}

// CreateClient inserts a new client into the database.
func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (name, email, phone, age, gender, created_at, updated_at, deleted)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
	          RETURNING id`

	currentTime := time.Now().UTC()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = currentTime
	}
	if client.UpdatedAt.IsZero() {
		client.UpdatedAt = currentTime
	}

	var age sql.NullString
	if client.Age != nil && strings.TrimSpace(*client.Age) != "" {
		age = sql.NullString{String: *client.Age, Valid: true}
	}

	err := executor.QueryRow(query,
		client.Name, client.Email, client.Phone, age,
		string(client.Gender), client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating client: %v", ErrDatabaseError, err)
	}
	return client.ID, nil
}

// GetClientByID retrieves a non-deleted client by their ID.
func (r *clientRepository) GetClientByID(id int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND deleted = FALSE`

	client, err := scanClient(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// GetClientByEmailOrPhone retrieves a non-deleted client matching either the
// email or the phone number. Used as the duplicate pre-check on create.
func (r *clientRepository) GetClientByEmailOrPhone(email, phone string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE (email = $1 OR phone = $2) AND deleted = FALSE`

	client, err := scanClient(r.db.QueryRow(query, email, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by email/phone: %v", ErrDatabaseError, err)
	}
	return client, nil
}

// GetClients retrieves one page of non-deleted clients in id order.
func (r *clientRepository) GetClients(page, pageSize int, filter ClientFilter) ([]models.Client, error) {
	clients := []models.Client{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + clientColumns + ` FROM clients WHERE deleted = FALSE`)

	var args []interface{}
	argCount := 1

	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND LOWER(name) LIKE $%d", argCount))
		args = append(args, "%"+strings.ToLower(*filter.SearchTerm)+"%")
		argCount++
	}
	if filter.Gender != nil && *filter.Gender != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND LOWER(gender) = $%d", argCount))
		args = append(args, strings.ToLower(*filter.Gender))
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY id ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}

	return clients, nil
}

// UpdateClient updates an existing non-deleted client in the database.
func (r *clientRepository) UpdateClient(executor SQLExecutor, client *models.Client) error {
	query := `UPDATE clients SET
	            name = $1, email = $2, phone = $3, age = $4, gender = $5, updated_at = $6
	          WHERE id = $7 AND deleted = FALSE`

	if client.UpdatedAt.IsZero() {
		client.UpdatedAt = time.Now().UTC()
	}
	var age sql.NullString
	if client.Age != nil && strings.TrimSpace(*client.Age) != "" {
		age = sql.NullString{String: *client.Age, Valid: true}
	}

	result, err := executor.Exec(query,
		client.Name, client.Email, client.Phone, age,
		string(client.Gender), client.UpdatedAt, client.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteClient flags a client as deleted and stamps updated_at.
// The row is retained; it simply disappears from every read path.
func (r *clientRepository) SoftDeleteClient(executor SQLExecutor, id int64, deletedAt time.Time) error {
	query := `UPDATE clients SET deleted = TRUE, updated_at = $1 WHERE id = $2 AND deleted = FALSE`

	result, err := executor.Exec(query, deletedAt, id)
	if err != nil {
		return fmt.Errorf("%w: soft-deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for soft-deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
