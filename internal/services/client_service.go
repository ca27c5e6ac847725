package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"client_directory_backend/internal/models"
	"client_directory_backend/internal/repositories"
	"client_directory_backend/pkg/utils"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("Client not found")
	ErrClientExists     = errors.New("Client already exists")
	ErrClientValidation = errors.New("client data validation error")
)

// TimestampLayout is how every timestamp leaves the API (dd/MM/yyyy HH:mm:ss).
const TimestampLayout = "02/01/2006 15:04:05"

// FormatTimestamp renders a time in the API's wire format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// --- Client DTOs ---

type CreateClientRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
}

// UpdateClientRequest carries a partial update: a blank field means
// "leave unchanged".
type UpdateClientRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
}

type ClientsListingRequest struct {
	SearchTerm string
	Gender     string
	Page       int
	PageSize   int
}

// ClientResponse is the display shape of a client row. Age falls back to
// "N/A" when absent; CreatedAt is pre-formatted.
type ClientResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Age       string `json:"age"`
	Gender    string `json:"gender"`
	CreatedAt string `json:"createdAt"`
}

// MutationResult identifies the affected client and when the mutation happened.
type MutationResult struct {
	ID        int64
	Timestamp time.Time
}

// --- ClientService Interface ---
type ClientService interface {
	GetClients(req ClientsListingRequest) ([]ClientResponse, error)
	GetClientByID(clientID int64) (*ClientResponse, error)
	CreateClient(req CreateClientRequest) (*MutationResult, error)
	UpdateClient(clientID int64, req UpdateClientRequest) (*MutationResult, error)
	DeleteClient(clientID int64) (*MutationResult, error)
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
	db         *sql.DB
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, db *sql.DB) ClientService {
	return &clientService{
		clientRepo: repo,
		db:         db,
	}
}

// --- Field validation ---

// fieldRule pairs a field with its format predicate and failure message.
// The same table serves create and update; only presence handling differs.
type fieldRule struct {
	field    string
	required bool
	message  string
	valid    func(string) bool
}

var clientFieldRules = []fieldRule{
	{field: "name", required: true, message: "name cannot be empty", valid: func(v string) bool { return !utils.IsEmpty(v) }},
	{field: "email", required: true, message: "email format is invalid", valid: utils.IsValidEmail},
	{field: "phone", required: true, message: "phone format is invalid", valid: utils.IsValidPhone},
	{field: "age", required: false, message: "age must be a number between 1 and 100", valid: utils.IsValidAge},
	{field: "gender", required: true, message: "gender must be Male or Female", valid: func(v string) bool {
		_, ok := models.ParseGender(v)
		return ok
	}},
}

// validateClientFields runs each present field through its rule. On create
// a blank required field is itself a failure; on update blank means "no change"
// and is skipped.
func validateClientFields(fields map[string]string, forCreate bool) []string {
	var msgs []string
	for _, rule := range clientFieldRules {
		value := fields[rule.field]
		if utils.IsEmpty(value) {
			if forCreate && rule.required {
				msgs = append(msgs, rule.field+" is required")
			}
			continue
		}
		if !rule.valid(value) {
			msgs = append(msgs, rule.message)
		}
	}
	return msgs
}

func clientFieldMap(name, email, phone, age, gender string) map[string]string {
	return map[string]string{
		"name":   name,
		"email":  email,
		"phone":  phone,
		"age":    age,
		"gender": gender,
	}
}

func validationError(msgs []string) error {
	return fmt.Errorf("%w: %s", ErrClientValidation, strings.Join(msgs, ", "))
}

// toClientResponse maps a stored row to its display shape.
func toClientResponse(client *models.Client) ClientResponse {
	age := "N/A"
	if client.Age != nil && !utils.IsEmpty(*client.Age) {
		age = *client.Age
	}
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Age:       age,
		Gender:    string(client.Gender),
		CreatedAt: FormatTimestamp(client.CreatedAt),
	}
}

// --- Operations ---

func (s *clientService) GetClients(req ClientsListingRequest) ([]ClientResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}

	filter := repositories.ClientFilter{}
	if !utils.IsEmpty(req.SearchTerm) {
		filter.SearchTerm = &req.SearchTerm
	}
	if !utils.IsEmpty(req.Gender) {
		filter.Gender = &req.Gender
	}

	clients, err := s.clientRepo.GetClients(req.Page, req.PageSize, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}

	results := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		results = append(results, toClientResponse(&clients[i]))
	}
	return results, nil
}

func (s *clientService) GetClientByID(clientID int64) (*ClientResponse, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	resp := toClientResponse(client)
	return &resp, nil
}

func (s *clientService) CreateClient(req CreateClientRequest) (*MutationResult, error) {
	if msgs := validateClientFields(clientFieldMap(req.Name, req.Email, req.Phone, req.Age, req.Gender), true); len(msgs) > 0 {
		return nil, validationError(msgs)
	}

	// Advisory duplicate check; the partial unique indexes are the backstop
	// for concurrent creates.
	existing, err := s.clientRepo.GetClientByEmailOrPhone(req.Email, req.Phone)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing client: %w", err)
	}
	if existing != nil {
		return nil, ErrClientExists
	}

	gender, _ := models.ParseGender(req.Gender)
	now := time.Now().UTC()
	client := &models.Client{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Age:       utils.NewNullString(strings.TrimSpace(req.Age)),
		Gender:    gender,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.clientRepo.CreateClient(s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrClientExists
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &MutationResult{ID: id, Timestamp: now}, nil
}

func (s *clientService) UpdateClient(clientID int64, req UpdateClientRequest) (*MutationResult, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client for update: %w", err)
	}

	if msgs := validateClientFields(clientFieldMap(req.Name, req.Email, req.Phone, req.Age, req.Gender), false); len(msgs) > 0 {
		return nil, validationError(msgs)
	}

	// Merge: only non-blank request fields overwrite stored values.
	if !utils.IsEmpty(req.Name) {
		client.Name = req.Name
	}
	if !utils.IsEmpty(req.Email) {
		client.Email = req.Email
	}
	if !utils.IsEmpty(req.Phone) {
		client.Phone = req.Phone
	}
	if !utils.IsEmpty(req.Age) {
		client.Age = utils.NewNullString(strings.TrimSpace(req.Age))
	}
	if !utils.IsEmpty(req.Gender) {
		gender, _ := models.ParseGender(req.Gender)
		client.Gender = gender
	}

	now := time.Now().UTC()
	client.UpdatedAt = now

	if err := s.clientRepo.UpdateClient(s.db, client); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrClientExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return &MutationResult{ID: clientID, Timestamp: now}, nil
}

func (s *clientService) DeleteClient(clientID int64) (*MutationResult, error) {
	if _, err := s.clientRepo.GetClientByID(clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client for deletion: %w", err)
	}

	now := time.Now().UTC()
	if err := s.clientRepo.SoftDeleteClient(s.db, clientID, now); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to delete client: %w", err)
	}
	return &MutationResult{ID: clientID, Timestamp: now}, nil
}
