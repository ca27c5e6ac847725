package handlers

import (
	"net/http"
	"strconv"

	"client_directory_backend/internal/services"
	"client_directory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// respondClientFailure answers every client-operation failure the same way:
// 400 with the error message. Not-found and duplicate are intentionally not
// promoted to 404/409; the contract keeps the uniform mapping.
func respondClientFailure(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

// GetClients handles fetching clients with search, gender filter and pagination.
func (h *ClientHandler) GetClients(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	req := services.ClientsListingRequest{
		SearchTerm: c.Query("searchTerm"),
		Gender:     c.Query("gender"),
		Page:       page,
		PageSize:   pageSize,
	}

	results, err := h.clientService.GetClients(req)
	if err != nil {
		utils.LogError(err, "GetClients: Error from clientService.GetClients")
		respondClientFailure(c, err)
		return
	}
	if results == nil {
		results = []services.ClientResponse{}
	}

	// total reflects the returned page, not the full matching count.
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		respondClientFailure(c, err)
		return
	}

	client, err := h.clientService.GetClientByID(clientID)
	if err != nil {
		utils.LogError(err, "GetClientByID: Error from clientService.GetClientByID for ID "+utils.Int64ToStr(clientID))
		respondClientFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateClient: Failed to bind JSON")
		respondClientFailure(c, err)
		return
	}

	result, err := h.clientService.CreateClient(req)
	if err != nil {
		utils.LogError(err, "CreateClient: Error from clientService.CreateClient")
		respondClientFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":        result.ID,
		"createdAt": services.FormatTimestamp(result.Timestamp),
	})
}

// UpdateClient handles a partial update of a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		respondClientFailure(c, err)
		return
	}

	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateClient: Failed to bind JSON for ID "+utils.Int64ToStr(clientID))
		respondClientFailure(c, err)
		return
	}

	result, err := h.clientService.UpdateClient(clientID, req)
	if err != nil {
		utils.LogError(err, "UpdateClient: Error from clientService.UpdateClient for ID "+utils.Int64ToStr(clientID))
		respondClientFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        result.ID,
		"updatedAt": services.FormatTimestamp(result.Timestamp),
	})
}

// DeleteClient handles the soft delete of a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		respondClientFailure(c, err)
		return
	}

	result, err := h.clientService.DeleteClient(clientID)
	if err != nil {
		utils.LogError(err, "DeleteClient: Error from clientService.DeleteClient for ID "+utils.Int64ToStr(clientID))
		respondClientFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        result.ID,
		"deletedAt": services.FormatTimestamp(result.Timestamp),
	})
}
