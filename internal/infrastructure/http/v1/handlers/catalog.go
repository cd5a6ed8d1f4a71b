package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/domain"
	"medistock/internal/domain/filter"
	"medistock/internal/infrastructure/http/v1/dto"
)

// CatalogHandlerConfig wires a catalog service to its DTO mappers.
type CatalogHandlerConfig[T entity.Validatable, CreateDTO any, UpdateDTO any] struct {
	Service    *domain.CatalogService[T]
	EntityName string

	// MapCreateDTO converts a create request into a new entity.
	MapCreateDTO func(req *CreateDTO) (T, error)

	// MapUpdateDTO converts an update request into an entity with
	// the target ID set.
	MapUpdateDTO func(entityID id.ID, req *UpdateDTO) (T, error)

	// MapToDTO converts an entity into its response representation.
	MapToDTO func(e T) any
}

// CatalogHandler implements standard CRUD endpoints for a catalog entity.
type CatalogHandler[T entity.Validatable, CreateDTO any, UpdateDTO any] struct {
	BaseHandler
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO]
}

// NewCatalogHandler creates a catalog handler from its config.
func NewCatalogHandler[T entity.Validatable, CreateDTO any, UpdateDTO any](
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO]{cfg: cfg}
}

// List handles GET /. Supports search, pagination, ordering and an
// optional JSON-encoded "filter" parameter with advanced conditions.
func (h *CatalogHandler[T, C, U]) List(c *gin.Context) {
	f, ok := h.parseListFilter(c)
	if !ok {
		return
	}

	result, err := h.cfg.Service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, h.cfg.MapToDTO(item))
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /:id.
func (h *CatalogHandler[T, C, U]) Get(c *gin.Context) {
	entityID, ok := h.parseID(c)
	if !ok {
		return
	}

	e, err := h.cfg.Service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.cfg.MapToDTO(e))
}

// Create handles POST /.
func (h *CatalogHandler[T, C, U]) Create(c *gin.Context) {
	var req C
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.cfg.MapCreateDTO(&req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.cfg.Service.Create(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.cfg.MapToDTO(e))
}

// Update handles PUT /:id.
func (h *CatalogHandler[T, C, U]) Update(c *gin.Context) {
	entityID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req U
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.cfg.MapUpdateDTO(entityID, &req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.cfg.Service.Update(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.cfg.MapToDTO(e))
}

// Delete handles DELETE /:id (soft delete).
func (h *CatalogHandler[T, C, U]) Delete(c *gin.Context) {
	entityID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.cfg.Service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// SetDeletionMark handles PATCH /:id/deletion-mark.
func (h *CatalogHandler[T, C, U]) SetDeletionMark(c *gin.Context) {
	entityID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.cfg.Service.SetDeletionMark(c.Request.Context(), entityID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "deletion mark updated")
}

func (h *CatalogHandler[T, C, U]) parseID(c *gin.Context) (id.ID, bool) {
	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return entityID, true
}

func (h *CatalogHandler[T, C, U]) parseListFilter(c *gin.Context) (domain.ListFilter, bool) {
	f := domain.DefaultListFilter()
	f.Search = c.Query("search")
	f.Limit = h.ParseIntQuery(c, "limit", f.Limit)
	f.Offset = h.ParseIntQuery(c, "offset", 0)
	f.IncludeDeleted = c.Query("includeDeleted") == "true"

	if orderBy := c.Query("orderBy"); orderBy != "" {
		f.OrderBy = orderBy
	}

	if raw := c.Query("filter"); raw != "" {
		var items []filter.Item
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter parameter").WithCause(err))
			return f, false
		}
		f.AdvancedFilters = items
	}

	return f, true
}
