package laboratory

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"labexams/model"
	"labexams/services"
	"labexams/utils/response"
	"labexams/utils/validation"
)

// LaboratoryHandler handles laboratory-related requests
type LaboratoryHandler struct {
	db           *gorm.DB
	validator    *validation.Validator
	associations *services.AssociationService
}

// NewLaboratoryHandler creates a new laboratory handler
func NewLaboratoryHandler(db *gorm.DB) *LaboratoryHandler {
	return &LaboratoryHandler{
		db:           db,
		validator:    validation.NewValidator(),
		associations: services.NewAssociationService(db),
	}
}

// CreateLaboratoryRequest represents the request body for creating a laboratory
type CreateLaboratoryRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// UpdateLaboratoryRequest represents the request body for updating a
// laboratory. Status is not settable through the update path; it simply
// does not exist on this type.
type UpdateLaboratoryRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// AssociateExamsRequest carries the full replacement exam set for a laboratory
type AssociateExamsRequest struct {
	ExamIDs *[]interface{} `json:"exam_ids"`
}

// findActiveByNameAndAddress looks up an active laboratory by its natural
// key. Uniqueness is scoped to active rows: a soft-deleted laboratory does
// not block re-creation.
func (h *LaboratoryHandler) findActiveByNameAndAddress(name, address string) (*model.Laboratory, error) {
	var lab model.Laboratory
	err := h.db.Where("name = ? AND address = ? AND status = ?", name, address, true).First(&lab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lab, nil
}

// Store handles POST /laboratories
func (h *LaboratoryHandler) Store(c *fiber.Ctx) error {
	var req CreateLaboratoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		if field := validation.FirstMissingField(err); field != "" {
			return response.BadRequest(c, fmt.Sprintf("%s is required", field))
		}
		return response.BadRequest(c, "invalid request body")
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Address = validation.SanitizeString(req.Address)

	found, err := h.findActiveByNameAndAddress(req.Name, req.Address)
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if found != nil {
		return response.BadRequest(c, fmt.Sprintf("laboratory %s already exists", found.Name))
	}

	lab := model.Laboratory{
		Name:    req.Name,
		Address: req.Address,
		Status:  true,
	}

	if err := h.db.Create(&lab).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, lab)
}

// Index handles GET /laboratories
func (h *LaboratoryHandler) Index(c *fiber.Ctx) error {
	var labs []model.Laboratory
	if err := h.db.Where("status = ?", true).Order("id ASC").Find(&labs).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	if len(labs) == 0 {
		return response.NotFound(c, "no laboratory found")
	}

	return response.OK(c, labs)
}

// Show handles GET /laboratories/:id
func (h *LaboratoryHandler) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.NotFound(c, "laboratory not found")
	}

	var lab model.Laboratory
	err = h.db.Preload("Exams").Where("id = ? AND status = ?", id, true).First(&lab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "laboratory not found")
	}
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OK(c, lab)
}

// Update handles PUT /laboratories/:id
func (h *LaboratoryHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.NotFound(c, "laboratory not found")
	}

	var req UpdateLaboratoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.Name == "" && req.Address == "" {
		return response.BadRequest(c, "it is required name and / or address to update")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = validation.SanitizeString(req.Name)
	}
	if req.Address != "" {
		updates["address"] = validation.SanitizeString(req.Address)
	}

	result := h.db.Model(&model.Laboratory{}).Where("id = ? AND status = ?", id, true).Updates(updates)
	if result.Error != nil {
		return response.InternalServerError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "laboratory not found")
	}

	var lab model.Laboratory
	if err := h.db.First(&lab, id).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OK(c, lab)
}

// Destroy handles DELETE /laboratories/:id. The row stays in place with
// status false; its association set is cleared.
func (h *LaboratoryHandler) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.NotFound(c, "laboratory not found")
	}

	var lab model.Laboratory
	err = h.db.Where("id = ? AND status = ?", id, true).First(&lab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "laboratory not found")
	}
	if err != nil {
		return response.InternalServerError(c, err)
	}

	if err := h.db.Model(&model.Laboratory{}).Where("id = ?", lab.ID).Update("status", false).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	// Not transactional with the status flip; the background sweep covers
	// a crash in between.
	if err := h.db.Model(&lab).Association("Exams").Clear(); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.NoContent(c)
}

// Associate handles PATCH /laboratories/:id, replacing the laboratory's
// exam set wholesale.
func (h *LaboratoryHandler) Associate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.NotFound(c, "laboratory not found")
	}

	var req AssociateExamsRequest
	if err := c.BodyParser(&req); err != nil || req.ExamIDs == nil {
		return response.BadRequest(c, "property exam_ids (array) is required")
	}

	var lab model.Laboratory
	err = h.db.Where("id = ? AND status = ?", id, true).First(&lab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "laboratory not found")
	}
	if err != nil {
		return response.InternalServerError(c, err)
	}

	count, err := h.associations.ReplaceLaboratoryExams(&lab, *req.ExamIDs)
	if errors.Is(err, services.ErrNoValidExams) {
		return response.BadRequest(c, err.Error())
	}
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OKMessage(c, fmt.Sprintf("laboratory %s updated with %d exams", lab.Name, count))
}
