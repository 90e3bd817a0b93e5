package exam

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"labexams/model"
	"labexams/services"
	"labexams/utils/response"
	"labexams/utils/validation"
)

// ExamHandler handles exam-related requests
type ExamHandler struct {
	db           *gorm.DB
	validator    *validation.Validator
	associations *services.AssociationService
}

// NewExamHandler creates a new exam handler
func NewExamHandler(db *gorm.DB) *ExamHandler {
	return &ExamHandler{
		db:           db,
		validator:    validation.NewValidator(),
		associations: services.NewAssociationService(db),
	}
}

// CreateExamRequest represents the request body for creating an exam
type CreateExamRequest struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

// UpdateExamRequest represents the request body for updating an exam.
// Status is not settable through the update path.
type UpdateExamRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AssociateLaboratoriesRequest carries the full replacement laboratory set
// for an exam
type AssociateLaboratoriesRequest struct {
	LaboratoryIDs *[]interface{} `json:"laboratory_ids"`
}

// findActiveByName looks up an active exam by its natural key. Uniqueness
// is scoped to active rows, so a soft-deleted exam's name can be reused.
func (h *ExamHandler) findActiveByName(name string) (*model.Exam, error) {
	var exam model.Exam
	err := h.db.Where("name = ? AND status = ?", name, true).First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// Store handles POST /exams
func (h *ExamHandler) Store(c *fiber.Ctx) error {
	var req CreateExamRequest
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
	req.Type = validation.SanitizeString(req.Type)

	found, err := h.findActiveByName(req.Name)
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if found != nil {
		return response.BadRequest(c, fmt.Sprintf("exam %s already exists", found.Name))
	}

	exam := model.Exam{
		Name:   req.Name,
		Type:   req.Type,
		Status: true,
	}

	if err := h.db.Create(&exam).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, exam)
}

// Index handles GET /exams
func (h *ExamHandler) Index(c *fiber.Ctx) error {
	var exams []model.Exam
	if err := h.db.Where("status = ?", true).Order("id ASC").Find(&exams).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	if len(exams) == 0 {
		return response.NotFound(c, "no exam found")
	}

	return response.OK(c, exams)
}

// Show handles GET /exams/:name, looking up an active exam by natural key
func (h *ExamHandler) Show(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		name = c.Params("name")
	}

	var exam model.Exam
	err = h.db.Preload("Laboratories").Where("name = ? AND status = ?", name, true).First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "exam not found")
	}
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OK(c, exam)
}

// Update handles PUT /exams/:id
func (h *ExamHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.NotFound(c, "exam not found")
	}

	var req UpdateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.Name == "" && req.Type == "" {
		return response.BadRequest(c, "it is required name and / or type to update")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = validation.SanitizeString(req.Name)
	}
	if req.Type != "" {
		updates["type"] = validation.SanitizeString(req.Type)
	}

	result := h.db.Model(&model.Exam{}).Where("id = ? AND status = ?", id, true).Updates(updates)
	if result.Error != nil {
		return response.InternalServerError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "exam not found")
	}

	var exam model.Exam
	if err := h.db.First(&exam, id).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OK(c, exam)
}

// Destroy handles DELETE /exams/:id. The row stays in place with status
// false; its association set is cleared.
func (h *ExamHandler) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.NotFound(c, "exam not found")
	}

	var exam model.Exam
	err = h.db.Where("id = ? AND status = ?", id, true).First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "exam not found")
	}
	if err != nil {
		return response.InternalServerError(c, err)
	}

	if err := h.db.Model(&model.Exam{}).Where("id = ?", exam.ID).Update("status", false).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	// Not transactional with the status flip; the background sweep covers
	// a crash in between.
	if err := h.db.Model(&exam).Association("Laboratories").Clear(); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.NoContent(c)
}

// Associate handles PATCH /exams/:id, replacing the exam's laboratory set
// wholesale.
func (h *ExamHandler) Associate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.NotFound(c, "exam not found")
	}

	var req AssociateLaboratoriesRequest
	if err := c.BodyParser(&req); err != nil || req.LaboratoryIDs == nil {
		return response.BadRequest(c, "property laboratory_ids (array) is required")
	}

	var exam model.Exam
	err = h.db.Where("id = ? AND status = ?", id, true).First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "exam not found")
	}
	if err != nil {
		return response.InternalServerError(c, err)
	}

	count, err := h.associations.ReplaceExamLaboratories(&exam, *req.LaboratoryIDs)
	if errors.Is(err, services.ErrNoValidLaboratories) {
		return response.BadRequest(c, err.Error())
	}
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OKMessage(c, fmt.Sprintf("exam %s associated with %d laboratories", exam.Name, count))
}
