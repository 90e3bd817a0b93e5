package exam

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"labexams/model"
	"labexams/utils/keyset"
	"labexams/utils/response"
)

// BulkExamsRequest carries the raw item list for bulk create and bulk update
type BulkExamsRequest struct {
	Exams []map[string]interface{} `json:"exams"`
}

// BulkRemoveExamsRequest carries the id list for bulk removal
type BulkRemoveExamsRequest struct {
	ExamIDs *[]interface{} `json:"exam_ids"`
}

// stringField renders a loosely-typed payload value as a column value
func stringField(item map[string]interface{}, key string) string {
	switch v := item[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// CreateMany handles POST /bulk/exams. Duplicates within the batch and
// items whose name already exists active are dropped silently; the
// surviving subset is inserted in one transaction.
func (h *ExamHandler) CreateMany(c *fiber.Ctx) error {
	var req BulkExamsRequest
	if err := c.BodyParser(&req); err != nil || req.Exams == nil {
		return response.BadRequest(c, "property exams (array) is required")
	}

	exams := req.Exams
	if len(exams) == 0 {
		return response.BadRequest(c, "empty array (exams)")
	}

	if !keyset.AllHaveKeys(exams, "name", "type") {
		return response.BadRequest(c, "every exam must have name and type")
	}

	unique := keyset.DedupeByKeys(exams, "name", "type")
	unique = keyset.ProjectKeys(unique, "name", "type")

	toAdd := make([]model.Exam, 0, len(unique))
	batchNames := make(map[string]struct{}, len(unique))
	for _, item := range unique {
		name := stringField(item, "name")

		// name is the natural key; two items that differ only by type
		// would both survive the dedupe above, so track names already
		// claimed within this batch
		if _, claimed := batchNames[name]; claimed {
			continue
		}

		existing, err := h.findActiveByName(name)
		if err != nil {
			return response.InternalServerError(c, err)
		}
		if existing != nil {
			continue
		}

		batchNames[name] = struct{}{}
		toAdd = append(toAdd, model.Exam{
			Name:   name,
			Type:   stringField(item, "type"),
			Status: true,
		})
	}

	if len(toAdd) == 0 {
		return response.BadRequest(c, "the exams already exists")
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		return response.InternalServerError(c, tx.Error)
	}

	if err := tx.Create(&toAdd).Error; err != nil {
		tx.Rollback()
		return response.InternalServerError(c, err)
	}

	if err := tx.Commit().Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, toAdd)
}

// UpdateMany handles PUT /bulk/exams. Every item must carry an id and at
// least one mutable field; items whose id resolves to no row are dropped
// silently. Matches rows regardless of status.
func (h *ExamHandler) UpdateMany(c *fiber.Ctx) error {
	var req BulkExamsRequest
	if err := c.BodyParser(&req); err != nil || req.Exams == nil {
		return response.BadRequest(c, "property exams (array) is required")
	}

	exams := req.Exams

	if !keyset.AllHaveKeys(exams, "id") {
		return response.BadRequest(c, "every exam must have an id")
	}

	if !keyset.AnyKeyPresent(exams, "name", "type") {
		return response.BadRequest(c, "every exam must have name and / or type")
	}

	unique := keyset.DedupeByKeys(exams, "id")
	unique = keyset.ProjectKeys(unique, "id", "name", "type")

	toUpdate := make([]map[string]interface{}, 0, len(unique))
	for _, item := range unique {
		id, ok := keyset.NumericID(item["id"])
		if !ok {
			continue
		}

		var exam model.Exam
		err := h.db.First(&exam, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return response.InternalServerError(c, err)
		}

		toUpdate = append(toUpdate, item)
	}

	if len(toUpdate) == 0 {
		return response.NotFound(c, "the exams do not exists")
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		return response.InternalServerError(c, tx.Error)
	}

	ids := make([]uint, 0, len(toUpdate))
	for _, item := range toUpdate {
		id, _ := keyset.NumericID(item["id"])
		ids = append(ids, id)

		updates := map[string]interface{}{}
		if _, ok := item["name"]; ok {
			updates["name"] = stringField(item, "name")
		}
		if _, ok := item["type"]; ok {
			updates["type"] = stringField(item, "type")
		}
		if len(updates) == 0 {
			continue
		}

		if err := tx.Model(&model.Exam{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			tx.Rollback()
			return response.InternalServerError(c, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return response.InternalServerError(c, err)
	}

	var updated []model.Exam
	if err := h.db.Where("id IN ?", ids).Find(&updated).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OK(c, updated)
}

// RemoveMany handles DELETE /bulk/exams. Flips status false for all matched
// rows and purges their join rows by raw filter, in one transaction.
func (h *ExamHandler) RemoveMany(c *fiber.Ctx) error {
	var req BulkRemoveExamsRequest
	if err := c.BodyParser(&req); err != nil || req.ExamIDs == nil {
		return response.BadRequest(c, "property exam_ids (array of integers) is required")
	}

	if len(*req.ExamIDs) == 0 {
		return response.BadRequest(c, "empty array (exam_ids [array of integers])")
	}

	ids := keyset.UniqueNumericIDs(*req.ExamIDs)
	if len(ids) == 0 {
		return response.BadRequest(c, "no exams found to delete")
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		return response.InternalServerError(c, tx.Error)
	}

	if err := tx.Model(&model.Exam{}).Where("id IN ?", ids).Update("status", false).Error; err != nil {
		tx.Rollback()
		return response.InternalServerError(c, err)
	}

	if err := tx.Exec("DELETE FROM laboratory_exams WHERE exam_id IN ?", ids).Error; err != nil {
		tx.Rollback()
		return response.InternalServerError(c, err)
	}

	if err := tx.Commit().Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.NoContent(c)
}
