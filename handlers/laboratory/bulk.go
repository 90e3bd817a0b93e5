package laboratory

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

// BulkLaboratoriesRequest carries the raw item list for bulk create and
// bulk update. Items stay loosely typed so the key-set utilities can apply
// the same presence semantics to both operations.
type BulkLaboratoriesRequest struct {
	Laboratories []map[string]interface{} `json:"laboratories"`
}

// BulkRemoveLaboratoriesRequest carries the id list for bulk removal
type BulkRemoveLaboratoriesRequest struct {
	LaboratoryIDs *[]interface{} `json:"laboratory_ids"`
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

// CreateMany handles POST /bulk/laboratories. Duplicates within the batch
// and items whose natural key already exists active are dropped silently;
// the surviving subset is inserted in one transaction.
func (h *LaboratoryHandler) CreateMany(c *fiber.Ctx) error {
	var req BulkLaboratoriesRequest
	if err := c.BodyParser(&req); err != nil || req.Laboratories == nil {
		return response.BadRequest(c, "property laboratories (array) is required")
	}

	labs := req.Laboratories
	if len(labs) == 0 {
		return response.BadRequest(c, "empty array (laboratories)")
	}

	if !keyset.AllHaveKeys(labs, "name", "address") {
		return response.BadRequest(c, "every laboratory must have name and address")
	}

	unique := keyset.DedupeByKeys(labs, "name", "address")
	unique = keyset.ProjectKeys(unique, "name", "address")

	toAdd := make([]model.Laboratory, 0, len(unique))
	for _, item := range unique {
		name := stringField(item, "name")
		address := stringField(item, "address")

		existing, err := h.findActiveByNameAndAddress(name, address)
		if err != nil {
			return response.InternalServerError(c, err)
		}
		if existing != nil {
			continue
		}

		toAdd = append(toAdd, model.Laboratory{
			Name:    name,
			Address: address,
			Status:  true,
		})
	}

	if len(toAdd) == 0 {
		return response.BadRequest(c, "the laboratories already exists")
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

// UpdateMany handles PUT /bulk/laboratories. Every item must carry an id
// and at least one mutable field; items whose id resolves to no row are
// dropped silently. Matches rows regardless of status.
func (h *LaboratoryHandler) UpdateMany(c *fiber.Ctx) error {
	var req BulkLaboratoriesRequest
	if err := c.BodyParser(&req); err != nil || req.Laboratories == nil {
		return response.BadRequest(c, "property laboratories (array) is required")
	}

	labs := req.Laboratories

	if !keyset.AllHaveKeys(labs, "id") {
		return response.BadRequest(c, "every laboratory must have an id")
	}

	if !keyset.AnyKeyPresent(labs, "name", "address") {
		return response.BadRequest(c, "every laboratory must have name and / or address")
	}

	unique := keyset.DedupeByKeys(labs, "id")
	unique = keyset.ProjectKeys(unique, "id", "name", "address")

	toUpdate := make([]map[string]interface{}, 0, len(unique))
	for _, item := range unique {
		id, ok := keyset.NumericID(item["id"])
		if !ok {
			continue
		}

		var lab model.Laboratory
		err := h.db.First(&lab, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return response.InternalServerError(c, err)
		}

		toUpdate = append(toUpdate, item)
	}

	if len(toUpdate) == 0 {
		return response.NotFound(c, "the laboratories do not exists")
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
		if _, ok := item["address"]; ok {
			updates["address"] = stringField(item, "address")
		}
		if len(updates) == 0 {
			continue
		}

		if err := tx.Model(&model.Laboratory{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			tx.Rollback()
			return response.InternalServerError(c, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return response.InternalServerError(c, err)
	}

	var updated []model.Laboratory
	if err := h.db.Where("id IN ?", ids).Find(&updated).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OK(c, updated)
}

// RemoveMany handles DELETE /bulk/laboratories. Flips status false for all
// matched rows and purges their join rows by raw filter, in one
// transaction.
func (h *LaboratoryHandler) RemoveMany(c *fiber.Ctx) error {
	var req BulkRemoveLaboratoriesRequest
	if err := c.BodyParser(&req); err != nil || req.LaboratoryIDs == nil {
		return response.BadRequest(c, "property laboratory_ids (array of integers) is required")
	}

	if len(*req.LaboratoryIDs) == 0 {
		return response.BadRequest(c, "empty array (laboratory_ids [array of integers])")
	}

	ids := keyset.UniqueNumericIDs(*req.LaboratoryIDs)
	if len(ids) == 0 {
		return response.BadRequest(c, "no laboratories found to delete")
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		return response.InternalServerError(c, tx.Error)
	}

	if err := tx.Model(&model.Laboratory{}).Where("id IN ?", ids).Update("status", false).Error; err != nil {
		tx.Rollback()
		return response.InternalServerError(c, err)
	}

	if err := tx.Exec("DELETE FROM laboratory_exams WHERE laboratory_id IN ?", ids).Error; err != nil {
		tx.Rollback()
		return response.InternalServerError(c, err)
	}

	if err := tx.Commit().Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.NoContent(c)
}
