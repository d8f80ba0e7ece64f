package routes

import (
	"github.com/anywhere-app/backend/models"
	"github.com/anywhere-app/backend/storage"
	"github.com/anywhere-app/backend/utils"
	"github.com/kataras/iris/v12"
)

type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func GetAllCategories(ctx iris.Context) {
	var categories []models.Category
	if err := storage.DB.Find(&categories).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(categories)
}

func GetCategoryByID(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid category id.", ctx)
		return
	}

	var category models.Category
	if err := storage.DB.First(&category, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(category)
}

func CreateCategory(ctx iris.Context) {
	var input CreateCategoryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing int64
	if err := storage.DB.Model(&models.Category{}).Where("name = ?", input.Name).Count(&existing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existing > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "Category already exists.", ctx)
		return
	}

	category := models.Category{Name: input.Name, Description: input.Description}
	if err := storage.DB.Create(&category).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(category)
}
