package routes

import (
	"encoding/json"
	"strings"

	"github.com/anywhere-app/backend/models"
	"github.com/anywhere-app/backend/storage"
	"github.com/anywhere-app/backend/utils"
	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"
)

type CreatePinInput struct {
	Title       string  `json:"title" validate:"required,max=256"`
	Lat         float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon         float64 `json:"lon" validate:"required,min=-180,max=180"`
	Description string  `json:"description" validate:"max=2000"`
	Cost        string  `json:"cost" validate:"omitempty,oneof=$ $$ $$$ $$$$"`
	CategoryIDs []uint  `json:"categoryIDs"`
}

func GetAllPins(ctx iris.Context) {
	var pins []models.Pin
	if err := storage.DB.Preload("Categories").Find(&pins).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(pins)
}

func GetPinByID(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid pin id.", ctx)
		return
	}

	var pin models.Pin
	if err := storage.DB.Preload("Categories").First(&pin, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	// View counting is best effort, a lost increment is fine.
	storage.DB.Model(&pin).UpdateColumn("view_count", pin.ViewCount+1)

	ctx.JSON(pin)
}

func CreatePin(ctx iris.Context) {
	var input CreatePinInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var duplicate int64
	if err := storage.DB.Model(&models.Pin{}).
		Where("lat = ? AND lon = ?", input.Lat, input.Lon).
		Count(&duplicate).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if duplicate > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "Pin with these coordinates already exists.", ctx)
		return
	}

	pin := models.Pin{
		Slug:        strings.ToLower(strings.ReplaceAll(input.Title, " ", "_")),
		Title:       input.Title,
		Description: input.Description,
		Cost:        input.Cost,
		Lat:         input.Lat,
		Lon:         input.Lon,
	}
	if err := storage.DB.Create(&pin).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	for _, categoryID := range input.CategoryIDs {
		storage.DB.Create(&models.PinCategory{PinID: pin.ID, CategoryID: categoryID})
	}

	storage.DB.Preload("Categories").First(&pin, pin.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(pin)
}

type locationRequestInput struct {
	Title       string   `json:"title" validate:"required,max=256"`
	Lat         float64  `json:"lat" validate:"required,min=-90,max=90"`
	Lon         float64  `json:"lon" validate:"required,min=-180,max=180"`
	Description string   `json:"description" validate:"max=2000"`
	Cost        string   `json:"cost" validate:"omitempty,oneof=$ $$ $$$ $$$$"`
	Media       []string `json:"media"` // base64 payloads
}

// CreateLocationRequest stores a user-suggested pin; attached media is
// uploaded and kept as a URL list on the request.
func CreateLocationRequest(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input locationRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	mediaURLs := []string{}
	for _, payload := range input.Media {
		url := storage.UploadBase64Media(payload, utils.GenerateShortToken(8))
		if url != "" {
			mediaURLs = append(mediaURLs, url)
		}
	}

	urlsJSON, err := json.Marshal(mediaURLs)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	request := models.LocationRequest{
		UserID:      claims.ID,
		Title:       input.Title,
		Description: input.Description,
		Cost:        input.Cost,
		Lat:         input.Lat,
		Lon:         input.Lon,
		MediaURLs:   datatypes.JSON(urlsJSON),
		Status:      "pending",
	}
	if err := storage.DB.Create(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(request)
}
