package routes

import (
	"errors"
	"time"

	"github.com/anywhere-app/backend/services"
	"github.com/anywhere-app/backend/storage"
	"github.com/anywhere-app/backend/utils"
	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// membershipError maps ledger errors to HTTP responses; true when handled.
func membershipError(err error, ctx iris.Context) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrHangoutNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Hangout not found.", ctx)
	case errors.Is(err, services.ErrPinNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Pin not found.", ctx)
	case errors.Is(err, services.ErrAlreadyMember):
		utils.CreateError(iris.StatusConflict, "Conflict", "Already joined this hangout.", ctx)
	case errors.Is(err, services.ErrHangoutFull):
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Hangout is full.", ctx)
	case errors.Is(err, services.ErrNotMember):
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Not a participant of this hangout.", ctx)
	case errors.Is(err, services.ErrNotOwner):
		utils.CreateForbidden(ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
	return true
}

type createHangoutInput struct {
	Title                string    `json:"title" validate:"required,max=256"`
	Description          string    `json:"description" validate:"max=2000"`
	PinID                uint      `json:"pinID" validate:"required"`
	ExpectedParticipants *int      `json:"expectedParticipants"`
	MaxParticipants      *int      `json:"maxParticipants" validate:"omitempty,min=1"`
	StartTime            time.Time `json:"startTime" validate:"required"`
	DurationMinutes      int       `json:"durationMinutes" validate:"required,min=1"`
}

func CreateHangout(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input createHangoutInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	hangout, err := services.CreateHangout(storage.DB, claims.ID, services.CreateHangoutInput{
		PinID:                input.PinID,
		Title:                input.Title,
		Description:          input.Description,
		ExpectedParticipants: input.ExpectedParticipants,
		MaxParticipants:      input.MaxParticipants,
		StartTime:            input.StartTime,
		DurationMinutes:      input.DurationMinutes,
	})
	if membershipError(err, ctx) {
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(hangout)
}

func GetAllHangouts(ctx iris.Context) {
	hangouts, err := services.ListHangouts(storage.DB)
	if membershipError(err, ctx) {
		return
	}
	ctx.JSON(hangouts)
}

func GetHangoutByID(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid hangout id.", ctx)
		return
	}

	hangout, getErr := services.GetHangout(storage.DB, id)
	if membershipError(getErr, ctx) {
		return
	}
	ctx.JSON(hangout)
}

func UpdateHangout(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid hangout id.", ctx)
		return
	}

	var patch services.HangoutPatch
	if err := ctx.ReadJSON(&patch); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	hangout, updateErr := services.UpdateHangout(storage.DB, id, claims.ID, patch)
	if membershipError(updateErr, ctx) {
		return
	}
	ctx.JSON(hangout)
}

func JoinHangout(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid hangout id.", ctx)
		return
	}

	participant, joinErr := services.JoinHangout(storage.DB, id, claims.ID)
	if membershipError(joinErr, ctx) {
		return
	}

	ctx.StatusCode(iris.StatusAccepted)
	ctx.JSON(participant)
}

func LeaveHangout(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid hangout id.", ctx)
		return
	}

	if membershipError(services.LeaveHangout(storage.DB, id, claims.ID), ctx) {
		return
	}
	ctx.JSON(iris.Map{"message": "Left hangout."})
}

func GetHangoutParticipants(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid hangout id.", ctx)
		return
	}

	participants, listErr := services.ListParticipants(storage.DB, id)
	if membershipError(listErr, ctx) {
		return
	}
	ctx.JSON(participants)
}

func DeleteHangout(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid hangout id.", ctx)
		return
	}

	if membershipError(services.DeleteHangout(storage.DB, id, claims.ID, claims.IsAdmin), ctx) {
		return
	}
	ctx.JSON(iris.Map{"message": "Hangout deleted."})
}
