package routes

import (
	"errors"
	"time"

	"github.com/anywhere-app/backend/models"
	"github.com/anywhere-app/backend/services"
	"github.com/anywhere-app/backend/storage"
	"github.com/anywhere-app/backend/utils"
	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

func GetUser(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(user)
}

func GetAllUsers(ctx iris.Context) {
	var users []models.User
	if err := storage.DB.Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(users)
}

// GetUserByID sits behind SelfOrAdminMiddleware.
func GetUserByID(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(user)
}

// placelistError maps ledger errors to HTTP responses; true when handled.
func placelistError(err error, ctx iris.Context) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrPinNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Pin not found.", ctx)
	case errors.Is(err, services.ErrAlreadyListed):
		utils.CreateError(iris.StatusConflict, "Conflict", "Pin already in this list.", ctx)
	case errors.Is(err, services.ErrNotListed):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Pin not in this list.", ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
	return true
}

type addToListInput struct {
	PinID uint `json:"pinID" validate:"required"`
}

func placelistAdd(kind services.ListKind) iris.Handler {
	return func(ctx iris.Context) {
		claims := jsonWT.Get(ctx).(*utils.AccessToken)

		var input addToListInput
		if err := ctx.ReadJSON(&input); err != nil {
			utils.HandleValidationErrors(err, ctx)
			return
		}

		entry, err := services.AddToList(storage.DB, kind, input.PinID, claims.ID)
		if placelistError(err, ctx) {
			return
		}

		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(entry)
	}
}

func placelistRemove(kind services.ListKind) iris.Handler {
	return func(ctx iris.Context) {
		claims := jsonWT.Get(ctx).(*utils.AccessToken)
		pinID, err := ctx.Params().GetUint("pinID")
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid pin id.", ctx)
			return
		}

		if placelistError(services.RemoveFromList(storage.DB, kind, pinID, claims.ID), ctx) {
			return
		}
		ctx.JSON(iris.Map{"message": "Pin removed from " + string(kind) + " list."})
	}
}

func placelistGet(kind services.ListKind) iris.Handler {
	return func(ctx iris.Context) {
		claims := jsonWT.Get(ctx).(*utils.AccessToken)

		entries, err := services.ListEntries(storage.DB, kind, claims.ID)
		if placelistError(err, ctx) {
			return
		}
		ctx.JSON(entries)
	}
}

// placelistGetByID serves another user's list; routed behind
// SelfOrAdminMiddleware.
func placelistGetByID(kind services.ListKind) iris.Handler {
	return func(ctx iris.Context) {
		id, err := ctx.Params().GetUint("id")
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
			return
		}

		entries, listErr := services.ListEntries(storage.DB, kind, id)
		if placelistError(listErr, ctx) {
			return
		}
		ctx.JSON(entries)
	}
}

var (
	GetWishlist         = placelistGet(services.KindWishlist)
	AddToWishlist       = placelistAdd(services.KindWishlist)
	RemoveFromWishlist  = placelistRemove(services.KindWishlist)
	GetWishlistByUserID = placelistGetByID(services.KindWishlist)
	GetVisited          = placelistGet(services.KindVisited)
	AddToVisited        = placelistAdd(services.KindVisited)
	RemoveFromVisited   = placelistRemove(services.KindVisited)
	GetVisitedByUserID  = placelistGetByID(services.KindVisited)
)

func FollowUser(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}
	if id == claims.ID {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Cannot follow yourself.", ctx)
		return
	}

	var account models.User
	if err := storage.DB.First(&account, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var follow models.Follow
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ?", claims.ID, id).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errAlreadyFollowing
		}

		follow = models.Follow{FollowerID: claims.ID, FollowingID: id}
		if err := tx.Create(&follow).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", claims.ID).
			Update("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", id).
			Update("follower_count", gorm.Expr("follower_count + 1")).Error
	})
	if txErr != nil {
		if errors.Is(txErr, errAlreadyFollowing) {
			utils.CreateError(iris.StatusConflict, "Conflict", "Already following this user.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(follow)
}

var errAlreadyFollowing = errors.New("already following")

func UnfollowUser(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var account models.User
	if err := storage.DB.First(&account, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", claims.ID, id).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotFollowing
		}

		if err := tx.Model(&models.User{}).Where("id = ?", claims.ID).
			Update("following_count", gorm.Expr("following_count - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", id).
			Update("follower_count", gorm.Expr("follower_count - 1")).Error
	})
	if txErr != nil {
		if errors.Is(txErr, errNotFollowing) {
			utils.CreateError(iris.StatusBadRequest, "Bad Request", "Not following this user.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Unfollowed successfully."})
}

var errNotFollowing = errors.New("not following")

func GetFollowers(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var followers []models.Follow
	if err := storage.DB.Where("following_id = ?", id).Find(&followers).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(followers)
}

func GetFollowing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var following []models.Follow
	if err := storage.DB.Where("follower_id = ?", id).Find(&following).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(following)
}

func GetUserComments(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var comments []models.Comment
	if err := storage.DB.Where("user_id = ?", id).Preload("User").Find(&comments).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(comments)
}

func GetUserPosts(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var posts []models.Post
	if err := storage.DB.Where("user_id = ?", id).
		Preload("User").Preload("Pin").
		Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(posts)
}

func GetUserLikedPosts(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var posts []models.Post
	if err := storage.DB.
		Joins("JOIN post_likes ON post_likes.post_id = posts.id").
		Where("post_likes.user_id = ?", id).
		Preload("User").Preload("Pin").
		Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(posts)
}

func GetUserLikedComments(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var comments []models.Comment
	if err := storage.DB.
		Joins("JOIN comment_likes ON comment_likes.comment_id = comments.id").
		Where("comment_likes.user_id = ?", id).
		Preload("User").
		Find(&comments).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(comments)
}

type suspendUserInput struct {
	DurationHours int    `json:"durationHours" validate:"required,min=1"`
	Reason        string `json:"reason" validate:"max=500"`
}

// SuspendUser is admin-only (AdminOnlyMiddleware).
func SuspendUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var input suspendUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var account models.User
	if err := storage.DB.First(&account, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if account.IsSuspended {
		utils.CreateError(iris.StatusConflict, "Conflict", "User is already suspended.", ctx)
		return
	}

	now := time.Now()
	until := now.Add(time.Duration(input.DurationHours) * time.Hour)
	updates := map[string]interface{}{
		"is_suspended":     true,
		"suspended_at":     now,
		"suspended_until":  until,
		"suspended_reason": input.Reason,
	}
	if err := storage.DB.Model(&account).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(account)
}
