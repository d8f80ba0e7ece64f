package routes

import (
	"errors"

	"github.com/anywhere-app/backend/models"
	"github.com/anywhere-app/backend/storage"
	"github.com/anywhere-app/backend/utils"
	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type createPostInput struct {
	PinID       uint   `json:"pinID" validate:"required"`
	Title       string `json:"title" validate:"max=256"`
	Description string `json:"description" validate:"max=2000"`
	Media       string `json:"media" validate:"required"` // base64 payload
}

func GetAllPosts(ctx iris.Context) {
	var posts []models.Post
	if err := storage.DB.Preload("User").Preload("Pin").Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(posts)
}

func GetPostByID(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid post id.", ctx)
		return
	}

	var post models.Post
	if err := storage.DB.Preload("User").Preload("Pin").First(&post, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(post)
}

func CreatePost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input createPostInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var pin models.Pin
	if err := storage.DB.First(&pin, input.PinID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Pin not found.", ctx)
		return
	}

	mediaURL := storage.UploadBase64Media(input.Media, utils.GenerateShortToken(8))
	if mediaURL == "" {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Media upload failed.", ctx)
		return
	}

	post := models.Post{
		UserID:      claims.ID,
		PinID:       input.PinID,
		Title:       input.Title,
		Description: input.Description,
		MediaURL:    mediaURL,
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Pin{}).Where("id = ?", input.PinID).
			Update("posts_count", gorm.Expr("posts_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", claims.ID).
			Update("posts_count", gorm.Expr("posts_count + 1")).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("User").Preload("Pin").First(&post, post.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(post)
}

func DeletePost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid post id.", ctx)
		return
	}

	var post models.Post
	if err := storage.DB.Where("id = ? AND user_id = ?", id, claims.ID).First(&post).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found",
			"Post not found or you do not have permission to delete it.", ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Pin{}).Where("id = ?", post.PinID).
			Update("posts_count", gorm.Expr("posts_count - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", claims.ID).
			Update("posts_count", gorm.Expr("posts_count - 1")).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Post deleted successfully."})
}

var errAlreadyLiked = errors.New("already liked")

func LikePost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid post id.", ctx)
		return
	}

	var post models.Post
	if err := storage.DB.First(&post, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.PostLike{}).
			Where("post_id = ? AND user_id = ?", id, claims.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errAlreadyLiked
		}

		if err := tx.Create(&models.PostLike{PostID: id, UserID: claims.ID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", id).
			Update("like_count", gorm.Expr("like_count + 1")).Error
	})
	if txErr != nil {
		if errors.Is(txErr, errAlreadyLiked) {
			utils.CreateError(iris.StatusConflict, "Conflict", "You have already liked this post.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.First(&post, id)
	ctx.StatusCode(iris.StatusAccepted)
	ctx.JSON(post)
}

func GetPostLikes(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid post id.", ctx)
		return
	}

	var likes []models.PostLike
	if err := storage.DB.Where("post_id = ?", id).Find(&likes).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(likes)
}

type createCommentInput struct {
	Content  string `json:"content" validate:"required,max=2000"`
	ParentID *uint  `json:"parentID"`
}

func GetPostComments(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid post id.", ctx)
		return
	}

	var postCount int64
	if err := storage.DB.Model(&models.Post{}).Where("id = ?", id).Count(&postCount).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if postCount == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var comments []models.Comment
	if err := storage.DB.Where("post_id = ?", id).Preload("User").Find(&comments).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(comments)
}

func CreateComment(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid post id.", ctx)
		return
	}

	var input createCommentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var post models.Post
	if err := storage.DB.First(&post, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	comment := models.Comment{
		PostID:   id,
		UserID:   claims.ID,
		ParentID: input.ParentID,
		Content:  input.Content,
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", id).
			Update("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("User").First(&comment, comment.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(comment)
}

func DeleteComment(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("commentID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid comment id.", ctx)
		return
	}

	var comment models.Comment
	if err := storage.DB.Where("id = ? AND user_id = ?", id, claims.ID).First(&comment).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found",
			"Comment not found or you do not have permission to delete it.", ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			Update("comment_count", gorm.Expr("comment_count - 1")).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Comment deleted successfully."})
}

func LikeComment(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	postID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid post id.", ctx)
		return
	}
	commentID, err := ctx.Params().GetUint("commentID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid comment id.", ctx)
		return
	}

	var comment models.Comment
	if err := storage.DB.Where("id = ? AND post_id = ?", commentID, postID).First(&comment).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.CommentLike{}).
			Where("comment_id = ? AND user_id = ?", commentID, claims.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errAlreadyLiked
		}

		if err := tx.Create(&models.CommentLike{CommentID: commentID, UserID: claims.ID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			Update("like_count", gorm.Expr("like_count + 1")).Error
	})
	if txErr != nil {
		if errors.Is(txErr, errAlreadyLiked) {
			utils.CreateError(iris.StatusConflict, "Conflict", "You have already liked this comment.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.First(&comment, commentID)
	ctx.StatusCode(iris.StatusAccepted)
	ctx.JSON(comment)
}
