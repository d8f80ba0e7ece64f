package routes

import (
	"errors"
	"strings"

	"github.com/anywhere-app/backend/models"
	"github.com/anywhere-app/backend/services"
	"github.com/anywhere-app/backend/storage"
	"github.com/anywhere-app/backend/utils"
	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandlers carries the login limiter so it has an explicit lifecycle
// instead of living as package state.
type AuthHandlers struct {
	Limiter *services.LoginLimiter
}

func NewAuthHandlers(limiter *services.LoginLimiter) *AuthHandlers {
	return &AuthHandlers{Limiter: limiter}
}

type RegisterUserInput struct {
	Username string `json:"username" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandlers) Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser = models.User{
		Username: userInput.Username,
		Email:    strings.ToLower(userInput.Email),
		Password: hashedPassword,
		IsActive: true,
	}

	if err := storage.DB.Create(&newUser).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	returnUser(newUser, ctx)
}

func (h *AuthHandlers) Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	email := strings.ToLower(userInput.Email)

	if lockErr := h.Limiter.Check(ctx.Request().Context(), email); lockErr != nil {
		utils.CreateError(iris.StatusTooManyRequests, "Too Many Requests", lockErr.Error(), ctx)
		return
	}

	errorMsg := "Invalid email or password."

	var existingUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !userExists {
		h.failLogin(ctx, email, errorMsg)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		h.failLogin(ctx, email, errorMsg)
		return
	}

	if existingUser.IsSuspended {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "User is suspended.", ctx)
		return
	}

	h.Limiter.Clear(ctx.Request().Context(), email)
	returnUser(existingUser, ctx)
}

func (h *AuthHandlers) failLogin(ctx iris.Context, email, errorMsg string) {
	if lockErr := h.Limiter.RecordFailure(ctx.Request().Context(), email); errors.Is(lockErr, services.ErrLoginLocked) {
		utils.CreateError(iris.StatusTooManyRequests, "Too Many Requests", lockErr.Error(), ctx)
		return
	}
	utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
}

// CreateAdminUser bootstraps another admin account. Routed behind
// AdminOnlyMiddleware.
func (h *AuthHandlers) CreateAdminUser(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser = models.User{
		Username: userInput.Username,
		Email:    strings.ToLower(userInput.Email),
		Password: hashedPassword,
		IsAdmin:  true,
		IsActive: true,
	}

	if err := storage.DB.Create(&newUser).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	returnUser(newUser, ctx)
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)
	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}
	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID, user.IsAdmin)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"isAdmin":      user.IsAdmin,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
