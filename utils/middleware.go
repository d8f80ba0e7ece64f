package utils

import (
	"strconv"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// SelfOrAdminMiddleware lets a request through only when the {id} route
// parameter matches the caller or the caller is an admin.
func SelfOrAdminMiddleware(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*AccessToken)

	userID := strconv.FormatUint(uint64(claims.ID), 10)
	if userID != id && !claims.IsAdmin {
		CreateForbidden(ctx)
		return
	}
	ctx.Next()
}

func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if !claims.IsAdmin {
		CreateForbidden(ctx)
		return
	}
	ctx.Next()
}
