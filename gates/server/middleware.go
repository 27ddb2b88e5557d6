package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"typegame/auth"
	"typegame/domain"
)

/*IdentityResolver не прерывает запрос - при любой проблеме с токеном личность
просто остаётся пустой, а эндпоинты требующие авторизацию сами отвечают 401/404.
Заголовок без сегмента "Bearer <token>" считаем отсутствующими кредами, не падаем*/
func (s *Server) IdentityResolver() gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "gates.server.identityResolver"
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			s.log.Debug(op, "msg", "malformed Authorization header")
			c.Next()
			return
		}
		token, err := s.auth.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			s.log.Debug(op, "msg", "token rejected", "err", err)
			c.Next()
			return
		}
		//токен валидный, запоминаем его даже если юзера уже нет -
		//по этому различаем 401 и 404 в хендлерах
		c.Set(tokenContextKey, token)
		user, err := s.srv.UserByID(c.Request.Context(), token.UserID)
		if err != nil {
			s.log.Debug(op, "msg", "token user not found", "user_id", token.UserID)
			c.Next()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) (domain.User, bool) {
	userAny, ok := c.Get(userContextKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := userAny.(domain.User)
	return user, ok
}

func currentToken(c *gin.Context) (auth.Token, bool) {
	tokenAny, ok := c.Get(tokenContextKey)
	if !ok {
		return auth.Token{}, false
	}
	token, ok := tokenAny.(auth.Token)
	return token, ok
}

// requireUser достаёт юзера из контекста, если его нет - сам пишет ответ:
// нет валидного токена - 401, токен есть а юзера в базе уже нет - 404
func (s *Server) requireUser(c *gin.Context) (domain.User, bool) {
	user, ok := currentUser(c)
	if ok {
		return user, true
	}
	if _, ok := currentToken(c); ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "User not found"})
		return domain.User{}, false
	}
	c.JSON(http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
	return domain.User{}, false
}
