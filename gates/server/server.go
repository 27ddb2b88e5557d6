package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"typegame/auth"
	"typegame/domain"
	"typegame/iternal/config"
	"typegame/iternal/pkg"
)

type Server struct {
	log  *slog.Logger
	srv  *domain.UserService
	auth *auth.Service
}

func NewServer(store domain.UserStore, cfg *config.Config, log *slog.Logger, r *gin.Engine, cl pkg.Clock) *Server {
	server := &Server{
		log:  log,
		srv:  domain.NewUserService(store, log, cl),
		auth: auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL, log, cl),
	}

	//все эндпоинты живут под /auth, резолвер личности висит на всей группе
	authGroup := r.Group("/auth")
	authGroup.Use(server.IdentityResolver())
	{
		authGroup.POST("/register", server.registerHandler)
		authGroup.POST("/login", server.loginHandler)
		authGroup.GET("/status", server.statusHandler)
		authGroup.POST("/logout", server.logoutHandler)
		authGroup.GET("/leaderboard", server.leaderboardHandler)
		authGroup.GET("/personal", server.personalHandler)
		authGroup.POST("/scores", server.scoresHandler)
		authGroup.DELETE("/delete", server.deleteHandler)
	}
	server.log.Info("router configured")
	return server
}

func (s *Server) registerHandler(c *gin.Context) {
	const op = "gates.server.registerHandler"
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Debug(op, "msg", "failed to decode request body", "err", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid input"})
		return
	}

	//правила проверяются по очереди, клиенту уходит первое нарушенное
	if err := domain.ValidateNewUser(req.Username, req.Password); err != nil {
		s.log.Debug(op, "msg", "validation failed", "err", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error(op, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "An unexpected error occurred."})
		return
	}

	err = s.srv.Register(c.Request.Context(), domain.Username(req.Username), hash)
	if errors.Is(err, domain.ErrUsernameTaken) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("User %s is already registered.", req.Username)})
		return
	}
	if err != nil {
		s.log.Error(op, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "An unexpected error occurred."})
		return
	}
	c.JSON(http.StatusCreated, messageResponse{Message: "Registered successfully"})
}

func (s *Server) loginHandler(c *gin.Context) {
	const op = "gates.server.loginHandler"
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		s.log.Debug(op, "msg", "missing credentials")
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Username and password are required."})
		return
	}

	user, err := s.srv.UserByName(c.Request.Context(), domain.Username(req.Username))
	if errors.Is(err, domain.ErrUserNotFound) {
		//ответ одинаковый для несуществующего ника и неверного пароля,
		//чтоб нельзя было перебирать имена
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid username or password"})
		return
	}
	if err != nil {
		s.log.Error(op, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "An unexpected error occurred."})
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.log.Debug(op, "msg", "wrong password", "username", req.Username)
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid username or password"})
		return
	}

	token, err := s.auth.Issue(user)
	if err != nil {
		s.log.Error(op, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "An unexpected error occurred."})
		return
	}
	s.log.Info(op, "msg", "logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, loginResponse{Message: "Login successful", Token: token})
}

// statusHandler сам разбирает заголовок, не полагаясь на резолвер -
// тут отсутствие токена это не ошибка а ответ logged_in:false
func (s *Server) statusHandler(c *gin.Context) {
	const op = "gates.server.statusHandler"
	header := c.GetHeader("Authorization")
	if header == "" {
		c.JSON(http.StatusUnauthorized, statusResponse{LoggedIn: false})
		return
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		s.log.Debug(op, "msg", "malformed Authorization header")
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid token"})
		return
	}
	token, err := s.auth.Verify(strings.TrimSpace(parts[1]))
	if errors.Is(err, auth.ErrTokenExpired) {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Token has expired"})
		return
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid token"})
		return
	}
	c.JSON(http.StatusOK, statusResponse{
		LoggedIn: true,
		UserID:   token.UserID,
		Username: token.Username,
	})
}

// logout на сервере no-op, токен stateless и клиент его просто выкидывает
func (s *Server) logoutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

func (s *Server) scoresHandler(c *gin.Context) {
	const op = "gates.server.scoresHandler"
	var req scoreRequest
	//нулевой score тоже отбрасываем, как и отсутствующий
	if err := c.ShouldBindJSON(&req); err != nil || req.Score == 0 {
		s.log.Debug(op, "msg", "missing score")
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Score is required."})
		return
	}

	user, ok := s.requireUser(c)
	if !ok {
		return
	}

	err := s.srv.SubmitScore(c.Request.Context(), user.ID, req.Score)
	if errors.Is(err, domain.ErrScoreCooldown) {
		c.JSON(http.StatusTooManyRequests, errorResponse{Error: "You can only submit a score once every minute."})
		return
	}
	if err != nil {
		s.log.Error(op, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "An unexpected error occurred."})
		return
	}
	s.log.Info(op, "msg", "score submitted", "user_id", user.ID, "score", req.Score)
	c.JSON(http.StatusCreated, messageResponse{Message: "Score submitted successfully"})
}

func (s *Server) personalHandler(c *gin.Context) {
	const op = "gates.server.personalHandler"
	user, ok := s.requireUser(c)
	if !ok {
		return
	}

	sorter, err := domain.ParseSorter(c.Query("order_by"))
	if err != nil {
		s.log.Debug(op, "msg", "bad order_by", "value", c.Query("order_by"))
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid order_by parameter."})
		return
	}

	rows, err := s.srv.PersonalScores(c.Request.Context(), user.ID, sorter)
	if err != nil {
		s.log.Error(op, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "An unexpected error occurred."})
		return
	}
	c.JSON(http.StatusOK, personalResponse{Personal: toEntries(rows)})
}

func (s *Server) leaderboardHandler(c *gin.Context) {
	const op = "gates.server.leaderboardHandler"
	rows, err := s.srv.Leaderboard(c.Request.Context())
	if err != nil {
		s.log.Error(op, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "An unexpected error occurred."})
		return
	}
	c.JSON(http.StatusOK, leaderboardResponse{Leaderboard: toEntries(rows)})
}

func (s *Server) deleteHandler(c *gin.Context) {
	const op = "gates.server.deleteHandler"
	user, ok := s.requireUser(c)
	if !ok {
		return
	}

	err := s.srv.DeleteProfile(c.Request.Context(), user.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "User not found"})
		return
	}
	if err != nil {
		s.log.Error(op, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "An unexpected error occurred."})
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Profile deleted successfully"})
}
