package auth

/*Токены stateless: никакого серверного списка сессий нет, logout на сервере ничего
не делает, клиент просто выкидывает токен. Любой процесс со знанием секрета может
проверить токен выданный другим процессом*/
import (
	"fmt"
	"log/slog"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"typegame/domain"
	"typegame/iternal/pkg"
)

type Service struct {
	secretKey string
	ttl       time.Duration
	log       *slog.Logger
	cl        pkg.Clock
}

func NewService(secret string, ttl time.Duration, log *slog.Logger, cl pkg.Clock) *Service {
	return &Service{
		secretKey: secret,
		ttl:       ttl,
		log:       log,
		cl:        cl,
	}
}

// Issue выдаёт подписанный jwt с user_id, username и exp = сейчас + ttl
func (s *Service) Issue(user domain.User) (string, error) {
	const op = "auth.Issue"

	token := Token{
		UserID:   user.ID,
		Username: user.Username,
	}
	claims := token.MapToAccess(s.cl, s.ttl)

	signedToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := signedToken.SignedString([]byte(s.secretKey))
	if err != nil {
		s.log.Error("Failed to generate JWT", "op", op, "error", err)
		return "", err
	}

	s.log.Debug(op, "msg", "access token generated")
	return tokenString, nil
}

// Verify проверяет подпись и срок жизни токена. Любая порча или не тот алгоритм -
// ErrTokenInvalid, валидный но протухший - ErrTokenExpired.
// exp сверяем с clock сами, поэтому встроенная валидация клеймов выключена
func (s *Service) Verify(accessToken string) (Token, error) {
	const op = "auth.Verify"
	var result Token

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.Parse(accessToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			s.log.Warn("Unexpected signing method", "op", op, "method", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		s.log.Debug("Failed to parse token", "op", op, "error", err)
		return result, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		s.log.Warn("Invalid token claims", "op", op)
		return result, ErrTokenInvalid
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		s.log.Warn("Token expiration missing", "op", op)
		return result, ErrTokenInvalid
	}
	if time.Unix(int64(exp), 0).Before(s.cl.Now()) {
		s.log.Debug("Token expired", "op", op)
		return result, ErrTokenExpired
	}

	//jwt числа после json всегда float64
	userID, ok := claims["user_id"].(float64)
	if !ok {
		s.log.Warn("User ID missing in token", "op", op)
		return result, ErrTokenInvalid
	}
	username, ok := claims["username"].(string)
	if !ok {
		s.log.Warn("Username missing in token", "op", op)
		return result, ErrTokenInvalid
	}

	result.UserID = domain.UserID(userID)
	result.Username = domain.Username(username)
	return result, nil
}
