package secretary

type Secretary interface {
	Encode(data string) string
	Decode(msg string) (string, error)
	NewToken() (string, string, error)
	GetTokenForUser(userID string) (string, error)
	ValidateToken(accessToken string) (string, error)
}
