package secretary

import (
	"testing"

	"github.com/Mohammademon02/income-tracking-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSecretary(t *testing.T) *Secretary {
	t.Helper()
	secretaryService, err := NewSecretaryService(&config.SecretConfig{SecretKey: "test_secret_key"})
	require.NoError(t, err)
	return secretaryService
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	secretaryService := newTestSecretary(t)

	tests := []struct {
		name string
		data string
	}{
		{name: "plain login", data: "some_user@example.com"},
		{name: "empty string", data: ""},
		{name: "unicode", data: "пользователь"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			encoded := secretaryService.Encode(tt.data)
			decoded, err := secretaryService.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.data, decoded)
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()

	secretaryService := newTestSecretary(t)
	// login lookups rely on ciphertext equality
	assert.Equal(t, secretaryService.Encode("some_login"), secretaryService.Encode("some_login"))
}

func TestDecodeGarbage(t *testing.T) {
	t.Parallel()

	secretaryService := newTestSecretary(t)
	_, err := secretaryService.Decode("not-a-hex-string")
	assert.Error(t, err)
	_, err = secretaryService.Decode("deadbeef")
	assert.Error(t, err)
}

func TestNewTokenRoundTrip(t *testing.T) {
	t.Parallel()

	secretaryService := newTestSecretary(t)
	accessToken, userID, err := secretaryService.NewToken()
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, userID)

	validatedUserID, err := secretaryService.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, validatedUserID)
}

func TestGetTokenForUserRoundTrip(t *testing.T) {
	t.Parallel()

	secretaryService := newTestSecretary(t)
	accessToken, err := secretaryService.GetTokenForUser("known-user")
	require.NoError(t, err)

	validatedUserID, err := secretaryService.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "known-user", validatedUserID)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	secretaryService := newTestSecretary(t)
	otherService, err := NewSecretaryService(&config.SecretConfig{SecretKey: "another_secret_key"})
	require.NoError(t, err)

	accessToken, _, err := otherService.NewToken()
	require.NoError(t, err)

	_, err = secretaryService.ValidateToken(accessToken)
	assert.Error(t, err)
}
