package useradm

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"github.com/dmitrijs2005/hrportal/internal/logging"
	"github.com/dmitrijs2005/hrportal/internal/server/auth"
	"github.com/dmitrijs2005/hrportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/hrportal/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) *services.UserService {
	t.Helper()
	svc, err := services.NewUserService(logging.Nop{}, repomanager.NewInMemoryRepositoryManager(),
		auth.NewBcryptHasher(bcrypt.MinCost, 1), auth.NewTokenCodec("k", time.Hour))
	require.NoError(t, err)
	return svc
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	i := 0
	readPassword = func(int) ([]byte, error) {
		p := pws[i%len(pws)]
		i++
		return []byte(p), nil
	}
}

func TestCreate_WithFlags(t *testing.T) {
	svc := newService(t)
	stubPasswords(t, "password123")

	var out bytes.Buffer
	app := NewApp(svc, strings.NewReader(""), &out)

	err := app.Run(context.Background(), []string{"create", "-email", "Ops@Example.com", "-name", "Ops", "-d", "ignored-dsn"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "created user id=1 email=ops@example.com")

	u, err := svc.Authenticate(context.Background(), "ops@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Ops", u.Name)
}

func TestCreate_Prompts(t *testing.T) {
	svc := newService(t)
	stubPasswords(t, "password123")

	var out bytes.Buffer
	app := NewApp(svc, strings.NewReader("p@example.com\nPrompted\n"), &out)

	require.NoError(t, app.Run(context.Background(), []string{"create"}))
	assert.Contains(t, out.String(), "Enter email")
	assert.Contains(t, out.String(), "Enter name")
}

func TestCreate_PasswordMismatch(t *testing.T) {
	stubPasswords(t, "password123", "password456")

	app := NewApp(newService(t), strings.NewReader(""), &bytes.Buffer{})
	err := app.Run(context.Background(), []string{"create", "-email", "a@example.com", "-name", "A"})
	assert.EqualError(t, err, "passwords do not match")
}

func TestCreate_Validation(t *testing.T) {
	stubPasswords(t, "short")

	app := NewApp(newService(t), strings.NewReader(""), &bytes.Buffer{})
	err := app.Run(context.Background(), []string{"create", "-email", "a@example.com", "-name", "A"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestActivateDeactivate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, "a@example.com", "password123", "A")
	require.NoError(t, err)

	var out bytes.Buffer
	app := NewApp(svc, strings.NewReader(""), &out)

	require.NoError(t, app.Run(ctx, []string{"deactivate", "-id", "1"}))
	assert.Contains(t, out.String(), "is_active=false")

	_, err = svc.Authenticate(ctx, u.Email, "password123")
	assert.ErrorIs(t, err, common.ErrAccountInactive)

	require.NoError(t, app.Run(ctx, []string{"activate", "-id=1"}))
	assert.Contains(t, out.String(), "is_active=true")

	err = app.Run(ctx, []string{"activate", "-id", "42"})
	assert.EqualError(t, err, "user 42 not found")
}

func TestRun_Usage(t *testing.T) {
	app := NewApp(newService(t), strings.NewReader(""), &bytes.Buffer{})

	assert.ErrorIs(t, app.Run(context.Background(), nil), ErrUsage)
	assert.ErrorIs(t, app.Run(context.Background(), []string{"nope"}), ErrUsage)
	assert.ErrorIs(t, app.Run(context.Background(), []string{"activate"}), ErrUsage)
}
