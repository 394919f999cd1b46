// Package useradm implements the operator command line for managing
// accounts: creating users and enabling or disabling them.
package useradm

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"github.com/dmitrijs2005/hrportal/internal/flagx"
	"github.com/dmitrijs2005/hrportal/internal/server/models"
)

const usage = `usage:
  useradm create [-email addr] [-name name]   (password is prompted)
  useradm activate -id N
  useradm deactivate -id N`

var ErrUsage = errors.New(usage)

// AccountService is implemented by services.UserService.
type AccountService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	SetActive(ctx context.Context, id int64, active bool) (*models.User, error)
}

type App struct {
	svc    AccountService
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(svc AccountService, in io.Reader, out io.Writer) *App {
	return &App{svc: svc, reader: bufio.NewReader(in), out: out}
}

// Run executes the subcommand named by args[0]. Flags that do not belong to
// the subcommand (for example the shared config flags) are ignored.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "create":
		return a.create(ctx, args[1:])
	case "activate":
		return a.setActive(ctx, args[1:], true)
	case "deactivate":
		return a.setActive(ctx, args[1:], false)
	default:
		return fmt.Errorf("unknown command %q\n%w", args[0], ErrUsage)
	}
}

func (a *App) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-name"})); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = GetSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}
	if *name == "" {
		if *name, err = GetSimpleText(a.reader, "Enter name", a.out); err != nil {
			return err
		}
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return errors.New("passwords do not match")
	}

	user, err := a.svc.Register(ctx, *email, string(password), *name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created user id=%d email=%s\n", user.ID, user.Email)
	return nil
}

func (a *App) setActive(ctx context.Context, args []string, active bool) error {
	fs := flag.NewFlagSet("set-active", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.Int64("id", 0, "user id")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-id"})); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("-id is required\n%w", ErrUsage)
	}

	user, err := a.svc.SetActive(ctx, *id, active)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("user %d not found", *id)
		}
		return err
	}

	fmt.Fprintf(a.out, "user id=%d is_active=%t\n", user.ID, user.IsActive)
	return nil
}
