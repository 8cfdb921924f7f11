package admin

import (
	"context"
	"errors"
	"net/url"

	"github.com/BradenHooton/searchdesk/internal/forms"
	"github.com/BradenHooton/searchdesk/internal/models"
	pkgauth "github.com/BradenHooton/searchdesk/pkg/auth"
)

type userInput struct {
	Login    string `form:"login" validate:"required,max=80"`
	Email    string `form:"email" validate:"omitempty,email,max=120"`
	Password string `form:"password" validate:"max=64,bcryptlen"`
}

// UserResource exposes users to the admin. The password is write-only:
// leaving it blank on edit keeps the stored hash.
type UserResource struct {
	store UserStore
}

func NewUserResource(store UserStore) *UserResource {
	return &UserResource{store: store}
}

func (r *UserResource) Name() string { return "User" }

func (r *UserResource) Columns() []Column {
	return []Column{
		{Name: "login", Label: "Login"},
		{Name: "email", Label: "Email"},
		{Name: "created_at", Label: "Created"},
	}
}

func (r *UserResource) List(ctx context.Context, filter models.ListFilter) ([]Row, error) {
	users, err := r.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(users))
	for _, u := range users {
		rows = append(rows, Row{ID: u.ID, Cells: []string{u.Login, u.Email, u.CreatedAt.UTC().Format("2006-01-02 15:04")}})
	}
	return rows, nil
}

func (r *UserResource) Count(ctx context.Context, filter models.ListFilter) (int64, error) {
	return r.store.Count(ctx, filter)
}

func (r *UserResource) Fields(ctx context.Context) ([]forms.Field, error) {
	return []forms.Field{
		{Name: "login", Label: "Login", Type: forms.InputText, Required: true},
		{Name: "email", Label: "Email", Type: forms.InputEmail},
		{Name: "password", Label: "Password", Type: forms.InputPassword},
	}, nil
}

func (r *UserResource) Values(ctx context.Context, id string) (url.Values, error) {
	u, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return url.Values{"login": {u.Login}, "email": {u.Email}}, nil
}

func (r *UserResource) Save(ctx context.Context, id string, values url.Values) (string, error) {
	in := userInput{
		Login:    values.Get("login"),
		Email:    values.Get("email"),
		Password: values.Get("password"),
	}

	errs := forms.Validate(&in)
	if id == "" && in.Password == "" && !errs.Has("password") {
		if errs == nil {
			errs = models.ValidationErrors{}
		}
		errs.Add("password", models.MsgRequired)
	}
	if errs != nil {
		return "", errs
	}

	user := &models.User{Login: in.Login, Email: in.Email}
	if in.Password != "" {
		hash, err := pkgauth.HashPassword(in.Password)
		if errors.Is(err, pkgauth.ErrPasswordTooLong) {
			return "", models.ValidationErrors{"password": {models.MsgPasswordTooLong}}
		}
		if err != nil {
			return "", err
		}
		user.PasswordHash = hash
	}

	var (
		saved *models.User
		err   error
	)
	if id == "" {
		saved, err = r.store.Create(ctx, user)
	} else {
		saved, err = r.store.Update(ctx, id, user)
	}
	if err != nil {
		return "", saveError(err)
	}
	return saved.ID, nil
}

func (r *UserResource) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func (r *UserResource) Lookup(ctx context.Context, field string, columns []string, query string, limit int) ([]models.Option, error) {
	return nil, noLookup(field)
}
