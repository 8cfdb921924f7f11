package forms

import (
	"net/http"

	"github.com/BradenHooton/searchdesk/internal/models"
)

// LoginForm is submitted to /login/
type LoginForm struct {
	Login    string `form:"login" validate:"required"`
	Password string `form:"password" validate:"required"`

	Errors models.ValidationErrors `form:"-" validate:"-"`
}

// DecodeLoginForm reads a LoginForm from an urlencoded request body
func DecodeLoginForm(r *http.Request) (*LoginForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &LoginForm{
		Login:    r.PostForm.Get("login"),
		Password: r.PostForm.Get("password"),
	}, nil
}

// Validate runs the field rules and keeps the result on the form
func (f *LoginForm) Validate() bool {
	f.Errors = Validate(f)
	return len(f.Errors) == 0
}

// AddError records a message against field
func (f *LoginForm) AddError(field, message string) {
	if f.Errors == nil {
		f.Errors = models.ValidationErrors{}
	}
	f.Errors.Add(field, message)
}

// Fields returns the inputs to render. The password is never echoed back.
func (f *LoginForm) Fields() []Field {
	return []Field{
		{Name: "login", Label: "Login", Type: InputText, Value: f.Login, Required: true, Errors: f.Errors["login"]},
		{Name: "password", Label: "Password", Type: InputPassword, Required: true, Errors: f.Errors["password"]},
	}
}

// RegistrationForm is submitted to /register/
type RegistrationForm struct {
	Login    string `form:"login" validate:"required,max=80"`
	Email    string `form:"email" validate:"omitempty,email,max=120"`
	Password string `form:"password" validate:"required,max=64,bcryptlen"`

	Errors models.ValidationErrors `form:"-" validate:"-"`
}

// DecodeRegistrationForm reads a RegistrationForm from an urlencoded request body
func DecodeRegistrationForm(r *http.Request) (*RegistrationForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &RegistrationForm{
		Login:    r.PostForm.Get("login"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}, nil
}

// Validate runs the field rules and keeps the result on the form
func (f *RegistrationForm) Validate() bool {
	f.Errors = Validate(f)
	return len(f.Errors) == 0
}

// AddError records a message against field
func (f *RegistrationForm) AddError(field, message string) {
	if f.Errors == nil {
		f.Errors = models.ValidationErrors{}
	}
	f.Errors.Add(field, message)
}

// Fields returns the inputs to render. The password is never echoed back.
func (f *RegistrationForm) Fields() []Field {
	return []Field{
		{Name: "login", Label: "Login", Type: InputText, Value: f.Login, Required: true, Errors: f.Errors["login"]},
		{Name: "email", Label: "Email", Type: InputEmail, Value: f.Email, Errors: f.Errors["email"]},
		{Name: "password", Label: "Password", Type: InputPassword, Required: true, Errors: f.Errors["password"]},
	}
}
