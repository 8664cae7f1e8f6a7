package main

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,32}$`)

// Path segments under /profiles/ that are routes rather than usernames.
var reservedUsernames = map[string]bool{
	"filter": true,
	"find":   true,
	"new":    true,
}

// validUsername reports whether name could be registered, ignoring whether
// it is already taken.
func validUsername(name string) bool {
	return usernamePattern.MatchString(name) && !reservedUsernames[name]
}

// newProfileRequest is the JSON body of POST /profiles/new.
type newProfileRequest struct {
	Username      string `json:"username" validate:"required,username"`
	Upshot        string `json:"upshot" validate:"required,max=140"`
	SunSign       string `json:"sun_sign" validate:"required,sunsign"`
	Industry      string `json:"industry" validate:"required,max=32"`
	Description   string `json:"description" validate:"max=4000"`
	ProfilePicB64 string `json:"profile_pic_b64" validate:"omitempty,datauri|base64"`
}

func (req *newProfileRequest) normalize() {
	req.Username = strings.TrimSpace(req.Username)
	req.Upshot = strings.TrimSpace(req.Upshot)
	req.SunSign = strings.TrimSpace(req.SunSign)
	req.Industry = strings.TrimSpace(req.Industry)
	req.Description = strings.TrimSpace(req.Description)
	req.ProfilePicB64 = strings.TrimSpace(req.ProfilePicB64)
}

func (req newProfileRequest) profile() Profile {
	return Profile{
		Username:      req.Username,
		Upshot:        req.Upshot,
		SunSign:       req.SunSign,
		Industry:      req.Industry,
		Description:   req.Description,
		ProfilePicB64: req.ProfilePicB64,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return validUsername(fl.Field().String())
	})
	_ = v.RegisterValidation("sunsign", func(fl validator.FieldLevel) bool {
		sign := fl.Field().String()
		for _, s := range allSunSigns {
			if s == sign {
				return true
			}
		}
		return false
	})
	return v
}

// validationFields lists the JSON names of the fields that failed.
func validationFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}
