// Package validation wraps go-playground/validator with a process-wide
// instance and collects failures as field -> messages, the shape the API
// returns to clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// NonField 用于不属于任何字段的错误
const NonField = "non_field_errors"

// ReservedUsername 不允许注册的用户名
const ReservedUsername = "me"

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	validate     *validator.Validate
	validateOnce sync.Once
)

// Errors 按字段收集的校验错误
type Errors struct {
	fields map[string][]string
}

// New 返回空的错误集合
func New() *Errors {
	return &Errors{fields: make(map[string][]string)}
}

// FieldError 构造仅含一个字段错误的集合
func FieldError(field, msg string) *Errors {
	e := New()
	e.Add(field, msg)
	return e
}

func (e *Errors) Add(field, msg string) {
	e.fields[field] = append(e.fields[field], msg)
}

func (e *Errors) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Has reports whether field already carries an error.
func (e *Errors) Has(field string) bool {
	return len(e.fields[field]) > 0
}

func (e *Errors) Empty() bool { return len(e.fields) == 0 }

// Fields 返回 field -> messages 的副本
func (e *Errors) Fields() map[string][]string {
	out := make(map[string][]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Merge 合并另一组错误
func (e *Errors) Merge(other *Errors) {
	if other == nil {
		return
	}
	for k, v := range other.fields {
		e.fields[k] = append(e.fields[k], v...)
	}
}

// Err 无错误时返回 nil，避免返回带类型的 nil 接口
func (e *Errors) Err() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	if e.Empty() {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.fields[k], " ")))
	}
	return strings.Join(parts, "; ")
}

// As 从 err 链中取出 *Errors
func As(err error) (*Errors, bool) {
	var ve *Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Validator 返回单例 validator，字段名取 json tag
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			return v != ReservedUsername && usernameRe.MatchString(v)
		})
		_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct 校验结构体，返回按字段归类的错误；通过时返回 nil
func Struct(s any) *Errors {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	out := New()
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add(NonField, err.Error())
		return out
	}
	for _, fe := range verrs {
		out.Add(fieldPath(fe), message(fe))
	}
	return out
}

// fieldPath 去掉顶层结构体名：RecipeInput.ingredients[0].amount -> ingredients[0].amount
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Ensure this list has at least %s items.", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "username":
		if fe.Value() == ReservedUsername {
			return fmt.Sprintf("Username %s is not allowed.", ReservedUsername)
		}
		return "Username contains restricted symbols. Please use only letters, numbers and .@+- symbols."
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
