package movie

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	msgRequired     = "This field is required."
	msgInvalidFloat = "Not a valid float value."
	msgInvalidCSRF  = "The CSRF token is missing or invalid."

	fieldCSRF = "csrf_token"
)

// EditForm 对应编辑页的表单：评分和评论
type EditForm struct {
	Rating    string `form:"rating" binding:"required,notblank,float"`
	Review    string `form:"review" binding:"required,notblank"`
	CSRFToken string `form:"csrf_token"`
}

// RatingValue 返回解析后的评分，调用前表单必须已通过校验
func (f EditForm) RatingValue() float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(f.Rating), 64)
	return v
}

// AddForm 对应添加页的表单：要搜索的电影名
type AddForm struct {
	Movie     string `form:"movie" binding:"required,notblank"`
	CSRFToken string `form:"csrf_token"`
}

// Query 返回去掉首尾空白的搜索词
func (f AddForm) Query() string {
	return strings.TrimSpace(f.Movie)
}

// FormErrors 是 字段名 -> 错误信息 的映射，用于在表单下方显示
type FormErrors map[string]string

var registerOnce sync.Once

// registerValidations 向gin的校验引擎注册自定义规则，并让错误信息使用表单字段名
func registerValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("float", isFloat)
	})
}

func isFloat(fl validator.FieldLevel) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// toFormErrors 把绑定或校验错误转换成每个字段的提示信息
func toFormErrors(err error) FormErrors {
	errs := FormErrors{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs["form"] = err.Error()
		return errs
	}
	for _, fe := range ve {
		if _, exists := errs[fe.Field()]; exists {
			continue
		}
		switch fe.Tag() {
		case "float":
			errs[fe.Field()] = msgInvalidFloat
		default:
			errs[fe.Field()] = msgRequired
		}
	}
	return errs
}
