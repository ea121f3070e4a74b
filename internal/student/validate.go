package student

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	maxStudentID = 9_000_000_000
	maxAge       = 150
	maxCourses   = 10
	maxCourseLen = 100
)

var (
	validate   *validator.Validate
	translator ut.Translator

	nameRegex   = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	courseRegex = regexp.MustCompile(`^[a-zA-Z0-9\s&'()-]+$`)
)

func init() {
	validate = validator.New()

	// English translations back any rule without an explicit message below.
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report fields by their JSON names so errors map onto wire fields.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("intstr", intStr)
	_ = validate.RegisterValidation("posint", positiveInt)
	_ = validate.RegisterValidation("sid_max", studentIDMax)
	_ = validate.RegisterValidation("age_max", ageMax)
	_ = validate.RegisterValidation("person_chars", personChars)
	_ = validate.RegisterValidation("email_basic", emailBasic)
	_ = validate.RegisterValidation("course_count", courseCount)
	_ = validate.RegisterValidation("course_len", courseLen)
	_ = validate.RegisterValidation("course_chars", courseChars)
}

// fieldMessages maps wire field name and failed tag to the message shown to
// the user. The texts match the backend's own validation messages.
var fieldMessages = map[string]map[string]string{
	"student_id": {
		"required": "Student ID must be a valid integer!",
		"intstr":   "Student ID must be a valid integer!",
		"posint":   "Student ID must be a positive integer!",
		"sid_max":  "Student ID must be less than 9,000,000,000!",
	},
	"name": {
		"required":     "Name is required!",
		"min":          "Name must be at least 2 characters long!",
		"max":          "Name must be less than 100 characters!",
		"person_chars": "Name can only contain letters, spaces, hyphens, and apostrophes!",
	},
	"age": {
		"required": "Age must be a valid integer!",
		"intstr":   "Age must be a valid integer!",
		"posint":   "Age must be a positive integer!",
		"age_max":  "Age must be realistic (less than 150)!",
	},
	"email": {
		"required":    "Email is required!",
		"email_basic": "Please enter a valid email address!",
		"max":         "Email must be less than 255 characters!",
	},
	"courses": {
		"course_count": "Maximum 10 courses allowed!",
		"course_len":   "Course names must be less than 100 characters!",
		"course_chars": "Course names contain invalid characters!",
	},
}

var fieldByWire = func() map[string]Field {
	m := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		m[f.WireName()] = f
	}
	return m
}()

// ValidateInput runs every field validator against the normalized input.
// It returns per-field feedback and whether the input as a whole is valid.
func ValidateInput(in Input) (map[Field]Feedback, bool) {
	in = in.Normalized()
	fb := make(map[Field]Feedback, len(Fields))

	err := validate.Struct(in)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				f, ok := fieldByWire[fe.Field()]
				if !ok {
					continue
				}
				fb[f] = Feedback{State: StateInvalid, Message: messageFor(fe)}
			}
		}
	}
	for _, f := range Fields {
		if _, bad := fb[f]; !bad {
			fb[f] = Feedback{State: StateValid}
		}
	}
	return fb, err == nil
}

// ValidateField validates a single field of the input, as run when focus
// leaves that field.
func ValidateField(in Input, f Field) Feedback {
	in = in.Normalized()
	err := validate.StructPartial(in, f.structName())
	if err == nil {
		return Feedback{State: StateValid}
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return Feedback{State: StateInvalid, Message: messageFor(verrs[0])}
	}
	return Feedback{State: StateInvalid, Message: err.Error()}
}

func messageFor(fe validator.FieldError) string {
	if byTag, ok := fieldMessages[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
	}
	return fe.Translate(translator)
}

func intStr(fl validator.FieldLevel) bool {
	_, err := strconv.ParseInt(fl.Field().String(), 10, 64)
	return err == nil
}

func positiveInt(fl validator.FieldLevel) bool {
	v, err := strconv.ParseInt(fl.Field().String(), 10, 64)
	return err == nil && v > 0
}

func studentIDMax(fl validator.FieldLevel) bool {
	v, err := strconv.ParseInt(fl.Field().String(), 10, 64)
	return err == nil && v < maxStudentID
}

func ageMax(fl validator.FieldLevel) bool {
	v, err := strconv.ParseInt(fl.Field().String(), 10, 64)
	return err == nil && v <= maxAge
}

func personChars(fl validator.FieldLevel) bool {
	return nameRegex.MatchString(fl.Field().String())
}

func emailBasic(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func courseCount(fl validator.FieldLevel) bool {
	return len(SplitCourses(fl.Field().String())) <= maxCourses
}

func courseLen(fl validator.FieldLevel) bool {
	for _, c := range SplitCourses(fl.Field().String()) {
		if utf8.RuneCountInString(c) > maxCourseLen {
			return false
		}
	}
	return true
}

func courseChars(fl validator.FieldLevel) bool {
	for _, c := range SplitCourses(fl.Field().String()) {
		if !courseRegex.MatchString(c) {
			return false
		}
	}
	return true
}
