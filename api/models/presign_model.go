package models

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/moyoez/uploadkit/types"
)

const (
	FolderMessage   = "File path must consist of alphanumeric characters, underscores, and dashes, and must end with a slash. e.g. 'my-folder/', 'my-folder/sub-folder/'"
	FilenameMessage = "File name must consist of alphanumeric characters, underscores, dashes, and periods. e.g. 'my-file.txt', 'my_file'"
)

var (
	folderPattern   = regexp.MustCompile(`^([a-zA-Z0-9_-])+(\/([a-zA-Z0-9_-]+))*\/$`)
	filenamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]*$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

// Issue is one rejected field of a presign request.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("folder", func(fl validator.FieldLevel) bool {
			return folderPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("filename", func(fl validator.FieldLevel) bool {
			return filenamePattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidFolder reports whether folder is usable as a key prefix. The empty
// folder is valid.
func ValidFolder(folder string) bool {
	return folder == "" || folderPattern.MatchString(folder)
}

// ValidatePresignRequest returns the issues of req, nil when it is valid.
func ValidatePresignRequest(req *types.PresignRequest) []Issue {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Issue{{Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, Issue{
			Path:    fieldPath(fe.Namespace()),
			Message: issueMessage(fe),
		})
	}
	return issues
}

func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "folder":
		return FolderMessage
	case "filename":
		return FilenameMessage
	case "required":
		return "Required"
	case "min":
		return "At least " + fe.Param() + " item(s) required"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	default:
		return "Invalid value"
	}
}
