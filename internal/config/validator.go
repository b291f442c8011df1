package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// rule is a custom validation tag with its English message. A nil fn means
// the tag is built in and only the message is overridden.
type rule struct {
	tag     string
	message string
	fn      validator.Func
}

var customRules = []rule{
	{tag: "file", message: "{0} must be an existing and readable file", fn: isFileReadable},
	{tag: "webhook_url", message: "{0} must be an absolute http or https URL", fn: isWebhookURL},
	{tag: "timezone", message: "{0} must be an IANA time zone such as Asia/Tokyo"},
	{tag: "required_for_driver", message: "{0} is required for the configured storage driver"},
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, r := range customRules {
		if r.fn != nil {
			if err := validate.RegisterValidation(r.tag, r.fn); err != nil {
				return nil, nil, fmt.Errorf("failed to register %s validation: %w", r.tag, err)
			}
		}
		if err := validate.RegisterTranslation(r.tag, trans, addTranslation(r), translateField(r.tag)); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s translation: %w", r.tag, err)
		}
	}
	validate.RegisterStructValidation(validateStorageDriver, Config{})

	return validate, trans, nil
}

func addTranslation(r rule) validator.RegisterTranslationsFunc {
	return func(ut ut.Translator) error {
		return ut.Add(r.tag, r.message, true)
	}
}

func translateField(tag string) validator.TranslationFunc {
	return func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}
}

// validateStorageDriver checks the database settings the chosen driver needs.
func validateStorageDriver(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	switch cfg.Storage.Driver {
	case "mysql", "postgres":
		if cfg.Database.Host == "" {
			sl.ReportError(cfg.Database.Host, "database.host", "Host", "required_for_driver", cfg.Storage.Driver)
		}
		if cfg.Database.Database == "" {
			sl.ReportError(cfg.Database.Database, "database.database", "Database", "required_for_driver", cfg.Storage.Driver)
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			sl.ReportError(cfg.Database.SQLitePath, "database.sqlite_path", "SQLitePath", "required_for_driver", cfg.Storage.Driver)
		}
	}
}

func isWebhookURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	// owner read bit
	return info.Mode().Perm()&0o400 != 0
}
