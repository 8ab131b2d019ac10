package settings

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

var ErrOfficeLocationNotConfigured = apperror.New(apperror.CodeNotFound, "office location has not been configured")
