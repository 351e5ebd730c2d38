package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SterilFlow/cssd_tracking_app/internal/utils/qr"
)

// registerCustomValidators installs binding-level validations on gin's
// validator engine. "qrpayload" rejects scanned content that is not a
// recognized QR payload before it reaches handler logic.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("qrpayload", func(fl validator.FieldLevel) bool {
		_, _, err := qr.Parse(fl.Field().String())
		return err == nil
	})
}
