package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs custom request validations on gin's binding
// engine. Call once during startup, before routes are registered.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterStructValidation(validateCreateBookingRequest, CreateBookingRequest{})
	v.RegisterStructValidation(validateUpdateBookingRequest, UpdateBookingRequest{})
	v.RegisterStructValidation(validateAvailabilityParams, AvailabilityParams{})
}

// validateCreateBookingRequest rejects inverted time ranges at bind time so
// they never reach the service layer.
func validateCreateBookingRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateBookingRequest)
	if !req.EndTime.After(req.StartTime) {
		sl.ReportError(req.EndTime, "EndTime", "endTime", "gtfield", "StartTime")
	}
	if req.Recurrence != nil && req.Recurrence.EndDate.Before(req.StartTime) {
		sl.ReportError(req.Recurrence.EndDate, "EndDate", "endDate", "gtefield", "StartTime")
	}
}

// validateUpdateBookingRequest checks the window only when both ends are sent
// together; single-ended moves are validated against the stored booking in the
// service layer.
func validateUpdateBookingRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(UpdateBookingRequest)
	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		sl.ReportError(req.EndTime, "EndTime", "endTime", "gtfield", "StartTime")
	}
}

func validateAvailabilityParams(sl validator.StructLevel) {
	params := sl.Current().Interface().(AvailabilityParams)
	if !params.EndTime.After(params.StartTime) {
		sl.ReportError(params.EndTime, "EndTime", "endTime", "gtfield", "StartTime")
	}
}
