package models

import "github.com/go-playground/validator/v10"

// Validate checks the `validate` tags of request models.
var Validate = validator.New()
