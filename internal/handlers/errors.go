package handlers

import (
	"muhasib-api/internal/repositories"
)

// isValidationError checks if an error stems from input validation
func isValidationError(err error) bool {
	return repositories.IsValidation(err)
}
