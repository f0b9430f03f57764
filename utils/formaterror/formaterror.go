package formaterror

import "strings"

// FormatError maps raw storage errors to user-facing field errors so
// constraint violations never leak SQL details to the client.
func FormatError(errString string) map[string]string {
	errorMessages := make(map[string]string)

	if strings.Contains(errString, "username") {
		errorMessages["Taken_username"] = "Username Already Taken"
	}
	if strings.Contains(errString, "email") {
		errorMessages["Taken_email"] = "Email Already Taken"
	}
	if strings.Contains(errString, "title") {
		errorMessages["Taken_title"] = "Title Already Taken"
	}
	if strings.Contains(errString, "hashedPassword") {
		errorMessages["Incorrect_password"] = "Incorrect Password"
	}
	if strings.Contains(errString, "record not found") {
		errorMessages["No_record"] = "No Record Found"
	}
	if strings.Contains(errString, "duplicate") || strings.Contains(errString, "UNIQUE constraint") {
		errorMessages["Duplicate"] = "Already exists"
	}

	if len(errorMessages) > 0 {
		return errorMessages
	}

	return map[string]string{"Incorrect_details": "Incorrect Details"}
}
