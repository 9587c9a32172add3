package reports

import (
	"errors"
	"strings"
)

// ValidateTitle checks the report title bounds.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("Title is required")
	}
	if len(title) < 3 || len(title) > 100 {
		return errors.New("Title must be between 3 and 100 characters")
	}
	return nil
}

// ValidateLocation checks the location string.
func ValidateLocation(location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return errors.New("Location is required")
	}
	if len(location) > 200 {
		return errors.New("Location must not exceed 200 characters")
	}
	return nil
}

// ValidateComment checks the free-text body.
func ValidateComment(comment string) error {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return errors.New("Comment is required")
	}
	if len(comment) > 1000 {
		return errors.New("Comment must not exceed 1000 characters")
	}
	return nil
}

// ValidateCreateRequest validates every field of a create payload.
func ValidateCreateRequest(req *CreateRequest) error {
	if err := ValidateTitle(req.Title); err != nil {
		return err
	}
	if _, ok := ParseReportType(string(req.Type)); !ok {
		return errors.New("Report type is required")
	}
	if err := ValidateLocation(req.Location); err != nil {
		return err
	}
	return ValidateComment(req.Comment)
}

// ValidateUpdateRequest validates the non-nil fields of an update payload.
func ValidateUpdateRequest(req *UpdateRequest) error {
	if req.Title != nil {
		if err := ValidateTitle(*req.Title); err != nil {
			return err
		}
	}
	if req.Type != nil {
		if _, ok := ParseReportType(string(*req.Type)); !ok {
			return errors.New("Unknown report type")
		}
	}
	if req.Location != nil {
		if err := ValidateLocation(*req.Location); err != nil {
			return err
		}
	}
	if req.Comment != nil {
		if err := ValidateComment(*req.Comment); err != nil {
			return err
		}
	}
	return nil
}
