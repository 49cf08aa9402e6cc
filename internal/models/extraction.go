package models

import (
	"fmt"
	"strings"
)

// TrackingCodePrefix is the only accepted tracking code format.
const TrackingCodePrefix = "PKG"

// TrackingExtraction is the structured output of the tracking slot extractor.
type TrackingExtraction struct {
	TrackingCode    string  `json:"tracking_code"`
	ConfidenceScore float64 `json:"confidence_score"`
	Description     string  `json:"description"`
}

func (e *TrackingExtraction) Validate() error {
	if !strings.HasPrefix(e.TrackingCode, TrackingCodePrefix) {
		return &ValidationError{Field: "tracking_code", Value: e.TrackingCode}
	}
	return validConfidence(e.ConfidenceScore)
}

// ProfileField names a user profile column this service is allowed to update.
type ProfileField string

const (
	FieldAddress ProfileField = "address"
	FieldCity    ProfileField = "city"
)

// Valid reports whether the field is on the update allow-list.
func (f ProfileField) Valid() bool {
	return f == FieldAddress || f == FieldCity
}

// ProfileUpdateExtraction is the structured output of the profile slot extractor.
type ProfileUpdateExtraction struct {
	FieldType       ProfileField `json:"field_type"`
	FieldValue      string       `json:"field_value"`
	ConfidenceScore float64      `json:"confidence_score"`
	Description     string       `json:"description"`
}

func (e *ProfileUpdateExtraction) Validate() error {
	if !e.FieldType.Valid() {
		return &ValidationError{Field: "field_type", Value: string(e.FieldType)}
	}
	return validConfidence(e.ConfidenceScore)
}

// PolicyCategory classifies which policy area an answer belongs to.
type PolicyCategory string

const (
	CategoryLostPackages        PolicyCategory = "lost_packages"
	CategoryShippingInformation PolicyCategory = "shipping_information"
)

func (c PolicyCategory) Valid() bool {
	return c == CategoryLostPackages || c == CategoryShippingInformation
}

// Collection names a vector store collection holding chunked policy text.
type Collection string

const (
	CollectionLostPackagePolicy   Collection = "lost_package_policy"
	CollectionShippingInformation Collection = "shipping_information"
)

func (c Collection) Valid() bool {
	return c == CollectionLostPackagePolicy || c == CollectionShippingInformation
}

// PolicyAnswer is the final structured output of the policy handler.
type PolicyAnswer struct {
	RequestType     PolicyCategory `json:"request_type"`
	ConfidenceScore float64        `json:"confidence_score"`
	Answer          string         `json:"answer"`
}

func (a *PolicyAnswer) Validate() error {
	if !a.RequestType.Valid() {
		return &ValidationError{Field: "request_type", Value: string(a.RequestType)}
	}
	return validConfidence(a.ConfidenceScore)
}

// ValidationError marks a model-extracted value that failed local validation.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s", e.Value, e.Field)
}

func validConfidence(score float64) error {
	if score < 0 || score > 1 {
		return &ValidationError{Field: "confidence_score", Value: fmt.Sprintf("%g", score)}
	}
	return nil
}
