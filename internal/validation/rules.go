// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/startupheroes/package-events/internal/errors"
)

// maxTopicNameLength is the longest topic name Kafka accepts.
const maxTopicNameLength = 249

var (
	// topicNameRegex matches the characters legal in a Kafka topic name
	topicNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// TopicName validates a broker topic name. Empty values pass; combine with Required.
var TopicName = validation.NewStringRuleWithError(
	func(s string) bool {
		if len(s) > maxTopicNameLength || s == "." || s == ".." {
			return false
		}
		return topicNameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_topic_name",
		"must contain only letters, digits, '.', '_' or '-' and be at most 249 characters",
	),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
