package enums

import "fmt"

// TemplateStatus tracks a template through review to publication.
type TemplateStatus string

const (
	TemplateStatusDraft     TemplateStatus = "draft"
	TemplateStatusPublished TemplateStatus = "published"
	TemplateStatusRejected  TemplateStatus = "rejected"
)

var validTemplateStatuses = []TemplateStatus{
	TemplateStatusDraft,
	TemplateStatusPublished,
	TemplateStatusRejected,
}

// String implements fmt.Stringer.
func (s TemplateStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TemplateStatus.
func (s TemplateStatus) IsValid() bool {
	for _, candidate := range validTemplateStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTemplateStatus converts raw input into a TemplateStatus.
func ParseTemplateStatus(value string) (TemplateStatus, error) {
	for _, candidate := range validTemplateStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid template status %q", value)
}
