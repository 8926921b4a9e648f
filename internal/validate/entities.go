package validate

import (
	"regexp"
	"strings"

	"issuetracker/internal/models"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// --- Project ---

func projectRules(in *models.ProjectInput) []string {
	var msgs []string
	name := strings.TrimSpace(in.Name)
	if name == "" {
		msgs = append(msgs, "Name is required")
	} else if len(name) < 2 || len(name) > 100 {
		msgs = append(msgs, "Name must be between 2 and 100 characters")
	}
	msgs = maxLength(msgs, in.Description, 500, "Project description cannot exceed 500 characters")
	if in.OwnerID == nil {
		msgs = append(msgs, "Owner ID is required")
	}
	return msgs
}

func ProjectForCreate(in *models.ProjectInput) []string {
	msgs := projectRules(in)
	if in.ID != nil {
		msgs = append(msgs, "Project ID should not be provided for new projects")
	}
	if in.CreatedAt != "" {
		msgs = append(msgs, "Created timestamp should not be provided for new projects")
	}
	if in.UpdatedAt != "" {
		msgs = append(msgs, "Updated timestamp should not be provided for new projects")
	}
	return msgs
}

func ProjectForUpdate(in *models.ProjectInput) []string {
	msgs := projectRules(in)
	if in.ID == nil {
		msgs = append(msgs, "Project ID is required for updates")
	}
	return msgs
}

// --- User ---

// userRules validates name, email format, credential length, and the
// exactly-one-of role name/id pair.
func userRules(in *models.UserInput, requirePassword bool) []string {
	var msgs []string

	name := strings.TrimSpace(in.Name)
	if name == "" {
		msgs = append(msgs, "Name is mandatory")
	} else if len(name) < 2 || len(name) > 100 {
		msgs = append(msgs, "Name must be between 2 and 100 characters")
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		msgs = append(msgs, "Email is mandatory")
	} else if !emailPattern.MatchString(email) {
		msgs = append(msgs, "Email must be valid")
	}

	if in.Password == "" {
		if requirePassword {
			msgs = append(msgs, "Password is mandatory")
		}
	} else if len(in.Password) < 8 {
		msgs = append(msgs, "Password must be at least 8 characters")
	}

	hasRoleName := strings.TrimSpace(in.Role) != ""
	switch {
	case hasRoleName == (in.RoleID != nil):
		msgs = append(msgs, "Exactly one of 'role' or 'roleId' must be provided, not both")
	case hasRoleName:
		if _, err := models.UserRoleFromName(strings.ToUpper(strings.TrimSpace(in.Role))); err != nil {
			msgs = append(msgs, "Invalid role: "+in.Role)
		}
	default:
		if !models.UserRole(*in.RoleID).Valid() {
			msgs = append(msgs, "Invalid roleId: must be between 1 and 4")
		}
	}

	return msgs
}

func UserForCreate(in *models.UserInput) []string {
	msgs := userRules(in, true)
	if in.ID != nil {
		msgs = append(msgs, "User ID should not be provided for new users")
	}
	if in.CreatedAt != "" {
		msgs = append(msgs, "Created timestamp should not be provided for new users")
	}
	return msgs
}

// UserForUpdate does not require a password: an empty password keeps
// the stored hash.
func UserForUpdate(in *models.UserInput) []string {
	msgs := userRules(in, false)
	if in.ID == nil {
		msgs = append(msgs, "User ID is required for updates")
	}
	return msgs
}

// --- Team ---

func teamRules(in *models.TeamInput) []string {
	var msgs []string
	name := strings.TrimSpace(in.Name)
	if name == "" {
		msgs = append(msgs, "Team name is required")
	} else if len(name) < 2 || len(name) > 100 {
		msgs = append(msgs, "Team name must be between 2 and 100 characters")
	}
	if in.OwnerID == nil {
		msgs = append(msgs, "Owner ID is required")
	}
	return msgs
}

func TeamForCreate(in *models.TeamInput) []string {
	msgs := teamRules(in)
	if in.ID != nil {
		msgs = append(msgs, "Team ID should not be provided for new teams")
	}
	if in.CreatedAt != "" {
		msgs = append(msgs, "Created timestamp should not be provided for new teams")
	}
	return msgs
}

func TeamForUpdate(in *models.TeamInput) []string {
	msgs := teamRules(in)
	if in.ID == nil {
		msgs = append(msgs, "Team ID is required for updates")
	}
	return msgs
}

// --- Label ---

func labelRules(in *models.LabelInput) []string {
	var msgs []string
	name := strings.TrimSpace(in.Name)
	if name == "" {
		msgs = append(msgs, "Label name is required")
	} else if len(name) > 50 {
		msgs = append(msgs, "Label name should not exceed 50 characters")
	}
	return msgs
}

func LabelForCreate(in *models.LabelInput) []string {
	msgs := labelRules(in)
	if in.ID != nil {
		msgs = append(msgs, "Label ID should not be provided for new labels")
	}
	if in.CreatedAt != "" {
		msgs = append(msgs, "Created timestamp should not be provided for new labels")
	}
	return msgs
}

func LabelForUpdate(in *models.LabelInput) []string {
	msgs := labelRules(in)
	if in.ID == nil {
		msgs = append(msgs, "Label ID is required for updates")
	}
	return msgs
}

// --- Comment ---

func commentRules(in *models.CommentInput) []string {
	var msgs []string
	if in.IssueID == nil {
		msgs = append(msgs, "Issue ID is mandatory")
	}
	if in.UserID == nil {
		msgs = append(msgs, "User ID is mandatory")
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		msgs = append(msgs, "Comment text is mandatory")
	} else if len(text) > 1000 {
		msgs = append(msgs, "Comment text cannot exceed 1000 characters")
	}
	return msgs
}

func CommentForCreate(in *models.CommentInput) []string {
	msgs := commentRules(in)
	if in.ID != nil {
		msgs = append(msgs, "Comment ID should not be provided for new comments")
	}
	if in.CreatedAt != "" {
		msgs = append(msgs, "Created timestamp should not be provided for new comments")
	}
	return msgs
}

func CommentForUpdate(in *models.CommentInput) []string {
	msgs := commentRules(in)
	if in.ID == nil {
		msgs = append(msgs, "Comment ID is required for updates")
	}
	return msgs
}

// --- Attachment ---

func attachmentRules(in *models.AttachmentInput) []string {
	var msgs []string
	if in.IssueID == nil {
		msgs = append(msgs, "Issue ID is required")
	}
	msgs = required(msgs, in.Filename, "Filename is required")
	if strings.TrimSpace(in.Filename) != "" {
		msgs = maxLength(msgs, in.Filename, 255, "Filename cannot be longer than 255 characters")
	}
	msgs = required(msgs, in.FileURL, "File URL is required")
	if strings.TrimSpace(in.FileURL) != "" {
		msgs = maxLength(msgs, in.FileURL, 500, "File URL cannot be longer than 500 characters")
	}
	return msgs
}

func AttachmentForCreate(in *models.AttachmentInput) []string {
	msgs := attachmentRules(in)
	if in.ID != nil {
		msgs = append(msgs, "Attachment ID should not be provided for new attachments")
	}
	if in.UploadedAt != "" {
		msgs = append(msgs, "Uploaded timestamp should not be provided for new attachments")
	}
	return msgs
}
