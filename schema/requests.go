package schema

// MentionQuery parameterizes a mention list request.
type MentionQuery struct {
	Status MentionStatus
	Offset int
	Limit  int
}

// CreatePolicyRequest describes a policy to create. The JSON form uses
// the server's snake_case field names.
type CreatePolicyRequest struct {
	URLPattern string     `json:"url_pattern" validate:"required,max=2048"`
	Weight     int        `json:"weight"`
	Policy     PolicyKind `json:"policy" validate:"required,oneof=approve"`
}

// SendRequest asks the server to send mentions for every link in source.
type SendRequest struct {
	Source string `json:"source" validate:"required,url"`
}
