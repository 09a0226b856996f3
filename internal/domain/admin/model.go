package admin

const (
	ActionDeleteUser       = "delete_user"
	ActionUpdatePassword   = "update_password"
	ActionUpdateAttendance = "update_attendance"
)

// Request is one privileged operation. Optional fields are pointers so an
// omitted value stays distinguishable from a zero value.
type Request struct {
	Action       string
	TargetUserID string
	NewPassword  *string
	IsIn         *bool
	Date         *string
}

type Result struct {
	Action       string
	TargetUserID string
}
