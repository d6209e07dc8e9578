package constants

import "fmt"

const (
	RoleStudent  = "student"
	RoleEducator = "educator"
)

const (
	ErrOnlyEducatorsCanAccess = "Only educators may access %s."
	ErrOnlyStudentsCanAccess  = "Only students may access %s."
)

func RoleErrorEducator(feature string) string {
	return fmt.Sprintf(ErrOnlyEducatorsCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

var (
	AllRoles = []string{
		RoleStudent,
		RoleEducator,
	}

	EducatorOnly = []string{
		RoleEducator,
	}

	StudentOnly = []string{
		RoleStudent,
	}
)
