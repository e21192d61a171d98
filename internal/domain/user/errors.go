package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrTeamNotFound           = errors.New("team not found")
	ErrManagerHasNoTeam       = errors.New("manager is not assigned to any team")
	ErrUserOutsideScope       = errors.New("user is outside your reporting scope")
	ErrInsufficientPermission = errors.New("insufficient permission for this action")
)
