package entity

// Role replaces a per-kind account hierarchy. Every account shares one
// record and the role decides which operations it may call.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleModerator   Role = "moderator"
	RoleParticipant Role = "participant"
	RoleJury        Role = "jury"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOrganizer, RoleModerator, RoleParticipant, RoleJury:
		return true
	}
	return false
}
