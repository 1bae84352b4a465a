package quota

// Role identifies what a person does inside an organization. System roles and
// trainer roles are metered separately; member-facing roles are unmetered.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleAdmin        Role = "admin"
	RoleAssistant    Role = "assistant"
	RoleNutritionist Role = "nutritionist"
	RoleTrainer      Role = "trainer"
	RoleInstructor   Role = "instructor"
	RoleMember       Role = "member"
)

// systemRoles and trainerRoles are disjoint. Each set counts against its own
// ceiling (users vs trainers).
var (
	systemRoles  = map[Role]bool{RoleOwner: true, RoleAdmin: true, RoleAssistant: true, RoleNutritionist: true}
	trainerRoles = map[Role]bool{RoleTrainer: true, RoleInstructor: true}
)

// IsSystem reports whether the role counts against the system-user ceiling.
func (r Role) IsSystem() bool { return systemRoles[r] }

// IsTrainer reports whether the role counts against the trainer ceiling.
func (r Role) IsTrainer() bool { return trainerRoles[r] }

// SystemRoles returns the role names metered by the system-user ceiling.
// The slice is a copy safe to embed in SQL filters.
func SystemRoles() []string {
	return []string{string(RoleOwner), string(RoleAdmin), string(RoleAssistant), string(RoleNutritionist)}
}

// TrainerRoles returns the role names metered by the trainer ceiling.
func TrainerRoles() []string {
	return []string{string(RoleTrainer), string(RoleInstructor)}
}
